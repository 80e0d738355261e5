package debug

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/internal/kernel"
	"github.com/Faultbox/brepview/internal/kernel/memkernel"
)

func TestImageFromPixelsFlips(t *testing.T) {
	// 1x2 image: bottom row red, top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := ImageFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("ImageFromPixels: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom pixel = %v, want red", got)
	}

	if _, err := ImageFromPixels(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestCaptureFromImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "test")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	first, err := sc.CaptureFromImage(img)
	if err != nil {
		t.Fatalf("CaptureFromImage: %v", err)
	}
	second, err := sc.CaptureFromImage(img)
	if err != nil {
		t.Fatalf("CaptureFromImage: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct names, got %s twice", first)
	}
	for _, p := range []string{first, second} {
		if !strings.HasPrefix(filepath.Base(p), "test_") || filepath.Ext(p) != ".png" {
			t.Errorf("unexpected name %s", p)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("screenshot not written: %v", err)
		}
	}
}

func cubeData(t *testing.T) *display.Data {
	t.Helper()
	cube, err := memkernel.NewBox(r3.Vec{X: 2, Y: 2, Z: 2})
	if err != nil {
		t.Fatal(err)
	}
	cube.SetFaceColor(kernel.RGB{R: 0.2, G: 0.4, B: 0.9})
	d, err := display.NewBuilder(memkernel.New(memkernel.DefaultOptions())).Build([]kernel.Entity{cube})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRenderSnapshot(t *testing.T) {
	opts := DefaultSnapshotOptions()
	opts.Width, opts.Height = 64, 48
	opts.Background = [3]float32{1, 1, 1}
	opts.Yaw, opts.Pitch = 0, 0 // +Z face fills the center

	img, err := RenderSnapshot(cubeData(t), opts)
	if err != nil {
		t.Fatalf("RenderSnapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("snapshot is %dx%d, want 64x48", b.Dx(), b.Dy())
	}

	// The corner shows background, the center shows the cube.
	r, g, b, _ := img.At(0, 0).RGBA()
	if r < 0xf000 || g < 0xf000 || b < 0xf000 {
		t.Errorf("corner pixel (%x,%x,%x) is not background", r, g, b)
	}
	r, g, b, _ = img.At(32, 24).RGBA()
	if r >= 0xf000 && g >= 0xf000 && b >= 0xf000 {
		t.Error("center pixel still shows background")
	}
	if b <= r {
		t.Errorf("center pixel (%x,%x,%x) should be blue dominant", r, g, b)
	}

	path := filepath.Join(t.TempDir(), "cube.png")
	if err := SaveSnapshot(path, img); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Errorf("snapshot file missing or empty: %v", err)
	}
}

func TestRenderSnapshotRejectsBadInput(t *testing.T) {
	if _, err := RenderSnapshot(nil, DefaultSnapshotOptions()); err == nil {
		t.Error("expected error for nil data")
	}
	opts := DefaultSnapshotOptions()
	opts.Width = 0
	if _, err := RenderSnapshot(&display.Data{}, opts); err == nil {
		t.Error("expected error for zero width")
	}
}
