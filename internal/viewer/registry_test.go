package viewer

import (
	"errors"
	"sync"
	"testing"

	"github.com/Faultbox/brepview/internal/display"
)

type surfaceLog struct {
	mu       sync.Mutex
	surfaces []*blockingSurface
}

func (l *surfaceLog) factory(painterErr error) Factory {
	return func(d *display.Data) (*Viewer, error) {
		s := newBlockingSurface()
		l.mu.Lock()
		l.surfaces = append(l.surfaces, s)
		l.mu.Unlock()
		return New(d, &fakePlatform{surface: s}, &fakePainter{initErr: painterErr}, DefaultOptions())
	}
}

func TestRegistryLaunchAndCloseAll(t *testing.T) {
	var log surfaceLog
	r := NewRegistry(log.factory(nil))

	for i := 0; i < 3; i++ {
		id, err := r.Launch(triangleData())
		if err != nil {
			t.Fatalf("Launch %d: %v", i, err)
		}
		if id != i {
			t.Errorf("id = %d, want %d", id, i)
		}
	}
	if n := r.Open(); n != 3 {
		t.Errorf("Open = %d, want 3", n)
	}

	r.CloseAll()
	if err := r.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if n := r.Open(); n != 0 {
		t.Errorf("Open after Wait = %d, want 0", n)
	}
	for i, s := range log.surfaces {
		if !s.closed.Load() {
			t.Errorf("surface %d not closed", i)
		}
	}
}

func TestRegistryLaunchRejectsNil(t *testing.T) {
	var log surfaceLog
	r := NewRegistry(log.factory(nil))
	if _, err := r.Launch(nil); !errors.Is(err, ErrNoDisplayData) {
		t.Errorf("expected ErrNoDisplayData, got %v", err)
	}
	if r.Open() != 0 {
		t.Error("failed launch must not be registered")
	}
}

func TestRegistryWaitReportsFailures(t *testing.T) {
	painterErr := errors.New("no GL")
	var log surfaceLog
	r := NewRegistry(log.factory(painterErr))

	for i := 0; i < 2; i++ {
		if _, err := r.Launch(triangleData()); err != nil {
			t.Fatal(err)
		}
	}
	err := r.Wait()
	if !errors.Is(err, painterErr) {
		t.Errorf("expected painter error from Wait, got %v", err)
	}
	if err := r.Wait(); err != nil {
		t.Errorf("errors should be reported once, got %v", err)
	}
}

func TestRegistryShutdownPolicy(t *testing.T) {
	var log surfaceLog
	r := NewRegistry(log.factory(nil))
	if _, err := r.Launch(triangleData()); err != nil {
		t.Fatal(err)
	}

	var asked int
	err := r.Shutdown(func(open int) bool {
		asked = open
		return false
	})
	if !errors.Is(err, ErrExitCancelled) {
		t.Fatalf("expected ErrExitCancelled, got %v", err)
	}
	if asked != 1 {
		t.Errorf("confirm saw %d open viewers, want 1", asked)
	}
	if r.Open() != 1 {
		t.Error("declined shutdown must leave viewers open")
	}

	if err := r.Shutdown(func(int) bool { return true }); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if r.Open() != 0 {
		t.Error("viewers still open after shutdown")
	}
}

func TestRegistryShutdownWithNothingOpen(t *testing.T) {
	r := NewRegistry(func(*display.Data) (*Viewer, error) { return nil, errors.New("unused") })
	called := false
	if err := r.Shutdown(func(int) bool { called = true; return false }); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
	if called {
		t.Error("confirm should not be asked with no open viewers")
	}
}
