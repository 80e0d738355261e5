package display

import (
	"fmt"

	"github.com/Faultbox/brepview/internal/kernel"
)

// EdgeExtractor reads a faceted edge polyline in world coordinates.
type EdgeExtractor struct {
	Modeler kernel.Modeler
}

// Extract appends the polyline points of e to dst and returns the extended
// slice. On error dst is returned unchanged. The kernel's point array is
// released in every case.
func (x EdgeExtractor) Extract(e kernel.Edge, dst []float32) ([]float32, error) {
	pa, err := x.Modeler.EdgePoints(e)
	if err != nil {
		return dst, err
	}
	if pa == nil {
		return dst, fmt.Errorf("display: edge has no point array")
	}
	defer pa.Release()

	xf := x.Modeler.OwnerTransform(e)
	identity := xf.IsIdentity()
	for _, p := range pa.Points() {
		if !identity {
			p = xf.Apply(p)
		}
		dst = append(dst, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return dst, nil
}
