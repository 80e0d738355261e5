package display

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/brepview/internal/kernel"
	"github.com/Faultbox/brepview/internal/logger"
)

var (
	// ErrNoEntities is returned when Build receives an empty entity list.
	ErrNoEntities = errors.New("display: no entities to display")
	// ErrFaceting wraps a kernel faceting failure on any input entity.
	ErrFaceting = errors.New("display: faceting failed")
	// ErrNothingToDisplay is returned when the input holds no faces and no edges.
	ErrNothingToDisplay = errors.New("display: no faces or edges to display")
)

// Builder turns a list of kernel entities into one Data.
type Builder struct {
	modeler kernel.Modeler
	faces   FaceExtractor
	edges   EdgeExtractor
}

// NewBuilder creates a builder reading from m.
func NewBuilder(m kernel.Modeler) *Builder {
	return &Builder{
		modeler: m,
		faces:   FaceExtractor{Modeler: m},
		edges:   EdgeExtractor{Modeler: m},
	}
}

// Build facets every entity, collects their faces and edges and flattens
// them into a new Data owned by the caller.
//
// Faceting failure on any entity fails the whole build. Individual faces
// without tessellation and edges whose points cannot be read are skipped,
// counted in Data.Stats and logged.
func (b *Builder) Build(entities []kernel.Entity) (*Data, error) {
	if len(entities) == 0 {
		return nil, ErrNoEntities
	}

	for i, e := range entities {
		if err := b.modeler.EnsureFaceted(e); err != nil {
			return nil, fmt.Errorf("%w: entity %d (%s): %w", ErrFaceting, i, e.Kind(), err)
		}
	}

	faces, edges, err := b.collect(entities)
	if err != nil {
		return nil, err
	}
	if len(faces)+len(edges) == 0 {
		return nil, ErrNothingToDisplay
	}

	d := &Data{
		Faces: make([]FaceRecord, 0, len(faces)),
		Edges: make([]EdgeRecord, 0, len(edges)),
		Stats: Stats{Faces: len(faces), Edges: len(edges)},
	}

	var buf FaceBuffers
	for i, f := range faces {
		if !b.faces.Extract(f, &buf) {
			d.Stats.SkippedFaces++
			logger.Warn("face skipped: no tessellation", zap.Int("face", i))
			continue
		}
		d.appendFace(buf, b.color(f, kernel.White))
	}

	for i, e := range edges {
		base := len(d.EdgeCoords)
		coords, err := b.edges.Extract(e, d.EdgeCoords)
		if err != nil {
			d.Stats.SkippedEdges++
			logger.Warn("edge skipped", zap.Int("edge", i), zap.Error(err))
			continue
		}
		d.EdgeCoords = coords
		d.Edges = append(d.Edges, EdgeRecord{
			NumIndices: len(coords) - base,
			BaseVertex: ScalarOffset(base),
			Color:      b.color(e, kernel.Black),
		})
	}

	d.Stats.Triangles = len(d.Triangles) / 3
	logger.Debug("display built",
		zap.Int("faces", len(d.Faces)),
		zap.Int("edges", len(d.Edges)),
		zap.Int("triangles", d.Stats.Triangles),
		zap.Int("skipped_faces", d.Stats.SkippedFaces),
		zap.Int("skipped_edges", d.Stats.SkippedEdges))
	return d, nil
}

// collect gathers faces and edges over all entities, each once, in first
// seen order. Edge-only entities contribute no faces.
func (b *Builder) collect(entities []kernel.Entity) ([]kernel.Face, []kernel.Edge, error) {
	var (
		faces     []kernel.Face
		edges     []kernel.Edge
		seenFaces = make(map[kernel.Face]struct{})
		seenEdges = make(map[kernel.Edge]struct{})
	)
	for i, e := range entities {
		if e.Kind() != kernel.KindEdge && e.Kind() != kernel.KindWire {
			fs, err := b.modeler.CollectFaces(e)
			if err != nil {
				return nil, nil, fmt.Errorf("display: collecting faces of entity %d: %w", i, err)
			}
			for _, f := range fs {
				if _, dup := seenFaces[f]; !dup {
					seenFaces[f] = struct{}{}
					faces = append(faces, f)
				}
			}
		}

		es, err := b.modeler.CollectEdges(e)
		if err != nil {
			return nil, nil, fmt.Errorf("display: collecting edges of entity %d: %w", i, err)
		}
		for _, ed := range es {
			if _, dup := seenEdges[ed]; !dup {
				seenEdges[ed] = struct{}{}
				edges = append(edges, ed)
			}
		}
	}
	return faces, edges, nil
}

func (b *Builder) color(e kernel.Entity, def kernel.RGB) kernel.RGB {
	c, err := b.modeler.Color(e)
	if err != nil {
		if !errors.Is(err, kernel.ErrNoAttribute) {
			logger.Debug("color lookup failed", zap.Stringer("kind", e.Kind()), zap.Error(err))
		}
		return def
	}
	return c
}

// appendFace copies one face into the shared buffers, offsetting its local
// triangle indices by the number of points already stored.
func (d *Data) appendFace(buf FaceBuffers, color kernel.RGB) {
	base := VertexIndex(d.NumVertices())
	rec := FaceRecord{
		NumIndices: len(buf.Triangles),
		BaseIndex:  len(d.Triangles),
		BaseVertex: base,
		Color:      color,
	}
	d.FaceCoords = append(d.FaceCoords, buf.Coords...)
	d.NormalCoords = append(d.NormalCoords, buf.Normals...)
	for _, idx := range buf.Triangles {
		d.Triangles = append(d.Triangles, idx+uint32(base))
	}
	d.Faces = append(d.Faces, rec)
}
