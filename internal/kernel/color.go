package kernel

// RGB is a flat color with components in [0, 1].
type RGB struct {
	R, G, B float32
}

var (
	White = RGB{1, 1, 1}
	Black = RGB{0, 0, 0}
)

// RGBFromSlice builds a color from a 3-element slice, as found in YAML
// files. It reports false if the slice has the wrong length.
func RGBFromSlice(c []float32) (RGB, bool) {
	if len(c) != 3 {
		return RGB{}, false
	}
	return RGB{clamp01(c[0]), clamp01(c[1]), clamp01(c[2])}, true
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// AttrKind tags the payload of an Attribute.
type AttrKind int

const (
	AttrColor AttrKind = iota + 1
	AttrName
)

// Attribute is a typed value attached to an entity. Exactly one payload
// field is meaningful, selected by Kind.
type Attribute struct {
	Kind  AttrKind
	Color RGB
	Name  string
}

// ColorAttribute returns a color attribute.
func ColorAttribute(c RGB) Attribute {
	return Attribute{Kind: AttrColor, Color: c}
}

// NameAttribute returns a name attribute.
func NameAttribute(name string) Attribute {
	return Attribute{Kind: AttrName, Name: name}
}

// Find returns the first attribute of the given kind.
func Find(attrs []Attribute, kind AttrKind) (Attribute, bool) {
	for _, a := range attrs {
		if a.Kind == kind {
			return a, true
		}
	}
	return Attribute{}, false
}
