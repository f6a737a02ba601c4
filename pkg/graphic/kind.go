package graphic

import (
	"fmt"
	"strings"
)

// Kind is the graphic variant.
type Kind int

const (
	KindShape Kind = iota
	KindText
	KindLine
)

// String returns the Gliffy type tag ("Shape", "Text" or "Line").
func (k Kind) String() string {
	switch k {
	case KindShape:
		return "Shape"
	case KindText:
		return "Text"
	case KindLine:
		return "Line"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	stencilTemplate = "com.gliffy.stencil.%s.basic_v1"
	uidTemplate     = "com.gliffy.shape.basic.basic_v1.default.%s"

	// LineUID is the entity uid of every line.
	LineUID = "com.gliffy.shape.basic.basic_v1.default.line"
	// ERDEntityUID is the uid Gliffy uses for ERD table entities. It is also
	// the default uid of an entity without a graphic.
	ERDEntityUID = "com.gliffy.shape.erd.erd_v1.default.entity"
)

// Shape subtypes with explicit table entries. Other names fall back to the
// stencil and uid templates.
const (
	ShapeRectangle      = "rectangle"
	ShapeSquare         = "square"
	ShapeCircle         = "circle"
	ShapeEllipse        = "ellipse"
	ShapeHexagon        = "hexagon"
	ShapeTriangle       = "triangle"
	ShapeDiamond        = "diamond"
	ShapeRoundRectangle = "round_rectangle"
	ShapeEntity         = "entity"
)

// stencils maps shape subtypes whose stencil differs from their name.
var stencils = map[string]string{
	ShapeSquare:         "com.gliffy.stencil.rectangle.basic_v1",
	ShapeRectangle:      "com.gliffy.stencil.rectangle.basic_v1",
	ShapeEntity:         "com.gliffy.stencil.rectangle.basic_v1",
	ShapeCircle:         "com.gliffy.stencil.ellipse.basic_v1",
	ShapeEllipse:        "com.gliffy.stencil.ellipse.basic_v1",
	ShapeHexagon:        "com.gliffy.stencil.hexagon.basic_v1",
	ShapeTriangle:       "com.gliffy.stencil.triangle.basic_v1",
	ShapeDiamond:        "com.gliffy.stencil.diamond.basic_v1",
	ShapeRoundRectangle: "com.gliffy.stencil.round_rectangle.basic_v1",
}

// entityUIDs maps shape subtypes whose entity uid differs from the template.
var entityUIDs = map[string]string{
	ShapeEntity: ERDEntityUID,
}

// normalizeShape lower-cases a subtype and maps the "rect" alias.
func normalizeShape(shape string) string {
	s := strings.ToLower(strings.TrimSpace(shape))
	if s == "rect" {
		return ShapeRectangle
	}
	return s
}

// StencilFor resolves the stencil id of a shape subtype.
func StencilFor(shape string) string {
	shape = normalizeShape(shape)
	if id, ok := stencils[shape]; ok {
		return id
	}
	return fmt.Sprintf(stencilTemplate, shape)
}

// EntityUIDFor resolves the entity uid of a shape subtype.
func EntityUIDFor(shape string) string {
	shape = normalizeShape(shape)
	if uid, ok := entityUIDs[shape]; ok {
		return uid
	}
	return fmt.Sprintf(uidTemplate, shape)
}
