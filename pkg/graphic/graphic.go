package graphic

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/props"
)

// Graphic is the visual payload of an entity. Its kind and shape subtype are
// fixed at construction; only the property values change afterwards.
type Graphic struct {
	kind  Kind
	shape string

	// properties is the map emitted under the kind tag.
	properties *props.Map
	// settings holds the text inputs of a Text graphic (nil otherwise).
	settings *props.Map

	validator   *props.Validator
	diagnostics []error
}

// Option configures a Graphic at construction.
type Option func(*Graphic)

// WithValidator sets the validator used for overrides.
func WithValidator(v *props.Validator) Option {
	return func(g *Graphic) {
		if v != nil {
			g.validator = v
		}
	}
}

// WithLogger sets the logger that receives coercion warnings.
func WithLogger(logger *log.Logger) Option {
	return func(g *Graphic) {
		g.validator = props.NewValidator(logger)
	}
}

// NewShape creates a Shape graphic of the given subtype ("rectangle",
// "circle", ...). Unknown subtypes resolve through the stencil and uid
// templates. overrides may be nil, a *props.Map or a map[string]any.
func NewShape(shape string, overrides any, opts ...Option) (*Graphic, error) {
	shape = normalizeShape(shape)
	if shape == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "shape subtype is required")
	}
	g := newGraphic(KindShape, shape, shapeDefaults(shape), nil, opts)
	if err := g.SetProperties(overrides); err != nil {
		return nil, err
	}
	return g, nil
}

// NewText creates a Text graphic. Overrides set "text" and the nested "css"
// map (text-align, font-size, font-family, color, bold, italic, underline).
func NewText(overrides any, opts ...Option) (*Graphic, error) {
	g := newGraphic(KindText, "", textDefaults(), textSettings(), opts)
	if err := g.SetProperties(overrides); err != nil {
		return nil, err
	}
	return g, nil
}

// NewLine creates a Line graphic.
func NewLine(overrides any, opts ...Option) (*Graphic, error) {
	g := newGraphic(KindLine, "", lineDefaults(), nil, opts)
	if err := g.SetProperties(overrides); err != nil {
		return nil, err
	}
	return g, nil
}

func newGraphic(kind Kind, shape string, properties, settings *props.Map, opts []Option) *Graphic {
	g := &Graphic{
		kind:       kind,
		shape:      shape,
		properties: properties,
		settings:   settings,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.validator == nil {
		g.validator = props.NewValidator(nil)
	}
	return g
}

// SetProperties validates overrides against the mutable fields of the
// graphic's kind and deep-merges them over the current properties. The
// caller's map is never modified. Values that fail coercion are replaced by
// defaults; the diagnostics are available from [Graphic.Diagnostics].
func (g *Graphic) SetProperties(overrides any) error {
	in, err := props.FromAny(overrides)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "%s properties", g.kind)
	}
	g.diagnostics = nil
	if in.Len() == 0 {
		return nil
	}
	switch g.kind {
	case KindShape:
		g.diagnostics = g.validator.Check(in, shapeFields, true)
	case KindLine:
		g.diagnostics = g.validator.Check(in, lineFields, true)
	case KindText:
		g.diagnostics = g.validator.Check(in, textFields, true)
		if css, ok := in.Sub("css"); ok {
			g.diagnostics = append(g.diagnostics, g.validator.Check(css, cssFields, true)...)
		}
		if err := props.Merge(g.settings, in); err != nil {
			return err
		}
	}
	return props.Merge(g.properties, in)
}

// Kind returns the graphic variant.
func (g *Graphic) Kind() Kind { return g.kind }

// Shape returns the shape subtype, or "" for text and lines.
func (g *Graphic) Shape() string { return g.shape }

// Diagnostics returns the coercion diagnostics of the last property update.
func (g *Graphic) Diagnostics() []error { return g.diagnostics }

// Properties returns a copy of the properties emitted under the kind tag.
func (g *Graphic) Properties() *props.Map { return g.properties.Clone() }

// Get returns a property value. Text graphics also expose "text" and "css".
func (g *Graphic) Get(key string) (any, bool) {
	if g.settings != nil {
		if v, ok := g.settings.Get(key); ok {
			return v, true
		}
	}
	return g.properties.Get(key)
}

// StencilID returns the Gliffy stencil id.
//
// Text graphics have an explicit null stencil, reported as ("", true). Lines
// carry no stencil field at all and report ok == false.
func (g *Graphic) StencilID() (id string, ok bool) {
	switch g.kind {
	case KindShape:
		return StencilFor(g.shape), true
	case KindText:
		return "", true
	default:
		return "", false
	}
}

// EntityUID returns the uid the owning entity takes on. Text graphics report
// ok == false: the entity keeps its current uid.
func (g *Graphic) EntityUID() (uid string, ok bool) {
	switch g.kind {
	case KindShape:
		return EntityUIDFor(g.shape), true
	case KindLine:
		return LineUID, true
	default:
		return "", false
	}
}

// Text returns the text content of a Text graphic.
func (g *Graphic) Text() string {
	if g.settings == nil {
		return ""
	}
	s, _ := g.settings.Get("text")
	str, _ := s.(string)
	return str
}

// HTML renders the markup Gliffy displays for a Text graphic. It is derived
// from the current text and css on every call. Other kinds return "".
func (g *Graphic) HTML() string {
	if g.kind != KindText {
		return ""
	}
	css, _ := g.settings.Sub("css")
	str := func(key string) string {
		v, _ := css.Get(key)
		return fmt.Sprint(v)
	}
	flag := func(key string) bool {
		v, _ := css.Get(key)
		b, _ := v.(bool)
		return b
	}

	decoration := "none"
	if flag("underline") {
		decoration = "underline"
	}
	fontSize := str("font-size")

	var span strings.Builder
	fmt.Fprintf(&span, "font-size: %s; font-family: %s; white-space: pre-wrap; text-decoration: %s; line-height: %s; color: %s;",
		fontSize, str("font-family"), decoration, fontSize, str("color"))
	if flag("bold") {
		span.WriteString(" font-weight: bold;")
	}
	if flag("italic") {
		span.WriteString(" font-style: italic;")
	}
	return fmt.Sprintf("<p style='text-align:%s;'><span style='%s'>%s</span></p>",
		str("text-align"), span.String(), html.EscapeString(g.Text()))
}

// Fragment returns {"type": <kind>, <kind>: properties} as a fresh map.
func (g *Graphic) Fragment() *props.Map {
	body := g.properties.Clone()
	if g.kind == KindText {
		body.Set("html", g.HTML())
	}
	tag := g.kind.String()
	return props.New(
		props.Pair{Key: "type", Value: tag},
		props.Pair{Key: tag, Value: body},
	)
}
