package blueprint

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gliffydb/pkg/entity"
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/graphic"
	"github.com/matzehuels/gliffydb/pkg/stage"
)

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger for coercion warnings and the stage.
func WithLogger(logger *log.Logger) Option {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithStageOptions adds options for the stage. They are applied after the
// blueprint's own title and background, so they win.
func WithStageOptions(opts ...stage.Option) Option {
	return func(b *builder) {
		b.stageOpts = append(b.stageOpts, opts...)
	}
}

type builder struct {
	logger    *log.Logger
	stageOpts []stage.Option
	named     map[string]*entity.Node
	lines     []pendingLine
}

type pendingLine struct {
	path string
	node *entity.Node
	obj  Object
}

// Build creates the entity tree of bp and adds it to a new stage in one
// call. Errors name the offending object, e.g. "objects[1].children[0]".
func Build(bp *Blueprint, opts ...Option) (*stage.Stage, error) {
	if bp == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "blueprint is nil")
	}
	b := &builder{logger: log.Default(), named: make(map[string]*entity.Node)}
	for _, opt := range opts {
		opt(b)
	}
	if bp.Title != "" {
		if err := errors.ValidateTitle(bp.Title); err != nil {
			return nil, err
		}
	}

	roots := make([]*entity.Node, 0, len(bp.Objects))
	for i, obj := range bp.Objects {
		n, err := b.node(fmt.Sprintf("objects[%d]", i), obj)
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	for _, l := range b.lines {
		if err := b.connect(l); err != nil {
			return nil, err
		}
	}

	stageOpts := []stage.Option{
		stage.WithTitle(bp.Title),
		stage.WithBackground(bp.Background),
		stage.WithLogger(b.logger),
	}
	s := stage.New(append(stageOpts, b.stageOpts...)...)
	if err := s.Add(roots...); err != nil {
		return nil, err
	}
	return s, nil
}

func (b *builder) node(path string, obj Object) (*entity.Node, error) {
	n, err := b.create(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	n.SetCoords(obj.X, obj.Y)
	n.SetRotation(obj.Rotation)
	if obj.Width > 0 || obj.Height > 0 {
		n.SetSize(obj.Width, obj.Height)
	}

	if obj.Name != "" {
		if _, dup := b.named[obj.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: duplicate object name %q", path, obj.Name)
		}
		b.named[obj.Name] = n
	}
	if kind(obj) == KindLine && (obj.From != "" || obj.To != "") {
		b.lines = append(b.lines, pendingLine{path: path, node: n, obj: obj})
	}

	for i, child := range obj.Children {
		c, err := b.node(fmt.Sprintf("%s.children[%d]", path, i), child)
		if err != nil {
			return nil, err
		}
		if err := n.AddChild(c); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return n, nil
}

func kind(obj Object) string {
	return strings.ToLower(strings.TrimSpace(obj.Kind))
}

func (b *builder) create(obj Object) (*entity.Node, error) {
	gopts := []graphic.Option{graphic.WithLogger(b.logger)}
	k := kind(obj)
	if obj.Text != "" && k != KindText && k != "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "text is only valid on kind %q, got kind %q; add a text child instead", KindText, k)
	}
	switch k {
	case KindGroup:
		if len(obj.Properties) > 0 {
			return nil, errors.New(errors.ErrCodeTypeConstraint, "groups take no properties")
		}
		return entity.NewGroup(), nil
	case KindEntity:
		if len(obj.Properties) > 0 {
			return nil, errors.New(errors.ErrCodeTypeConstraint, "entities without a graphic take no properties")
		}
		return entity.NewEntity(), nil
	case KindText:
		props := obj.Properties
		if obj.Text != "" {
			props = withText(props, obj.Text)
		}
		return entity.NewText(props, gopts...)
	case KindLine:
		return entity.NewLine(obj.Properties, gopts...)
	case KindShape:
		if obj.Shape == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, `kind "shape" needs a shape subtype`)
		}
		return entity.NewShape(obj.Shape, obj.Properties, gopts...)
	case "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "object kind is required")
	default:
		return entity.NewShape(k, obj.Properties, gopts...)
	}
}

func withText(props map[string]any, text string) map[string]any {
	out := make(map[string]any, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	out["text"] = text
	return out
}

func (b *builder) connect(l pendingLine) error {
	from, ok := b.named[l.obj.From]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "%s: line source %q not found", l.path, l.obj.From)
	}
	to, ok := b.named[l.obj.To]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "%s: line target %q not found", l.path, l.obj.To)
	}
	start := entity.Endpoint{Node: from}
	end := entity.Endpoint{Node: to}
	var err error
	if start.PX, start.PY, err = anchor(l.obj.FromPoint); err != nil {
		return fmt.Errorf("%s: from_point: %w", l.path, err)
	}
	if end.PX, end.PY, err = anchor(l.obj.ToPoint); err != nil {
		return fmt.Errorf("%s: to_point: %w", l.path, err)
	}
	if err := entity.ConnectEndpoints(l.node, start, end); err != nil {
		return fmt.Errorf("%s: %w", l.path, err)
	}
	return nil
}

func anchor(p []float64) (float64, float64, error) {
	switch len(p) {
	case 0:
		return 0, 0, nil
	case 2:
		return p[0], p[1], nil
	default:
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "want [px, py], got %d values", len(p))
	}
}
