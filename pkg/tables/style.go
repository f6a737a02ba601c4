package tables

import (
	"maps"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

// CellStyle holds the property overrides of one kind of cell: Shape for the
// rectangle and Text for its label (including the nested "css" map).
type CellStyle struct {
	Shape map[string]any `toml:"shape" yaml:"shape" json:"shape,omitempty"`
	Text  map[string]any `toml:"text" yaml:"text" json:"text,omitempty"`
}

// Style controls the look and the static placement of table diagrams.
type Style struct {
	Container map[string]any `toml:"container" yaml:"container" json:"container,omitempty"`
	Header    CellStyle      `toml:"header" yaml:"header" json:"header"`
	Column    CellStyle      `toml:"column" yaml:"column" json:"column"`
	Line      map[string]any `toml:"line" yaml:"line" json:"line,omitempty"`

	// Width is the width of every cell. RowHeight is the height of the
	// header and of each column row. Gap separates neighboring tables.
	Width     int `toml:"width" yaml:"width" json:"width"`
	RowHeight int `toml:"row_height" yaml:"row_height" json:"row_height"`
	Gap       int `toml:"gap" yaml:"gap" json:"gap"`

	// ShowTypes appends the column type to each column label.
	ShowTypes *bool `toml:"show_types,omitempty" yaml:"show_types,omitempty" json:"show_types,omitempty"`
	// BoldKeys renders primary key columns in bold.
	BoldKeys *bool `toml:"bold_keys,omitempty" yaml:"bold_keys,omitempty" json:"bold_keys,omitempty"`
}

// Bool returns a pointer to b, for the optional flags of a Style.
func Bool(b bool) *bool { return &b }

func (s Style) showTypes() bool { return s.ShowTypes != nil && *s.ShowTypes }

func (s Style) boldKeys() bool { return s.BoldKeys != nil && *s.BoldKeys }

// DefaultStyle returns the classic look: black 14px bold Courier headers over
// grey-bordered 12px Courier column cells.
func DefaultStyle() Style {
	return Style{
		Container: map[string]any{"strokeColor": "#000000", "fillColor": "none"},
		Header: CellStyle{
			Shape: map[string]any{"strokeWidth": 1, "strokeColor": "#000000"},
			Text: map[string]any{"css": map[string]any{
				"font-size": "14px", "font-family": "Courier", "bold": true,
			}},
		},
		Column: CellStyle{
			Shape: map[string]any{"strokeWidth": 1, "strokeColor": "#cccccc"},
			Text: map[string]any{"css": map[string]any{
				"font-size": "12px", "font-family": "Courier",
			}},
		},
		Line:      map[string]any{"strokeWidth": 1, "endArrow": 1},
		Width:     200,
		RowHeight: 24,
		Gap:       80,
		BoldKeys:  Bool(true),
	}
}

// Merge returns s with every non-zero field of o applied over it. Maps are
// merged key by key, nested css maps included. Explicitly set flags win, so
// an override can turn a flag off. Out-of-range geometry is carried over for
// Validate to report.
func (s Style) Merge(o Style) Style {
	s.Container = mergeMaps(s.Container, o.Container)
	s.Header = s.Header.merge(o.Header)
	s.Column = s.Column.merge(o.Column)
	s.Line = mergeMaps(s.Line, o.Line)
	if o.Width != 0 {
		s.Width = o.Width
	}
	if o.RowHeight != 0 {
		s.RowHeight = o.RowHeight
	}
	if o.Gap != 0 {
		s.Gap = o.Gap
	}
	if o.ShowTypes != nil {
		s.ShowTypes = Bool(*o.ShowTypes)
	}
	if o.BoldKeys != nil {
		s.BoldKeys = Bool(*o.BoldKeys)
	}
	return s
}

func (c CellStyle) merge(o CellStyle) CellStyle {
	return CellStyle{Shape: mergeMaps(c.Shape, o.Shape), Text: mergeMaps(c.Text, o.Text)}
}

func mergeMaps(base, over map[string]any) map[string]any {
	if len(over) == 0 {
		return base
	}
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]any, len(over))
	}
	for k, v := range over {
		if bm, ok := out[k].(map[string]any); ok {
			if om, ok := v.(map[string]any); ok {
				out[k] = mergeMaps(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Validate checks the geometry.
func (s Style) Validate() error {
	if s.Width <= 0 || s.RowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "table cells need a positive size, got %dx%d", s.Width, s.RowHeight)
	}
	if s.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "table gap cannot be negative")
	}
	return nil
}
