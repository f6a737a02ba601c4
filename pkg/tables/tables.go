// Package tables draws database tables as Gliffy diagrams.
//
// Every table becomes a group holding a container rectangle, a header cell
// with the table name and one cell per column, each cell a rectangle with a
// text child. Tables are placed left to right at a fixed pitch. Foreign keys
// become lines connected to the referencing and the referenced column cells,
// so each relationship stays attached when the diagram is rearranged in
// Gliffy.
package tables

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gliffydb/pkg/entity"
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/graphic"
	"github.com/matzehuels/gliffydb/pkg/schema"
	"github.com/matzehuels/gliffydb/pkg/stage"
)

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger for skipped relationships and coercion warnings.
func WithLogger(logger *log.Logger) Option {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type builder struct {
	style  Style
	logger *log.Logger
	// cells maps table name and column name to the column cell.
	cells map[string]map[string]*placed
	index map[string]int
}

type placed struct {
	node *entity.Node
	x, y int
}

// Build returns one group per table followed by one line per foreign key.
// Foreign keys to tables outside the list are skipped.
func Build(tables []schema.Table, style Style, opts ...Option) ([]*entity.Node, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	b := &builder{
		style:  style,
		logger: log.Default(),
		cells:  make(map[string]map[string]*placed, len(tables)),
		index:  make(map[string]int, len(tables)),
	}
	for _, opt := range opts {
		opt(b)
	}

	nodes := make([]*entity.Node, 0, len(tables))
	for i, t := range tables {
		if _, dup := b.index[t.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "table %q listed twice", t.Name)
		}
		b.index[t.Name] = i
		g, err := b.table(i, t)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, g)
	}
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			line, err := b.relation(t.Name, fk)
			if err != nil {
				return nil, err
			}
			if line != nil {
				nodes = append(nodes, line)
			}
		}
	}
	return nodes, nil
}

// Document builds the diagram and adds it to a new stage.
func Document(tables []schema.Table, style Style, stageOpts []stage.Option, opts ...Option) (*stage.Stage, error) {
	nodes, err := Build(tables, style, opts...)
	if err != nil {
		return nil, err
	}
	s := stage.New(stageOpts...)
	if err := s.Add(nodes...); err != nil {
		return nil, err
	}
	return s, nil
}

func (b *builder) graphicOpts() []graphic.Option {
	return []graphic.Option{graphic.WithLogger(b.logger)}
}

func (b *builder) table(i int, t schema.Table) (*entity.Node, error) {
	st := b.style
	x := i * (st.Width + st.Gap)
	height := (len(t.Columns) + 1) * st.RowHeight

	group := entity.NewGroup()
	group.SetCoords(x, 0)
	group.SetSize(st.Width, height)

	container, err := entity.NewShape(graphic.ShapeRectangle, st.Container, b.graphicOpts()...)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", t.Name, err)
	}
	container.SetSize(st.Width, height)

	header, err := b.cell(st.Header, t.Name, 0, false)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", t.Name, err)
	}
	children := []*entity.Node{container, header}

	b.cells[t.Name] = make(map[string]*placed, len(t.Columns))
	for j, c := range t.Columns {
		label := c.Name
		if st.showTypes() && c.Type != "" {
			label += " " + c.Type
		}
		y := (j + 1) * st.RowHeight
		cell, err := b.cell(st.Column, label, y, st.boldKeys() && c.PrimaryKey)
		if err != nil {
			return nil, fmt.Errorf("table %s column %s: %w", t.Name, c.Name, err)
		}
		b.cells[t.Name][c.Name] = &placed{node: cell, x: x, y: y}
		children = append(children, cell)
	}

	if err := group.AddChildren(children...); err != nil {
		return nil, err
	}
	return group, nil
}

// cell builds a rectangle with a text child at row offset y.
func (b *builder) cell(cs CellStyle, label string, y int, bold bool) (*entity.Node, error) {
	st := b.style
	rect, err := entity.NewShape(graphic.ShapeRectangle, cs.Shape, b.graphicOpts()...)
	if err != nil {
		return nil, err
	}
	rect.SetCoords(0, y)
	rect.SetSize(st.Width, st.RowHeight)

	text, err := entity.NewText(cs.Text, b.graphicOpts()...)
	if err != nil {
		return nil, err
	}
	overrides := map[string]any{"text": label}
	if bold {
		overrides["css"] = map[string]any{"bold": true}
	}
	if err := text.SetProperties(overrides); err != nil {
		return nil, err
	}
	text.SetSize(st.Width, st.RowHeight)

	if err := rect.AddChild(text); err != nil {
		return nil, err
	}
	return rect, nil
}

// relation draws a line for fk from the referencing cell to the referenced
// one. It returns nil when either end is not on the diagram.
func (b *builder) relation(table string, fk schema.ForeignKey) (*entity.Node, error) {
	from := b.cells[table][fk.Column]
	to := b.cells[fk.RefTable][fk.RefColumn]
	if from == nil || to == nil {
		b.logger.Debug("skipping relationship outside the diagram",
			"table", table, "column", fk.Column, "ref_table", fk.RefTable, "ref_column", fk.RefColumn)
		return nil, nil
	}

	line, err := entity.NewLine(b.style.Line, b.graphicOpts()...)
	if err != nil {
		return nil, err
	}

	start := entity.Endpoint{Node: from.node, PX: 1, PY: 0.5}
	end := entity.Endpoint{Node: to.node, PX: 0, PY: 0.5}
	sx, ex := from.x+b.style.Width, to.x
	switch {
	case b.index[fk.RefTable] < b.index[table]:
		start.PX, end.PX = 0, 1
		sx, ex = from.x, to.x+b.style.Width
	case fk.RefTable == table:
		end.PX = 1
		ex = to.x + b.style.Width
	}
	if err := entity.ConnectEndpoints(line, start, end); err != nil {
		return nil, err
	}

	half := b.style.RowHeight / 2
	sy, ey := from.y+half, to.y+half
	line.SetCoords(min(sx, ex), min(sy, ey))
	line.SetSize(max(abs(ex-sx), 1), max(abs(ey-sy), 1))
	return line, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
