package entity

import (
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/graphic"
	"github.com/matzehuels/gliffydb/pkg/props"
)

const (
	// DefaultUID is the uid of an entity without a graphic.
	DefaultUID = graphic.ERDEntityUID
	// GroupUID is the uid of every group.
	GroupUID = "com.gliffy.shape.basic.basic_v1.default.group"

	// PlaceholderSize is the width and height the indexing pass gives to
	// entities whose size was not set explicitly.
	PlaceholderSize = 100
)

// Node is an entity or a group in a document tree.
type Node struct {
	id       int
	order    Order
	x, y     int
	width    int
	height   int
	rotation int

	lockAspectRatio bool
	lockShape       bool

	uid       string
	group     bool
	sizeFixed bool

	graphic   *graphic.Graphic
	children  []*Node
	parent    *Node
	attached  bool
	connector *connector
}

// NewEntity returns an entity with no graphic and the default ERD uid.
func NewEntity() *Node {
	return &Node{uid: DefaultUID}
}

// NewGroup returns an empty group.
func NewGroup() *Node {
	return &Node{uid: GroupUID, group: true}
}

// NewShape returns an entity carrying a new Shape graphic.
func NewShape(shape string, overrides any, opts ...graphic.Option) (*Node, error) {
	g, err := graphic.NewShape(shape, overrides, opts...)
	if err != nil {
		return nil, err
	}
	return withGraphic(g)
}

// NewText returns an entity carrying a new Text graphic.
func NewText(overrides any, opts ...graphic.Option) (*Node, error) {
	g, err := graphic.NewText(overrides, opts...)
	if err != nil {
		return nil, err
	}
	return withGraphic(g)
}

// NewLine returns an entity carrying a new Line graphic.
func NewLine(overrides any, opts ...graphic.Option) (*Node, error) {
	g, err := graphic.NewLine(overrides, opts...)
	if err != nil {
		return nil, err
	}
	return withGraphic(g)
}

func withGraphic(g *graphic.Graphic) (*Node, error) {
	n := NewEntity()
	if err := n.SetGraphic(g); err != nil {
		return nil, err
	}
	return n, nil
}

// =============================================================================
// Structure
// =============================================================================

// SetGraphic attaches g and updates the uid from it. Text graphics keep the
// current uid and switch the order to "auto". On a group SetGraphic does
// nothing.
func (n *Node) SetGraphic(g *graphic.Graphic) error {
	if g == nil {
		return errors.New(errors.ErrCodeTypeConstraint, "graphic must not be nil")
	}
	if n.group {
		return nil
	}
	if uid, ok := g.EntityUID(); ok {
		n.uid = uid
	}
	if g.Kind() == graphic.KindText {
		n.order = AutoOrder()
	}
	n.graphic = g
	return nil
}

// AddChild appends child. A child that already has a parent, n itself, or
// one of n's ancestors is rejected and nothing changes.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return errors.New(errors.ErrCodeTypeConstraint, "child must be a node, got nil")
	}
	if child.parent != nil || child.attached {
		return errors.New(errors.ErrCodeInvalidArgument, "node already has a parent")
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return errors.New(errors.ErrCodeInvalidArgument, "node cannot contain itself")
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// AddChildren appends every child, stopping at the first error.
func (n *Node) AddChildren(children ...*Node) error {
	for _, c := range children {
		if err := n.AddChild(c); err != nil {
			return err
		}
	}
	return nil
}

// SetProperties forwards overrides to the attached graphic. Nodes without a
// graphic, groups included, report TYPE_CONSTRAINT.
func (n *Node) SetProperties(overrides any) error {
	if n.graphic == nil {
		return errors.New(errors.ErrCodeTypeConstraint, "node has no graphic to set properties on")
	}
	return n.graphic.SetProperties(overrides)
}

// Attach marks n as owned by a container other than a node, such as a stage.
// It fails if n already has an owner.
func (n *Node) Attach() error {
	if n == nil {
		return errors.New(errors.ErrCodeTypeConstraint, "node must not be nil")
	}
	if n.parent != nil || n.attached {
		return errors.New(errors.ErrCodeInvalidArgument, "node already has a parent")
	}
	n.attached = true
	return nil
}

// Walk calls fn for n and every descendant, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// =============================================================================
// Setters
// =============================================================================

// SetCoords sets the position.
func (n *Node) SetCoords(x, y int) { n.x, n.y = x, y }

// SetSize sets the size and exempts the node from the placeholder size.
func (n *Node) SetSize(width, height int) {
	n.width, n.height = width, height
	n.sizeFixed = true
}

// SetRotation sets the rotation in degrees.
func (n *Node) SetRotation(deg int) { n.rotation = deg }

// SetOrder sets an integer z-order. The indexing pass overwrites it.
func (n *Node) SetOrder(order int) { n.order = OrderOf(order) }

// SetAutoOrder sets the order to "auto".
func (n *Node) SetAutoOrder() { n.order = AutoOrder() }

// SetLocks sets the aspect-ratio and shape locks.
func (n *Node) SetLocks(aspectRatio, shape bool) {
	n.lockAspectRatio, n.lockShape = aspectRatio, shape
}

// SetUID overrides the uid.
func (n *Node) SetUID(uid string) { n.uid = uid }

// Assign sets the id and order. It is used by the indexing pass.
func (n *Node) Assign(id int, order Order) {
	n.id, n.order = id, order
}

// ApplyPlaceholderSize gives n the placeholder size unless its size is fixed.
func (n *Node) ApplyPlaceholderSize() {
	if !n.sizeFixed {
		n.width, n.height = PlaceholderSize, PlaceholderSize
	}
}

// =============================================================================
// Accessors
// =============================================================================

func (n *Node) ID() int { return n.id }
func (n *Node) Order() Order { return n.order }
func (n *Node) Coords() (x, y int) { return n.x, n.y }
func (n *Node) Size() (width, height int) { return n.width, n.height }
func (n *Node) SizeFixed() bool { return n.sizeFixed }
func (n *Node) Rotation() int { return n.rotation }
func (n *Node) Locks() (aspect, shape bool) { return n.lockAspectRatio, n.lockShape }
func (n *Node) UID() string { return n.uid }
func (n *Node) IsGroup() bool { return n.group }
func (n *Node) Graphic() *graphic.Graphic { return n.graphic }
func (n *Node) Parent() *Node { return n.parent }

// Children returns the children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// IsText reports whether n carries a Text graphic.
func (n *Node) IsText() bool {
	return n.graphic != nil && n.graphic.Kind() == graphic.KindText
}

// =============================================================================
// Serialization
// =============================================================================

// Fragment builds the node's fragment from the live tree. Each call returns
// a fresh map, so repeated calls never accumulate children.
func (n *Node) Fragment() *props.Map {
	var g any
	if n.graphic != nil {
		g = n.graphic.Fragment()
	}
	children := make([]any, 0, len(n.children))
	for _, c := range n.children {
		children = append(children, c.Fragment())
	}

	m := props.New(
		props.Pair{Key: "x", Value: n.x},
		props.Pair{Key: "y", Value: n.y},
		props.Pair{Key: "rotation", Value: n.rotation},
		props.Pair{Key: "id", Value: n.id},
		props.Pair{Key: "uid", Value: n.uid},
		props.Pair{Key: "width", Value: n.width},
		props.Pair{Key: "height", Value: n.height},
		props.Pair{Key: "lockAspectRatio", Value: n.lockAspectRatio},
		props.Pair{Key: "lockShape", Value: n.lockShape},
		props.Pair{Key: "order", Value: n.order.Value()},
		props.Pair{Key: "graphic", Value: g},
		props.Pair{Key: "children", Value: children},
	)
	if n.connector != nil {
		m.Set("constraints", n.connector.fragment())
	}
	if !n.group {
		m.Set("linkMap", []any{})
	}
	return m
}

// HasOwner reports whether n already belongs to a node or a stage.
func (n *Node) HasOwner() bool { return n.parent != nil || n.attached }
