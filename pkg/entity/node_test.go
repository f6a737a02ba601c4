package entity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/graphic"
)

func mustShape(t *testing.T, shape string) *graphic.Graphic {
	t.Helper()
	g, err := graphic.NewShape(shape, nil)
	if err != nil {
		t.Fatalf("NewShape(%q): %v", shape, err)
	}
	return g
}

func TestNewEntityFragment(t *testing.T) {
	data, err := NewEntity().Fragment().MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"x":0,"y":0,"rotation":0,"id":0,"uid":"com.gliffy.shape.erd.erd_v1.default.entity",` +
		`"width":0,"height":0,"lockAspectRatio":false,"lockShape":false,"order":0,"graphic":null,` +
		`"children":[],"linkMap":[]}`
	if string(data) != want {
		t.Errorf("Fragment()\n got: %s\nwant: %s", data, want)
	}
}

func TestLinkMapPresence(t *testing.T) {
	if !NewEntity().Fragment().Has("linkMap") {
		t.Error("entity fragment is missing linkMap")
	}
	shape, _ := NewShape("circle", nil)
	if v, _ := shape.Fragment().Get("linkMap"); v == nil {
		t.Error("shape entity fragment is missing linkMap")
	}
	g := NewGroup()
	if err := g.AddChild(NewEntity()); err != nil {
		t.Fatal(err)
	}
	if g.Fragment().Has("linkMap") {
		t.Error("group fragment contains linkMap")
	}
	if uid := g.Fragment(); !strings.Contains(uid.String(), GroupUID) {
		t.Errorf("group fragment %s lacks the group uid", uid)
	}
}

func TestSetGraphicUpdatesUID(t *testing.T) {
	n := NewEntity()
	if err := n.SetGraphic(mustShape(t, "rectangle")); err != nil {
		t.Fatal(err)
	}
	if got, want := n.UID(), "com.gliffy.shape.basic.basic_v1.default.rectangle"; got != want {
		t.Errorf("uid = %q, want %q", got, want)
	}

	line, _ := graphic.NewLine(nil)
	if err := n.SetGraphic(line); err != nil {
		t.Fatal(err)
	}
	if got := n.UID(); got != graphic.LineUID {
		t.Errorf("uid = %q, want %q", got, graphic.LineUID)
	}

	text, _ := graphic.NewText(nil)
	if err := n.SetGraphic(text); err != nil {
		t.Fatal(err)
	}
	if got := n.UID(); got != graphic.LineUID {
		t.Errorf("text graphic changed uid to %q", got)
	}
	if !n.Order().IsAuto() {
		t.Errorf("order = %v, want auto", n.Order())
	}
}

func TestSetGraphicNil(t *testing.T) {
	n := NewEntity()
	err := n.SetGraphic(nil)
	if !errors.Is(err, errors.ErrCodeTypeConstraint) {
		t.Fatalf("got %v, want TYPE_CONSTRAINT", err)
	}
	if n.Graphic() != nil || n.UID() != DefaultUID {
		t.Error("failed SetGraphic mutated the node")
	}
}

func TestGroupIgnoresGraphic(t *testing.T) {
	g := NewGroup()
	if err := g.SetGraphic(mustShape(t, "rectangle")); err != nil {
		t.Fatalf("SetGraphic on group: %v", err)
	}
	if g.Graphic() != nil || g.UID() != GroupUID {
		t.Error("group accepted a graphic")
	}
	if err := g.SetProperties(map[string]any{"strokeWidth": 3}); !errors.Is(err, errors.ErrCodeTypeConstraint) {
		t.Errorf("SetProperties on group = %v, want TYPE_CONSTRAINT", err)
	}
}

func TestSetProperties(t *testing.T) {
	n, err := NewShape("rectangle", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.SetProperties(map[string]any{"strokeWidth": "5"}); err != nil {
		t.Fatal(err)
	}
	if v, _ := n.Graphic().Properties().Get("strokeWidth"); v != 5 {
		t.Errorf("strokeWidth = %v, want 5", v)
	}
	if err := NewEntity().SetProperties(nil); !errors.Is(err, errors.ErrCodeTypeConstraint) {
		t.Errorf("got %v, want TYPE_CONSTRAINT", err)
	}
}

func TestAddChild(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) (parent, child *Node)
		code  errors.Code
	}{
		{"nil", func(*testing.T) (*Node, *Node) { return NewGroup(), nil }, errors.ErrCodeTypeConstraint},
		{"self", func(*testing.T) (*Node, *Node) { n := NewGroup(); return n, n }, errors.ErrCodeInvalidArgument},
		{"ancestor", func(t *testing.T) (*Node, *Node) {
			root, mid := NewGroup(), NewGroup()
			if err := root.AddChild(mid); err != nil {
				t.Fatal(err)
			}
			return mid, root
		}, errors.ErrCodeInvalidArgument},
		{"parented", func(t *testing.T) (*Node, *Node) {
			a, b, c := NewGroup(), NewGroup(), NewEntity()
			if err := a.AddChild(c); err != nil {
				t.Fatal(err)
			}
			return b, c
		}, errors.ErrCodeInvalidArgument},
		{"attached", func(t *testing.T) (*Node, *Node) {
			c := NewEntity()
			if err := c.Attach(); err != nil {
				t.Fatal(err)
			}
			return NewGroup(), c
		}, errors.ErrCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, child := tt.setup(t)
			before := len(parent.Children())
			err := parent.AddChild(child)
			if !errors.Is(err, tt.code) {
				t.Fatalf("got %v, want %s", err, tt.code)
			}
			if len(parent.Children()) != before {
				t.Error("failed AddChild mutated the parent")
			}
		})
	}
}

func TestChildrenOrderAndIdempotentFragment(t *testing.T) {
	g := NewGroup()
	a, _ := NewShape("rectangle", nil)
	b, _ := NewText(map[string]any{"text": "b"})
	if err := g.AddChildren(a, b); err != nil {
		t.Fatal(err)
	}
	if a.Parent() != g || b.Parent() != g {
		t.Error("parent not recorded")
	}

	first, _ := json.Marshal(g.Fragment())
	second, _ := json.Marshal(g.Fragment())
	if string(first) != string(second) {
		t.Errorf("fragment changed between calls:\n%s\n%s", first, second)
	}
	children, _ := g.Fragment().Get("children")
	if n := len(children.([]any)); n != 2 {
		t.Fatalf("len(children) = %d, want 2", n)
	}
	if i, j := strings.Index(string(first), "Shape"), strings.Index(string(first), `"Text"`); i > j {
		t.Error("children serialized out of insertion order")
	}
}

func TestSetters(t *testing.T) {
	n := NewEntity()
	n.SetCoords(10, 20)
	n.SetSize(30, 40)
	n.SetRotation(90)
	n.SetLocks(true, false)
	n.SetOrder(7)

	if x, y := n.Coords(); x != 10 || y != 20 {
		t.Errorf("Coords() = %d, %d", x, y)
	}
	if w, h := n.Size(); w != 30 || h != 40 || !n.SizeFixed() {
		t.Errorf("Size() = %d, %d fixed=%v", w, h, n.SizeFixed())
	}
	n.ApplyPlaceholderSize()
	if w, _ := n.Size(); w != 30 {
		t.Errorf("placeholder overwrote fixed size: width %d", w)
	}
	if a, s := n.Locks(); !a || s {
		t.Errorf("Locks() = %v, %v", a, s)
	}
	if o, ok := n.Order().Int(); !ok || o != 7 {
		t.Errorf("Order() = %v", n.Order())
	}
	n.SetAutoOrder()
	if got, _ := n.Fragment().Get("order"); got != "auto" {
		t.Errorf("order = %v, want auto", got)
	}

	m := NewEntity()
	m.ApplyPlaceholderSize()
	if w, h := m.Size(); w != PlaceholderSize || h != PlaceholderSize {
		t.Errorf("placeholder size = %d, %d", w, h)
	}
}

func TestAttach(t *testing.T) {
	n := NewEntity()
	if err := n.Attach(); err != nil {
		t.Fatal(err)
	}
	if !n.HasOwner() {
		t.Error("HasOwner() = false after Attach")
	}
	if err := n.Attach(); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("second Attach = %v, want INVALID_ARGUMENT", err)
	}
	var nilNode *Node
	if err := nilNode.Attach(); !errors.Is(err, errors.ErrCodeTypeConstraint) {
		t.Errorf("nil Attach = %v, want TYPE_CONSTRAINT", err)
	}
}

func TestWalk(t *testing.T) {
	root := NewGroup()
	inner := NewGroup()
	a, b := NewEntity(), NewEntity()
	if err := inner.AddChild(a); err != nil {
		t.Fatal(err)
	}
	if err := root.AddChildren(inner, b); err != nil {
		t.Fatal(err)
	}

	var got []*Node
	root.Walk(func(n *Node) { got = append(got, n) })
	want := []*Node{root, inner, a, b}
	if len(got) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d out of order", i)
		}
	}
}
