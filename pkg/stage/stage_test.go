package stage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gliffydb/pkg/entity"
	"github.com/matzehuels/gliffydb/pkg/errors"
)

func quiet() Option {
	return WithLogger(log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
}

func rect(t *testing.T) *entity.Node {
	t.Helper()
	n, err := entity.NewShape("rectangle", nil)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func text(t *testing.T, s string) *entity.Node {
	t.Helper()
	n, err := entity.NewText(map[string]any{"text": s})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

type assigned struct {
	id    int
	order any
}

func checkAssigned(t *testing.T, nodes []*entity.Node, want []assigned) {
	t.Helper()
	for i, n := range nodes {
		got := assigned{n.ID(), n.Order().Value()}
		if got != want[i] {
			t.Errorf("node %d: got id=%d order=%v, want id=%d order=%v", i, got.id, got.order, want[i].id, want[i].order)
		}
	}
}

func TestIndexFlat(t *testing.T) {
	s := New(quiet())
	nodes := []*entity.Node{rect(t), rect(t), rect(t)}
	if err := s.Add(nodes...); err != nil {
		t.Fatal(err)
	}
	checkAssigned(t, nodes, []assigned{{0, 0}, {2, 2}, {4, 4}})
	if got := s.NodeIndex(); got != 6 {
		t.Errorf("NodeIndex() = %d, want 6", got)
	}
}

func TestIndexText(t *testing.T) {
	s := New(quiet())
	nodes := []*entity.Node{rect(t), text(t, "label"), rect(t)}
	if err := s.Add(nodes...); err != nil {
		t.Fatal(err)
	}
	checkAssigned(t, nodes, []assigned{{0, 0}, {2, "auto"}, {4, 4}})
}

func TestIndexGroup(t *testing.T) {
	s := New(quiet())
	a, b, trailing := rect(t), rect(t), rect(t)
	g := entity.NewGroup()
	if err := g.AddChildren(a, b); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(g, trailing); err != nil {
		t.Fatal(err)
	}
	checkAssigned(t, []*entity.Node{a, b, g, trailing}, []assigned{{0, 0}, {2, 2}, {4, 4}, {5, 5}})
	if got := s.NodeIndex(); got != 7 {
		t.Errorf("NodeIndex() = %d, want 7", got)
	}
}

func TestIndexNestedEntityChildren(t *testing.T) {
	s := New(quiet())
	cell := rect(t)
	label := text(t, "id")
	if err := cell.AddChild(label); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(cell); err != nil {
		t.Fatal(err)
	}
	checkAssigned(t, []*entity.Node{cell, label}, []assigned{{0, 0}, {2, "auto"}})
}

func TestIndexGroupIDsDominateDescendants(t *testing.T) {
	s := New(quiet())
	outer, inner := entity.NewGroup(), entity.NewGroup()
	leaves := []*entity.Node{rect(t), text(t, "x"), rect(t)}
	if err := inner.AddChildren(leaves[0], leaves[1]); err != nil {
		t.Fatal(err)
	}
	if err := outer.AddChildren(inner, leaves[2]); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(outer); err != nil {
		t.Fatal(err)
	}
	prev := -1
	outer.Walk(func(n *entity.Node) {
		if n.IsGroup() {
			n.Walk(func(d *entity.Node) {
				if d != n && d.ID() >= n.ID() {
					t.Errorf("descendant id %d >= group id %d", d.ID(), n.ID())
				}
			})
		}
	})
	seen := map[int]bool{}
	for _, n := range []*entity.Node{leaves[0], leaves[1], inner, leaves[2], outer} {
		if seen[n.ID()] {
			t.Errorf("duplicate id %d", n.ID())
		}
		seen[n.ID()] = true
		if n.ID() <= prev {
			t.Errorf("id %d not increasing after %d", n.ID(), prev)
		}
		prev = n.ID()
	}
}

func TestIndexRestartsOnEveryAdd(t *testing.T) {
	s := New(quiet())
	first := rect(t)
	if err := s.Add(first); err != nil {
		t.Fatal(err)
	}
	first.SetOrder(42)
	second := rect(t)
	if err := s.Add(second); err != nil {
		t.Fatal(err)
	}
	checkAssigned(t, []*entity.Node{first, second}, []assigned{{0, 0}, {2, 2}})
}

func TestPlaceholderSize(t *testing.T) {
	s := New(quiet())
	free, fixed := rect(t), rect(t)
	fixed.SetSize(160, 24)
	g := entity.NewGroup()
	if err := s.Add(free, fixed, g); err != nil {
		t.Fatal(err)
	}
	if w, h := free.Size(); w != 100 || h != 100 {
		t.Errorf("free size = %dx%d, want 100x100", w, h)
	}
	if w, h := fixed.Size(); w != 160 || h != 24 {
		t.Errorf("fixed size = %dx%d, want 160x24", w, h)
	}
	if w, h := g.Size(); w != 0 || h != 0 {
		t.Errorf("group size = %dx%d, want 0x0", w, h)
	}
}

func TestAddErrors(t *testing.T) {
	parented := rect(t)
	if err := entity.NewGroup().AddChild(parented); err != nil {
		t.Fatal(err)
	}
	onStage := rect(t)
	other := New(quiet())
	if err := other.Add(onStage); err != nil {
		t.Fatal(err)
	}
	dup := rect(t)

	tests := []struct {
		name  string
		nodes []*entity.Node
		code  errors.Code
	}{
		{"nil", []*entity.Node{rect(t), nil}, errors.ErrCodeTypeConstraint},
		{"parented", []*entity.Node{rect(t), parented}, errors.ErrCodeInvalidArgument},
		{"on another stage", []*entity.Node{onStage}, errors.ErrCodeInvalidArgument},
		{"duplicate", []*entity.Node{dup, dup}, errors.ErrCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(quiet())
			err := s.Add(tt.nodes...)
			if !errors.Is(err, tt.code) {
				t.Fatalf("got %v, want %s", err, tt.code)
			}
			if len(s.Objects()) != 0 {
				t.Error("failed Add kept some nodes")
			}
			if tt.nodes[0] != nil && tt.nodes[0] != onStage && tt.nodes[0] != parented && tt.nodes[0].HasOwner() {
				t.Error("failed Add attached a node")
			}
		})
	}
}

func TestDocumentEnvelope(t *testing.T) {
	s := New(quiet(), WithTitle("orders"), WithBackground("#EEEEEE"), WithMaxSize(800, 0), WithPrintPaper("A4"))
	data, err := s.JSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"contentType":"application/gliffy+json","version":"1.1",` +
		`"metadata":{"title":"orders","revision":0,"exportBorder":"false"},` +
		`"embeddedResources":{"index":0,"resources":[]},` +
		`"stage":{"objects":[],"background":"#EEEEEE","width":0,"height":0,"maxWidth":800,"maxHeight":5000,` +
		`"nodeIndex":0,"autoFit":true,"exportBorder":false,"gridOn":true,"snapToGrid":true,` +
		`"drawingGuidesOn":true,"pageBreaksOn":false,"printGridOn":false,"printPaper":"A4",` +
		`"printShrinkToFit":false,"printPortrait":true,"shapeStyles":{},` +
		`"lineStyles":{"global":{"orthoMode":1,"startArrow":0,"endArrow":1,"stroke":"#000000","dashStyle":null}},` +
		`"textStyles":{},"themeData":null}}`
	if string(data) != want {
		t.Errorf("JSON()\n got: %s\nwant: %s", data, want)
	}
	if s.Title() != "orders" {
		t.Errorf("Title() = %q", s.Title())
	}
}

func TestRoundTripIsByteIdentical(t *testing.T) {
	s := New(quiet())
	g := entity.NewGroup()
	cell := rect(t)
	if err := cell.AddChild(text(t, "<b>name</b>")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddChildren(cell, rect(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(g, text(t, "title")); err != nil {
		t.Fatal(err)
	}

	first, err := s.JSON()
	if err != nil {
		t.Fatal(err)
	}
	second, _ := s.JSON()
	if !bytes.Equal(first, second) {
		t.Errorf("serialization not idempotent:\n%s\n%s", first, second)
	}
	if !strings.Contains(string(first), `<p style='text-align:center;'>`) || !strings.Contains(string(first), "&lt;b&gt;name") {
		t.Error("text markup was mangled by the encoder")
	}
	if !json.Valid(first) {
		t.Error("document is not valid JSON")
	}

	var doc struct {
		Stage struct {
			NodeIndex int `json:"nodeIndex"`
			Objects   []struct {
				ID       int   `json:"id"`
				Children []any `json:"children"`
			} `json:"objects"`
		} `json:"stage"`
	}
	if err := json.Unmarshal(first, &doc); err != nil {
		t.Fatal(err)
	}
	if got := len(doc.Stage.Objects); got != 2 {
		t.Fatalf("objects = %d, want 2", got)
	}
	if got := len(doc.Stage.Objects[0].Children); got != 2 {
		t.Errorf("group children = %d, want 2", got)
	}
	if doc.Stage.NodeIndex != s.NodeIndex() {
		t.Errorf("nodeIndex = %d, want %d", doc.Stage.NodeIndex, s.NodeIndex())
	}
	if s.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", s.NodeCount())
	}
}

func TestWriteToAndIndent(t *testing.T) {
	s := New(quiet())
	if err := s.Add(rect(t)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	compact, _ := s.JSON()
	if int(n) != len(compact) || !bytes.Equal(buf.Bytes(), compact) {
		t.Error("WriteTo output differs from JSON()")
	}
	indented, err := s.IndentedJSON("  ")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(indented, []byte("\n  \"version\"")) {
		t.Errorf("indented output not indented:\n%s", indented)
	}
}
