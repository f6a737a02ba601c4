package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/gliffydb/pkg/entity"
	"github.com/matzehuels/gliffydb/pkg/graphic"
	"github.com/matzehuels/gliffydb/pkg/stage"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the Gliffy id, order and uid to node labels.
	Detailed bool
}

var dotShapes = map[string]string{
	graphic.ShapeCircle:   "ellipse",
	graphic.ShapeEllipse:  "ellipse",
	graphic.ShapeHexagon:  "hexagon",
	graphic.ShapeTriangle: "triangle",
	graphic.ShapeDiamond:  "diamond",
}

// ToDOT converts the indexed stage to Graphviz DOT.
//
// Text children of a shape are folded into the shape's label. Lines without
// endpoints are drawn as points.
func ToDOT(s *stage.Stage, opts Options) string {
	w := &dotWriter{opts: opts}
	w.buf.WriteString("digraph G {\n")
	w.buf.WriteString("  rankdir=LR;\n")
	w.buf.WriteString("  bgcolor=\"transparent\";\n")
	w.buf.WriteString("  compound=true;\n")
	w.buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Courier\", fontsize=12];\n")
	fmt.Fprintf(&w.buf, "  label=%q;\n", s.Title())
	w.buf.WriteString("\n")

	for _, n := range s.Objects() {
		w.node(n, "  ")
	}
	if len(w.edges) > 0 {
		w.buf.WriteString("\n")
		for _, e := range w.edges {
			w.buf.WriteString(e)
		}
	}
	w.buf.WriteString("}\n")
	return w.buf.String()
}

type dotWriter struct {
	opts  Options
	buf   bytes.Buffer
	edges []string
}

func nodeID(n *entity.Node) string { return fmt.Sprintf("n%d", n.ID()) }

func (w *dotWriter) node(n *entity.Node, indent string) {
	if n.IsGroup() {
		fmt.Fprintf(&w.buf, "%ssubgraph \"cluster_%d\" {\n", indent, n.ID())
		fmt.Fprintf(&w.buf, "%s  label=%q;\n", indent, w.label(n, "group"))
		fmt.Fprintf(&w.buf, "%s  style=dashed;\n", indent)
		for _, c := range n.Children() {
			w.node(c, indent+"  ")
		}
		fmt.Fprintf(&w.buf, "%s}\n", indent)
		return
	}

	g := n.Graphic()
	switch {
	case g == nil:
		fmt.Fprintf(&w.buf, "%s%s [label=%q];\n", indent, nodeID(n), w.label(n, "entity"))
	case g.Kind() == graphic.KindText:
		fmt.Fprintf(&w.buf, "%s%s [shape=plaintext, style=\"\", label=%q];\n", indent, nodeID(n), w.label(n, g.Text()))
	case g.Kind() == graphic.KindLine:
		w.line(n, indent)
	default:
		w.shape(n, g, indent)
	}

	for _, c := range n.Children() {
		if c.IsText() {
			continue
		}
		w.node(c, indent)
	}
}

func (w *dotWriter) shape(n *entity.Node, g *graphic.Graphic, indent string) {
	text := foldedText(n)
	if text == "" {
		text = g.Shape()
	}
	attrs := []string{fmt.Sprintf("label=%q", w.label(n, text))}
	if shape, ok := dotShapes[g.Shape()]; ok {
		attrs = append(attrs, "shape="+shape)
	}
	if fill, ok := g.Get("fillColor"); ok {
		if s, _ := fill.(string); strings.HasPrefix(s, "#") {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", s))
		}
	}
	fmt.Fprintf(&w.buf, "%s%s [%s];\n", indent, nodeID(n), strings.Join(attrs, ", "))
}

func (w *dotWriter) line(n *entity.Node, indent string) {
	start, end, ok := n.Endpoints()
	if !ok {
		fmt.Fprintf(&w.buf, "%s%s [shape=point, label=\"\"];\n", indent, nodeID(n))
		return
	}
	w.edges = append(w.edges, fmt.Sprintf("  %s -> %s%s;\n", endpointID(start.Node), endpointID(end.Node), clusterAttrs(start.Node, end.Node)))
}

// endpointID resolves a connector endpoint to a drawable node. Groups have
// no node of their own, so edges enter through their first drawable member.
func endpointID(n *entity.Node) string {
	if d := drawable(n); d != nil {
		return nodeID(d)
	}
	return nodeID(n)
}

func drawable(n *entity.Node) *entity.Node {
	if !n.IsGroup() {
		return n
	}
	for _, c := range n.Children() {
		if d := drawable(c); d != nil {
			return d
		}
	}
	return nil
}

func clusterAttrs(from, to *entity.Node) string {
	var attrs []string
	if from.IsGroup() {
		attrs = append(attrs, fmt.Sprintf("ltail=\"cluster_%d\"", from.ID()))
	}
	if to.IsGroup() {
		attrs = append(attrs, fmt.Sprintf("lhead=\"cluster_%d\"", to.ID()))
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

func foldedText(n *entity.Node) string {
	var parts []string
	for _, c := range n.Children() {
		if c.IsText() {
			if t := c.Graphic().Text(); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func (w *dotWriter) label(n *entity.Node, text string) string {
	if !w.opts.Detailed {
		return text
	}
	return fmt.Sprintf("%s\nid: %d order: %s\n%s", text, n.ID(), n.Order(), n.UID())
}
