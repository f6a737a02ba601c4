// Package preview renders a stage as a Graphviz diagram for a quick look at
// a document without opening Gliffy.
//
// The preview shows structure, not geometry: groups become clusters, shapes
// become nodes labeled with their text, and connected lines become edges.
//
//	dot := preview.ToDOT(s, preview.Options{})
//	svg, err := preview.RenderSVG(ctx, dot)
//
// Rendering runs in-process through [github.com/goccy/go-graphviz].
package preview
