// Package graphic describes the visual payload of a Gliffy entity.
//
// A [Graphic] is one of three variants fixed at construction: a shape of some
// subtype (rectangle, circle, ...), a text block, or a line. Each variant owns a
// private copy of its default properties; caller overrides are validated with
// [props.Validator] and deep-merged on top with [props.Merge].
//
// Gliffy identifies the rendering template of a shape by its stencil id (the
// "tid" field) and the behavior of the owning entity by the entity uid. Both
// are resolved from lookup tables with a template fallback:
//
//	g, _ := graphic.NewShape("hexagon", nil)
//	g.StencilID() // "com.gliffy.stencil.hexagon.basic_v1", true
//	g.EntityUID() // "com.gliffy.shape.basic.basic_v1.default.hexagon", true
//
// Text graphics derive their "html" field from the text and css properties on
// every call to [Graphic.Fragment], so the markup can never go stale.
package graphic
