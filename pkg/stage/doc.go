// Package stage is the root of a Gliffy document.
//
// A [Stage] holds the top-level nodes and the document envelope. Every call to
// [Stage.Add] re-indexes the whole forest from zero:
//
//   - a group indexes its children first, then takes the next id and order;
//     both counters advance by 1;
//   - any other entity takes the next id and, unless it carries text (order
//     "auto"), the next order; both counters advance by 2. Entities without an
//     explicit size get the 100x100 placeholder. Their own children follow.
//
// Serialization through [Stage.Document] or [Stage.JSON] does not mutate the
// tree and can be repeated freely.
//
//	s := stage.New(stage.WithTitle("orders"))
//	box, _ := entity.NewShape("rectangle", nil)
//	_ = s.Add(box)
//	data, _ := s.JSON()
package stage
