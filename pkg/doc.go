// Package pkg provides the libraries behind GliffyDB, a builder for Gliffy
// diagram documents.
//
// # Overview
//
// A Gliffy document is a JSON file holding a stage of positioned objects:
// shapes, text, lines and groups. The pkg directory is organized as:
//
//  1. [props], [graphic], [entity], [stage] - the document model and its
//     serialization
//  2. [tables], [schema] - ERD tables built from live database schemas
//  3. [blueprint] - declarative TOML, YAML and JSON diagram descriptions
//  4. [pipeline] - orchestration (source, build, cache, preview, store)
//  5. [cache], [sink], [io] - infrastructure for caching and storing documents
//  6. [api], [preview] - HTTP surface and Graphviz previews
//
// # Architecture
//
// The typical data flow:
//
//	blueprint file          database DSN
//	      ↓                      ↓
//	[blueprint] package     [schema] + [tables] packages
//	      ↘                    ↙
//	        [stage] package (index, serialize)
//	              ↓
//	   [sink] / file output / [preview] SVG
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/gliffydb/pkg/entity"
//	    "github.com/matzehuels/gliffydb/pkg/stage"
//	)
//
//	s := stage.New(stage.WithTitle("checkout"))
//	cart, _ := entity.NewShape("rectangle", map[string]any{"fillColor": "#e0f0ff"})
//	pay, _ := entity.NewShape("circle", nil)
//	line, _ := entity.NewLine(nil)
//	entity.Connect(line, cart, pay)
//	s.Add(cart, pay, line)
//	data, _ := s.JSON()
//
// [props]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/props
// [graphic]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/graphic
// [entity]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/entity
// [stage]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/stage
// [tables]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/tables
// [schema]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/schema
// [blueprint]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/blueprint
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/cache
// [sink]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/sink
// [io]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/io
// [api]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/api
// [preview]: https://pkg.go.dev/github.com/matzehuels/gliffydb/pkg/preview
package pkg
