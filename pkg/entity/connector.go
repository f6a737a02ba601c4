package entity

import (
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/graphic"
	"github.com/matzehuels/gliffydb/pkg/props"
)

// Endpoint is one end of a line: the node it is attached to and the relative
// position (0..1) on that node's bounding box.
type Endpoint struct {
	Node   *Node
	PX, PY float64
}

type connector struct {
	start, end Endpoint
}

// Connect attaches the ends of line to from and to.
func Connect(line, from, to *Node) error {
	return ConnectEndpoints(line, Endpoint{Node: from}, Endpoint{Node: to})
}

// ConnectEndpoints attaches the ends of line to explicit endpoints. line must
// carry a Line graphic and both endpoints must name a node; the constraint
// ids are resolved when the fragment is built, after indexing.
func ConnectEndpoints(line *Node, start, end Endpoint) error {
	if line == nil || line.graphic == nil || line.graphic.Kind() != graphic.KindLine {
		return errors.New(errors.ErrCodeTypeConstraint, "only line entities can be connected")
	}
	if start.Node == nil || end.Node == nil {
		return errors.New(errors.ErrCodeTypeConstraint, "connector endpoints must be nodes")
	}
	if start.Node == line || end.Node == line {
		return errors.New(errors.ErrCodeInvalidArgument, "a line cannot connect to itself")
	}
	line.connector = &connector{start: start, end: end}
	return nil
}

// Endpoints returns the connected endpoints of a line entity.
func (n *Node) Endpoints() (start, end Endpoint, ok bool) {
	if n.connector == nil {
		return Endpoint{}, Endpoint{}, false
	}
	return n.connector.start, n.connector.end, true
}

func (c *connector) fragment() *props.Map {
	return props.New(
		props.Pair{Key: "constraints", Value: []any{}},
		props.Pair{Key: "startConstraint", Value: constraint("StartPositionConstraint", c.start)},
		props.Pair{Key: "endConstraint", Value: constraint("EndPositionConstraint", c.end)},
	)
}

func constraint(kind string, e Endpoint) *props.Map {
	return props.New(
		props.Pair{Key: "type", Value: kind},
		props.Pair{Key: kind, Value: props.New(
			props.Pair{Key: "nodeId", Value: e.Node.id},
			props.Pair{Key: "px", Value: e.PX},
			props.Pair{Key: "py", Value: e.PY},
		)},
	)
}
