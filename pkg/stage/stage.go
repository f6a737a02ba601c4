package stage

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gliffydb/pkg/entity"
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/props"
)

// Stage is a Gliffy document under construction. It is not safe for
// concurrent use.
type Stage struct {
	title      string
	background string
	maxWidth   int
	maxHeight  int
	printPaper string
	logger     *log.Logger

	objects   []*entity.Node
	nextID    int
	nextOrder int
}

// New returns an empty stage.
func New(opts ...Option) *Stage {
	s := &Stage{
		title:      DefaultTitle,
		background: DefaultBackground,
		maxWidth:   DefaultMaxWidth,
		maxHeight:  DefaultMaxHeight,
		printPaper: DefaultPrintPaper,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends top-level nodes and re-indexes the whole forest.
//
// A nil node is a TYPE_CONSTRAINT error; a node that already has a parent, is
// already on a stage or is passed twice is an INVALID_ARGUMENT error. Either
// way no node is added.
func (s *Stage) Add(nodes ...*entity.Node) error {
	seen := make(map[*entity.Node]struct{}, len(nodes))
	for i, n := range nodes {
		if n == nil {
			return errors.New(errors.ErrCodeTypeConstraint, "node %d: expected a node, got nil", i)
		}
		if n.HasOwner() {
			return errors.New(errors.ErrCodeInvalidArgument, "node %d: already has a parent", i)
		}
		if _, dup := seen[n]; dup {
			return errors.New(errors.ErrCodeInvalidArgument, "node %d: passed more than once", i)
		}
		seen[n] = struct{}{}
	}
	for _, n := range nodes {
		if err := n.Attach(); err != nil {
			return err
		}
	}
	s.objects = append(s.objects, nodes...)
	s.Index()
	return nil
}

// Index assigns ids, orders and placeholder sizes to every node, starting
// from zero. [Stage.Add] calls it; callers only need it after mutating sizes.
func (s *Stage) Index() {
	s.nextID, s.nextOrder = 0, 0
	for _, n := range s.objects {
		s.index(n)
	}
	s.logger.Debug("indexed stage", "objects", len(s.objects), "nodeIndex", s.nextID)
}

func (s *Stage) index(n *entity.Node) {
	if n.IsGroup() {
		for _, c := range n.Children() {
			s.index(c)
		}
		n.Assign(s.nextID, entity.OrderOf(s.nextOrder))
		s.nextID++
		s.nextOrder++
		return
	}

	order := entity.OrderOf(s.nextOrder)
	if n.IsText() {
		order = entity.AutoOrder()
	}
	n.Assign(s.nextID, order)
	s.nextID += 2
	s.nextOrder += 2
	n.ApplyPlaceholderSize()
	for _, c := range n.Children() {
		s.index(c)
	}
}

// Objects returns the top-level nodes in insertion order.
func (s *Stage) Objects() []*entity.Node {
	out := make([]*entity.Node, len(s.objects))
	copy(out, s.objects)
	return out
}

// NodeIndex returns the id counter after the last indexing pass.
func (s *Stage) NodeIndex() int { return s.nextID }

// NodeCount returns the number of nodes in the forest, groups included.
func (s *Stage) NodeCount() int {
	count := 0
	for _, n := range s.objects {
		n.Walk(func(*entity.Node) { count++ })
	}
	return count
}

// Title returns the metadata title.
func (s *Stage) Title() string { return s.title }

// JSON serializes the document.
func (s *Stage) JSON() ([]byte, error) {
	data, err := s.Document().MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return data, nil
}

// IndentedJSON serializes the document with the given indent.
func (s *Stage) IndentedJSON(indent string) ([]byte, error) {
	data, err := s.JSON()
	if err != nil || indent == "" {
		return data, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indent); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "indent document")
	}
	return buf.Bytes(), nil
}

// WriteTo writes the serialized document to w.
func (s *Stage) WriteTo(w io.Writer) (int64, error) {
	data, err := s.JSON()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

var _ io.WriterTo = (*Stage)(nil)

// Document builds the full envelope with fresh fragments of every top-level
// node.
func (s *Stage) Document() *props.Map {
	objects := make([]any, 0, len(s.objects))
	for _, n := range s.objects {
		objects = append(objects, n.Fragment())
	}
	return props.New(
		props.Pair{Key: "contentType", Value: "application/gliffy+json"},
		props.Pair{Key: "version", Value: "1.1"},
		props.Pair{Key: "metadata", Value: props.New(
			props.Pair{Key: "title", Value: s.title},
			props.Pair{Key: "revision", Value: 0},
			props.Pair{Key: "exportBorder", Value: "false"},
		)},
		props.Pair{Key: "embeddedResources", Value: props.New(
			props.Pair{Key: "index", Value: 0},
			props.Pair{Key: "resources", Value: []any{}},
		)},
		props.Pair{Key: "stage", Value: s.stageFragment(objects)},
	)
}

func (s *Stage) stageFragment(objects []any) *props.Map {
	return props.New(
		props.Pair{Key: "objects", Value: objects},
		props.Pair{Key: "background", Value: s.background},
		props.Pair{Key: "width", Value: 0},
		props.Pair{Key: "height", Value: 0},
		props.Pair{Key: "maxWidth", Value: s.maxWidth},
		props.Pair{Key: "maxHeight", Value: s.maxHeight},
		props.Pair{Key: "nodeIndex", Value: s.nextID},
		props.Pair{Key: "autoFit", Value: true},
		props.Pair{Key: "exportBorder", Value: false},
		props.Pair{Key: "gridOn", Value: true},
		props.Pair{Key: "snapToGrid", Value: true},
		props.Pair{Key: "drawingGuidesOn", Value: true},
		props.Pair{Key: "pageBreaksOn", Value: false},
		props.Pair{Key: "printGridOn", Value: false},
		props.Pair{Key: "printPaper", Value: s.printPaper},
		props.Pair{Key: "printShrinkToFit", Value: false},
		props.Pair{Key: "printPortrait", Value: true},
		props.Pair{Key: "shapeStyles", Value: props.New()},
		props.Pair{Key: "lineStyles", Value: props.New(
			props.Pair{Key: "global", Value: props.New(
				props.Pair{Key: "orthoMode", Value: 1},
				props.Pair{Key: "startArrow", Value: 0},
				props.Pair{Key: "endArrow", Value: 1},
				props.Pair{Key: "stroke", Value: "#000000"},
				props.Pair{Key: "dashStyle", Value: nil},
			)},
		)},
		props.Pair{Key: "textStyles", Value: props.New()},
		props.Pair{Key: "themeData", Value: nil},
	)
}
