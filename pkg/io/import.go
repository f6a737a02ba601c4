package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

// Document is a decoded Gliffy document.
type Document struct {
	ContentType string `json:"contentType"`
	Version     string `json:"version"`
	Metadata    struct {
		Title string `json:"title"`
	} `json:"metadata"`
	Stage struct {
		Objects   []Object `json:"objects"`
		NodeIndex int      `json:"nodeIndex"`
	} `json:"stage"`
}

// Object is one node of a decoded document.
type Object struct {
	ID       int             `json:"id"`
	UID      string          `json:"uid"`
	Order    json.RawMessage `json:"order"`
	X        int             `json:"x"`
	Y        int             `json:"y"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Graphic  *Graphic        `json:"graphic"`
	Children []Object        `json:"children"`
	LinkMap  []any           `json:"linkMap"`
}

// Graphic holds the type tag of a decoded graphic.
type Graphic struct {
	Type string `json:"type"`
}

// Kind returns the graphic type of o, or "Group"/"Entity" when it has none.
func (o Object) Kind() string {
	if o.Graphic != nil {
		return o.Graphic.Type
	}
	if o.LinkMap == nil {
		return "Group"
	}
	return "Entity"
}

// OrderString returns the order as written: a number or "auto".
func (o Object) OrderString() string {
	var s string
	if json.Unmarshal(o.Order, &s) == nil {
		return s
	}
	return string(o.Order)
}

// Walk visits every object depth-first, parents first, with its depth.
func (d *Document) Walk(fn func(o Object, depth int)) {
	var walk func([]Object, int)
	walk = func(objs []Object, depth int) {
		for _, o := range objs {
			fn(o, depth)
			walk(o.Children, depth+1)
		}
	}
	walk(d.Stage.Objects, 0)
}

// Count returns the number of objects in the tree.
func (d *Document) Count() int {
	n := 0
	d.Walk(func(Object, int) { n++ })
	return n
}

// ReadDocument decodes a Gliffy document from r. Documents with another
// content type are an INVALID_FORMAT error.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if doc.ContentType != "application/gliffy+json" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected content type %q", doc.ContentType)
	}
	return &doc, nil
}

// ImportDocument reads the document at path.
func ImportDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}
