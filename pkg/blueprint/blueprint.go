// Package blueprint describes diagrams in TOML, YAML or JSON files.
//
// A blueprint lists objects with their kind, position, size and property
// overrides. Groups and entities nest through "children". Lines name the
// objects they connect with "from" and "to":
//
//	title = "checkout"
//
//	[[objects]]
//	kind = "rectangle"
//	name = "cart"
//	x = 0
//	y = 0
//	width = 160
//	height = 60
//	properties = { fillColor = "#e0f0ff" }
//
//	  [[objects.children]]
//	  kind = "text"
//	  text = "Cart"
//
//	[[objects]]
//	kind = "line"
//	from = "cart"
//	to = "payment"
//
// [Build] turns a blueprint into an indexed stage.
package blueprint

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

// Format is a blueprint file format.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Object kinds besides the shape subtypes.
const (
	KindShape  = "shape"
	KindText   = "text"
	KindLine   = "line"
	KindGroup  = "group"
	KindEntity = "entity"
)

// Blueprint is a diagram description.
type Blueprint struct {
	Title      string   `toml:"title" yaml:"title" json:"title,omitempty"`
	Background string   `toml:"background" yaml:"background" json:"background,omitempty"`
	Objects    []Object `toml:"objects" yaml:"objects" json:"objects"`
}

// Object is one node of a blueprint.
type Object struct {
	// Kind is "shape" (with Shape set), a shape subtype such as "rectangle"
	// or "circle", "text", "line", "group" or "entity".
	Kind  string `toml:"kind" yaml:"kind" json:"kind"`
	Shape string `toml:"shape" yaml:"shape" json:"shape,omitempty"`
	// Name identifies the object for line endpoints.
	Name string `toml:"name" yaml:"name" json:"name,omitempty"`
	// Text is shorthand for properties.text on text objects.
	Text string `toml:"text" yaml:"text" json:"text,omitempty"`

	X        int `toml:"x" yaml:"x" json:"x,omitempty"`
	Y        int `toml:"y" yaml:"y" json:"y,omitempty"`
	Width    int `toml:"width" yaml:"width" json:"width,omitempty"`
	Height   int `toml:"height" yaml:"height" json:"height,omitempty"`
	Rotation int `toml:"rotation" yaml:"rotation" json:"rotation,omitempty"`

	Properties map[string]any `toml:"properties" yaml:"properties" json:"properties,omitempty"`
	Children   []Object       `toml:"children" yaml:"children" json:"children,omitempty"`

	// From and To name the endpoints of a line. FromPoint and ToPoint are
	// optional relative anchors [px, py] on the endpoint objects.
	From      string    `toml:"from" yaml:"from" json:"from,omitempty"`
	To        string    `toml:"to" yaml:"to" json:"to,omitempty"`
	FromPoint []float64 `toml:"from_point" yaml:"from_point" json:"from_point,omitempty"`
	ToPoint   []float64 `toml:"to_point" yaml:"to_point" json:"to_point,omitempty"`
}

// ParseFormat maps a name or file extension ("yml", ".toml") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown blueprint format %q (want toml, yaml or json)", s)
	}
}

// Decode reads a blueprint in the given format. TOML keys that match no
// field are rejected so typos surface instead of being ignored.
func Decode(r io.Reader, format Format) (*Blueprint, error) {
	var bp Blueprint
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&bp)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml blueprint")
		}
		for _, key := range md.Undecoded() {
			if !inProperties(key) {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown blueprint key %q", key.String())
			}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&bp); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml blueprint")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&bp); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json blueprint")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown blueprint format %q", format)
	}
	return &bp, nil
}

// inProperties reports whether key lies inside an object's properties map.
// TOML reports the contents of free-form maps as undecoded.
func inProperties(key toml.Key) bool {
	for i, part := range key {
		if part == "properties" && i > 0 && i < len(key)-1 {
			return true
		}
	}
	return false
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte, format Format) (*Blueprint, error) {
	return Decode(bytes.NewReader(data), format)
}

// Load reads the blueprint at path, picking the format from the extension.
func Load(path string) (*Blueprint, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open blueprint")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open blueprint")
	}
	defer f.Close()
	return Decode(f, format)
}
