package props

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

// Pair is a key/value entry used to build a [Map] in order.
type Pair struct {
	Key   string
	Value any
}

// Map is an insertion-ordered property map.
// The zero value is an empty map ready to use. Map is not safe for concurrent use.
type Map struct {
	om *orderedmap.OrderedMap[string, any]
}

// New creates a map holding pairs in the given order.
func New(pairs ...Pair) *Map {
	m := &Map{om: orderedmap.New[string, any](len(pairs))}
	for _, p := range pairs {
		m.om.Set(p.Key, p.Value)
	}
	return m
}

// FromAny converts caller input into a *Map.
//
// A *Map is deep-copied. A map[string]any is converted recursively; since Go
// maps carry no order its keys are inserted sorted. A nil value yields an
// empty map. Anything else is an INVALID_ARGUMENT error.
func FromAny(v any) (*Map, error) {
	switch src := v.(type) {
	case nil:
		return New(), nil
	case *Map:
		if src == nil {
			return New(), nil
		}
		return src.Clone(), nil
	case map[string]any:
		return fromGoMap(src), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "expected a property map, got %T", v)
	}
}

func fromGoMap(src map[string]any) *Map {
	m := New()
	for _, k := range slices.Sorted(maps.Keys(src)) {
		m.Set(k, cloneValue(src[k]))
	}
	return m
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return m.om.Len()
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil || m.om == nil {
		return nil, false
	}
	return m.om.Get(key)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Sub returns the nested map stored under key.
func (m *Map) Sub(key string) (*Map, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Map)
	return sub, ok && sub != nil
}

// Set stores value under key. Existing keys keep their position.
func (m *Map) Set(key string, value any) *Map {
	if m.om == nil {
		m.om = orderedmap.New[string, any]()
	}
	m.om.Set(key, value)
	return m
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if m == nil || m.om == nil {
		return false
	}
	_, ok := m.om.Delete(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Each(func(k string, _ any) { keys = append(keys, k) })
	return keys
}

// Each calls fn for every entry in insertion order.
func (m *Map) Each(fn func(key string, value any)) {
	if m == nil || m.om == nil {
		return
	}
	for p := m.om.Oldest(); p != nil; p = p.Next() {
		fn(p.Key, p.Value)
	}
}

// Clone returns a deep copy. Nested maps and lists are copied; scalars are shared.
func (m *Map) Clone() *Map {
	out := New()
	m.Each(func(k string, v any) { out.Set(k, cloneValue(v)) })
	return out
}

// ToMap converts m into plain Go maps and slices, dropping key order.
func (m *Map) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	m.Each(func(k string, v any) { out[k] = plainValue(v) })
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Map:
		if val == nil {
			return (*Map)(nil)
		}
		return val.Clone()
	case map[string]any:
		return fromGoMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case [][]float64:
		out := make([][]float64, len(val))
		for i, e := range val {
			out[i] = slices.Clone(e)
		}
		return out
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
// HTML characters are not escaped: Text graphics carry markup that Gliffy
// reads verbatim.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	first := true
	m.Each(func(k string, v any) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = encodeValue(&buf, k); err != nil {
			return
		}
		buf.WriteByte(':')
		if err = encodeValue(&buf, v); err != nil {
			err = fmt.Errorf("key %q: %w", k, err)
		}
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// String returns the JSON form of m, for debugging.
func (m *Map) String() string {
	data, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("props.Map(%v)", err)
	}
	return string(data)
}
