package props

import (
	"github.com/matzehuels/gliffydb/pkg/errors"
)

// Merge layers sources onto target in place.
//
// Only keys already present in target are assigned; for each of them the
// rightmost source defining the key wins and keys no source defines keep their
// value. When the target value is a nested *Map, Merge recurses with the
// nested maps of every source defining that key, in order; a source holding a
// non-map value for such a key is ignored for it. Assigned values are deep
// copies, so target never aliases source data.
//
// Sources may be *Map or map[string]any. A nil target, a nil *Map source or
// any other source type is an INVALID_ARGUMENT error and leaves target
// untouched.
func Merge(target *Map, sources ...any) error {
	if target == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "merge target must be a property map, got nil")
	}
	srcs := make([]*Map, len(sources))
	for i, s := range sources {
		m, ok := asMap(s)
		if !ok {
			return errors.New(errors.ErrCodeInvalidArgument, "merge source %d must be a property map, got %T", i, s)
		}
		srcs[i] = m
	}
	merge(target, srcs)
	return nil
}

func merge(target *Map, sources []*Map) {
	if len(sources) == 0 {
		return
	}
	for _, key := range target.Keys() {
		cur, _ := target.Get(key)
		if sub, ok := cur.(*Map); ok && sub != nil {
			var subs []*Map
			for _, s := range sources {
				if v, ok := s.Get(key); ok {
					if sm, ok := asMap(v); ok {
						subs = append(subs, sm)
					}
				}
			}
			merge(sub, subs)
			continue
		}
		for i := len(sources) - 1; i >= 0; i-- {
			if v, ok := sources[i].Get(key); ok {
				target.Set(key, cloneValue(v))
				break
			}
		}
	}
}

// asMap views v as a *Map without copying when it already is one.
func asMap(v any) (*Map, bool) {
	switch m := v.(type) {
	case *Map:
		return m, m != nil
	case map[string]any:
		return fromGoMap(m), true
	default:
		return nil, false
	}
}
