// Package props implements the property maps every diagram object is built from.
//
// # Maps
//
// A [Map] is an insertion-ordered string-keyed map backed by
// github.com/wk8/go-ordered-map/v2. Values are scalars, lists ([]any) or nested
// *Map values. Gliffy does not care about key order, but diffs of generated
// documents do, so a Map always marshals its keys in insertion order.
//
// # Merging
//
// [Merge] layers partial overrides onto a fully-populated target:
//
//	defaults := props.New(
//	    props.Pair{Key: "strokeWidth", Value: 2},
//	    props.Pair{Key: "strokeColor", Value: "#000000"},
//	)
//	err := props.Merge(defaults, map[string]any{"strokeWidth": 4, "bogus": true})
//	// defaults now has strokeWidth=4; "bogus" was ignored
//
// The merge is closed-world: a source can only overwrite keys the target already
// declares. Nested maps are merged recursively so partial nested overrides keep
// their untouched siblings. The rightmost source defining a key wins.
//
// # Validation
//
// A [Validator] checks values against a [Type] and optionally coerces them
// ("4" to 4, "ff00ff" to "#ff00ff"). Values that cannot be coerced are replaced
// with the type's registered default and reported as VALUE_COERCION
// diagnostics; validation never fails the caller.
package props
