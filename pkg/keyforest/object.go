package keyforest

import (
	"fmt"
	"sort"
)

// FlattenObject turns a nested object (maps, slices, and scalars as
// produced by a YAML/JSON unmarshal) into a flat dotted-key map of string
// values, the object-side counterpart to Forest.Flatten. From lowercases
// every key segment, so round-tripping through
// From(FlattenObject(obj)).ToObject() reproduces obj up to leaf
// scalar-type coercion only when obj's keys are already lowercase.
func FlattenObject(obj map[string]any) map[string]string {
	out := map[string]string{}
	for k, v := range obj {
		flattenValue(k, v, out)
	}
	return out
}

func flattenValue(prefix string, v any, out map[string]string) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenValue(prefix+Separator+k, t[k], out)
		}
	case []any:
		for i, elem := range t {
			flattenValue(fmt.Sprintf("%s%s%d", prefix, Separator, i), elem, out)
		}
	case nil:
		out[prefix] = "null"
	case string:
		out[prefix] = t
	case bool:
		if t {
			out[prefix] = "true"
		} else {
			out[prefix] = "false"
		}
	default:
		out[prefix] = fmt.Sprintf("%v", t)
	}
}
