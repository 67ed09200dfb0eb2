package lockfile

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Decoded JSON and YAML are weakly typed; these helpers turn them into the
// model's strong fields without ever failing. Malformed optional fields
// degrade to empty values.

// scalarString renders a decoded scalar as text. Non-scalars yield "".
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any, []any:
		return ""
	}
	return fmt.Sprint(v)
}

// stringMap converts a decoded mapping of name to range. Entries whose value
// is not a scalar are dropped; a non-mapping yields an empty map.
func stringMap(v any) map[string]string {
	out := map[string]string{}
	m, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for name, val := range m {
		switch val.(type) {
		case map[string]any, []any:
			continue
		}
		out[name] = scalarString(val)
	}
	return out
}

// asMap returns v as a decoded mapping, or nil.
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// extras copies the fields of m that are not in known. It returns nil when
// nothing is left so documents without extras stay compact.
func extras(m map[string]any, known map[string]bool) map[string]any {
	var out map[string]any
	for k, v := range m {
		if known[k] {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

// mergeExtras adds the fields of src to dst that dst does not have yet.
func mergeExtras(dst, src map[string]any) map[string]any {
	for k, v := range src {
		if dst == nil {
			dst = make(map[string]any)
		}
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}

// genericFields are the package fields every parser maps onto Package
// itself; anything else goes to Package.Flags.
var genericFields = map[string]bool{
	"version":              true,
	"dependencies":         true,
	"devDependencies":      true,
	"optionalDependencies": true,
	"peerDependencies":     true,
}

func withGeneric(fields ...string) map[string]bool {
	out := make(map[string]bool, len(genericFields)+len(fields))
	for k := range genericFields {
		out[k] = true
	}
	for _, f := range fields {
		out[f] = true
	}
	return out
}

// fillDependencySets copies the four dependency kinds from a decoded entry.
func fillDependencySets(p *Package, entry map[string]any) {
	for _, k := range Kinds() {
		p.setKind(k, stringMap(entry[k.String()]))
	}
}
