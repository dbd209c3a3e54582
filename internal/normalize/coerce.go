package normalize

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// textParts flattens an arbitrary JSON value into its non-empty text
// fragments. Object values are visited in key order.
func textParts(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case []string:
		var out []string
		for _, s := range t {
			out = append(out, textParts(s)...)
		}
		return out
	case []interface{}:
		var out []string
		for _, item := range t {
			out = append(out, textParts(item)...)
		}
		return out
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, textParts(t[k])...)
		}
		return out
	default:
		return textParts(fmt.Sprint(t))
	}
}

// looseBool reads yes/no style flags. Anything unrecognized is false.
func looseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "on", "x", "current", "present":
		return true
	default:
		return false
	}
}

// looseShapeHook bends values into the scalar shape of their target field
// so one odd field never rejects a whole resume. Lists in a text field are
// joined with spaces, objects with commas.
func looseShapeHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to.Kind() {
	case reflect.String:
		switch d := data.(type) {
		case []interface{}, []string:
			return strings.Join(textParts(d), " "), nil
		case map[string]interface{}:
			return strings.Join(textParts(d), ", "), nil
		}
	case reflect.Bool:
		switch d := data.(type) {
		case string:
			return looseBool(d), nil
		case []interface{}, map[string]interface{}:
			return false, nil
		}
	}
	return data, nil
}
