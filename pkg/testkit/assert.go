package testkit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// subsetDiff lists every place where got does not contain want.
func subsetDiff(path string, want, got interface{}) []string {
	switch w := want.(type) {
	case map[string]interface{}:
		g, ok := got.(map[string]interface{})
		if !ok {
			return []string{fmt.Sprintf("%s: want object, got %s", label(path), render(got))}
		}
		keys := make([]string, 0, len(w))
		for k := range w {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var diffs []string
		for _, k := range keys {
			gv, present := g[k]
			if !present {
				diffs = append(diffs, fmt.Sprintf("%s: missing", join(path, k)))
				continue
			}
			diffs = append(diffs, subsetDiff(join(path, k), w[k], gv)...)
		}
		return diffs
	case []interface{}:
		g, ok := got.([]interface{})
		if !ok {
			return []string{fmt.Sprintf("%s: want array, got %s", label(path), render(got))}
		}
		if len(w) != len(g) {
			return []string{fmt.Sprintf("%s: want %d elements, got %d", label(path), len(w), len(g))}
		}
		var diffs []string
		for i := range w {
			diffs = append(diffs, subsetDiff(join(path, strconv.Itoa(i)), w[i], g[i])...)
		}
		return diffs
	default:
		if render(want) != render(got) {
			return []string{fmt.Sprintf("%s: want %s, got %s", label(path), render(want), render(got))}
		}
		return nil
	}
}

// lookup walks a decoded JSON document by dotted path.
func lookup(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// scalar renders a captured value the way it should be substituted.
func scalar(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func render(v interface{}) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	if v == nil {
		return "null"
	}
	return scalar(v)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func label(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
