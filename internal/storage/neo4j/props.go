package neo4j

import (
	"strings"
	"time"
)

// nodeKey normalizes a display name into a merge key
func nodeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func propString(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

func propFloat(props map[string]any, key string) *float64 {
	switch v := props[key].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

func propStrings(props map[string]any, key string) []string {
	list, ok := props[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func propTime(props map[string]any, key string) *time.Time {
	if t, ok := props[key].(time.Time); ok {
		t = t.UTC()
		return &t
	}
	return nil
}

func millis(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
