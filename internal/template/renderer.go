// Package template implements the minimal substitution engine used to render
// the converter's HTML pages. It supports three constructs: {{ name }} scalar
// interpolation, {% if name %}...{% endif %} conditionals, and
// {% for item in name %}...{% else %}...{% endfor %} loops over history-style
// records. Blocks do not nest.
package template

import (
	"regexp"
	"strconv"
	"strings"
)

// Context carries the values for one render call. Values may be strings,
// ints, float64s, bools, or []map[string]string sequences; anything else is
// ignored by substitution. The renderer never mutates a Context.
type Context map[string]any

var (
	loopRe = regexp.MustCompile(`(?s)\{% for item in (\w+) %\}(.*?)\{% else %\}(.*?)\{% endfor %\}`)
	ifRe   = regexp.MustCompile(`(?s)\{% if (\w+) %\}(.*?)\{% endif %\}`)
)

// Render resolves src against ctx and returns the final markup. Processing is
// a fixed three-stage pipeline: loops, then conditionals, then scalars.
// Absent keys are treated as empty/falsy; markers that resolve to nothing are
// left verbatim in the output. Scalar substitution is plain text replacement,
// so callers must not use keys whose markers are substrings of one another.
func Render(src string, ctx Context) string {
	out := loopRe.ReplaceAllStringFunc(src, func(block string) string {
		m := loopRe.FindStringSubmatch(block)
		return renderLoop(m[1], m[2], m[3], ctx)
	})

	out = ifRe.ReplaceAllStringFunc(out, func(block string) string {
		m := ifRe.FindStringSubmatch(block)
		if truthy(ctx[m[1]]) {
			return m[2]
		}
		return ""
	})

	for key, val := range ctx {
		s, ok := scalar(val)
		if !ok {
			continue
		}
		out = strings.ReplaceAll(out, "{{ "+key+" }}", s)
	}

	return out
}

// renderLoop expands one loop block. Each rendered item is prepended before
// the previously rendered ones, so the output lists the sequence newest
// first. The else body is returned untouched when the sequence is empty or
// absent; later stages resolve whatever markers it contains against the
// outer context.
func renderLoop(name, body, elseBody string, ctx Context) string {
	items := sequence(ctx[name])
	if len(items) == 0 {
		return elseBody
	}

	var out string
	for _, item := range items {
		rendered := body
		for field, val := range item {
			rendered = strings.ReplaceAll(rendered, "{{ item."+field+" }}", val)
		}
		out = rendered + out
	}
	return out
}

func sequence(v any) []map[string]string {
	if items, ok := v.([]map[string]string); ok {
		return items
	}
	return nil
}

func scalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	default:
		return "", false
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []map[string]string:
		return len(val) > 0
	default:
		return false
	}
}
