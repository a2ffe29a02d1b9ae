// Package template implements the sandboxed placeholder substitution used in
// module configuration. Placeholders like {{Event.info}} are resolved by
// dotted-path lookup into the trigger scope only; there is no expression
// evaluation, so configuration cannot become an injection vector.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([\w.-]+)\s*\}\}`)

// Render substitutes every {{path.to.field}} placeholder in input with the
// value found in scope. Unresolvable placeholders render empty.
func Render(input string, scope map[string]any) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	return placeholderRe.ReplaceAllStringFunc(input, func(match string) string {
		path := placeholderRe.FindStringSubmatch(match)[1]

		value, ok := lookup(scope, path)
		if !ok || value == nil {
			return ""
		}

		return fmt.Sprint(value)
	})
}

// RenderValue renders placeholders in v recursively: strings are rendered,
// maps and slices are walked, everything else passes through unchanged.
func RenderValue(v any, scope map[string]any) any {
	switch value := v.(type) {
	case string:
		return Render(value, scope)
	case map[string]any:
		rendered := make(map[string]any, len(value))
		for k, item := range value {
			rendered[k] = RenderValue(item, scope)
		}

		return rendered
	case []any:
		rendered := make([]any, len(value))
		for i, item := range value {
			rendered[i] = RenderValue(item, scope)
		}

		return rendered
	default:
		return v
	}
}

// RenderConfig deep-renders a node configuration map against the trigger scope.
func RenderConfig(config, scope map[string]any) map[string]any {
	if config == nil {
		return nil
	}

	rendered, _ := RenderValue(config, scope).(map[string]any)

	return rendered
}

func lookup(scope map[string]any, path string) (any, bool) {
	var current any = scope

	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}
