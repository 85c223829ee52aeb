// Package render substitutes template placeholders with request variables.
//
// Substitution is literal string replacement of {{name}}, {{link}} and
// {{meta.<key>}} tokens. Unresolved placeholders are left verbatim; they
// are not an error.
package render

import (
	"fmt"
	"strings"
)

// topLevelKeys are the variables substituted directly, without the meta prefix.
var topLevelKeys = []string{"name", "link"}

// Render replaces placeholders in tmpl with values from variables.
func Render(tmpl string, variables map[string]interface{}) string {
	if len(variables) == 0 {
		return tmpl
	}

	var pairs []string

	for _, key := range topLevelKeys {
		if v, ok := variables[key]; ok {
			pairs = append(pairs, tokens(key, v)...)
		}
	}

	if meta, ok := variables["meta"].(map[string]interface{}); ok {
		for key, v := range meta {
			pairs = append(pairs, tokens("meta."+key, v)...)
		}
	}

	if len(pairs) == 0 {
		return tmpl
	}

	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// tokens returns replacer pairs for both the tight and the single-spaced
// placeholder spelling.
func tokens(key string, v interface{}) []string {
	value := fmt.Sprint(v)

	return []string{
		"{{" + key + "}}", value,
		"{{ " + key + " }}", value,
	}
}
