package render

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoFrontMatter is returned when content has no front matter.
var ErrNoFrontMatter = errors.New("no front matter")

// SplitFrontMatter separates a page's YAML front matter from its body.
// Returns the parsed front matter (nil and ErrNoFrontMatter when absent)
// and the body with the front matter block removed.
func SplitFrontMatter(content []byte) (map[string]any, []byte, error) {
	if !hasFrontMatter(content) {
		return nil, content, ErrNoFrontMatter
	}

	parts := strings.SplitN(string(content), "---", 3)
	if len(parts) < 3 {
		return nil, content, ErrNoFrontMatter
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return nil, content, fmt.Errorf("failed to parse front matter: %w", err)
	}

	body := strings.TrimPrefix(parts[2], "\n")
	return fm, []byte(body), nil
}

// hasFrontMatter checks if content has front matter.
func hasFrontMatter(content []byte) bool {
	return len(content) > 4 && string(content[0:3]) == "---"
}

// variableRe matches {{name}} template variables. Directive constructs
// ({{#name:...}}) are excluded by the leading character class.
var variableRe = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// ExpandVariables substitutes {{name}} occurrences in body with the matching
// front matter value. This is the host-side argument expansion directives
// rely on: substitution happens before directive dispatch, so directive
// arguments may reference page variables. Unknown variables stay verbatim.
func ExpandVariables(body string, vars map[string]any) string {
	if len(vars) == 0 {
		return body
	}
	return variableRe.ReplaceAllStringFunc(body, func(match string) string {
		name := variableRe.FindStringSubmatch(match)[1]
		value, ok := vars[name]
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", value)
	})
}
