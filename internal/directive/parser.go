package directive

import (
	"regexp"
	"strings"
)

// directiveRe matches {{#name:arg|arg|...}} and the argument-less {{#name}}
// form. Arguments may not contain braces; nested constructs are expanded by
// the host's variable substitution before this parser runs.
var directiveRe = regexp.MustCompile(`\{\{#([a-zA-Z][a-zA-Z0-9_]*)(?::([^{}]*))?\}\}`)

// Parse splits a raw directive match into an Invocation. Arguments are split
// on "|" and whitespace-trimmed; a trailing "|" yields an empty argument.
func parseInvocation(name, rawArgs string, hasArgs bool) Invocation {
	inv := Invocation{Name: name}
	if !hasArgs {
		return inv
	}
	parts := strings.Split(rawArgs, "|")
	inv.Args = make([]string, len(parts))
	for i, part := range parts {
		inv.Args[i] = strings.TrimSpace(part)
	}
	return inv
}

// Expand replaces every registered directive occurrence in source with its
// handler's output. Unknown directives are left verbatim; a handler error
// degrades that occurrence to no output and is reported to the session log by
// the handler itself.
func Expand(source string, reg *Registry, dctx *Context) string {
	return directiveRe.ReplaceAllStringFunc(source, func(match string) string {
		groups := directiveRe.FindStringSubmatch(match)
		name := groups[1]

		h, ok := reg.Lookup(name)
		if !ok {
			return match
		}

		// hasArgs distinguishes {{#name}} from {{#name:}}; both dispatch with
		// the same permissive empty-argument semantics.
		hasArgs := strings.Contains(match, ":")
		inv := parseInvocation(name, groups[2], hasArgs)

		out, err := h(dctx, inv)
		if err != nil {
			dctx.Logger.Warn("Directive handler failed",
				"directive", name, "error", err)
			return ""
		}
		return out
	})
}
