package render

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// wikilinkRe matches [[target]] and [[target|text]] constructs. Targets may
// not contain brackets or pipes; display text may not contain brackets.
var wikilinkRe = regexp.MustCompile(`\[\[([^\[\]|]+?)(?:\|([^\[\]]*?))?\]\]`)

// RewriteWikiLinks converts two-part bracketed link constructs into markdown
// links against the wiki URL scheme: page targets get basePath plus the
// underscored title path, external targets link directly. Display text
// defaults to the target.
func RewriteWikiLinks(body, basePath string) string {
	return wikilinkRe.ReplaceAllStringFunc(body, func(match string) string {
		groups := wikilinkRe.FindStringSubmatch(match)
		target := strings.TrimSpace(groups[1])
		text := strings.TrimSpace(groups[2])
		if text == "" {
			text = target
		}
		if target == "" {
			return text
		}

		dest := target
		if !titles.IsExternal(target) {
			dest = basePath + titles.ToPath(target)
		}
		return fmt.Sprintf("[%s](%s)", text, dest)
	})
}
