// Package titles provides wiki title normalization and the title resolution
// capability consulted by the link-if-exists directive.
package titles

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upperFirst handles Unicode-correct uppercasing of the leading title rune
// (e.g. Turkish dotless i is not our problem: titles are language-neutral,
// so the Und caser is used).
var upperFirst = cases.Upper(language.Und)

// Normalize canonicalizes a wiki page title: underscores become spaces,
// surrounding whitespace is trimmed, internal whitespace runs collapse to a
// single space, and the first letter is uppercased. Two directives naming
// "main page" and "Main_page" therefore address the same page.
func Normalize(title string) string {
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(title)
	if r == utf8.RuneError && size <= 1 {
		return title
	}
	return upperFirst.String(title[:size]) + title[size:]
}

// ToPath converts a normalized title into its URL path segment: spaces become
// underscores, matching the wiki URL scheme.
func ToPath(title string) string {
	return strings.ReplaceAll(Normalize(title), " ", "_")
}

// externalSchemes lists URL prefixes that mark a link target as external.
var externalSchemes = []string{
	"http://",
	"https://",
	"ftp://",
	"mailto:",
	"news:",
	"irc://",
	"//",
}

// IsExternal reports whether a link target refers to an external resource
// rather than a wiki page.
func IsExternal(target string) bool {
	lower := strings.ToLower(strings.TrimSpace(target))
	for _, scheme := range externalSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// Resolver is the host capability that answers whether a page exists. The
// link-if-exists directive consults it once per target per render session.
type Resolver interface {
	// Exists reports whether a wiki page with the given (raw, un-normalized)
	// title is known.
	Exists(ctx context.Context, title string) (bool, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, title string) (bool, error)

func (f ResolverFunc) Exists(ctx context.Context, title string) (bool, error) {
	return f(ctx, title)
}

// AllowAll is a Resolver that treats every title as existing. Used when no
// page index is configured.
var AllowAll Resolver = ResolverFunc(func(context.Context, string) (bool, error) {
	return true, nil
})
