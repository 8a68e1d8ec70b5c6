package directive

import (
	"fmt"

	"git.home.luguber.info/inful/linkonce/internal/config"
	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// Directive names exposed by the unique-link extension.
const (
	NameUniqueLink            = "uniquelink"
	NameUniqueLinkIfExists    = "uniquelinkifexists"
	NameAlreadyLinkedUniquely = "alreadylinkeduniquely"
)

// RegisterBuiltins registers the extension's directives on reg, honoring the
// configuration surface: the extension as a whole or individual directives
// may be switched off. Configuration is consulted here only; dispatch never
// re-checks it.
func RegisterBuiltins(reg *Registry, ext config.ExtensionConfig) error {
	builtins := map[string]Handler{
		NameUniqueLink:            UniqueLink,
		NameUniqueLinkIfExists:    UniqueLinkIfExists,
		NameAlreadyLinkedUniquely: AlreadyLinkedUniquely,
	}
	for name, h := range builtins {
		if !ext.DirectiveEnabled(name) {
			continue
		}
		if err := reg.Register(name, h); err != nil {
			return fmt.Errorf("register builtin directives: %w", err)
		}
	}
	return nil
}

// wikiLink renders the two-part bracketed link construct.
func wikiLink(target, text string) string {
	return fmt.Sprintf("[[%s|%s]]", target, text)
}

// UniqueLink renders {{#uniquelink:dest|text|category}}: a wiki link on the
// first encounter of (dest, category) within the session, the display text
// alone on every later encounter. An empty dest produces no output.
func UniqueLink(dctx *Context, inv Invocation) (string, error) {
	dctx.Recorder.IncDirective(NameUniqueLink)

	target, text, category := inv.Arg(0), inv.Arg(1), inv.Arg(2)
	shouldLink, out, ok := dctx.Links.ResolveLink(target, text, category)
	if !ok {
		return "", nil
	}
	if !shouldLink {
		dctx.Recorder.IncLinkSuppressed(NameUniqueLink)
		if dctx.Reporter != nil {
			dctx.Reporter.LinkSuppressed(target, category)
		}
		return out, nil
	}
	dctx.Recorder.IncLinkEmitted(NameUniqueLink)
	if dctx.Reporter != nil {
		dctx.Reporter.LinkEmitted(target, category)
	}
	return wikiLink(target, out), nil
}

// UniqueLinkIfExists renders {{#uniquelinkifexists:dest|text|category}} like
// UniqueLink, but on first encounter it additionally requires dest to be an
// external reference or an existing page. A target that fails the check still
// renders as plain text and stays marked, so its existence is checked at most
// once per session. A resolver error degrades to the plain-text fallback.
func UniqueLinkIfExists(dctx *Context, inv Invocation) (string, error) {
	dctx.Recorder.IncDirective(NameUniqueLinkIfExists)

	target, text, category := inv.Arg(0), inv.Arg(1), inv.Arg(2)
	shouldLink, out, ok := dctx.Links.ResolveLink(target, text, category)
	if !ok {
		return "", nil
	}
	if !shouldLink {
		dctx.Recorder.IncLinkSuppressed(NameUniqueLinkIfExists)
		if dctx.Reporter != nil {
			dctx.Reporter.LinkSuppressed(target, category)
		}
		return out, nil
	}

	// Marked first, checked second: a nonexistent target is only ever
	// existence-checked once per session.
	if !titles.IsExternal(target) {
		exists, err := dctx.Resolver.Exists(dctx.Ctx, target)
		if err != nil {
			dctx.Logger.Warn("Existence check failed, rendering plain text",
				"target", target, "error", err)
			exists = false
		}
		if !exists {
			dctx.Recorder.IncExistenceCheckFailed()
			if dctx.Reporter != nil {
				dctx.Reporter.TargetMissing(target)
			}
			return out, nil
		}
	}

	dctx.Recorder.IncLinkEmitted(NameUniqueLinkIfExists)
	if dctx.Reporter != nil {
		dctx.Reporter.LinkEmitted(target, category)
	}
	return wikiLink(target, out), nil
}

// AlreadyLinkedUniquely renders {{#alreadylinkeduniquely:dest|category|then|else}}:
// the then branch (default "1") if dest has already been linked under
// category, the else branch (default empty) otherwise. Read-only: it never
// records anything, regardless of outcome.
func AlreadyLinkedUniquely(dctx *Context, inv Invocation) (string, error) {
	dctx.Recorder.IncDirective(NameAlreadyLinkedUniquely)

	target, category := inv.Arg(0), inv.Arg(1)
	thenBranch, elseBranch := inv.Arg(2), inv.Arg(3)
	return dctx.Links.ConditionalBranch(target, category, thenBranch, elseBranch), nil
}
