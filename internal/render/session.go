package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/linkonce/internal/directive"
	"git.home.luguber.info/inful/linkonce/internal/events"
	"git.home.luguber.info/inful/linkonce/internal/linkregistry"
	"git.home.luguber.info/inful/linkonce/internal/metrics"
	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// Session is one page render pass. It owns the per-render link registry by
// composition: the registry is created with the session, reset at session
// start, and discarded with the session. Nothing survives into the next page.
type Session struct {
	ID    string
	Links *linkregistry.Registry

	dctx   *directive.Context
	report *reportBuilder
}

// NewSession creates a render session wired to the given collaborators.
func NewSession(ctx context.Context, resolver titles.Resolver, recorder metrics.Recorder, logger *slog.Logger) *Session {
	if resolver == nil {
		resolver = titles.AllowAll
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		ID:     uuid.NewString(),
		Links:  linkregistry.New(),
		report: &reportBuilder{},
	}
	s.dctx = &directive.Context{
		Ctx:      ctx,
		Links:    s.Links,
		Resolver: resolver,
		Recorder: recorder,
		Reporter: s.report,
		Logger:   logger.With("session", s.ID),
	}
	return s
}

// Reset discards all link state, starting a fresh pass. Called at session
// start by the pipeline and available to hosts that re-enter a session.
func (s *Session) Reset() {
	s.Links.Reset()
	s.report.reset()
}

// Expand runs directive expansion over source using this session's state.
func (s *Session) Expand(source string, reg *directive.Registry) string {
	return directive.Expand(source, reg, s.dctx)
}

// Report finalizes the session's link report for the given page.
func (s *Session) Report(page, title string) *events.PageReport {
	r := s.report.snapshot()
	r.Page = page
	r.Title = title
	r.SessionID = s.ID
	r.Timestamp = time.Now()
	return r
}

// reportBuilder accumulates directive outcomes. Implements directive.Reporter.
type reportBuilder struct {
	emitted    []events.LinkRef
	suppressed []events.LinkRef
	missing    []string
}

func (b *reportBuilder) LinkEmitted(target, category string) {
	b.emitted = append(b.emitted, events.LinkRef{Target: target, Category: category})
}

func (b *reportBuilder) LinkSuppressed(target, category string) {
	b.suppressed = append(b.suppressed, events.LinkRef{Target: target, Category: category})
}

func (b *reportBuilder) TargetMissing(target string) {
	b.missing = append(b.missing, target)
}

func (b *reportBuilder) reset() {
	b.emitted, b.suppressed, b.missing = nil, nil, nil
}

func (b *reportBuilder) snapshot() *events.PageReport {
	return &events.PageReport{
		Emitted:        append([]events.LinkRef(nil), b.emitted...),
		Suppressed:     append([]events.LinkRef(nil), b.suppressed...),
		MissingTargets: append([]string(nil), b.missing...),
	}
}
