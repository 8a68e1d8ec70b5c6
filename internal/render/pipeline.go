// Package render runs page renders: front matter and variable expansion,
// unique-link directive dispatch, wikilink rewriting, and markdown-to-HTML
// conversion. Each page gets its own session; link deduplication state never
// crosses page boundaries.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/linkonce/internal/config"
	"git.home.luguber.info/inful/linkonce/internal/directive"
	"git.home.luguber.info/inful/linkonce/internal/events"
	"git.home.luguber.info/inful/linkonce/internal/metrics"
	"git.home.luguber.info/inful/linkonce/internal/source"
	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// Result is the outcome of rendering one page.
type Result struct {
	Page        string // source-relative path
	Title       string
	HTML        []byte
	Report      *events.PageReport
	AnchorCount int
	Duration    time.Duration
}

// Pipeline renders pages. It is safe for concurrent use: the directive
// registry is read-only after construction and every render gets a fresh
// session.
type Pipeline struct {
	directives *directive.Registry
	resolver   titles.Resolver
	recorder   metrics.Recorder
	publisher  events.Publisher
	logger     *slog.Logger
	basePath   string
	md         goldmark.Markdown
}

// Options configures a Pipeline. Zero-value collaborators fall back to
// no-op implementations.
type Options struct {
	Extension config.ExtensionConfig
	BasePath  string // wiki URL prefix, e.g. "/wiki/"
	Resolver  titles.Resolver
	Recorder  metrics.Recorder
	Publisher events.Publisher
	Logger    *slog.Logger
}

// NewPipeline builds a render pipeline. Directive registration happens here,
// once, consulting the extension configuration.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.BasePath == "" {
		opts.BasePath = "/wiki/"
	}
	if opts.Resolver == nil {
		opts.Resolver = titles.AllowAll
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NoopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	reg := directive.NewRegistry()
	if err := directive.RegisterBuiltins(reg, opts.Extension); err != nil {
		return nil, fmt.Errorf("configure directives: %w", err)
	}

	return &Pipeline{
		directives: reg,
		resolver:   opts.Resolver,
		recorder:   opts.Recorder,
		publisher:  opts.Publisher,
		logger:     opts.Logger,
		basePath:   opts.BasePath,
		md:         goldmark.New(),
	}, nil
}

// Directives exposes the registered directive names (for startup logging and
// the server status endpoint).
func (p *Pipeline) Directives() []string {
	return p.directives.Names()
}

// RenderPage renders one page through a fresh session.
func (p *Pipeline) RenderPage(ctx context.Context, page source.Page) (*Result, error) {
	start := time.Now()

	session := NewSession(ctx, p.resolver, p.recorder, p.logger)
	session.Reset()
	defer session.Reset() // session teardown clears state before discard

	fm, body, err := SplitFrontMatter(page.Content)
	if err != nil && !errors.Is(err, ErrNoFrontMatter) {
		return nil, fmt.Errorf("page %s: %w", page.RelativePath, err)
	}

	expanded := ExpandVariables(string(body), fm)
	expanded = session.Expand(expanded, p.directives)
	expanded = RewriteWikiLinks(expanded, p.basePath)

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(expanded), &buf); err != nil {
		return nil, fmt.Errorf("page %s: markdown conversion: %w", page.RelativePath, err)
	}

	anchors, err := ExtractAnchors(buf.Bytes())
	if err != nil {
		// Summary-only failure; the rendered HTML is still good.
		p.logger.Debug("Anchor extraction failed", "page", page.RelativePath, "error", err)
	}

	result := &Result{
		Page:        page.RelativePath,
		Title:       page.Title,
		HTML:        buf.Bytes(),
		Report:      session.Report(page.RelativePath, page.Title),
		AnchorCount: len(anchors),
		Duration:    time.Since(start),
	}

	p.recorder.ObservePageRenderDuration(result.Duration)

	if err := p.publisher.PublishReport(ctx, result.Report); err != nil {
		p.logger.Warn("Failed to publish link report",
			"page", page.RelativePath, "error", err)
	}

	p.logger.Debug("Rendered page",
		"page", page.RelativePath,
		"session", session.ID,
		"links", len(result.Report.Emitted),
		"suppressed", len(result.Report.Suppressed),
		"anchors", result.AnchorCount,
		"duration", result.Duration)

	return result, nil
}
