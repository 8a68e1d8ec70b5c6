package render

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/linkonce/internal/config"
	"git.home.luguber.info/inful/linkonce/internal/events"
	"git.home.luguber.info/inful/linkonce/internal/source"
	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// capturingPublisher records published reports for assertions.
type capturingPublisher struct {
	mu      sync.Mutex
	reports []*events.PageReport
}

func (p *capturingPublisher) PublishReport(_ context.Context, r *events.PageReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, r)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func testPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p, err := NewPipeline(opts)
	require.NoError(t, err)
	return p
}

func page(rel, content string) source.Page {
	return source.Page{
		RelativePath: rel,
		Title:        source.TitleFromPath(rel),
		Content:      []byte(content),
	}
}

func TestRenderPageDeduplicatesLinks(t *testing.T) {
	p := testPipeline(t, Options{})

	result, err := p.RenderPage(context.Background(),
		page("Go.md", "First {{#uniquelink:Go}}, then {{#uniquelink:Go}} again."))
	require.NoError(t, err)

	html := string(result.HTML)
	assert.Contains(t, html, `<a href="/wiki/Go">Go</a>`)
	assert.Equal(t, 1, result.AnchorCount, "second reference must not produce an anchor")
	assert.Contains(t, html, "then Go again")
}

func TestRenderPageStateDoesNotCrossPages(t *testing.T) {
	p := testPipeline(t, Options{})
	ctx := context.Background()

	first, err := p.RenderPage(ctx, page("a.md", "{{#uniquelink:Shared}}"))
	require.NoError(t, err)
	second, err := p.RenderPage(ctx, page("b.md", "{{#uniquelink:Shared}}"))
	require.NoError(t, err)

	// Each page render starts a fresh session: both emit a link.
	assert.Equal(t, 1, first.AnchorCount)
	assert.Equal(t, 1, second.AnchorCount)
}

func TestRenderPageCategories(t *testing.T) {
	p := testPipeline(t, Options{})

	result, err := p.RenderPage(context.Background(),
		page("c.md", "{{#uniquelink:X||catA}} {{#uniquelink:X||catB}} {{#uniquelink:X||catA}}"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.AnchorCount, "independent categories each link once")
}

func TestRenderPageVariableExpansionFeedsDirectives(t *testing.T) {
	p := testPipeline(t, Options{})

	content := "---\ntopic: Concurrency\n---\n{{#uniquelink:{{topic}}}} and {{#uniquelink:{{topic}}}}"
	result, err := p.RenderPage(context.Background(), page("d.md", content))
	require.NoError(t, err)

	assert.Contains(t, string(result.HTML), `<a href="/wiki/Concurrency">Concurrency</a>`)
	assert.Equal(t, 1, result.AnchorCount)
}

func TestRenderPageExistenceCheck(t *testing.T) {
	resolver := titles.ResolverFunc(func(_ context.Context, title string) (bool, error) {
		return title == "Known", nil
	})
	p := testPipeline(t, Options{Resolver: resolver})

	result, err := p.RenderPage(context.Background(),
		page("e.md", "{{#uniquelinkifexists:Known}} {{#uniquelinkifexists:Unknown}}"))
	require.NoError(t, err)

	html := string(result.HTML)
	assert.Contains(t, html, `<a href="/wiki/Known">Known</a>`)
	assert.NotContains(t, html, `href="/wiki/Unknown"`)
	assert.Contains(t, html, "Unknown")
	assert.Equal(t, []string{"Unknown"}, result.Report.MissingTargets)
}

func TestRenderPagePublishesReport(t *testing.T) {
	pub := &capturingPublisher{}
	p := testPipeline(t, Options{Publisher: pub})

	_, err := p.RenderPage(context.Background(),
		page("f.md", "{{#uniquelink:A}} {{#uniquelink:A}} {{#uniquelink:B||nav}}"))
	require.NoError(t, err)

	require.Len(t, pub.reports, 1)
	report := pub.reports[0]
	assert.Equal(t, "f.md", report.Page)
	assert.NotEmpty(t, report.SessionID)
	assert.Equal(t, []events.LinkRef{{Target: "A"}, {Target: "B", Category: "nav"}}, report.Emitted)
	assert.Equal(t, []events.LinkRef{{Target: "A"}}, report.Suppressed)
}

func TestRenderPageDisabledExtension(t *testing.T) {
	off := false
	p := testPipeline(t, Options{Extension: config.ExtensionConfig{Enabled: &off}})

	result, err := p.RenderPage(context.Background(), page("g.md", "{{#uniquelink:Go}}"))
	require.NoError(t, err)

	// No handler registered: the directive text passes through to the HTML.
	assert.Contains(t, string(result.HTML), "{{#uniquelink:Go}}")
	assert.Empty(t, p.Directives())
}

func TestRenderPagePlainWikiLinksStillRewritten(t *testing.T) {
	p := testPipeline(t, Options{BasePath: "/w/"})

	result, err := p.RenderPage(context.Background(), page("h.md", "see [[Main Page]]"))
	require.NoError(t, err)

	assert.Contains(t, string(result.HTML), `<a href="/w/Main_Page">Main Page</a>`)
}

func TestRenderPageConditionalDirective(t *testing.T) {
	p := testPipeline(t, Options{})

	result, err := p.RenderPage(context.Background(),
		page("i.md", "{{#alreadylinkeduniquely:X}}{{#uniquelink:X}}{{#alreadylinkeduniquely:X}}"))
	require.NoError(t, err)

	// Before linking: empty else branch. After: default then branch "1".
	assert.Contains(t, string(result.HTML), `<a href="/wiki/X">X</a>1`)
}

func TestConcurrentRenders(t *testing.T) {
	p := testPipeline(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := p.RenderPage(ctx, page("p.md", "{{#uniquelink:T}} {{#uniquelink:T}}"))
			assert.NoError(t, err)
			assert.Equal(t, 1, result.AnchorCount)
		}()
	}
	wg.Wait()
}
