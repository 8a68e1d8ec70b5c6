package main

import (
	"context"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/linkonce/internal/config"
	"git.home.luguber.info/inful/linkonce/internal/errors"
	"git.home.luguber.info/inful/linkonce/internal/events"
	"git.home.luguber.info/inful/linkonce/internal/pageindex"
	"git.home.luguber.info/inful/linkonce/internal/render"
	"git.home.luguber.info/inful/linkonce/internal/source"
)

var staticPageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.SiteTitle}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// runRender renders every source page to static HTML in the output directory.
func runRender(cfg *config.Config) error {
	ctx := context.Background()
	start := time.Now()

	loader, err := source.NewLoader(cfg.Source)
	if err != nil {
		return err
	}

	slog.Info("Loading content", "type", cfg.Source.Type)
	pages, err := loader.Load()
	if err != nil {
		return errors.SourceError(loader.Root(), err)
	}
	slog.Info("Content loaded", "pages", len(pages))

	index, err := pageindex.Open(cfg.Index.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := index.Close(); err != nil {
			slog.Warn("Failed to close page index", "error", err)
		}
	}()
	if err := index.Rebuild(ctx, pages); err != nil {
		return err
	}

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("Failed to close event publisher", "error", err)
		}
	}()

	pipeline, err := render.NewPipeline(render.Options{
		Extension: cfg.Extension,
		BasePath:  cfg.Wiki.BasePath,
		Resolver:  index,
		Publisher: publisher,
	})
	if err != nil {
		return err
	}

	outDir := cfg.Output.Directory
	if cfg.Output.Clean {
		if err := os.RemoveAll(outDir); err != nil {
			return errors.OutputError("clean output directory", err)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.OutputError("create output directory", err)
	}

	var emitted, suppressed int
	for _, page := range pages {
		result, err := pipeline.RenderPage(ctx, page)
		if err != nil {
			return errors.RenderError(page.RelativePath, err)
		}

		outPath := filepath.Join(outDir, htmlPath(page.RelativePath))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return errors.OutputError("create output subdirectory", err)
		}
		if err := writePage(outPath, cfg.Wiki.Title, result); err != nil {
			return err
		}

		emitted += len(result.Report.Emitted)
		suppressed += len(result.Report.Suppressed)
		slog.Debug("Page rendered",
			"page", page.RelativePath,
			"title", result.Title,
			"links_emitted", len(result.Report.Emitted),
			"links_suppressed", len(result.Report.Suppressed),
			"duration", result.Duration)
	}

	slog.Info("Render complete",
		"pages", len(pages),
		"links_emitted", emitted,
		"links_suppressed", suppressed,
		"output", outDir,
		"duration", time.Since(start))
	return nil
}

func writePage(path, siteTitle string, result *render.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.OutputError("create output file", err)
	}
	defer f.Close()

	data := struct {
		SiteTitle string
		Title     string
		Body      template.HTML
	}{
		SiteTitle: siteTitle,
		Title:     result.Title,
		Body:      template.HTML(result.HTML),
	}
	if err := staticPageTemplate.Execute(f, data); err != nil {
		return errors.OutputError("write output file", err)
	}
	return nil
}

// htmlPath swaps the source extension for .html, keeping the relative layout.
func htmlPath(relPath string) string {
	ext := filepath.Ext(relPath)
	return strings.TrimSuffix(relPath, ext) + ".html"
}
