package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/linkonce/internal/config"
	"git.home.luguber.info/inful/linkonce/internal/errors"
	"git.home.luguber.info/inful/linkonce/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"linkonce.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Render struct {
		Output string `short:"o" help:"Output directory for rendered pages (overrides config)"`
		Clean  bool   `help:"Clean the output directory before rendering"`
	} `cmd:"" help:"Render all wiki pages to static HTML"`

	Serve struct {
		Addr  string `short:"a" help:"Listen address (overrides config)"`
		Watch bool   `short:"w" help:"Reindex when content files change"`
	} `cmd:"" help:"Start the preview server"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	switch ctx.Command() {
	case "version":
		fmt.Printf("linkonce %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	case "init":
		setupLogging(nil)
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration file written", "path", CLI.Config)
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		setupLogging(nil)
		errors.NewCLIErrorAdapter(CLI.Verbose, slog.Default()).HandleError(err)
		return
	}
	setupLogging(cfg)
	adapter := errors.NewCLIErrorAdapter(CLI.Verbose, slog.Default())

	switch ctx.Command() {
	case "render":
		if CLI.Render.Output != "" {
			cfg.Output.Directory = CLI.Render.Output
		}
		if CLI.Render.Clean {
			cfg.Output.Clean = true
		}
		adapter.HandleError(runRender(cfg))
	case "serve":
		if CLI.Serve.Addr != "" {
			cfg.Server.Addr = CLI.Serve.Addr
		}
		if CLI.Serve.Watch {
			cfg.Server.Watch = true
		}
		adapter.HandleError(runServe(cfg))
	}
}

// setupLogging configures the default slog logger from configuration, with
// the -v flag forcing debug level.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	format := config.LogFormatText
	if cfg != nil {
		switch config.NormalizeLogLevel(cfg.Logging.Level) {
		case config.LogLevelDebug:
			level = slog.LevelDebug
		case config.LogLevelWarn:
			level = slog.LevelWarn
		case config.LogLevelError:
			level = slog.LevelError
		}
		format = config.NormalizeLogFormat(cfg.Logging.Format)
	}
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
