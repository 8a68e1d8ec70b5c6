package config

import (
	"fmt"
	"strings"
	"time"
)

// knownDirectives are the directive names the extension registers; anything
// else under extension.directives is a configuration mistake.
var knownDirectives = map[string]struct{}{
	"uniquelink":            {},
	"uniquelinkifexists":    {},
	"alreadylinkeduniquely": {},
}

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := &configurationValidator{config: cfg}
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSource(); err != nil {
		return err
	}
	if err := cv.validateWiki(); err != nil {
		return err
	}
	if err := cv.validateExtension(); err != nil {
		return err
	}
	if err := cv.validateEvents(); err != nil {
		return err
	}
	if err := cv.validateServer(); err != nil {
		return err
	}
	return nil
}

func (cv *configurationValidator) validateSource() error {
	src := cv.config.Source
	switch src.Type {
	case SourceTypeDir:
		if src.Path == "" {
			return fmt.Errorf("source.path is required for source type %q", SourceTypeDir)
		}
	case SourceTypeGit:
		if src.URL == "" {
			return fmt.Errorf("source.url is required for source type %q", SourceTypeGit)
		}
	default:
		return fmt.Errorf("unsupported source.type %q (expected %q or %q)", src.Type, SourceTypeDir, SourceTypeGit)
	}
	return nil
}

func (cv *configurationValidator) validateWiki() error {
	base := cv.config.Wiki.BasePath
	if !strings.HasPrefix(base, "/") {
		return fmt.Errorf("wiki.base_path must start with %q, got %q", "/", base)
	}
	if !strings.HasSuffix(base, "/") {
		return fmt.Errorf("wiki.base_path must end with %q, got %q", "/", base)
	}
	return nil
}

func (cv *configurationValidator) validateExtension() error {
	for name := range cv.config.Extension.Directives {
		if _, ok := knownDirectives[name]; !ok {
			return fmt.Errorf("extension.directives refers to unknown directive %q", name)
		}
	}
	return nil
}

func (cv *configurationValidator) validateEvents() error {
	ev := cv.config.Events
	if !ev.Enabled {
		return nil
	}
	if ev.NATSURL == "" {
		return fmt.Errorf("events.nats_url is required when events are enabled")
	}
	if ev.Subject == "" {
		return fmt.Errorf("events.subject is required when events are enabled")
	}
	return nil
}

func (cv *configurationValidator) validateServer() error {
	interval := cv.config.Server.ReindexInterval
	if interval == "" || interval == "0" {
		return nil
	}
	d, err := time.ParseDuration(interval)
	if err != nil {
		return fmt.Errorf("server.reindex_interval is not a valid duration: %w", err)
	}
	if d < time.Second {
		return fmt.Errorf("server.reindex_interval must be at least 1s, got %s", d)
	}
	return nil
}
