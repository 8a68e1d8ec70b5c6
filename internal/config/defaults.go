package config

// ApplyDefaults fills in default values for fields the user left unset.
func ApplyDefaults(cfg *Config) {
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceTypeDir
	}
	if cfg.Source.Type == SourceTypeDir && cfg.Source.Path == "" {
		cfg.Source.Path = "./content"
	}
	if cfg.Source.Type == SourceTypeGit && cfg.Source.Branch == "" {
		cfg.Source.Branch = "main"
	}

	if cfg.Wiki.Title == "" {
		cfg.Wiki.Title = "Wiki"
	}
	if cfg.Wiki.BasePath == "" {
		cfg.Wiki.BasePath = "/wiki/"
	}

	if cfg.Index.Path == "" {
		cfg.Index.Path = ":memory:"
	}

	if cfg.Events.Enabled {
		if cfg.Events.NATSURL == "" {
			cfg.Events.NATSURL = "nats://127.0.0.1:4222"
		}
		if cfg.Events.Subject == "" {
			cfg.Events.Subject = "linkonce.reports"
		}
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./site"
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	cfg.Logging.Level = string(NormalizeLogLevel(cfg.Logging.Level))
	cfg.Logging.Format = string(NormalizeLogFormat(cfg.Logging.Format))
}

// Source type values.
const (
	SourceTypeDir = "dir"
	SourceTypeGit = "git"
)
