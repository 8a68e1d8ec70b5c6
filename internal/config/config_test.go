package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
source:
  type: dir
  path: ./content
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/wiki/", cfg.Wiki.BasePath)
	assert.Equal(t, ":memory:", cfg.Index.Path)
	assert.Equal(t, "./site", cfg.Output.Directory)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("LINKONCE_TEST_CONTENT", "/tmp/wiki-content")
	path := writeConfig(t, `
source:
  type: dir
  path: ${LINKONCE_TEST_CONTENT}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/wiki-content", cfg.Source.Path)
}

func TestValidateSourceType(t *testing.T) {
	cfg := &Config{Source: SourceConfig{Type: "ftp"}}
	ApplyDefaults(cfg)
	// ApplyDefaults does not rewrite an explicit bad type
	err := ValidateConfig(cfg)
	assert.Error(t, err)
}

func TestValidateGitSourceRequiresURL(t *testing.T) {
	cfg := &Config{Source: SourceConfig{Type: SourceTypeGit}}
	ApplyDefaults(cfg)
	err := ValidateConfig(cfg)
	assert.Error(t, err)
}

func TestValidateBasePath(t *testing.T) {
	cfg := &Config{
		Source: SourceConfig{Type: SourceTypeDir, Path: "./content"},
		Wiki:   WikiConfig{BasePath: "wiki"},
	}
	ApplyDefaults(cfg)
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateUnknownDirective(t *testing.T) {
	cfg := &Config{
		Source: SourceConfig{Type: SourceTypeDir, Path: "./content"},
		Extension: ExtensionConfig{
			Directives: map[string]bool{"nosuchdirective": true},
		},
	}
	ApplyDefaults(cfg)
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateReindexInterval(t *testing.T) {
	base := Config{Source: SourceConfig{Type: SourceTypeDir, Path: "./content"}}

	for _, tc := range []struct {
		interval string
		wantErr  bool
	}{
		{"", false},
		{"0", false},
		{"30s", false},
		{"5m", false},
		{"100ms", true},
		{"often", true},
	} {
		cfg := base
		cfg.Server.ReindexInterval = tc.interval
		ApplyDefaults(&cfg)
		err := ValidateConfig(&cfg)
		if tc.wantErr {
			assert.Error(t, err, "interval %q", tc.interval)
		} else {
			assert.NoError(t, err, "interval %q", tc.interval)
		}
	}
}

func TestExtensionToggles(t *testing.T) {
	var ext ExtensionConfig
	assert.True(t, ext.ExtensionEnabled(), "extension defaults to enabled")
	assert.True(t, ext.DirectiveEnabled("uniquelink"))

	off := false
	ext.Enabled = &off
	assert.False(t, ext.DirectiveEnabled("uniquelink"), "disabling the extension disables every directive")

	on := true
	ext.Enabled = &on
	ext.Directives = map[string]bool{"uniquelinkifexists": false}
	assert.True(t, ext.DirectiveEnabled("uniquelink"))
	assert.False(t, ext.DirectiveEnabled("uniquelinkifexists"))
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Init(path, false))

	// Refuses to overwrite without force.
	assert.Error(t, Init(path, false))
	assert.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceTypeDir, cfg.Source.Type)
	assert.True(t, cfg.Extension.DirectiveEnabled("uniquelink"))
}

func TestNormalizeLogLevelAndFormat(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel("DEBUG"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("bogus"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" json "))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
