package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestLinkOnceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *LinkOnceError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestLinkOnceError_WithContext(t *testing.T) {
	err := New(CategorySource, SeverityWarning, "clone failed").
		WithContext("repository", "test-repo").
		WithContext("branch", "main")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["repository"] != "test-repo" {
		t.Errorf("Context[repository] = %v, want test-repo", err.Context["repository"])
	}

	if err.Context["branch"] != "main" {
		t.Errorf("Context[branch] = %v, want main", err.Context["branch"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	sourceErr := New(CategorySource, SeverityWarning, "source error")
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match source category", configErr, CategorySource, false},
		{"source error matches source category", sourceErr, CategorySource, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := WrapError(cause, CategoryIndex, "index open failed")

	if !stdErrors.Is(err, cause) {
		t.Errorf("wrapped error should match cause via errors.Is")
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/config.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/config.yaml" {
			t.Errorf("Context[path] = %v, want /path/to/config.yaml", err.Context["path"])
		}
	})

	t.Run("SourceError", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := SourceError("https://example.com/wiki.git", cause)
		if err.Category != CategorySource {
			t.Errorf("Category = %v, want %v", err.Category, CategorySource)
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("Cause should match wrapped cause: %v", cause)
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("source.type", "unsupported value")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["field"] != "source.type" {
			t.Errorf("Context[field] = %v, want source.type", err.Context["field"])
		}
		if err.Context["reason"] != "unsupported value" {
			t.Errorf("Context[reason] = %v, want unsupported value", err.Context["reason"])
		}
	})
}
