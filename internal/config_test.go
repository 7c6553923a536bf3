package internal

import (
	"log/slog"
	"testing"

	"github.com/starford/blogdex/internal/manifest"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.Scan.Policy() != manifest.PolicyPreserve {
		t.Errorf("policy = %q, want preserve", cfg.Scan.Policy())
	}
}

func TestScanConfig_ValidateKeepsMergeUnset(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Scan.Merge != "" {
		t.Fatalf("merge = %q, want unset", cfg.Scan.Merge)
	}

	// Switching the extractor after a file was loaded and validated must
	// still pick the extractor's own policy.
	cfg.Scan.Extractor = "header"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Scan.Policy() != manifest.PolicyReplace {
		t.Errorf("policy = %q, want replace", cfg.Scan.Policy())
	}
}

func TestScanConfig_EmptyMergeFollowsExtractor(t *testing.T) {
	cfg := ScanConfig{Extractor: "header"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("header extractor should pass: %v", err)
	}
	if cfg.Policy() != manifest.PolicyReplace {
		t.Errorf("policy = %q, want replace", cfg.Policy())
	}
}

func TestScanConfig_ExplicitMergeWins(t *testing.T) {
	cfg := ScanConfig{Extractor: "header", Merge: "preserve"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Policy() != manifest.PolicyPreserve {
		t.Errorf("policy = %q, want preserve", cfg.Policy())
	}
}

func TestScanConfig_InvalidValues(t *testing.T) {
	cases := []ScanConfig{
		{Extractor: "sideways"},
		{Extractor: ""},
		{Extractor: "footer", Merge: "append"},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("%+v should fail validation", c)
		}
	}
}

func TestBlogConfig_Invalid(t *testing.T) {
	cases := map[string]func(*BlogConfig){
		"empty root":      func(c *BlogConfig) { c.Root = "" },
		"no langs":        func(c *BlogConfig) { c.Langs = nil },
		"blank lang":      func(c *BlogConfig) { c.Langs = []string{"en", ""} },
		"nested lang":     func(c *BlogConfig) { c.Langs = []string{"en/old"} },
		"index with path": func(c *BlogConfig) { c.IndexName = "../manifest.json" },
		"bad extension":   func(c *BlogConfig) { c.Extension = "md" },
	}
	for name, mutate := range cases {
		cfg := NewDefaultConfig().Blog
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestApplicationConfig_VerboseForcesDebug(t *testing.T) {
	cfg := ApplicationConfig{LogLevel: slog.LevelWarn}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("level = %v", cfg.Level())
	}
	cfg.Verbose = true
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("verbose level = %v, want debug", cfg.Level())
	}
}
