package internal

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/blogdex/internal/manifest"
	"github.com/starford/blogdex/internal/parser"
)

var extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// Config represents the application configuration.
type Config struct {
	App  ApplicationConfig `yaml:"app"`
	Blog BlogConfig        `yaml:"blog"`
	Scan ScanConfig        `yaml:"scan"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Blog.Validate(); err != nil {
		return err
	}
	return c.Scan.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Verbose  bool       `yaml:"verbose"`
}

// Level returns the effective log level. Verbose forces debug.
func (c *ApplicationConfig) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return c.LogLevel
}

// BlogConfig describes where articles live.
type BlogConfig struct {
	Root      string   `yaml:"root"`
	Langs     []string `yaml:"langs"`
	IndexName string   `yaml:"index_name"`
	Extension string   `yaml:"extension"`
}

// Validate validates the blog configuration.
func (c *BlogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Langs, validation.Required, validation.Each(validation.Required, validation.By(plainName))),
		validation.Field(&c.IndexName, validation.Required, validation.By(plainName)),
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionRe)),
	)
}

// ScanConfig selects the extraction strategy and index retention policy.
//
// Merge may be left empty, in which case it follows the extractor:
//   - "footer" keeps existing index entries ("preserve").
//   - "header" rebuilds the index from scratch ("replace").
type ScanConfig struct {
	Extractor string `yaml:"extractor"`
	Merge     string `yaml:"merge"`
	DryRun    bool   `yaml:"dry_run"`
	Watch     bool   `yaml:"watch"`
}

// Validate validates the scan configuration. An empty Merge stays empty
// and is resolved by Policy.
func (c *ScanConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Extractor, validation.Required, validation.In(parser.StrategyFooter, parser.StrategyHeader)),
		validation.Field(&c.Merge, validation.In(string(manifest.PolicyPreserve), string(manifest.PolicyReplace))),
	)
}

// Policy returns the configured merge policy, or the extractor's default
// when none is set.
func (c *ScanConfig) Policy() manifest.Policy {
	if c.Merge == "" {
		return DefaultPolicy(c.Extractor)
	}
	return manifest.Policy(c.Merge)
}

// DefaultPolicy returns the merge policy paired with an extractor strategy.
func DefaultPolicy(extractor string) manifest.Policy {
	if extractor == parser.StrategyHeader {
		return manifest.PolicyReplace
	}
	return manifest.PolicyPreserve
}

func plainName(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return errors.New("must be a plain file or directory name")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Blog: BlogConfig{
			Root:      "blog",
			Langs:     []string{"en", "kr"},
			IndexName: manifest.DefaultName,
			Extension: ".md",
		},
		Scan: ScanConfig{
			Extractor: parser.StrategyFooter,
		},
	}
}
