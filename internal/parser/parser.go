// Package parser extracts title, date and tags from article text and
// returns the article body with the metadata markup removed.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/starford/blogdex/internal/apperr"
)

// Strategy names accepted by New.
const (
	StrategyFooter = "footer"
	StrategyHeader = "header"
)

var h1Re = regexp.MustCompile(`(?m)^[ \t]*#[ \t]+(.+?)\s*$`)

// Result holds the output of extracting one article.
type Result struct {
	Title   string
	Date    string
	Tags    []string
	Body    string
	Changed bool // Body differs from the input text
}

// Extractor pulls metadata out of article text.
type Extractor interface {
	// Extract parses text belonging to the article with the given slug.
	// It never fails: missing or malformed metadata yields empty fields.
	Extract(slug, text string) Result
}

// New returns the extractor registered under strategy.
func New(strategy string) (Extractor, error) {
	switch strategy {
	case StrategyFooter:
		return Footer{}, nil
	case StrategyHeader:
		return Header{}, nil
	default:
		return nil, fmt.Errorf("parser: %w: %q", apperr.ErrUnknownStrategy, strategy)
	}
}

// FirstHeading returns the text of the first level-1 heading, or "".
func FirstHeading(text string) string {
	m := h1Re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// resolveTitle applies the fallback chain: metadata, heading, slug.
func resolveTitle(meta, text, slug string) string {
	if meta != "" {
		return meta
	}
	if h := FirstHeading(text); h != "" {
		return h
	}
	return slug
}

// splitLines right-trims text and splits it into lines, folding CRLF.
func splitLines(text string) []string {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if trimmed == "" {
		return nil
	}
	trimmed = strings.ReplaceAll(trimmed, "\r\n", "\n")
	return strings.Split(trimmed, "\n")
}

// joinBody joins lines back into a body ending in exactly one newline.
func joinBody(lines []string) string {
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace) + "\n"
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
