package parser

import (
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/starford/blogdex/internal/normalize"
)

const headerDelim = "---"

var (
	headerFormat = frontmatter.NewFormat(headerDelim, headerDelim, yaml.Unmarshal)
	tagsLineRe   = regexp.MustCompile(`^\s*tags\s*:\s*(.*?)\s*$`)
)

// Header reads title and date from a leading "---" YAML block and tags
// from a trailing "tags:" footer. Only the footer is stripped.
type Header struct{}

// Extract implements Extractor.
func (Header) Extract(slug, text string) Result {
	lines := splitLines(text)
	floor := headerEnd(lines)
	var meta map[string]any
	if floor > 0 {
		meta = decodeHeader(text)
	}

	res := Result{
		Title: resolveTitle(strings.TrimSpace(scalarString(meta["title"])), strings.Join(lines[floor:], "\n"), slug),
		Date:  normalize.Date(meta["date"]),
		Tags:  []string{},
		Body:  text,
	}

	idx := findTagsFooter(lines, floor)
	if idx < 0 {
		return res
	}
	res.Tags = parseTagsFooter(lines[idx:])
	res.Body = joinBody(lines[:idx])
	res.Changed = res.Body != text
	return res
}

// decodeHeader decodes the leading YAML block. A missing or malformed
// block yields nil.
func decodeHeader(text string) map[string]any {
	var meta map[string]any
	if _, err := frontmatter.Parse(strings.NewReader(text), &meta, headerFormat); err != nil {
		return nil
	}
	return meta
}

// headerEnd returns the index of the first line after a "---" ... "---"
// block opening on the first line, or 0 when the text has none.
func headerEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != headerDelim {
		return 0
	}
	for j := 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == headerDelim {
			return j + 1
		}
	}
	return 0
}

// findTagsFooter walks the trailing run of non-blank lines upwards and
// returns the index of its "tags:" line, or -1. Every line below the
// "tags:" line must be a list item or an indented continuation. Lines
// before floor belong to the header and are never considered.
func findTagsFooter(lines []string, floor int) int {
	continued := true
	for i := len(lines) - 1; i >= floor; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			return -1
		}
		if tagsLineRe.MatchString(lines[i]) {
			if !continued {
				return -1
			}
			return i
		}
		continued = continued && isContinuation(lines[i])
	}
	return -1
}

// isContinuation reports whether line can follow a "tags:" line.
func isContinuation(line string) bool {
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return true
	}
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")
}

// parseTagsFooter reads an inline value ("tags: [a, b]" or "tags: a b")
// followed by optional "-"/"*" items or continuation lines.
func parseTagsFooter(footer []string) []string {
	m := tagsLineRe.FindStringSubmatch(footer[0])
	var parts []string
	if m != nil {
		parts = normalize.SplitTags(m[1])
	}
	for _, line := range footer[1:] {
		item := strings.TrimSpace(line)
		if strings.HasPrefix(item, "-") || strings.HasPrefix(item, "*") {
			parts = append(parts, strings.TrimSpace(item[1:]))
			continue
		}
		parts = append(parts, normalize.SplitTags(item)...)
	}
	return normalize.Tags(parts)
}
