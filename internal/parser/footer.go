package parser

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/blogdex/internal/normalize"
)

const footerLines = 4

var footerKeyRe = regexp.MustCompile(`^\s*(title|date|tags)\s*:\s*(.+?)\s*$`)

// Footer treats the last four lines of an article as its metadata block.
//
// Detection is positional: the four lines are removed from the body even
// when they hold no metadata, so an article whose final four lines are
// prose loses them.
type Footer struct{}

// Extract implements Extractor.
func (Footer) Extract(slug, text string) Result {
	lines := splitLines(text)
	if len(lines) < footerLines {
		return Result{
			Title: resolveTitle("", text, slug),
			Tags:  []string{},
			Body:  text,
		}
	}

	block := lines[len(lines)-footerLines:]
	meta := decodeFooterYAML(block)
	if len(meta) == 0 {
		meta = matchFooterKeys(block)
	}

	title := strings.Trim(strings.TrimSpace(scalarString(meta["title"])), `'"`)
	body := joinBody(lines[:len(lines)-footerLines])

	return Result{
		Title:   resolveTitle(title, text, slug),
		Date:    normalize.Date(meta["date"]),
		Tags:    normalize.Tags(meta["tags"]),
		Body:    body,
		Changed: body != text,
	}
}

// decodeFooterYAML keeps the title, date and tags keys of block when it
// decodes as a YAML mapping.
func decodeFooterYAML(block []string) map[string]any {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &doc); err != nil {
		return nil
	}
	out := make(map[string]any, 3)
	for _, k := range []string{"title", "date", "tags"} {
		if v, ok := doc[k]; ok {
			out[k] = v
		}
	}
	return out
}

func matchFooterKeys(block []string) map[string]any {
	out := make(map[string]any, 3)
	for _, line := range block {
		if m := footerKeyRe.FindStringSubmatch(line); m != nil {
			out[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return out
}
