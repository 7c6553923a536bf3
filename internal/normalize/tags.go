package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

var tagSplitRe = regexp.MustCompile(`[,\s]+`)

// Tags flattens v into a deduplicated tag list.
//
// v may be nil, a string ("[a, b]" or "a, b c"), a []string or a []any.
// Tokens lose surrounding quotes and a leading '#'. Duplicates are detected
// case-insensitively; the first spelling and position win. The result is
// never nil.
func Tags(v any) []string {
	var parts []string
	switch t := v.(type) {
	case nil:
	case string:
		parts = SplitTags(t)
	case []string:
		parts = t
	case []any:
		parts = make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			parts = append(parts, fmt.Sprint(item))
		}
	}
	return dedupe(parts)
}

// SplitTags splits a scalar tag string. A bracketed value is split on
// commas only; anything else on runs of commas and whitespace.
func SplitTags(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return strings.Split(s[1:len(s)-1], ",")
	}
	return tagSplitRe.Split(s, -1)
}

func dedupe(parts []string) []string {
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = cleanTag(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func cleanTag(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `'"`)
	return strings.TrimLeft(s, "#")
}
