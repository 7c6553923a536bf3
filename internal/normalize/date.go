// Package normalize canonicalizes article dates and tag lists.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISOLayout is the only date format written to the index.
const ISOLayout = "2006-01-02"

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// altLayouts are tried in order after the ISO check. Go's non-padded
// month/day verbs accept both "1" and "01".
var altLayouts = []string{
	"2006/1/2",
	"2006.1.2",
	"2-1-2006",
	"1/2/2006",
}

// Date returns v as YYYY-MM-DD, or "" when no format matches.
// Strings already shaped like an ISO date are returned unchanged.
func Date(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format(ISOLayout)
	case *time.Time:
		if d == nil {
			return ""
		}
		return Date(*d)
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return ""
	}
	if isoDateRe.MatchString(s) {
		return s
	}
	for _, layout := range altLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISOLayout)
		}
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t.Format(ISOLayout)
	}
	return ""
}

// IsISO reports whether s is a real calendar date in YYYY-MM-DD form.
func IsISO(s string) bool {
	_, err := time.Parse(ISOLayout, s)
	return err == nil
}
