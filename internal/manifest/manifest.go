// Package manifest builds, merges, sorts and serializes the per-language
// index file.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/starford/blogdex/internal/models"
	"github.com/starford/blogdex/internal/normalize"
	"github.com/starford/blogdex/internal/storage"
)

// DefaultName is the index file written into every language directory.
const DefaultName = "manifest.json"

// Policy selects how freshly scanned posts combine with a prior index.
type Policy string

const (
	// PolicyPreserve keeps every existing entry untouched and only adds
	// posts whose slug is not yet indexed.
	PolicyPreserve Policy = "preserve"
	// PolicyReplace discards the prior index and keeps only scanned posts.
	PolicyReplace Policy = "replace"
)

// Merge combines existing and scanned posts according to policy. The
// result is unsorted.
func Merge(existing, scanned []models.Post, policy Policy) []models.Post {
	if policy == PolicyReplace {
		return append([]models.Post(nil), scanned...)
	}

	out := make([]models.Post, 0, len(existing)+len(scanned))
	pos := make(map[string]int, len(existing)+len(scanned))
	for _, p := range existing {
		// A duplicated slug keeps its first position and last value.
		if i, ok := pos[p.Slug]; ok {
			out[i] = p
			continue
		}
		pos[p.Slug] = len(out)
		out = append(out, p)
	}
	for _, p := range scanned {
		if _, ok := pos[p.Slug]; ok {
			continue
		}
		pos[p.Slug] = len(out)
		out = append(out, p)
	}
	return out
}

// Sort orders posts newest first. Posts without a valid ISO date go last.
// Ties are broken by lowercased slug. The sort is stable.
func Sort(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return sortKeyOf(posts[i]).less(sortKeyOf(posts[j]))
	})
}

type sortKey struct {
	undated bool
	date    time.Time
	slug    string
}

func sortKeyOf(p models.Post) sortKey {
	k := sortKey{undated: true, slug: strings.ToLower(p.Slug)}
	if t, err := time.Parse(normalize.ISOLayout, p.Date); err == nil {
		k.undated, k.date = false, t
	}
	return k
}

func (k sortKey) less(o sortKey) bool {
	if k.undated != o.undated {
		return !k.undated
	}
	if !k.date.Equal(o.date) {
		return k.date.After(o.date)
	}
	return k.slug < o.slug
}

// Load reads the index called name from store. A missing file yields no
// posts; an unparsable one is logged and treated as empty.
func Load(store storage.Provider, name string, logger *slog.Logger) []models.Post {
	if !store.Exists(name) {
		return nil
	}
	data, err := store.Read(name)
	if err != nil {
		logger.Warn("manifest: read existing failed",
			slog.String("path", name),
			slog.String("error", err.Error()))
		return nil
	}
	var m models.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Warn("manifest: failed to parse existing manifest",
			slog.String("dir", store.Root()),
			slog.String("error", err.Error()))
		return nil
	}
	return m.Posts
}

// Encode renders posts as the index document: two-space indentation,
// unescaped non-ASCII and HTML characters, tags always present, and a
// trailing newline.
func Encode(posts []models.Post) ([]byte, error) {
	doc := models.Manifest{Posts: make([]models.Post, len(posts))}
	for i, p := range posts {
		if p.Tags == nil {
			p.Tags = []string{}
		}
		doc.Posts[i] = p
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Build merges scanned posts into existing ones, sorts them and encodes
// the result.
func Build(existing, scanned []models.Post, policy Policy) ([]models.Post, []byte, error) {
	merged := Merge(existing, scanned, policy)
	Sort(merged)
	data, err := Encode(merged)
	if err != nil {
		return nil, nil, err
	}
	return merged, data, nil
}
