// Package indexer runs the scan → extract → merge → write pipeline over the
// language directories of a blog root.
package indexer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/blogdex/internal/apperr"
	"github.com/starford/blogdex/internal/checksum"
	"github.com/starford/blogdex/internal/manifest"
	"github.com/starford/blogdex/internal/models"
	"github.com/starford/blogdex/internal/parser"
	"github.com/starford/blogdex/internal/storage"
)

// Options controls how each language directory is processed.
type Options struct {
	IndexName string // index file name, e.g. manifest.json
	Extension string // article extension, e.g. .md
	Policy    manifest.Policy
	Preview   bool // compute and print, never write
}

// Indexer processes language directories one at a time. It is not safe
// for concurrent use.
type Indexer struct {
	extractor parser.Extractor
	opts      Options
	out       io.Writer
	logger    *slog.Logger

	// sums holds the checksum of every article as left by the last pass,
	// keyed by absolute path. posts holds the entry extracted for it.
	sums  map[string]string
	posts map[string]models.Post
}

// New creates an Indexer. Preview payloads are written to out.
func New(extractor parser.Extractor, opts Options, out io.Writer, logger *slog.Logger) *Indexer {
	if opts.IndexName == "" {
		opts.IndexName = manifest.DefaultName
	}
	if opts.Extension == "" {
		opts.Extension = ".md"
	}
	if opts.Policy == "" {
		opts.Policy = manifest.PolicyPreserve
	}
	return &Indexer{
		extractor: extractor,
		opts:      opts,
		out:       out,
		logger:    logger,
		sums:      make(map[string]string),
		posts:     make(map[string]models.Post),
	}
}

// IndexRoot indexes every language directory under root. Languages whose
// directory is missing are skipped. It returns the directories that were
// processed.
func (ix *Indexer) IndexRoot(root string, langs []string) ([]string, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", apperr.ErrRootNotFound, root)
	}

	var done []string
	for _, lang := range langs {
		dir := filepath.Join(root, lang)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			ix.logger.Debug("skip missing dir", slog.String("dir", dir))
			continue
		}
		if _, err := ix.IndexDir(dir); err != nil {
			return done, err
		}
		done = append(done, dir)
	}

	if ix.opts.Preview {
		fmt.Fprintln(ix.out, "[dry-run] no files were written.")
	}
	return done, nil
}

// IndexDir extracts every article in dir, strips metadata from the
// article files and writes the directory's index. It returns the posts
// written to the index.
func (ix *Indexer) IndexDir(dir string) ([]models.Post, error) {
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, err
	}

	names, err := store.List(ix.opts.Extension)
	if err != nil {
		return nil, err
	}

	scanned := make([]models.Post, 0, len(names))
	for _, name := range names {
		post, err := ix.collect(store, name)
		if err != nil {
			return nil, err
		}
		scanned = append(scanned, post)
	}

	var existing []models.Post
	if ix.opts.Policy == manifest.PolicyPreserve {
		existing = manifest.Load(store, ix.opts.IndexName, ix.logger)
	}
	posts, data, err := manifest.Build(existing, scanned, ix.opts.Policy)
	if err != nil {
		return nil, err
	}

	label := filepath.Base(store.Root()) + "/" + ix.opts.IndexName
	if ix.opts.Preview {
		fmt.Fprintf(ix.out, "--- %s (dry-run) ---\n", label)
		if _, err := ix.out.Write(data); err != nil {
			return nil, fmt.Errorf("indexer: print preview: %w", err)
		}
		return posts, nil
	}

	if err := store.Write(ix.opts.IndexName, data); err != nil {
		return nil, fmt.Errorf("indexer: write %s: %w", label, err)
	}
	ix.logger.Debug("wrote manifest",
		slog.String("path", filepath.Join(store.Root(), ix.opts.IndexName)),
		slog.Int("posts", len(posts)))
	return posts, nil
}

// collect extracts one article and rewrites it when its metadata block
// was stripped. An article still holding the content the last pass left it
// with is not extracted again; its earlier entry is returned.
func (ix *Indexer) collect(store storage.Provider, name string) (models.Post, error) {
	slug := strings.TrimSuffix(name, filepath.Ext(name))
	path := filepath.Join(store.Root(), name)
	data, err := store.Read(name)
	if err != nil {
		return models.Post{}, err
	}

	sum := checksum.Sum(data)
	if prev, ok := ix.posts[path]; ok && ix.sums[path] == sum {
		ix.logger.Debug("unchanged", slog.String("file", name))
		return prev, nil
	}

	res := ix.extractor.Extract(slug, storage.DecodeText(data))
	switch {
	case res.Changed && !ix.opts.Preview:
		if err := store.Write(name, []byte(res.Body)); err != nil {
			return models.Post{}, fmt.Errorf("indexer: clean %s: %w", name, err)
		}
		sum = checksum.Sum([]byte(res.Body))
		ix.logger.Debug("stripped metadata", slog.String("file", name))
	case res.Changed:
		ix.logger.Debug("would strip metadata", slog.String("file", name))
	}

	ix.logger.Debug("collected",
		slog.String("dir", filepath.Base(store.Root())),
		slog.String("file", name),
		slog.String("title", res.Title),
		slog.String("date", res.Date),
		slog.Any("tags", res.Tags))

	post := models.Post{
		Slug:  slug,
		Title: res.Title,
		Date:  res.Date,
		Tags:  res.Tags,
	}
	ix.sums[path] = sum
	ix.posts[path] = post
	return post, nil
}

// unchanged reports whether the file at path still has the content the
// last pass left it with.
func (ix *Indexer) unchanged(path string) bool {
	sum, ok := ix.sums[path]
	if !ok {
		return false
	}
	current, err := checksum.File(path)
	return err == nil && current == sum
}
