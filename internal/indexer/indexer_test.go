package indexer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/blogdex/internal/apperr"
	"github.com/starford/blogdex/internal/manifest"
	"github.com/starford/blogdex/internal/models"
	"github.com/starford/blogdex/internal/parser"
	"github.com/starford/blogdex/internal/testutil"
)

const footerArticle = "# Hello\n\nBody text.\n\ntitle: Hello Post\ndate: 2024/01/05\ntags: go, Go, cli\n"

func newIndexer(t *testing.T, strategy string, opts Options, out *bytes.Buffer) *Indexer {
	t.Helper()
	ex, err := parser.New(strategy)
	if err != nil {
		t.Fatal(err)
	}
	if out == nil {
		out = &bytes.Buffer{}
	}
	return New(ex, opts, out, testutil.QuietLogger())
}

func TestIndexRoot_FooterStripsAndWrites(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"en/hello.md":   footerArticle,
		"en/my-post.md": "no heading here\n",
		"en/notes.txt":  "ignored",
	})
	ix := newIndexer(t, parser.StrategyFooter, Options{}, nil)

	done, err := ix.IndexRoot(root, []string{"en", "kr"})
	if err != nil {
		t.Fatalf("IndexRoot: %v", err)
	}
	if len(done) != 1 {
		t.Errorf("processed %v, want only en", done)
	}

	if got := testutil.ReadFile(t, root, "en/hello.md"); got != "# Hello\n\nBody text.\n" {
		t.Errorf("hello.md not stripped: %q", got)
	}
	if got := testutil.ReadFile(t, root, "en/my-post.md"); got != "no heading here\n" {
		t.Errorf("short article modified: %q", got)
	}

	m := testutil.ReadManifest(t, root, "en/manifest.json")
	want := []models.Post{
		{Slug: "hello", Title: "Hello Post", Date: "2024-01-05", Tags: []string{"go", "cli"}},
		{Slug: "my-post", Title: "my-post", Date: "", Tags: []string{}},
	}
	if !reflect.DeepEqual(m.Posts, want) {
		t.Errorf("posts = %+v, want %+v", m.Posts, want)
	}
	if _, err := os.Stat(filepath.Join(root, "kr", "manifest.json")); err == nil {
		t.Error("manifest written for missing language")
	}
}

func TestIndexRoot_PreviewWritesNothing(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"en/hello.md": footerArticle,
	})
	var out bytes.Buffer
	ix := newIndexer(t, parser.StrategyFooter, Options{Preview: true}, &out)

	if _, err := ix.IndexRoot(root, []string{"en"}); err != nil {
		t.Fatalf("IndexRoot: %v", err)
	}

	if got := testutil.ReadFile(t, root, "en/hello.md"); got != footerArticle {
		t.Errorf("article modified in preview: %q", got)
	}
	if _, err := os.Stat(filepath.Join(root, "en", "manifest.json")); !os.IsNotExist(err) {
		t.Errorf("manifest written in preview mode (stat err %v)", err)
	}

	printed := out.String()
	for _, want := range []string{
		"--- en/manifest.json (dry-run) ---\n",
		`"slug": "hello"`,
		`"title": "Hello Post"`,
		"[dry-run] no files were written.\n",
	} {
		if !strings.Contains(printed, want) {
			t.Errorf("preview output missing %q:\n%s", want, printed)
		}
	}
}

func TestIndexDir_FooterSecondPassKeepsCleanedArticles(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"en/hello.md": footerArticle,
	})
	ix := newIndexer(t, parser.StrategyFooter, Options{}, nil)
	dir := filepath.Join(root, "en")

	if _, err := ix.IndexDir(dir); err != nil {
		t.Fatalf("IndexDir: %v", err)
	}
	posts, err := ix.IndexDir(dir)
	if err != nil {
		t.Fatalf("second IndexDir: %v", err)
	}

	if got := testutil.ReadFile(t, root, "en/hello.md"); got != "# Hello\n\nBody text.\n" {
		t.Errorf("second pass truncated article again: %q", got)
	}
	if len(posts) != 1 || posts[0].Title != "Hello Post" || posts[0].Date != "2024-01-05" {
		t.Errorf("posts = %+v", posts)
	}
}

func TestIndexDir_PreserveNeverUpdatesExisting(t *testing.T) {
	prior, err := manifest.Encode([]models.Post{
		{Slug: "hello", Title: "Frozen Title", Date: "2020-01-01"},
		{Slug: "deleted", Title: "Deleted Article", Date: "2019-01-01"},
	})
	if err != nil {
		t.Fatal(err)
	}
	root := testutil.TestRoot(t, map[string]string{
		"en/hello.md":      footerArticle,
		"en/fresh.md":      "# Fresh\n",
		"en/manifest.json": string(prior),
	})
	ix := newIndexer(t, parser.StrategyFooter, Options{Policy: manifest.PolicyPreserve}, nil)

	if _, err := ix.IndexDir(filepath.Join(root, "en")); err != nil {
		t.Fatalf("IndexDir: %v", err)
	}

	m := testutil.ReadManifest(t, root, "en/manifest.json")
	var order []string
	for _, p := range m.Posts {
		order = append(order, p.Slug)
	}
	if !reflect.DeepEqual(order, []string{"hello", "deleted", "fresh"}) {
		t.Errorf("order = %v", order)
	}
	if m.Posts[0].Title != "Frozen Title" || m.Posts[0].Date != "2020-01-01" {
		t.Errorf("existing entry updated: %+v", m.Posts[0])
	}
	if m.Posts[2].Title != "Fresh" {
		t.Errorf("fresh title = %q", m.Posts[2].Title)
	}
}

func TestIndexDir_MalformedManifestTreatedAsEmpty(t *testing.T) {
	root := testutil.TestRoot(t, map[string]string{
		"en/a.md":          "# A\n",
		"en/manifest.json": "{oops",
	})
	ix := newIndexer(t, parser.StrategyFooter, Options{}, nil)

	if _, err := ix.IndexDir(filepath.Join(root, "en")); err != nil {
		t.Fatalf("IndexDir: %v", err)
	}
	m := testutil.ReadManifest(t, root, "en/manifest.json")
	if len(m.Posts) != 1 || m.Posts[0].Slug != "a" || m.Posts[0].Title != "A" {
		t.Errorf("posts = %+v", m.Posts)
	}
}

func TestIndexDir_HeaderReplaceDropsStaleEntries(t *testing.T) {
	prior, _ := manifest.Encode([]models.Post{{Slug: "stale", Title: "Stale"}})
	root := testutil.TestRoot(t, map[string]string{
		"kr/post.md":       "---\ntitle: 글 제목\ndate: 2024-02-03\n---\n본문\n\ntags: [go, Go, rust]\n",
		"kr/manifest.json": string(prior),
	})
	ix := newIndexer(t, parser.StrategyHeader, Options{Policy: manifest.PolicyReplace}, nil)

	if _, err := ix.IndexDir(filepath.Join(root, "kr")); err != nil {
		t.Fatalf("IndexDir: %v", err)
	}

	m := testutil.ReadManifest(t, root, "kr/manifest.json")
	want := []models.Post{{Slug: "post", Title: "글 제목", Date: "2024-02-03", Tags: []string{"go", "rust"}}}
	if !reflect.DeepEqual(m.Posts, want) {
		t.Errorf("posts = %+v, want %+v", m.Posts, want)
	}
	body := "---\ntitle: 글 제목\ndate: 2024-02-03\n---\n본문\n"
	if got := testutil.ReadFile(t, root, "kr/post.md"); got != body {
		t.Errorf("article = %q, want %q", got, body)
	}

	// A second pass finds nothing left to strip.
	if _, err := ix.IndexDir(filepath.Join(root, "kr")); err != nil {
		t.Fatalf("second IndexDir: %v", err)
	}
	if got := testutil.ReadFile(t, root, "kr/post.md"); got != body {
		t.Errorf("second pass modified article: %q", got)
	}
}

func TestIndexRoot_MissingRoot(t *testing.T) {
	ix := newIndexer(t, parser.StrategyFooter, Options{}, nil)
	_, err := ix.IndexRoot(filepath.Join(t.TempDir(), "nope"), []string{"en"})
	if !errors.Is(err, apperr.ErrRootNotFound) {
		t.Errorf("err = %v, want ErrRootNotFound", err)
	}
}

func TestIndexRoot_NoLanguagesIsNotAnError(t *testing.T) {
	root := testutil.TestRoot(t, nil)
	ix := newIndexer(t, parser.StrategyFooter, Options{}, nil)
	done, err := ix.IndexRoot(root, []string{"en", "kr"})
	if err != nil {
		t.Fatalf("IndexRoot: %v", err)
	}
	if len(done) != 0 {
		t.Errorf("done = %v", done)
	}
}
