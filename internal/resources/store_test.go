package resources_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"curriculum/internal/diag"
	"curriculum/internal/markdown"
	"curriculum/internal/resources"
)

func writeFile(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func hashName(data, ext string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:]) + ext
}

func TestIsLocal(t *testing.T) {
	tests := map[string]bool{
		"img/a.png":             true,
		"a.png?v=2#top":         true,
		"../shared/diagram.svg": true,
		"my%20pic.png":          true,
		"https://example.com/a": false,
		"http://x":              false,
		"mailto:me@example.com": false,
		"data:image/png;base64": false,
		"//cdn.example.com/x":   false,
		"/static/x.png":         false,
		"#section":              false,
		"":                      false,
	}
	for ref, want := range tests {
		if got := resources.IsLocal(ref); got != want {
			t.Errorf("IsLocal(%q) = %v, want %v", ref, got, want)
		}
	}
}

func TestLookupPath(t *testing.T) {
	tests := map[string]string{
		"a.png?v=2":    "a.png",
		"a.png#frag":   "a.png",
		"my%20pic.png": "my pic.png",
		"bad%zz.png":   "bad%zz.png",
	}
	for ref, want := range tests {
		if got := resources.LookupPath(ref); got != want {
			t.Errorf("LookupPath(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestRewriterIsIdempotentWithSingleCopy(t *testing.T) {
	content := t.TempDir()
	root := filepath.Join(t.TempDir(), "public", "resources")
	writeFile(t, filepath.Join(content, "track", "img", "logo.png"), "PNGDATA")
	writeFile(t, filepath.Join(content, "track", "m1", "copy.png"), "PNGDATA")

	lockPath := filepath.Join(t.TempDir(), "state", "resources.lock")
	store := resources.NewStore(root, "", resources.WithLockPath(lockPath))
	diags := &diag.Collector{}
	ctx := context.Background()

	first := store.Rewriter(ctx, content, filepath.Join(content, "track"), "track.md", diags)
	second := store.Rewriter(ctx, content, filepath.Join(content, "track", "m1"), "mission.md", diags)

	want := "/static/resources/" + hashName("PNGDATA", ".png")
	for i, tc := range []struct {
		fn  markdown.RewriteFunc
		ref string
	}{
		{first, "img/logo.png"},
		{first, "img/logo.png?size=2"},
		{second, "copy.png"},
	} {
		got, ok := tc.fn(tc.ref)
		if !ok || got != want {
			t.Fatalf("case %d: rewrite(%q) = %q, %v; want %q", i, tc.ref, got, ok, want)
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != hashName("PNGDATA", ".png") {
		t.Fatalf("expected exactly one store file, got %v", entries)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Fatalf("expected store lock file: %v", err)
	}
	if _, err := os.Stat(root + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("expected no lock file beside the served store, got %v", err)
	}

	stats := store.Stats()
	if stats.Stored != 1 || stats.Rewritten != 3 || stats.Copied != 3 || stats.Missing != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(diags.Entries()) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags.Entries())
	}
}

func TestRewriterLeavesRemoteAndReportsMissing(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "dir", "keep.txt"), "x")
	store := resources.NewStore(filepath.Join(t.TempDir(), "store"), "/media/")
	diags := &diag.Collector{}
	rewrite := store.Rewriter(context.Background(), base, base, "track.md", diags)

	for _, ref := range []string{"https://example.com/a.png", "/abs.png", "#top", "missing.png", "dir"} {
		if got, ok := rewrite(ref); ok {
			t.Fatalf("rewrite(%q) = %q, expected untouched", ref, got)
		}
	}

	missing := diags.Entries()
	if len(missing) != 2 || !strings.Contains(missing[0].Message, "missing resource") {
		t.Fatalf("expected two missing-resource diagnostics, got %v", diags.Entries())
	}
	if missing[0].Severity != diag.SeverityError || missing[0].Subject != "track.md" {
		t.Fatalf("unexpected diagnostic %+v", missing[0])
	}
	stats := store.Stats()
	if stats.Untouched != 3 || stats.Missing != 2 || stats.Rewritten != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRewriterRejectsReferencesOutsideContentRoot(t *testing.T) {
	base := t.TempDir()
	content := filepath.Join(base, "content")
	writeFile(t, filepath.Join(base, "secret.txt"), "TOP SECRET")
	writeFile(t, filepath.Join(content, "track", "m1", "mission.md"), "x")
	if err := os.Symlink(filepath.Join(base, "secret.txt"), filepath.Join(content, "track", "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	root := filepath.Join(base, "public", "resources")
	store := resources.NewStore(root, "")
	diags := &diag.Collector{}
	rewrite := store.Rewriter(context.Background(), content, filepath.Join(content, "track", "m1"), "mission.md", diags)

	for _, ref := range []string{"../../../secret.txt", "../../../secret.txt?v=1", "..%2F..%2F..%2Fsecret.txt", "../link.txt"} {
		if got, ok := rewrite(ref); ok {
			t.Fatalf("rewrite(%q) = %q, expected rejection", ref, got)
		}
	}

	entries := diags.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected four diagnostics, got %v", entries)
	}
	for _, e := range entries {
		if e.Severity != diag.SeverityError || !strings.Contains(e.Message, "outside the content root") {
			t.Fatalf("unexpected diagnostic %+v", e)
		}
	}
	if stats := store.Stats(); stats.Rejected != 4 || stats.Stored != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}

func TestRenderWithStore(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "sheet.pdf"), "PDF")
	store := resources.NewStore(filepath.Join(t.TempDir(), "store"), "/media")

	html, err := markdown.NewRenderer().Render(
		[]byte("[sheet](sheet.pdf) [site](https://example.com)\n"),
		store.Rewriter(context.Background(), base, base, "mission.md", &diag.Collector{}),
	)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, `href="/media/`+hashName("PDF", ".pdf")+`"`) {
		t.Fatalf("local link not rewritten: %s", got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Fatalf("remote link changed: %s", got)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "a.txt"), "hello")
	root := filepath.Join(t.TempDir(), "store")
	store := resources.NewStore(root, "", resources.WithDryRun())

	name, err := store.Put(filepath.Join(base, "a.txt"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if name != hashName("hello", ".txt") {
		t.Fatalf("unexpected name %q", name)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("dry run created store root: %v", err)
	}
	if stats := store.Stats(); stats.Copied != 0 || stats.Stored != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestPutWithoutExtension(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "LICENSE"), "mit")
	store := resources.NewStore(filepath.Join(t.TempDir(), "store"), "")

	name, err := store.Put(filepath.Join(base, "LICENSE"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if name != hashName("mit", "") {
		t.Fatalf("unexpected name %q", name)
	}
	if store.URL(name) != "/static/resources/"+name {
		t.Fatalf("unexpected url %q", store.URL(name))
	}
}
