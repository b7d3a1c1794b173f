package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPCache_SaveLoad(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: t.TempDir()}
	url := "https://en.wikipedia.org/wiki/Vanuatu"
	if err := c.Save(context.Background(), url, "text/html", `"v1"`, "Mon, 02 Jan 2006 15:04:05 GMT", []byte("<h2>History</h2>")); err != nil {
		t.Fatalf("save: %v", err)
	}
	meta, err := c.LoadMeta(context.Background(), url)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.ETag != `"v1"` || meta.URL != url || meta.SavedAt.IsZero() {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	body, err := c.LoadBody(context.Background(), url)
	if err != nil {
		t.Fatalf("load body: %v", err)
	}
	if string(body) != "<h2>History</h2>" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestHTTPCache_MissingEntry(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: t.TempDir()}
	if _, err := c.LoadMeta(context.Background(), "https://example.com/none"); err == nil {
		t.Fatalf("expected error for missing meta")
	}
}

func TestHTTPCache_Unconfigured(t *testing.T) {
	t.Parallel()
	var c HTTPCache
	if err := c.Save(context.Background(), "u", "", "", "", nil); err == nil {
		t.Fatalf("expected error without dir")
	}
}

func TestPurgeHTTPCacheByAge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	ctx := context.Background()
	if err := c.Save(ctx, "https://a/old", "text/html", "", "", []byte("old")); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := c.Save(ctx, "https://a/new", "text/html", "", "", []byte("new")); err != nil {
		t.Fatalf("save new: %v", err)
	}
	// Backdate the first entry.
	metaPath := filepath.Join(dir, c.key("https://a/old")+".meta.json")
	old := HTTPEntry{URL: "https://a/old", SavedAt: time.Now().Add(-48 * time.Hour)}
	b, _ := json.Marshal(old)
	if err := os.WriteFile(metaPath, b, 0o644); err != nil {
		t.Fatalf("rewrite meta: %v", err)
	}

	removed, err := PurgeHTTPCacheByAge(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := c.LoadBody(ctx, "https://a/old"); err == nil {
		t.Fatalf("expected old body removed")
	}
	if _, err := c.LoadBody(ctx, "https://a/new"); err != nil {
		t.Fatalf("expected new body kept: %v", err)
	}
}

func TestClearDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x.body"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
	if err := ClearDir("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
