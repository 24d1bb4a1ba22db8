package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marco/movielog/internal/record"
	"github.com/marco/movielog/internal/store"
)

func TestWatchChangeHandlerReloadsStore(t *testing.T) {
	dir := t.TempDir()
	s, _, err := store.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, title := range []string{"Heat", "Stalker"} {
		if err := s.Upsert(&record.MovieRecord{
			Title:  title,
			Year:   1995,
			Status: record.StatusToWatch,
		}); err != nil {
			t.Fatalf("Upsert(%q) failed: %v", title, err)
		}
	}
	badPath := filepath.Join(dir, "broken.md")
	if err := os.WriteFile(badPath, []byte("no frontmatter here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	watchChangeHandler(dir)(badPath)

	out := buf.String()
	if !strings.Contains(out, "record document is malformed") {
		t.Errorf("changed document not revalidated:\n%s", out)
	}
	if !strings.Contains(out, "record store reloaded") {
		t.Errorf("store not reloaded after change:\n%s", out)
	}
	if !strings.Contains(out, "records=2") || !strings.Contains(out, "malformed=1") {
		t.Errorf("reload summary wrong:\n%s", out)
	}
}
