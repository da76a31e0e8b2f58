package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewFileStoreRequiresBasePath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatalf("expected error for blank base path")
	}
}

func TestWriteAndSaveExport(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	at := time.Unix(1700000000, 0)
	key, err := store.SaveExport(context.Background(), "studio", "image/jpeg", at, []byte("payload"))
	if err != nil {
		t.Fatalf("SaveExport: %v", err)
	}
	if key != "studio-1700000000.jpg" {
		t.Fatalf("unexpected key %q", key)
	}
	data, err := os.ReadFile(filepath.Join(dir, key))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, key := range []string{"", "  ", "../escape.png", "a/../../escape.png", "."} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("key %q accepted", key)
		}
	}
	// Leading slashes and dot segments get cleaned, not rejected.
	key, err := store.Write(context.Background(), "/nested/./file.png", []byte("x"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "nested/file.png" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestExportFilename(t *testing.T) {
	at := time.Unix(42, 0)
	if got := ExportFilename("outdoor", "image/png", at); got != "outdoor-42.png" {
		t.Fatalf("got %q", got)
	}
	if got := ExportFilename("  ", "image/webp", at); got != "edited-42.webp" {
		t.Fatalf("got %q", got)
	}
}

func TestExtensionForMIME(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":      ".jpg",
		"image/jpg":       ".jpg",
		"IMAGE/PNG":       ".png",
		"":                ".png",
		"image/webp":      ".webp",
		"image/gif":       ".gif",
		"application/pdf": ".bin",
	}
	for mime, want := range cases {
		if got := ExtensionForMIME(mime); got != want {
			t.Errorf("ExtensionForMIME(%q) = %q, want %q", mime, got, want)
		}
	}
}
