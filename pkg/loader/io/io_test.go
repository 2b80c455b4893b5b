package io

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestGetDocumentRereadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "letters.xml")
	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewIODocumentLoader()
	ctx := context.Background()
	got, err := l.GetDocument(ctx, path)
	if err != nil || string(got) != "first" {
		t.Fatalf("GetDocument() = %q, %v", got, err)
	}

	if err := os.WriteFile(path, []byte("second!"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	got, err = l.GetDocument(ctx, path)
	if err != nil || string(got) != "second!" {
		t.Fatalf("GetDocument() after rewrite = %q, %v", got, err)
	}
}

func TestGetDocumentMissing(t *testing.T) {
	if _, err := NewIODocumentLoader().GetDocument(context.Background(), filepath.Join(t.TempDir(), "none.xml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xml", "a.XML", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.xml"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := NewIODocumentLoader().ListDocuments(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.XML"), filepath.Join(dir, "b.xml")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListDocuments() = %v, want %v", got, want)
	}
}
