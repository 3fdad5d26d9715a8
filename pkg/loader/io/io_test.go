package io

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vanshavali/pkg/loader"
)

func TestGetFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewIOSourceFileLoader()
	file := loader.NewCSVSourceFile(loader.NewSourceFileParams{
		ID:       "t1",
		FilePath: path,
		Loader:   l,
	})

	got, err := file.GetText(context.Background())
	if err != nil {
		t.Fatalf("GetText() error = %v", err)
	}
	if string(got) != "a,b,c\n" {
		t.Errorf("GetText() = %q", got)
	}

	// second read must come from cache even after the file is gone
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	got, err = file.GetText(context.Background())
	if err != nil {
		t.Fatalf("GetText() from cache error = %v", err)
	}
	if string(got) != "a,b,c\n" {
		t.Errorf("GetText() from cache = %q", got)
	}
}

func TestEvict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewIOSourceFileLoader()
	file := loader.NewCSVSourceFile(loader.NewSourceFileParams{
		ID:       "t4",
		FilePath: path,
		Loader:   l,
	})

	if _, err := file.GetText(context.Background()); err != nil {
		t.Fatalf("GetText() error = %v", err)
	}

	l.Evict(file)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := file.GetText(context.Background()); err == nil {
		t.Fatal("expected error after eviction, got cached content")
	}
}

func TestGetFileTextMissing(t *testing.T) {
	l := NewIOSourceFileLoader()
	file := loader.NewCSVSourceFile(loader.NewSourceFileParams{
		ID:       "t2",
		FilePath: filepath.Join(t.TempDir(), "nope.csv"),
		Loader:   l,
	})

	if _, err := file.GetText(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInlineTextSource(t *testing.T) {
	file := loader.NewTextSourceFile("t3", "x,y,z")

	got, err := file.GetText(context.Background())
	if err != nil {
		t.Fatalf("GetText() error = %v", err)
	}
	if string(got) != "x,y,z" {
		t.Errorf("GetText() = %q", got)
	}
}
