package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDiskStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "uploads", 1024)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	url, err := store.Save(ctx, "jane_doe_1.pdf", strings.NewReader("%PDF-1.7 body"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "/uploads/jane_doe_1.pdf" {
		t.Fatalf("unexpected url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "jane_doe_1.pdf"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "%PDF-1.7 body" {
		t.Fatalf("content mismatch: %q", data)
	}

	if err := store.Remove(ctx, url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "jane_doe_1.pdf")); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
}

func TestDiskStoreRejects(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads", 16)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"extension", "cv.docx", "%PDF-1.4", ErrNotPDF},
		{"magic", "cv.pdf", "PK\x03\x04 zip", ErrNotPDF},
		{"traversal", "../cv.pdf", "%PDF-1.4", ErrNotPDF},
		{"size", "cv.pdf", "%PDF-1.4 " + strings.Repeat("x", 32), ErrTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Save(ctx, tc.file, strings.NewReader(tc.content))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	name := FileName(" Jane ", "D'Arcy-Smith", now)
	if !strings.HasPrefix(name, "jane_darcy-smith_1700000000000_") || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("unexpected name %q", name)
	}
	if got := FileName("", "", now); !strings.HasPrefix(got, "candidate_candidate_") {
		t.Fatalf("expected placeholder name, got %q", got)
	}
}
