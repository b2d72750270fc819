// Package storage keeps uploaded candidate CVs on local disk.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotPDF is returned when an upload is not a PDF document.
	ErrNotPDF = errors.New("only PDF files are accepted")
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds the size limit")
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

var pdfMagic = []byte("%PDF-")

// CVStore saves CV files and resolves their public URLs.
type CVStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// DiskStore writes files under dir and exposes them under publicPrefix.
type DiskStore struct {
	dir          string
	publicPrefix string
	maxBytes     int64
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, publicPrefix string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, publicPrefix: "/" + strings.Trim(publicPrefix, "/"), maxBytes: maxBytes}, nil
}

// FileName builds a stored name like "jane_doe_1700000000000_1a2b3c4d.pdf".
func FileName(firstName, lastName string, now time.Time) string {
	base := sanitize(firstName) + "_" + sanitize(lastName)
	return fmt.Sprintf("%s_%d_%s.pdf", base, now.UnixMilli(), uuid.NewString()[:8])
}

// IsPDFName reports whether the original filename carries a .pdf extension.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Save validates the PDF header and size, then writes the file atomically.
func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name != filepath.Base(name) || !IsPDFName(name) {
		return "", ErrNotPDF
	}

	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if !bytes.Equal(head[:n], pdfMagic) {
		return "", ErrNotPDF
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	src := io.MultiReader(bytes.NewReader(head[:n]), r)
	if s.maxBytes > 0 {
		src = io.LimitReader(src, s.maxBytes+1)
	}
	written, err := io.Copy(tmp, src)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		return "", ErrTooLarge
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", err
	}
	return path.Join(s.publicPrefix, name), nil
}

// Remove deletes a previously saved file. Unknown URLs are ignored.
func (s *DiskStore) Remove(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.publicPrefix+"/") {
		return nil
	}
	name := filepath.Base(url)
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func sanitize(part string) string {
	cleaned := unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(part)), "")
	if cleaned == "" {
		return "candidate"
	}
	return cleaned
}
