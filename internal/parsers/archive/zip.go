// Package archive expands catalog bundles shipped as ZIP files.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Options bound what Expand will extract.
type Options struct {
	MaxFileSize  int64 // per entry, 0 = unlimited
	MaxTotalSize int64 // all entries, 0 = unlimited
	MaxFiles     int   // 0 = unlimited

	// AllowedExtensions filters entries by extension (empty = all)
	AllowedExtensions []string
	// SkipPatterns drops entries whose name contains any of them
	SkipPatterns []string
}

// DefaultOptions returns limits suited to catalog bundles.
func DefaultOptions() Options {
	return Options{
		MaxFileSize:       100 * 1024 * 1024,
		MaxTotalSize:      512 * 1024 * 1024,
		MaxFiles:          100,
		AllowedExtensions: []string{".csv", ".json", ".xlsx"},
		SkipPatterns:      []string{"__MACOSX", ".DS_Store", "Thumbs.db", "desktop.ini"},
	}
}

// File is one extracted entry. Name is the flattened base name.
type File struct {
	Name    string
	Content []byte
}

// Expand extracts the entries of a ZIP held in memory. Directory structure is
// flattened; entries with unsafe paths are skipped.
func Expand(ctx context.Context, content []byte, opts Options) ([]File, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP: %w", err)
	}

	var (
		files     []File
		totalSize int64
	)
	for _, entry := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.FileInfo().IsDir() {
			continue
		}

		name, err := sanitizeName(entry.Name)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping unsafe ZIP entry")
			continue
		}
		if skipped(entry.Name, opts.SkipPatterns) || !allowedExtension(name, opts.AllowedExtensions) {
			continue
		}

		if opts.MaxFiles > 0 && len(files) >= opts.MaxFiles {
			return nil, fmt.Errorf("too many files in archive (limit: %d)", opts.MaxFiles)
		}
		if opts.MaxFileSize > 0 && int64(entry.UncompressedSize64) > opts.MaxFileSize {
			return nil, fmt.Errorf("file %s exceeds maximum size (%d > %d)", name, entry.UncompressedSize64, opts.MaxFileSize)
		}

		data, err := readEntry(entry, name, opts.MaxFileSize)
		if err != nil {
			return nil, err
		}

		totalSize += int64(len(data))
		if opts.MaxTotalSize > 0 && totalSize > opts.MaxTotalSize {
			return nil, fmt.Errorf("total extracted size exceeds maximum (%d > %d)", totalSize, opts.MaxTotalSize)
		}
		files = append(files, File{Name: name, Content: data})
	}
	return files, nil
}

// readEntry enforces the size limit on the bytes actually read, since the
// declared size can lie.
func readEntry(entry *zip.File, name string, limit int64) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in ZIP: %w", name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from ZIP: %w", name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("file %s exceeds maximum size (%d bytes)", name, limit)
	}
	return data, nil
}

// sanitizeName rejects absolute and escaping paths and returns the base name.
func sanitizeName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if path.IsAbs(name) || filepath.IsAbs(name) {
		return "", fmt.Errorf("absolute path not allowed: %s", name)
	}
	if len(name) >= 2 && name[1] == ':' {
		return "", fmt.Errorf("drive letter not allowed: %s", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("path traversal not allowed: %s", name)
		}
	}

	base := path.Base(path.Clean(name))
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	return base, nil
}

func skipped(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

func allowedExtension(name string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}

// Find returns the first file whose name matches one of names, case-insensitively.
func Find(files []File, names ...string) (File, bool) {
	for _, n := range names {
		for _, f := range files {
			if strings.EqualFold(f.Name, n) {
				return f, true
			}
		}
	}
	return File{}, false
}
