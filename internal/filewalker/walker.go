package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"tra-converter/internal/parser"

	"github.com/rs/zerolog/log"
)

// TRAExt is the indexed-text extension.
const TRAExt = ".tra"

// Walker discovers convertible files in one directory and binds each to its codec.
type Walker struct {
	codecs []parser.Codec
}

// NewWalker creates a Walker with the default codecs.
func NewWalker() *Walker {
	return &Walker{codecs: parser.Codecs()}
}

// FileEntry represents a discovered file ready for conversion.
type FileEntry struct {
	Path string
	// Base is the file name without extension, the identifier conversions take.
	Base string
	Ext  string
	// Codec is nil for indexed-text files.
	Codec parser.Codec
}

// Walk lists the supported files directly inside dir whose extension is in
// exts (all supported extensions when exts is empty), sorted by base name.
func (w *Walker) Walk(dir string, exts ...string) ([]FileEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var entries []FileEntry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if len(exts) > 0 && !slices.Contains(exts, ext) {
			continue
		}

		entry := FileEntry{
			Path: filepath.Join(dir, name),
			Base: strings.TrimSuffix(name, filepath.Ext(name)),
			Ext:  ext,
		}
		if ext != TRAExt {
			i := slices.IndexFunc(w.codecs, func(c parser.Codec) bool { return c.CanParse(ext) })
			if i < 0 {
				continue
			}
			entry.Codec = w.codecs[i]
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b FileEntry) int { return strings.Compare(a.Base, b.Base) })

	log.Debug().Int("count", len(entries)).Str("dir", dir).Msg("Discovered files")
	return entries, nil
}
