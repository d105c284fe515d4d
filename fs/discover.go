// Package fs provides filesystem access for indexed directories: document
// discovery and reading, atomic file replacement and change detection.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/locallm"
)

// Discover walks dir recursively and returns the paths of supported
// documents in lexical walk order. Files whose base name appears in exclude
// are skipped, as are entries that cannot be read.
func Discover(dir string, exclude ...string) ([]string, error) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || skip[d.Name()] || !locallm.IsSupported(path) {
			return nil
		}
		if !d.Type().IsRegular() {
			info, statErr := os.Stat(path)
			if statErr != nil || !info.Mode().IsRegular() {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ListDocuments returns the supported documents under dir, newest first.
// Paths in the result are relative to dir.
func ListDocuments(dir string) ([]locallm.DocumentInfo, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]locallm.DocumentInfo, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, locallm.DocumentInfo{
			Path:    rel,
			Name:    filepath.Base(path),
			Type:    strings.ToUpper(locallm.FileType(path)),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].ModTime.After(docs[j].ModTime)
	})
	return docs, nil
}
