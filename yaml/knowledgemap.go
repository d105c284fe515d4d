// Package yaml persists knowledge maps as YAML files using gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/locallm"
	lfs "github.com/fwojciec/locallm/fs"
	"gopkg.in/yaml.v3"
)

// Ensure KnowledgeMapService implements locallm.KnowledgeMapService.
var _ locallm.KnowledgeMapService = (*KnowledgeMapService)(nil)

// KnowledgeMapService stores one knowledge map per directory.
type KnowledgeMapService struct {
	filename string
}

// NewKnowledgeMapService returns a service that stores maps under filename
// inside each directory. An empty filename selects the default.
func NewKnowledgeMapService(filename string) *KnowledgeMapService {
	if filename == "" {
		filename = locallm.DefaultKnowledgeMapFilename
	}
	return &KnowledgeMapService{filename: filename}
}

// Filename returns the name of the map file inside an indexed directory.
func (s *KnowledgeMapService) Filename() string {
	return s.filename
}

// Path returns the map file location for dir.
func (s *KnowledgeMapService) Path(dir string) string {
	return filepath.Join(dir, s.filename)
}

// LoadKnowledgeMap reads and parses the map stored in dir.
func (s *KnowledgeMapService) LoadKnowledgeMap(ctx context.Context, dir string) (*locallm.KnowledgeMap, error) {
	data, err := os.ReadFile(s.Path(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, locallm.Errorf(locallm.ENOTFOUND, "no knowledge map in %s", dir)
	} else if err != nil {
		return nil, fmt.Errorf("reading knowledge map: %w", err)
	}

	var m locallm.KnowledgeMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, locallm.Errorf(locallm.EINVALID, "malformed knowledge map %s: %s", s.Path(dir), err)
	}
	if m.Version == "" {
		return nil, locallm.Errorf(locallm.EINVALID, "malformed knowledge map %s: missing version", s.Path(dir))
	}
	if m.Documents == nil {
		m.Documents = []*locallm.KnowledgeMapEntry{}
	}
	return &m, nil
}

// SaveKnowledgeMap validates m and atomically replaces the map file in
// m.Directory.
func (s *KnowledgeMapService) SaveKnowledgeMap(ctx context.Context, m *locallm.KnowledgeMap) error {
	if err := m.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding knowledge map: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding knowledge map: %w", err)
	}

	if err := lfs.WriteFileAtomic(s.Path(m.Directory), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing knowledge map: %w", err)
	}
	return nil
}
