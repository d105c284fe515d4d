package locallm

import (
	"context"
	"fmt"
)

// KnowledgeMapVersion is written into every knowledge map.
const KnowledgeMapVersion = "1.0"

// DefaultKnowledgeMapFilename is the name of the knowledge map file inside an
// indexed directory.
const DefaultKnowledgeMapFilename = "knowledge_map.yaml"

// BuildMode selects how much of each document the builder shows the model.
type BuildMode string

// Build modes.
const (
	// BuildModeFull sends a large sample of the document to the model.
	BuildModeFull BuildMode = "full"
	// BuildModeFast sends only an abstract or table of contents.
	BuildModeFast BuildMode = "fast"
)

// KnowledgeMapEntry describes a single document of an indexed directory.
type KnowledgeMapEntry struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Path        string   `yaml:"path" json:"path"`
	FileType    string   `yaml:"file_type" json:"fileType"`
	SizeKB      float64  `yaml:"size_kb" json:"sizeKb"`
	Description string   `yaml:"description" json:"description"`
	KeyConcepts []string `yaml:"key_concepts" json:"keyConcepts"`

	// LastUpdated is the file modification time in epoch seconds.
	LastUpdated float64 `yaml:"last_updated" json:"lastUpdated"`
}

// KnowledgeMap is the persisted index of one directory.
type KnowledgeMap struct {
	Version        string               `yaml:"version" json:"version"`
	Directory      string               `yaml:"directory" json:"directory"`
	TotalDocuments int                  `yaml:"total_documents" json:"totalDocuments"`
	Documents      []*KnowledgeMapEntry `yaml:"documents" json:"documents"`
}

// Validate returns an error if the knowledge map violates its invariants.
func (m *KnowledgeMap) Validate() error {
	if m.Version == "" {
		return Errorf(EINVALID, "knowledge map version required")
	}
	if m.Directory == "" {
		return Errorf(EINVALID, "knowledge map directory required")
	}
	if m.TotalDocuments != len(m.Documents) {
		return Errorf(EINVALID, "knowledge map lists %d documents but total_documents is %d", len(m.Documents), m.TotalDocuments)
	}
	ids := make(map[string]bool, len(m.Documents))
	paths := make(map[string]bool, len(m.Documents))
	for _, doc := range m.Documents {
		if doc == nil {
			return Errorf(EINVALID, "knowledge map contains an empty entry")
		}
		if ids[doc.ID] {
			return Errorf(EINVALID, "duplicate document id %q", doc.ID)
		}
		if paths[doc.Path] {
			return Errorf(EINVALID, "duplicate document path %q", doc.Path)
		}
		if len(doc.KeyConcepts) == 0 {
			return Errorf(EINVALID, "document %q has no key concepts", doc.Path)
		}
		ids[doc.ID] = true
		paths[doc.Path] = true
	}
	return nil
}

// FindByPath returns the entry with the given relative path, or nil.
func (m *KnowledgeMap) FindByPath(path string) *KnowledgeMapEntry {
	for _, doc := range m.Documents {
		if doc.Path == path {
			return doc
		}
	}
	return nil
}

// EntryID returns the identifier of the i-th indexed document.
func EntryID(i int) string {
	return fmt.Sprintf("doc_%03d", i)
}

// KnowledgeMapService loads and persists knowledge maps.
type KnowledgeMapService interface {
	// LoadKnowledgeMap reads the knowledge map of dir.
	// Returns ENOTFOUND if no map exists and EINVALID if it cannot be parsed.
	LoadKnowledgeMap(ctx context.Context, dir string) (*KnowledgeMap, error)

	// SaveKnowledgeMap atomically replaces the map stored in m.Directory.
	SaveKnowledgeMap(ctx context.Context, m *KnowledgeMap) error
}
