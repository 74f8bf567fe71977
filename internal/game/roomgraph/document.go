package roomgraph

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
)

// Document is a named, saved room graph.
type Document struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Nodes []Record `yaml:"nodes"`
}

// yamlDocumentFile is the top-level YAML structure for graph files.
type yamlDocumentFile struct {
	Graph Document `yaml:"graph"`
}

// Validate checks document-level invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("graph ID must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("graph %q: name must not be empty", d.ID)
	}
	return nil
}

// Build reconstructs the document's graph against catalog.
func (d *Document) Build(catalog *roomtype.Catalog, maxChildCorridors int) (*Graph, error) {
	g, err := FromRecords(catalog, maxChildCorridors, d.Nodes)
	if err != nil {
		return nil, fmt.Errorf("graph %q: %w", d.ID, err)
	}
	return g, nil
}

// NewDocument snapshots g as a document.
func NewDocument(id, name string, g Reader) *Document {
	return &Document{ID: id, Name: name, Nodes: g.Records()}
}

// MarshalDocument serialises d as graph YAML.
func MarshalDocument(d *Document) ([]byte, error) {
	data, err := yaml.Marshal(yamlDocumentFile{Graph: *d})
	if err != nil {
		return nil, fmt.Errorf("serialising graph %q: %w", d.ID, err)
	}
	return data, nil
}

// LoadDocumentFromBytes parses and validates a graph document from YAML bytes.
//
// Postcondition: Returns a validated Document or a non-nil error.
func LoadDocumentFromBytes(data []byte) (*Document, error) {
	var file yamlDocumentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing graph YAML: %w", err)
	}
	doc := file.Graph
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validating graph: %w", err)
	}
	return &doc, nil
}

// LoadDocumentFromFile reads and validates a single graph YAML file.
func LoadDocumentFromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph file %s: %w", path, err)
	}
	return LoadDocumentFromBytes(data)
}

// LoadDocumentsFromDir loads every .yaml/.yml file in dir as a graph document.
//
// Postcondition: Returns all documents in directory order or the first error.
func LoadDocumentsFromDir(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading graph directory %s: %w", dir, err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		doc, err := LoadDocumentFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading graph from %s: %w", name, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
