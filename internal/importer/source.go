package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
	"github.com/cory-johannsen/roomgraph/internal/scripting"
)

// Source loads graph documents from a format-specific location.
//
// Postcondition: returns the documents found (possibly none), or a non-nil error.
type Source interface {
	Load(ctx context.Context) ([]*roomgraph.Document, error)
}

// Sink receives validated graph documents.
type Sink interface {
	Save(ctx context.Context, doc *roomgraph.Document) error
}

// DirSource reads YAML graph documents from a directory.
type DirSource struct {
	Dir string
}

// Load implements Source.
func (s DirSource) Load(_ context.Context) ([]*roomgraph.Document, error) {
	return roomgraph.LoadDocumentsFromDir(s.Dir)
}

// TemplateSource runs every Lua template in Dir against an empty graph and
// yields one document per template, named after the file.
type TemplateSource struct {
	Dir               string
	Catalog           *roomtype.Catalog
	MaxChildCorridors int
	Runner            *scripting.Runner
}

// Load implements Source.
func (s TemplateSource) Load(ctx context.Context) ([]*roomgraph.Document, error) {
	paths, err := scripting.Templates(s.Dir)
	if err != nil {
		return nil, err
	}
	docs := make([]*roomgraph.Document, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		session := roomgraph.NewSession(roomgraph.New(s.MaxChildCorridors), s.Catalog)
		if err := s.Runner.RunFile(session, p); err != nil {
			return nil, err
		}
		docs = append(docs, roomgraph.NewDocument(NameToID(templateName(p)), templateName(p), session.Graph()))
	}
	return docs, nil
}

// DirSink writes each document to Dir as <id>.yaml.
type DirSink struct {
	Dir string
}

// Save implements Sink.
//
// Postcondition: Dir exists and contains <doc.ID>.yaml.
func (s DirSink) Save(_ context.Context, doc *roomgraph.Document) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", s.Dir, err)
	}
	data, err := roomgraph.MarshalDocument(doc)
	if err != nil {
		return err
	}
	// Loadable output only.
	if _, err := roomgraph.LoadDocumentFromBytes(data); err != nil {
		return fmt.Errorf("graph %q failed validation: %w", doc.ID, err)
	}
	out := filepath.Join(s.Dir, doc.ID+".yaml")
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing graph %q to %s: %w", doc.ID, out, err)
	}
	return nil
}
