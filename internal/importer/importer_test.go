package importer_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
	"github.com/cory-johannsen/roomgraph/internal/importer"
	"github.com/cory-johannsen/roomgraph/internal/scripting"
)

type memorySink struct {
	saved []*roomgraph.Document
	err   error
}

func (s *memorySink) Save(_ context.Context, doc *roomgraph.Document) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, doc)
	return nil
}

type staticSource []*roomgraph.Document

func (s staticSource) Load(context.Context) ([]*roomgraph.Document, error) { return s, nil }

func testCatalog(t *testing.T) *roomtype.Catalog {
	t.Helper()
	c, err := roomtype.LoadCatalogFromFile(filepath.Join("..", "..", "content", "room_types.yaml"))
	require.NoError(t, err)
	return c
}

const cryptYAML = `
graph:
  id: crypt
  name: The Crypt
  nodes:
    - id: e
      type: Entrance
      children: [c]
    - id: c
      type: Corridor
      parents: [e]
      children: [b, gone]
    - id: b
      type: Boss Room
      parents: [c]
`

func TestImporter_Run_DirSourceToSink(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crypt.yaml"), []byte(cryptYAML), 0644))

	sink := &memorySink{}
	imp := importer.New(importer.DirSource{Dir: dir}, sink, testCatalog(t), 3, zaptest.NewLogger(t))
	report, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, importer.Report{Documents: 1, Nodes: 3, Dangling: 1}, report)
	require.Len(t, sink.saved, 1)
	assert.Equal(t, "The Crypt", sink.saved[0].Name)
	assert.Equal(t, []string{"b", "gone"}, sink.saved[0].Nodes[1].ChildIDs)
}

func TestImporter_Run_ShippedGraphs(t *testing.T) {
	imp := importer.New(importer.DirSource{Dir: filepath.Join("..", "..", "content", "graphs")}, nil, testCatalog(t), 3, zaptest.NewLogger(t))
	report, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, report.Documents, 1)
}

func TestImporter_Run_RejectsOneSidedEdge(t *testing.T) {
	doc := &roomgraph.Document{ID: "bad", Name: "Bad", Nodes: []roomgraph.Record{
		{ID: "e", Type: "Entrance", ChildIDs: []string{"c"}},
		{ID: "c", Type: "Corridor"},
	}}
	sink := &memorySink{}
	_, err := importer.New(staticSource{doc}, sink, testCatalog(t), 3, zaptest.NewLogger(t)).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not list it as parent")
	assert.Empty(t, sink.saved)
}

func TestImporter_Run_RejectsUnknownType(t *testing.T) {
	doc := &roomgraph.Document{ID: "bad", Name: "Bad", Nodes: []roomgraph.Record{{ID: "v", Type: "Vault"}}}
	_, err := importer.New(staticSource{doc}, nil, testCatalog(t), 3, zaptest.NewLogger(t)).Run(context.Background())
	assert.ErrorContains(t, err, "unknown room type")
}

func TestImporter_Run_RejectsDuplicateDocument(t *testing.T) {
	a := &roomgraph.Document{ID: "same", Name: "A"}
	b := &roomgraph.Document{ID: "same", Name: "B"}
	_, err := importer.New(staticSource{a, b}, nil, testCatalog(t), 3, zaptest.NewLogger(t)).Run(context.Background())
	assert.ErrorContains(t, err, "duplicate document id")
}

func TestImporter_Run_SinkError(t *testing.T) {
	boom := errors.New("disk full")
	doc := &roomgraph.Document{ID: "a", Name: "A"}
	_, err := importer.New(staticSource{doc}, &memorySink{err: boom}, testCatalog(t), 3, zaptest.NewLogger(t)).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestImporter_Run_InvalidSourceDir(t *testing.T) {
	imp := importer.New(importer.DirSource{Dir: "/nonexistent/dir"}, nil, testCatalog(t), 3, zaptest.NewLogger(t))
	_, err := imp.Run(context.Background())
	require.Error(t, err)
}

func TestTemplateSource_ShippedTemplates(t *testing.T) {
	src := importer.TemplateSource{
		Dir:               filepath.Join("..", "..", "content", "templates"),
		Catalog:           testCatalog(t),
		MaxChildCorridors: 3,
		Runner:            scripting.NewRunner(0, zaptest.NewLogger(t)),
	}
	out := t.TempDir()
	report, err := importer.New(src, importer.DirSink{Dir: out}, src.Catalog, 3, zaptest.NewLogger(t)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Dangling)

	doc, err := roomgraph.LoadDocumentFromFile(filepath.Join(out, "linear_crypt.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Linear Crypt", doc.Name)
	assert.Len(t, doc.Nodes, 7)
}

// Property: importing N valid documents through a DirSink yields N files.
func TestImporter_Run_NDocumentsProduceNFiles(t *testing.T) {
	catalog := testCatalog(t)
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(rt, "numDocs")
		var docs staticSource
		for i := 0; i < n; i++ {
			docs = append(docs, &roomgraph.Document{
				ID:    fmt.Sprintf("graph_%d", i),
				Name:  fmt.Sprintf("Graph %d", i),
				Nodes: []roomgraph.Record{{ID: "e", Type: "Entrance"}},
			})
		}
		out := t.TempDir()
		report, err := importer.New(docs, importer.DirSink{Dir: out}, catalog, 3, zaptest.NewLogger(t)).Run(context.Background())
		if err != nil {
			rt.Fatal(err)
		}
		entries, err := os.ReadDir(out)
		if err != nil {
			rt.Fatal(err)
		}
		assert.Equal(rt, n, len(entries))
		assert.Equal(rt, n, report.Documents)
	})
}
