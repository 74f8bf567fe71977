package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
	"github.com/cory-johannsen/roomgraph/internal/storage/postgres"
	"github.com/cory-johannsen/roomgraph/internal/testutil"
)

func cryptDocument() *roomgraph.Document {
	return &roomgraph.Document{
		ID:   "crypt",
		Name: "The Crypt",
		Nodes: []roomgraph.Record{
			{ID: "e", Type: "Entrance", Position: roomgraph.Position{X: 200, Y: 200}, ChildIDs: []string{"c"}},
			{ID: "c", Type: "Corridor", Position: roomgraph.Position{X: 430, Y: 200}, ParentIDs: []string{"e"}, ChildIDs: []string{"b"}},
			{ID: "b", Type: "Boss Room", Position: roomgraph.Position{X: 660, Y: 200.5}, ParentIDs: []string{"c"}},
			{ID: "x", Type: "None", Position: roomgraph.Position{X: -10, Y: 0}},
		},
	}
}

func TestGraphRepository(t *testing.T) {
	repo := postgres.NewGraphRepository(testutil.NewPool(t))
	ctx := context.Background()

	t.Run("save then get", func(t *testing.T) {
		doc := cryptDocument()
		require.NoError(t, repo.Save(ctx, doc))

		got, err := repo.Get(ctx, "crypt")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	})

	t.Run("save replaces nodes", func(t *testing.T) {
		doc := cryptDocument()
		doc.Name = "The Sealed Crypt"
		doc.Nodes = doc.Nodes[:1]
		doc.Nodes[0].ChildIDs = nil
		require.NoError(t, repo.Save(ctx, doc))

		got, err := repo.Get(ctx, "crypt")
		require.NoError(t, err)
		assert.Equal(t, "The Sealed Crypt", got.Name)
		assert.Equal(t, doc.Nodes, got.Nodes)
	})

	t.Run("duplicate node id rolls back", func(t *testing.T) {
		doc := &roomgraph.Document{ID: "crypt", Name: "Broken", Nodes: []roomgraph.Record{
			{ID: "a", Type: "None"}, {ID: "a", Type: "None"},
		}}
		require.Error(t, repo.Save(ctx, doc))

		got, err := repo.Get(ctx, "crypt")
		require.NoError(t, err)
		assert.Equal(t, "The Sealed Crypt", got.Name)
	})

	t.Run("invalid document", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, &roomgraph.Document{ID: "nameless"}))
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &roomgraph.Document{ID: "empty", Name: "Empty"}))
		summaries, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "crypt", summaries[0].ID)
		assert.Equal(t, 1, summaries[0].NodeCount)
		assert.Equal(t, "empty", summaries[1].ID)
		assert.Equal(t, 0, summaries[1].NodeCount)
		assert.False(t, summaries[0].UpdatedAt.IsZero())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "empty"))
		assert.ErrorIs(t, repo.Delete(ctx, "empty"), postgres.ErrGraphNotFound)
		_, err := repo.Get(ctx, "empty")
		assert.ErrorIs(t, err, postgres.ErrGraphNotFound)
	})

	t.Run("property: save then get preserves records", func(t *testing.T) {
		n := 0
		rapid.Check(t, func(rt *rapid.T) {
			n++
			count := rapid.IntRange(0, 12).Draw(rt, "count")
			doc := &roomgraph.Document{ID: fmt.Sprintf("prop-%d", n), Name: "prop"}
			for i := 0; i < count; i++ {
				rec := roomgraph.Record{
					ID:       fmt.Sprintf("n%d", i),
					Type:     rapid.SampledFrom([]string{"None", "Corridor", "Small Room"}).Draw(rt, "type"),
					Position: roomgraph.Position{X: float64(rapid.IntRange(-500, 500).Draw(rt, "x")), Y: float64(i)},
				}
				if i > 0 && rapid.Bool().Draw(rt, "linked") {
					rec.ParentIDs = []string{fmt.Sprintf("n%d", i-1)}
				}
				doc.Nodes = append(doc.Nodes, rec)
			}
			if err := repo.Save(ctx, doc); err != nil {
				rt.Fatalf("save: %v", err)
			}
			got, err := repo.Get(ctx, doc.ID)
			if err != nil {
				rt.Fatalf("get: %v", err)
			}
			if len(doc.Nodes) == 0 {
				doc.Nodes = nil
			}
			if len(got.Nodes) == 0 {
				got.Nodes = nil
			}
			assert.Equal(rt, doc, got)
		})
	})
}
