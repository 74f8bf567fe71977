package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
)

// ErrGraphNotFound is returned when a graph lookup yields no results.
var ErrGraphNotFound = errors.New("graph not found")

// GraphSummary describes a stored graph without its nodes.
type GraphSummary struct {
	ID        string
	Name      string
	NodeCount int
	UpdatedAt time.Time
}

// GraphRepository stores graph documents. A document is saved as a whole:
// its graphs row plus one room_nodes row per node, in graph order.
type GraphRepository struct {
	db *pgxpool.Pool
}

// NewGraphRepository creates a GraphRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewGraphRepository(db *pgxpool.Pool) *GraphRepository {
	return &GraphRepository{db: db}
}

// Save replaces the stored copy of doc in a single transaction.
//
// Precondition: doc must pass Validate.
// Postcondition: Get(doc.ID) returns doc's nodes in the same order.
func (r *GraphRepository) Save(ctx context.Context, doc *roomgraph.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO graphs (id, name) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()`,
		doc.ID, doc.Name,
	)
	if err != nil {
		return fmt.Errorf("upserting graph %q: %w", doc.ID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM room_nodes WHERE graph_id = $1`, doc.ID); err != nil {
		return fmt.Errorf("clearing nodes of graph %q: %w", doc.ID, err)
	}

	rows := make([][]any, 0, len(doc.Nodes))
	for i, n := range doc.Nodes {
		rows = append(rows, []any{
			doc.ID, n.ID, i, n.Type, n.Position.X, n.Position.Y,
			nonNil(n.ParentIDs), nonNil(n.ChildIDs),
		})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"room_nodes"},
		[]string{"graph_id", "id", "ordinal", "room_type", "pos_x", "pos_y", "parent_ids", "child_ids"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("graph %q: duplicate node id: %w", doc.ID, err)
		}
		return fmt.Errorf("inserting nodes of graph %q: %w", doc.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing graph %q: %w", doc.ID, err)
	}
	return nil
}

// Get loads the document with the given id.
//
// Postcondition: Returns the document or ErrGraphNotFound.
func (r *GraphRepository) Get(ctx context.Context, id string) (*roomgraph.Document, error) {
	doc := &roomgraph.Document{ID: id}
	err := r.db.QueryRow(ctx, `SELECT name FROM graphs WHERE id = $1`, id).Scan(&doc.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGraphNotFound
		}
		return nil, fmt.Errorf("querying graph %q: %w", id, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, room_type, pos_x, pos_y, parent_ids, child_ids
		 FROM room_nodes WHERE graph_id = $1 ORDER BY ordinal`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying nodes of graph %q: %w", id, err)
	}
	doc.Nodes, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (roomgraph.Record, error) {
		var rec roomgraph.Record
		err := row.Scan(&rec.ID, &rec.Type, &rec.Position.X, &rec.Position.Y, &rec.ParentIDs, &rec.ChildIDs)
		rec.ParentIDs = nilIfEmpty(rec.ParentIDs)
		rec.ChildIDs = nilIfEmpty(rec.ChildIDs)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning nodes of graph %q: %w", id, err)
	}
	if len(doc.Nodes) == 0 {
		doc.Nodes = nil
	}
	return doc, nil
}

// List returns a summary of every stored graph ordered by id.
func (r *GraphRepository) List(ctx context.Context) ([]GraphSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT g.id, g.name, COUNT(n.id), g.updated_at
		 FROM graphs g LEFT JOIN room_nodes n ON n.graph_id = g.id
		 GROUP BY g.id ORDER BY g.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing graphs: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (GraphSummary, error) {
		var s GraphSummary
		err := row.Scan(&s.ID, &s.Name, &s.NodeCount, &s.UpdatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning graphs: %w", err)
	}
	return out, nil
}

// Delete removes a graph and its nodes.
//
// Postcondition: Returns ErrGraphNotFound if no graph had the id.
func (r *GraphRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM graphs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting graph %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGraphNotFound
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func nilIfEmpty(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return ids
}
