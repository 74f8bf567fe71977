// Package importer validates graph documents from a Source against the room
// type catalog and hands them to a Sink.
package importer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
)

// Report summarises an import run.
type Report struct {
	Documents int
	Nodes     int
	// Dangling counts edge references to ids missing from their document.
	Dangling int
}

// Importer orchestrates graph import from a Source to a Sink.
type Importer struct {
	source            Source
	sink              Sink
	catalog           *roomtype.Catalog
	maxChildCorridors int
	logger            *zap.Logger
}

// New constructs an Importer. A nil sink validates without saving.
//
// Precondition: source, catalog and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, sink Sink, catalog *roomtype.Catalog, maxChildCorridors int, logger *zap.Logger) *Importer {
	return &Importer{
		source:            source,
		sink:              sink,
		catalog:           catalog,
		maxChildCorridors: maxChildCorridors,
		logger:            logger,
	}
}

// Run loads every document, rebuilds it against the catalog, checks that its
// edges are recorded on both endpoints, and saves it.
//
// Postcondition: either every document was saved or an error names the
// first one that failed; documents before it remain saved.
func (imp *Importer) Run(ctx context.Context) (Report, error) {
	overall := time.Now()
	var report Report

	docs, err := imp.source.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("loading source: %w", err)
	}
	imp.logger.Info("loaded graph documents", zap.Int("count", len(docs)))

	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		start := time.Now()
		if seen[doc.ID] {
			return report, fmt.Errorf("graph %q: duplicate document id", doc.ID)
		}
		seen[doc.ID] = true

		g, err := doc.Build(imp.catalog, imp.maxChildCorridors)
		if err != nil {
			return report, err
		}
		dangling, err := checkEdges(g)
		if err != nil {
			return report, fmt.Errorf("graph %q: %w", doc.ID, err)
		}
		if dangling > 0 {
			imp.logger.Warn("graph has dangling references",
				zap.String("graph", doc.ID),
				zap.Int("dangling", dangling),
			)
		}

		if imp.sink != nil {
			if err := imp.sink.Save(ctx, roomgraph.NewDocument(doc.ID, doc.Name, g)); err != nil {
				return report, fmt.Errorf("saving graph %q: %w", doc.ID, err)
			}
		}

		report.Documents++
		report.Nodes += g.Len()
		report.Dangling += dangling
		imp.logger.Info("imported graph",
			zap.String("graph", doc.ID),
			zap.Int("nodes", g.Len()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	imp.logger.Info("import finished",
		zap.Int("documents", report.Documents),
		zap.Int("nodes", report.Nodes),
		zap.Duration("elapsed", time.Since(overall)),
	)
	return report, nil
}

// checkEdges returns the number of references to ids absent from g, and an
// error for the first edge that only one endpoint records.
func checkEdges(g roomgraph.Reader) (int, error) {
	dangling := 0
	for _, n := range g.Nodes() {
		for _, cid := range n.ChildIDs() {
			child, ok := g.GetNode(cid)
			if !ok {
				dangling++
				continue
			}
			if !child.HasParent(n.ID()) {
				return dangling, fmt.Errorf("node %q lists child %q which does not list it as parent", n.ID(), cid)
			}
		}
		for _, pid := range n.ParentIDs() {
			parent, ok := g.GetNode(pid)
			if !ok {
				dangling++
				continue
			}
			if !parent.HasChild(n.ID()) {
				return dangling, fmt.Errorf("node %q lists parent %q which does not list it as child", n.ID(), pid)
			}
		}
	}
	return dangling, nil
}
