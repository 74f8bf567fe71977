// Package editorserver exposes room graph editing over gRPC. Each open
// document is held in memory behind its own mutex, so calls against one
// graph are serialised while different graphs proceed in parallel.
package editorserver

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
	"github.com/cory-johannsen/roomgraph/internal/observability"
	"github.com/cory-johannsen/roomgraph/internal/scripting"
)

// CatalogSource yields the room type catalog for newly opened documents.
// roomtype.Watcher satisfies it.
type CatalogSource interface {
	Catalog() *roomtype.Catalog
}

// Options configures a Service.
type Options struct {
	MaxChildCorridors int
	// TemplatesDir is searched by ApplyTemplate; empty disables it.
	TemplatesDir string
	Runner       *scripting.Runner
}

type document struct {
	mu      sync.Mutex
	id      string
	name    string
	session *roomgraph.Session
	logger  *zap.Logger
}

// Service implements the roomgraph.v1.GraphEditor gRPC service.
type Service struct {
	store   Store
	catalog CatalogSource
	opts    Options
	logger  *zap.Logger

	mu   sync.Mutex
	docs map[string]*document
}

// NewService creates a Service.
//
// Precondition: store, catalog and logger must be non-nil.
func NewService(store Store, catalog CatalogSource, opts Options, logger *zap.Logger) *Service {
	if opts.MaxChildCorridors < 1 {
		opts.MaxChildCorridors = roomgraph.DefaultMaxChildCorridors
	}
	if opts.Runner == nil {
		opts.Runner = scripting.NewRunner(0, logger)
	}
	return &Service{
		store:   store,
		catalog: catalog,
		opts:    opts,
		logger:  logger,
		docs:    make(map[string]*document),
	}
}

func (s *Service) graphEditor() {}

// withDocument runs fn with the open document named by req's graph_id locked.
func (s *Service) withDocument(req *structpb.Struct, fn func(*document) (*structpb.Struct, error)) (*structpb.Struct, error) {
	id, err := requireString(req, "graph_id")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	doc, ok := s.docs[id]
	s.mu.Unlock()
	if !ok {
		return nil, status.Errorf(codes.FailedPrecondition, "graph %q is not open", id)
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return fn(doc)
}

func requireNode(g roomgraph.Reader, req *structpb.Struct, key string) (string, error) {
	id, err := requireString(req, key)
	if err != nil {
		return "", err
	}
	if _, ok := g.GetNode(id); !ok {
		return "", status.Errorf(codes.NotFound, "node %q not found", id)
	}
	return id, nil
}

// Open loads graph_id from the store, or starts an empty graph named name
// when the store has none. Opening an open graph returns its current state.
func (s *Service) Open(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "graph_id")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	doc, ok := s.docs[id]
	s.mu.Unlock()
	if !ok {
		doc, err = s.load(ctx, id, optString(req, "name"))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if existing, raced := s.docs[id]; raced {
			doc = existing
		} else {
			s.docs[id] = doc
			observability.DocumentsOpen.Inc()
		}
		s.mu.Unlock()
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	return reply(graphValue(doc.id, doc.name, doc.session.Graph()))
}

func (s *Service) load(ctx context.Context, id, name string) (*document, error) {
	catalog := s.catalog.Catalog()
	logger := observability.WithGraph(s.logger, id)
	stored, err := s.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		if name == "" {
			name = id
		}
		logger.Info("creating graph")
		return &document{id: id, name: name, session: roomgraph.NewSession(roomgraph.New(s.opts.MaxChildCorridors), catalog), logger: logger}, nil
	case err != nil:
		return nil, status.Errorf(codes.Unavailable, "loading graph %q: %v", id, err)
	}

	g, err := stored.Build(catalog, s.opts.MaxChildCorridors)
	if err != nil {
		return nil, status.Errorf(codes.DataLoss, "%v", err)
	}
	logger.Info("opened graph", zap.Int("nodes", g.Len()))
	return &document{id: id, name: stored.Name, session: roomgraph.NewSession(g, catalog), logger: logger}, nil
}

// Close drops an open graph from memory without saving it.
func (s *Service) Close(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "graph_id")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	s.mu.Unlock()
	if ok {
		observability.DocumentsOpen.Dec()
	}
	return reply(map[string]any{"closed": ok})
}

// GetGraph returns every node of an open graph.
func (s *Service) GetGraph(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		return reply(graphValue(d.id, d.name, d.session.Graph()))
	})
}

// CreateNode adds an unassigned node at (x, y); the first node of an empty
// graph is preceded by its entrance.
func (s *Service) CreateNode(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		before := d.session.Graph().Len()
		n, err := d.session.CreateNode(position(req, "x", "y"))
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		observability.NodesCreated.Add(float64(d.session.Graph().Len() - before))
		return reply(map[string]any{"node": nodeValue(n)})
	})
}

// CreateTemplate lays out the starter grid on an empty graph.
func (s *Service) CreateTemplate(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		nodes, err := d.session.CreateTemplate(position(req, "x", "y"))
		if err != nil {
			return nil, status.Errorf(codes.Internal, "%v", err)
		}
		observability.NodesCreated.Add(float64(len(nodes)))
		return reply(map[string]any{"created": len(nodes)})
	})
}

// ApplyTemplate runs the named Lua template from the templates directory
// against an open graph.
func (s *Service) ApplyTemplate(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.opts.TemplatesDir == "" {
		return nil, status.Error(codes.Unimplemented, "templates are disabled")
	}
	name, err := requireString(req, "template")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.opts.TemplatesDir, filepath.Base(name))
	if filepath.Ext(path) != ".lua" {
		path += ".lua"
	}
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		nodesBefore, edgesBefore := d.session.Graph().Len(), edgeCount(d.session.Graph())
		// A failed run leaves the graph as it was.
		if err := s.opts.Runner.RunFile(d.session, path); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%v", err)
		}
		g := d.session.Graph()
		if created := g.Len() - nodesBefore; created > 0 {
			observability.NodesCreated.Add(float64(created))
		}
		if created := edgeCount(g) - edgesBefore; created > 0 {
			observability.EdgesCreated.Add(float64(created))
		}
		return reply(graphValue(d.id, d.name, g))
	})
}

func edgeCount(g roomgraph.Reader) int {
	n := 0
	for _, node := range g.Nodes() {
		n += len(node.ChildIDs())
	}
	return n
}

// RemoveNode deletes a node and every edge touching it. Entrances are kept
// and reported as not removed.
func (s *Service) RemoveNode(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		id, err := requireNode(d.session.Graph(), req, "node_id")
		if err != nil {
			return nil, err
		}
		removed := d.session.RemoveNode(id)
		if removed {
			observability.NodesRemoved.Inc()
		}
		return reply(map[string]any{"removed": removed})
	})
}

// MoveNode translates a node by (dx, dy).
func (s *Service) MoveNode(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		g := d.session.Graph()
		id, err := requireNode(g, req, "node_id")
		if err != nil {
			return nil, err
		}
		g.MoveNode(id, position(req, "dx", "dy"))
		n, _ := g.GetNode(id)
		return reply(map[string]any{"node": nodeValue(n)})
	})
}

// CanConnect reports whether from -> to would be accepted, and which rule
// decided it.
func (s *Service) CanConnect(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		g := d.session.Graph()
		from, to, err := edgeEndpoints(g, req)
		if err != nil {
			return nil, err
		}
		rule := g.Check(from, to)
		return reply(map[string]any{"ok": rule.Allowed(), "rule": string(rule)})
	})
}

// Connect adds from -> to when the adjacency rules allow it. A refusal is
// a normal response carrying the rule, not an error.
func (s *Service) Connect(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		g := d.session.Graph()
		from, to, err := edgeEndpoints(g, req)
		if err != nil {
			return nil, err
		}
		rule := g.Check(from, to)
		if rule.Allowed() && g.Connect(from, to) {
			observability.EdgesCreated.Inc()
		} else {
			observability.EdgesRejected.WithLabelValues(string(rule)).Inc()
			d.logger.Debug("edge rejected",
				zap.String("from", from),
				zap.String("to", to),
				zap.String("rule", string(rule)),
			)
		}
		return reply(map[string]any{"ok": rule.Allowed(), "rule": string(rule)})
	})
}

// Disconnect removes the edge from -> to.
func (s *Service) Disconnect(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		g := d.session.Graph()
		from, to, err := edgeEndpoints(g, req)
		if err != nil {
			return nil, err
		}
		return reply(map[string]any{"removed": g.Disconnect(from, to)})
	})
}

func edgeEndpoints(g roomgraph.Reader, req *structpb.Struct) (string, string, error) {
	from, err := requireNode(g, req, "from")
	if err != nil {
		return "", "", err
	}
	to, err := requireNode(g, req, "to")
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

// ChangeType assigns a catalog type to a parentless, non-entrance node.
func (s *Service) ChangeType(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		id, err := requireNode(d.session.Graph(), req, "node_id")
		if err != nil {
			return nil, err
		}
		typeName, err := requireString(req, "type")
		if err != nil {
			return nil, err
		}
		changed, err := d.session.ChangeType(id, typeName)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%v", err)
		}
		return reply(map[string]any{"changed": changed})
	})
}

// Save writes an open graph to the store.
func (s *Service) Save(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.withDocument(req, func(d *document) (*structpb.Struct, error) {
		doc := roomgraph.NewDocument(d.id, d.name, d.session.Graph())
		if err := s.store.Save(ctx, doc); err != nil {
			return nil, status.Errorf(codes.Unavailable, "saving graph %q: %v", d.id, err)
		}
		d.logger.Info("saved graph", zap.Int("nodes", len(doc.Nodes)))
		return reply(map[string]any{"saved": len(doc.Nodes)})
	})
}

// ListTypes returns the displayable room type names of the current catalog.
func (s *Service) ListTypes(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(map[string]any{"types": stringList(s.catalog.Catalog().DisplayNames())})
}

// observe times fn and records it under method.
func (s *Service) observe(ctx context.Context, method string, req *structpb.Struct, fn func(*Service, context.Context, *structpb.Struct) (*structpb.Struct, error)) (*structpb.Struct, error) {
	start := time.Now()
	defer observability.ObserveRequest(method, start)
	out, err := fn(s, ctx, req)
	if err != nil {
		if st, ok := status.FromError(err); !ok || st.Code() == codes.Internal {
			s.logger.Error("editor call failed", zap.String("method", method), zap.Error(err))
		}
		return nil, err
	}
	return out, nil
}
