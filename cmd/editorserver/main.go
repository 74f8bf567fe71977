// Package main provides the room graph editor server: a gRPC service for
// authoring dungeon graphs backed by PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/roomgraph/internal/config"
	"github.com/cory-johannsen/roomgraph/internal/editorserver"
	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
	"github.com/cory-johannsen/roomgraph/internal/observability"
	"github.com/cory-johannsen/roomgraph/internal/scripting"
	"github.com/cory-johannsen/roomgraph/internal/server"
	"github.com/cory-johannsen/roomgraph/internal/storage/postgres"
)

// graphStore adapts the repository's not-found error to the editor's.
type graphStore struct {
	repo *postgres.GraphRepository
}

func (s graphStore) Get(ctx context.Context, id string) (*roomgraph.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if errors.Is(err, postgres.ErrGraphNotFound) {
		return nil, editorserver.ErrDocumentNotFound
	}
	return doc, err
}

func (s graphStore) Save(ctx context.Context, doc *roomgraph.Document) error {
	return s.repo.Save(ctx, doc)
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	memory := flag.Bool("memory", false, "keep graphs in memory instead of PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "editorserver")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer logger.Sync()

	catalog, err := roomtype.NewWatcher(cfg.Editor.CatalogPath, logger)
	if err != nil {
		logger.Fatal("loading room type catalog", zap.Error(err))
	}
	catalog.OnChange(func(*roomtype.Catalog) { observability.CatalogReloads.Inc() })
	logger.Info("room type catalog loaded",
		zap.String("path", cfg.Editor.CatalogPath),
		zap.Int("types", catalog.Catalog().Len()),
	)

	lifecycle := server.NewLifecycle(logger)

	var store editorserver.Store = editorserver.NewMemoryStore()
	if !*memory {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		store = graphStore{repo: postgres.NewGraphRepository(pool.DB())}

		monitorCtx, stopMonitor := context.WithCancel(ctx)
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error {
				pool.Monitor(monitorCtx, 30*time.Second, 5*time.Second, logger)
				return nil
			},
			StopFn: func() {
				stopMonitor()
				pool.Close()
			},
		})
	}

	svc := editorserver.NewService(store, catalog, editorserver.Options{
		MaxChildCorridors: cfg.Editor.MaxChildCorridors,
		TemplatesDir:      cfg.Editor.TemplatesDir,
		Runner:            scripting.NewRunner(cfg.Editor.ScriptInstructionLimit, logger),
	}, logger)

	grpcServer := grpc.NewServer()
	editorserver.Register(grpcServer, svc)

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GRPC.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GRPC.Addr(), err)
			}
			logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
			return grpcServer.Serve(lis)
		},
		StopFn: grpcServer.GracefulStop,
	})

	stopWatch, err := catalog.Watch()
	if err != nil {
		logger.Fatal("watching room type catalog", zap.Error(err))
	}
	watchDone := make(chan struct{})
	lifecycle.Add("catalog-watcher", &server.FuncService{
		StartFn: func() error {
			<-watchDone
			return nil
		},
		StopFn: func() {
			stopWatch()
			close(watchDone)
		},
	})

	if cfg.Metrics.Addr != "" {
		lifecycle.Add("metrics", server.HTTPService(observability.NewMetricsServer(cfg.Metrics.Addr), 5*time.Second))
	}

	logger.Info("editor server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("grpc_addr", cfg.GRPC.Addr()),
		zap.Bool("memory_store", *memory),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
