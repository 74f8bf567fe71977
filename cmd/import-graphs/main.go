// Package main provides the graph import tool: it validates YAML graph
// documents or Lua templates against the room type catalog and stores them
// in PostgreSQL or writes them to a directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/roomgraph/internal/config"
	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
	"github.com/cory-johannsen/roomgraph/internal/importer"
	"github.com/cory-johannsen/roomgraph/internal/observability"
	"github.com/cory-johannsen/roomgraph/internal/scripting"
	"github.com/cory-johannsen/roomgraph/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	format := flag.String("format", "yaml", "source format: yaml or lua")
	sourceDir := flag.String("source", "", "source directory (default: editor.graphs_dir or editor.templates_dir)")
	outputDir := flag.String("output", "", "write YAML documents here instead of the database")
	dryRun := flag.Bool("dry-run", false, "validate only")
	flag.Parse()

	start := time.Now()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "import-graphs")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer logger.Sync()

	catalog, err := roomtype.LoadCatalogFromFile(cfg.Editor.CatalogPath)
	if err != nil {
		log.Fatalf("loading room type catalog: %v", err)
	}

	var src importer.Source
	switch *format {
	case "yaml":
		dir := *sourceDir
		if dir == "" {
			dir = cfg.Editor.GraphsDir
		}
		src = importer.DirSource{Dir: dir}
	case "lua":
		dir := *sourceDir
		if dir == "" {
			dir = cfg.Editor.TemplatesDir
		}
		src = importer.TemplateSource{
			Dir:               dir,
			Catalog:           catalog,
			MaxChildCorridors: cfg.Editor.MaxChildCorridors,
			Runner:            scripting.NewRunner(cfg.Editor.ScriptInstructionLimit, logger),
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (supported: yaml, lua)\n", *format)
		os.Exit(1)
	}

	var sink importer.Sink
	switch {
	case *dryRun:
	case *outputDir != "":
		sink = importer.DirSink{Dir: *outputDir}
	default:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("connecting to database: %v", err)
		}
		defer pool.Close()
		sink = postgres.NewGraphRepository(pool.DB())
	}

	report, err := importer.New(src, sink, catalog, cfg.Editor.MaxChildCorridors, logger).Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("imported %d graph(s), %d node(s), %d dangling reference(s) in %s\n",
		report.Documents, report.Nodes, report.Dangling, time.Since(start).Round(time.Millisecond))
}
