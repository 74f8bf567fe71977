package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
)

// Runner executes template scripts against authoring sessions. Each run gets
// a fresh sandboxed VM, so scripts cannot leak state between graphs.
type Runner struct {
	instLimit int
	logger    *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: logger must be non-nil; instLimit 0 uses DefaultInstructionLimit.
func NewRunner(instLimit int, logger *zap.Logger) *Runner {
	return &Runner{instLimit: instLimit, logger: logger}
}

// RunFile executes the Lua file at path against session.
//
// Postcondition: Returns nil on success; on error the session's graph is
// rolled back to its state before the run.
func (r *Runner) RunFile(session *roomgraph.Session, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scripting: reading template %q: %w", path, err)
	}
	return r.run(session, filepath.Base(path), string(src))
}

// RunString executes src against session.
func (r *Runner) RunString(session *roomgraph.Session, src string) error {
	return r.run(session, "<string>", src)
}

// Templates lists the *.lua files in dir in lexicographic order.
func Templates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading template dir %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *Runner) run(session *roomgraph.Session, name, src string) error {
	start := time.Now()
	L, cancel := NewSandboxedState(r.instLimit)
	defer func() {
		cancel()
		L.Close()
	}()

	RegisterGraphModule(L, session)

	checkpoint := session.Checkpoint()
	before := len(checkpoint)
	if err := L.DoString(src); err != nil {
		r.logger.Warn("template script failed",
			zap.String("script", name),
			zap.Error(err),
		)
		err = fmt.Errorf("scripting: running %q: %w", name, err)
		if rbErr := session.Rollback(checkpoint); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	r.logger.Debug("template script finished",
		zap.String("script", name),
		zap.Int("nodes_before", before),
		zap.Int("nodes_after", session.Graph().Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
