// Package scripting provides a sandboxed GopherLua environment for room graph
// template scripts. Scripts see only the safe standard library and the graph
// module bound to one authoring session.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes a template
// script may execute when no limit is configured.
const DefaultInstructionLimit = 100_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's main loop calls Done() once per opcode, so this is an exact
// instruction budget.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done decrements the remaining budget and fires cancel when it is spent.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

// NewSandboxedState creates an LState with only base, table, string and math
// loaded, file and code loading globals removed, and execution capped at
// instLimit opcodes.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller owns the LState and must call cancel and L.Close.
func NewSandboxedState(instLimit int) (*lua.LState, context.CancelFunc) {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	ctx, cancel := newCountingContext(limit)
	L.SetContext(ctx)
	return L, cancel
}
