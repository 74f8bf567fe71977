package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
)

// RegisterGraphModule defines the global graph table in L, bound to session.
//
//	graph.create(type, x, y)  -> id
//	graph.connect(from, to)   -> ok, rule
//	graph.disconnect(from, to) -> ok
//	graph.remove(id)          -> ok; entrances are never removed
//	graph.retype(id, type)    -> ok
//	graph.template(x, y)      -> number of nodes created
//	graph.count()             -> number of nodes
//	graph.types()             -> list of displayable type names
//
// Precondition: L must come from NewSandboxedState; session must be non-nil.
func RegisterGraphModule(L *lua.LState, session *roomgraph.Session) {
	g := session.Graph()
	catalog := session.Catalog()

	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"create": func(L *lua.LState) int {
			name := L.CheckString(1)
			rt, ok := catalog.Lookup(name)
			if !ok {
				L.ArgError(1, "unknown room type "+name)
				return 0
			}
			pos := roomgraph.Position{X: float64(L.OptNumber(2, 0)), Y: float64(L.OptNumber(3, 0))}
			n, err := g.AddNode(pos, rt)
			if err != nil {
				L.RaiseError("create: %s", err.Error())
				return 0
			}
			L.Push(lua.LString(n.ID()))
			return 1
		},
		"connect": func(L *lua.LState) int {
			from, to := L.CheckString(1), L.CheckString(2)
			rule := g.Check(from, to)
			if rule.Allowed() {
				g.Connect(from, to)
			}
			L.Push(lua.LBool(rule.Allowed()))
			L.Push(lua.LString(string(rule)))
			return 2
		},
		"disconnect": func(L *lua.LState) int {
			L.Push(lua.LBool(g.Disconnect(L.CheckString(1), L.CheckString(2))))
			return 1
		},
		"remove": func(L *lua.LState) int {
			L.Push(lua.LBool(session.RemoveNode(L.CheckString(1))))
			return 1
		},
		"retype": func(L *lua.LState) int {
			ok, err := session.ChangeType(L.CheckString(1), L.CheckString(2))
			if err != nil {
				L.ArgError(2, err.Error())
				return 0
			}
			L.Push(lua.LBool(ok))
			return 1
		},
		"template": func(L *lua.LState) int {
			origin := roomgraph.Position{X: float64(L.OptNumber(1, 0)), Y: float64(L.OptNumber(2, 0))}
			nodes, err := session.CreateTemplate(origin)
			if err != nil {
				L.RaiseError("template: %s", err.Error())
				return 0
			}
			L.Push(lua.LNumber(len(nodes)))
			return 1
		},
		"count": func(L *lua.LState) int {
			L.Push(lua.LNumber(g.Len()))
			return 1
		},
		"types": func(L *lua.LState) int {
			names := L.NewTable()
			for _, name := range catalog.DisplayNames() {
				names.Append(lua.LString(name))
			}
			L.Push(names)
			return 1
		},
	})
	L.SetGlobal("graph", mod)
}
