package roomgraph

// Rule identifies the adjacency rule that decided an edge proposal.
type Rule string

// Edge decisions, listed in evaluation order.
const (
	RuleOK                 Rule = "ok"
	RuleUnknownNode        Rule = "unknown_node"
	RuleSelfEdge           Rule = "self_edge"
	RuleBossReachable      Rule = "boss_already_reachable"
	RuleTargetUnassigned   Rule = "target_unassigned"
	RuleDuplicateEdge      Rule = "duplicate_edge"
	RuleReverseEdge        Rule = "reverse_edge"
	RuleTargetHasParent    Rule = "target_has_parent"
	RuleCorridorToCorridor Rule = "corridor_to_corridor"
	RuleRoomToRoom         Rule = "room_to_room"
	RuleCorridorLimit      Rule = "corridor_limit"
	RuleTargetIsEntrance   Rule = "target_is_entrance"
	RuleCorridorFanOut     Rule = "corridor_fan_out"
)

// Rules lists every rejecting rule in evaluation order.
var Rules = []Rule{
	RuleUnknownNode,
	RuleSelfEdge,
	RuleBossReachable,
	RuleTargetUnassigned,
	RuleDuplicateEdge,
	RuleReverseEdge,
	RuleTargetHasParent,
	RuleCorridorToCorridor,
	RuleRoomToRoom,
	RuleCorridorLimit,
	RuleTargetIsEntrance,
	RuleCorridorFanOut,
}

// Allowed reports whether r permits the edge.
func (r Rule) Allowed() bool { return r == RuleOK }

// Check evaluates the proposed edge fromID -> toID against the current graph
// and returns the first rule that rejects it, or RuleOK.
//
// Because a child must have no parent and entrances and placeholder nodes can
// never be children, every accepted edge keeps the graph a forest rooted at
// entrance nodes; no separate cycle check is performed.
//
// Postcondition: The graph is not modified.
func (g *Graph) Check(fromID, toID string) Rule {
	g.mustBeIndexed()

	from, ok := g.index[fromID]
	if !ok {
		return RuleUnknownNode
	}
	if fromID == toID {
		return RuleSelfEdge
	}
	to, ok := g.index[toID]
	if !ok {
		return RuleUnknownNode
	}

	fromType, toType := from.roomType, to.roomType

	if toType.IsBossRoom && g.bossReachable() {
		return RuleBossReachable
	}
	if toType.IsNone {
		return RuleTargetUnassigned
	}
	if from.HasChild(toID) {
		return RuleDuplicateEdge
	}
	if from.HasParent(toID) {
		return RuleReverseEdge
	}
	if len(to.parentIDs) > 0 {
		return RuleTargetHasParent
	}
	if toType.Corridor() && fromType.Corridor() {
		return RuleCorridorToCorridor
	}
	if !toType.Corridor() && !fromType.Corridor() {
		return RuleRoomToRoom
	}
	if toType.Corridor() && len(from.childIDs) >= g.maxChildCorridors {
		return RuleCorridorLimit
	}
	if toType.IsEntrance {
		return RuleTargetIsEntrance
	}
	// A corridor leads to exactly one room.
	if !toType.Corridor() && len(from.childIDs) > 0 {
		return RuleCorridorFanOut
	}
	return RuleOK
}

// CanConnect reports whether the edge fromID -> toID may be created.
//
// Postcondition: The graph is not modified.
func (g *Graph) CanConnect(fromID, toID string) bool {
	return g.Check(fromID, toID).Allowed()
}

// bossReachable reports whether any boss room already has a parent.
func (g *Graph) bossReachable() bool {
	for _, n := range g.nodes {
		if n.roomType.IsBossRoom && len(n.parentIDs) > 0 {
			return true
		}
	}
	return false
}
