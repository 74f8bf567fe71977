package editorserver

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/roomgraph/internal/game/roomgraph"
)

// requireString returns the non-empty string field key of req.
func requireString(req *structpb.Struct, key string) (string, error) {
	v := req.GetFields()[key].GetStringValue()
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return v, nil
}

func optString(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func optNumber(req *structpb.Struct, key string) float64 {
	return req.GetFields()[key].GetNumberValue()
}

func position(req *structpb.Struct, xKey, yKey string) roomgraph.Position {
	return roomgraph.Position{X: optNumber(req, xKey), Y: optNumber(req, yKey)}
}

func stringList(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func nodeValue(n *roomgraph.RoomNode) map[string]any {
	pos := n.Position()
	return map[string]any{
		"id":       n.ID(),
		"type":     n.Type().Name,
		"x":        pos.X,
		"y":        pos.Y,
		"parents":  stringList(n.ParentIDs()),
		"children": stringList(n.ChildIDs()),
	}
}

func graphValue(id, name string, g roomgraph.Reader) map[string]any {
	nodes := g.Nodes()
	list := make([]any, len(nodes))
	for i, n := range nodes {
		list[i] = nodeValue(n)
	}
	return map[string]any{
		"graph_id": id,
		"name":     name,
		"nodes":    list,
	}
}

func reply(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}
