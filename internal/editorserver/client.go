package editorserver

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a GraphEditor service over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req encoded as a Struct.
func (c *Client) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Open opens graphID, creating it with name when it does not exist.
func (c *Client) Open(ctx context.Context, graphID, name string) (*structpb.Struct, error) {
	return c.Call(ctx, "Open", map[string]any{"graph_id": graphID, "name": name})
}

// CreateNode adds an unassigned node and returns its id.
func (c *Client) CreateNode(ctx context.Context, graphID string, x, y float64) (string, error) {
	out, err := c.Call(ctx, "CreateNode", map[string]any{"graph_id": graphID, "x": x, "y": y})
	if err != nil {
		return "", err
	}
	return out.GetFields()["node"].GetStructValue().GetFields()["id"].GetStringValue(), nil
}

// ChangeType assigns typeName to nodeID.
func (c *Client) ChangeType(ctx context.Context, graphID, nodeID, typeName string) (bool, error) {
	out, err := c.Call(ctx, "ChangeType", map[string]any{"graph_id": graphID, "node_id": nodeID, "type": typeName})
	if err != nil {
		return false, err
	}
	return out.GetFields()["changed"].GetBoolValue(), nil
}

// Connect requests the edge from -> to and returns whether it was added and
// the deciding rule.
func (c *Client) Connect(ctx context.Context, graphID, from, to string) (bool, string, error) {
	out, err := c.Call(ctx, "Connect", map[string]any{"graph_id": graphID, "from": from, "to": to})
	if err != nil {
		return false, "", err
	}
	f := out.GetFields()
	return f["ok"].GetBoolValue(), f["rule"].GetStringValue(), nil
}

// Save persists graphID.
func (c *Client) Save(ctx context.Context, graphID string) error {
	_, err := c.Call(ctx, "Save", map[string]any{"graph_id": graphID})
	return err
}
