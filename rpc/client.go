package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"robot-maze-server/maze"
)

// Client calls the Pathfinder service and converts its messages to maze
// types.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// SearchResult is the decoded FindPath reply.
type SearchResult struct {
	Found    bool
	Steps    int
	Path     []maze.Point
	Explored int
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindPath searches the given layout rows on the server.
func (c *Client) FindPath(ctx context.Context, rows []string) (*SearchResult, error) {
	out, err := c.invoke(ctx, FindPathMethod, map[string]any{"layout": stringsToList(rows)})
	if err != nil {
		return nil, err
	}
	f := out.GetFields()
	res := &SearchResult{
		Found:    f["found"].GetBoolValue(),
		Steps:    int(f["steps"].GetNumberValue()),
		Explored: int(f["explored"].GetNumberValue()),
	}
	for _, v := range f["path"].GetListValue().GetValues() {
		pf := v.GetStructValue().GetFields()
		res.Path = append(res.Path, maze.Point{
			X: int(pf["x"].GetNumberValue()),
			Y: int(pf["y"].GetNumberValue()),
		})
	}
	return res, nil
}

// IsSolvable reports whether the layout has a path from Start to End.
func (c *Client) IsSolvable(ctx context.Context, rows []string) (bool, error) {
	out, err := c.invoke(ctx, IsSolvableMethod, map[string]any{"layout": stringsToList(rows)})
	if err != nil {
		return false, err
	}
	return out.GetFields()["solvable"].GetBoolValue(), nil
}

// Generate asks the server for a new maze. A nil seed lets the server pick
// one.
func (c *Client) Generate(ctx context.Context, name string, width, height int, seed *int64) (*maze.Layout, error) {
	req := map[string]any{"name": name, "width": width, "height": height}
	if seed != nil {
		req["seed"] = *seed
	}
	out, err := c.invoke(ctx, GenerateMethod, req)
	if err != nil {
		return nil, err
	}
	f := out.GetFields()
	l := &maze.Layout{
		Name:   f["name"].GetStringValue(),
		Width:  int(f["width"].GetNumberValue()),
		Height: int(f["height"].GetNumberValue()),
	}
	for _, v := range f["layout"].GetListValue().GetValues() {
		l.Rows = append(l.Rows, v.GetStringValue())
	}
	return l, nil
}

func stringsToList(rows []string) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
