package rpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"robot-maze-server/config"
	"robot-maze-server/logging"
	"robot-maze-server/maze"
	"robot-maze-server/metrics"
	"robot-maze-server/pathfinding"
)

// Server implements PathfinderServer on top of the pathfinding package.
type Server struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewServer(logger *slog.Logger, m *metrics.Metrics) *Server {
	return &Server{logger: logging.OrDefault(logger), metrics: m}
}

// NewGRPCServer returns a grpc.Server with the Pathfinder service and a
// logging interceptor registered.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(srv.logInterceptor)}, opts...)
	s := grpc.NewServer(opts...)
	RegisterPathfinderServer(s, srv)
	return s
}

func (s *Server) logInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info("grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

// FindPath expects {"layout": [rows...]} and returns
// {"found", "steps", "path": [{"x","y"}...], "explored"}.
func (s *Server) FindPath(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	m, err := mazeFromRequest(in)
	if err != nil {
		return nil, err
	}
	pf := pathfinding.NewPathFinder(pathfinding.WithObserver(s.metrics.ObserveSearch))
	path := pf.FindPath(m)

	points := make([]any, len(path))
	for i, p := range path {
		points[i] = map[string]any{"x": p.X, "y": p.Y}
	}
	return newStruct(map[string]any{
		"found":    len(path) > 0,
		"steps":    max(len(path)-1, 0),
		"path":     points,
		"explored": pf.ExploredCount(),
	})
}

// IsSolvable expects {"layout": [rows...]} and returns {"solvable"}.
func (s *Server) IsSolvable(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	m, err := mazeFromRequest(in)
	if err != nil {
		return nil, err
	}
	pf := pathfinding.NewPathFinder(pathfinding.WithObserver(s.metrics.ObserveSearch))
	return newStruct(map[string]any{"solvable": pf.IsSolvable(m)})
}

// Generate accepts optional "width", "height", "seed" and "name" and
// returns the layout as {"name", "width", "height", "layout"}.
func (s *Server) Generate(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	width, height := config.DefaultMazeWidth, config.DefaultMazeHeight
	if v, ok := fields["width"]; ok {
		width = int(v.GetNumberValue())
	}
	if v, ok := fields["height"]; ok {
		height = int(v.GetNumberValue())
	}
	g := maze.NewGenerator(nil)
	if v, ok := fields["seed"]; ok {
		g = maze.NewSeededGenerator(int64(v.GetNumberValue()))
	}

	l := maze.NewGenerated(width, height, g).ToLayout(fields["name"].GetStringValue())
	rows := make([]any, len(l.Rows))
	for i, r := range l.Rows {
		rows[i] = r
	}
	return newStruct(map[string]any{
		"name":   l.Name,
		"width":  l.Width,
		"height": l.Height,
		"layout": rows,
	})
}

func mazeFromRequest(in *structpb.Struct) (*maze.Maze, error) {
	v, ok := in.GetFields()["layout"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "layout is required")
	}
	values := v.GetListValue().GetValues()
	rows := make([]string, len(values))
	for i, rv := range values {
		if _, isString := rv.GetKind().(*structpb.Value_StringValue); !isString {
			return nil, status.Errorf(codes.InvalidArgument, "layout row %d is not a string", i)
		}
		rows[i] = rv.GetStringValue()
	}
	m, err := maze.Parse(rows)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return m, nil
}

func newStruct(v map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}
