package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/spirit11-ui/internal/auth"
	"github.com/Billy-Davies-2/spirit11-ui/internal/backend"
	"github.com/Billy-Davies-2/spirit11-ui/internal/leaderboard"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/pubsub"
	"github.com/Billy-Davies-2/spirit11-ui/internal/session"
)

// Server implements the gRPC Dashboard service
type Server struct {
	auth   *auth.Manager
	viewer *leaderboard.Viewer
	pubsub *pubsub.PubSub
}

// NewServer creates a new gRPC server
func NewServer(manager *auth.Manager, viewer *leaderboard.Viewer, ps *pubsub.PubSub) *Server {
	return &Server{auth: manager, viewer: viewer, pubsub: ps}
}

// NewGRPCServer returns a grpc.Server with session authentication and the Dashboard service registered
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts,
		grpc.ChainUnaryInterceptor(srv.unaryAuth),
		grpc.ChainStreamInterceptor(srv.streamAuth),
	)
	gs := grpc.NewServer(opts...)
	RegisterDashboardServer(gs, srv)
	return gs
}

// Leaderboard returns the ranked standings for the caller
func (s *Server) Leaderboard(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	sess, client, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	var src leaderboard.Source = client
	if sess.IsAdmin() {
		src = leaderboard.StandingsOnly(client)
	}
	logger.Debug("gRPC: Loading leaderboard", "username", sess.User.Username)
	board, err := s.viewer.Load(ctx, src, sess.User.ID)
	if err != nil {
		logger.Error("gRPC: Failed to load leaderboard", "error", err)
		return nil, toStatus(err)
	}
	return toStruct(board)
}

// TournamentSummary returns tournament-wide statistics
func (s *Server) TournamentSummary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	_, client, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := client.TournamentSummary(ctx)
	if err != nil {
		logger.Error("gRPC: Failed to load tournament summary", "error", err)
		return nil, toStatus(err)
	}
	return toStruct(summary)
}

// WatchChanges streams change events visible to the caller
func (s *Server) WatchChanges(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	sess, ok := session.FromContext(stream.Context())
	if !ok {
		return status.Error(codes.Unauthenticated, "not signed in")
	}

	logger.Debug("gRPC: New client connected to event stream", "username", sess.User.Username)
	events := s.pubsub.Subscribe()
	defer s.pubsub.Unsubscribe(events)

	for {
		select {
		case ev, open := <-events:
			if !open {
				return nil
			}
			if !ev.VisibleTo(sess.User.Username) {
				continue
			}
			msg, err := toStruct(ev)
			if err != nil {
				logger.Warn("gRPC: Failed to encode event", "type", ev.Type, "error", err)
				continue
			}
			if err := stream.Send(msg); err != nil {
				logger.Error("gRPC: Failed to send event to stream", "error", err)
				return err
			}
		case <-stream.Context().Done():
			logger.Debug("gRPC: Client disconnected from event stream")
			return nil
		}
	}
}

func (s *Server) caller(ctx context.Context) (*session.Session, *backend.AuthClient, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, nil, status.Error(codes.Unauthenticated, "not signed in")
	}
	client, err := s.auth.Client(sess)
	if err != nil {
		return nil, nil, status.Error(codes.Unauthenticated, err.Error())
	}
	return sess, client, nil
}

// authenticate resolves the "authorization: Bearer <session id>" metadata
func (s *Server) authenticate(ctx context.Context) (context.Context, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization metadata")
	}
	id, ok := strings.CutPrefix(values[0], "Bearer ")
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authorization must be a bearer session id")
	}
	sess, err := s.auth.Lookup(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return session.NewContext(ctx, sess), nil
}

func (s *Server) unaryAuth(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	ctx, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

func (s *Server) streamAuth(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := s.authenticate(ss.Context())
	if err != nil {
		return err
	}
	return handler(srv, &authedStream{ServerStream: ss, ctx: ctx})
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (a *authedStream) Context() context.Context {
	return a.ctx
}

// toStatus maps domain and backend errors onto gRPC codes
func toStatus(err error) error {
	if errors.Is(err, auth.ErrUnauthenticated) {
		return status.Error(codes.Unauthenticated, err.Error())
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		code := codes.Unavailable
		switch apiErr.Status {
		case http.StatusBadRequest:
			code = codes.InvalidArgument
		case http.StatusUnauthorized:
			code = codes.Unauthenticated
		case http.StatusForbidden:
			code = codes.PermissionDenied
		case http.StatusNotFound:
			code = codes.NotFound
		case http.StatusConflict:
			code = codes.AlreadyExists
		}
		return status.Error(code, apiErr.Error())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

// toStruct converts any JSON-encodable value into a protobuf Struct
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}
