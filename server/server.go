// Package server hosts tetris games over gRPC. Every game runs on the
// server; clients send actions and watch the snapshots it produces.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"wtptetris/proto"
	"wtptetris/tetris"
)

var ErrGameNotFound = errors.New("game not found")

// watcherBuffer is how many snapshots a slow watcher may fall behind before
// the oldest ones are dropped.
const watcherBuffer = 16

type session struct {
	id   string
	game *tetris.Game

	mu       sync.Mutex
	last     *structpb.Struct
	watchers map[chan *structpb.Struct]struct{}
	doneCh   chan struct{}
}

func newSession(id string, game *tetris.Game) *session {
	return &session{
		id:       id,
		game:     game,
		watchers: make(map[chan *structpb.Struct]struct{}),
		doneCh:   make(chan struct{}),
	}
}

// subscribe registers a watcher. The latest snapshot, if any, is queued
// first so a late watcher sees the board straight away.
func (s *session) subscribe() chan *structpb.Struct {
	ch := make(chan *structpb.Struct, watcherBuffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil {
		ch <- s.last
	}
	s.watchers[ch] = struct{}{}
	return ch
}

func (s *session) unsubscribe(ch chan *structpb.Struct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers, ch)
}

func (s *session) broadcast(st *structpb.Struct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = st
	for ch := range s.watchers {
		select {
		case ch <- st:
			continue
		default:
		}
		// drop the oldest snapshot to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

type Server struct {
	proto.UnimplementedTetrisServiceServer
	config *config

	mu       sync.Mutex
	sessions map[string]*session
	wg       sync.WaitGroup
	stopCh   chan struct{}
}

func New(opts ...Option) *Server {
	return &Server{
		config:   newConfig(opts),
		sessions: make(map[string]*session),
		stopCh:   make(chan struct{}),
	}
}

// Register adds the service to a gRPC server.
func (s *Server) Register(r grpc.ServiceRegistrar) {
	proto.RegisterTetrisServiceServer(r, s)
}

// Close stops every running game.
func (s *Server) Close() {
	s.mu.Lock()
	select {
	case <-s.stopCh:
		s.mu.Unlock()
		return
	default:
	}
	close(s.stopCh)
	s.mu.Unlock()
	s.wg.Wait()
}

// Games returns the number of games in progress.
func (s *Server) Games() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) NewGame(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stopCh:
		return nil, status.Error(codes.Unavailable, "server is shutting down")
	default:
	}

	id := uuid.NewString()
	sess := newSession(id, s.config.newGame())
	s.sessions[id] = sess
	s.wg.Add(1)
	go s.run(sess)
	sess.game.Start()

	s.config.logger.Info("game started", slog.String("game_id", id))
	return wrapperspb.String(id), nil
}

func (s *Server) Act(_ context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	id, a, err := proto.ParseActRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if !sess.game.Action(a) {
		return nil, status.Errorf(codes.FailedPrecondition, "game %s is over", id)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) Watch(in *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	sess, err := s.session(in.GetValue())
	if err != nil {
		return err
	}
	ch := sess.subscribe()
	defer sess.unsubscribe(ch)

	ctx := stream.Context()
	for {
		select {
		case st := <-ch:
			if err := stream.Send(st); err != nil {
				return err
			}
		case <-sess.doneCh:
			// flush what's left, the game over snapshot included.
			for {
				select {
				case st := <-ch:
					if err := stream.Send(st); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Server) session(id string) (*session, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, proto.ErrMissingGameID.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, status.Error(codes.NotFound, fmt.Errorf("game %s: %w", id, ErrGameNotFound).Error())
	}
	return sess, nil
}

// run fans the game's snapshots out to its watchers until the game is
// over or the server closes.
func (s *Server) run(sess *session) {
	defer s.wg.Done()
	defer func() {
		sess.game.Stop()
		close(sess.doneCh)
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
	}()

	logger := s.config.logger.With(slog.String("game_id", sess.id))
	for {
		select {
		case snap := <-sess.game.Updates():
			st, err := proto.SnapshotToStruct(snap)
			if err != nil {
				logger.Error("unable to encode snapshot", slog.String("error", err.Error()))
				continue
			}
			sess.broadcast(st)
			if snap.GameOver {
				logger.Info("game over", slog.Int("blocks", len(snap.Board)))
				return
			}
		case <-s.stopCh:
			logger.Debug("game stopped")
			return
		}
	}
}
