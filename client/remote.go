package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"wtptetris/proto"
	"wtptetris/tetris"
)

const actTimeout = time.Second

// RemoteGame plays a game hosted by the server. It offers the same
// commands as a local game. When created with a game id it only watches
// that game and ignores actions.
type RemoteGame struct {
	conn   *grpc.ClientConn
	tsc    proto.TetrisServiceClient
	logger *slog.Logger
	watch  string

	mu       sync.Mutex
	id       string
	updateCh chan tetris.Snapshot
	cancel   context.CancelFunc
	doneCh   chan struct{}
}

func NewRemoteGame(addr, watch string, l *slog.Logger) (*RemoteGame, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC client: %w", err)
	}
	return newRemoteGame(conn, proto.NewTetrisServiceClient(conn), watch, l), nil
}

func newRemoteGame(conn *grpc.ClientConn, tsc proto.TetrisServiceClient, watch string, l *slog.Logger) *RemoteGame {
	return &RemoteGame{
		conn:     conn,
		tsc:      tsc,
		logger:   l,
		watch:    watch,
		updateCh: make(chan tetris.Snapshot),
	}
}

// Start asks the server for a new game, or joins the watched one, and
// streams its snapshots to Updates. The channel is closed when the stream
// ends.
func (r *RemoteGame) Start() {
	r.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.id = ""
	r.updateCh = make(chan tetris.Snapshot)
	r.doneCh = make(chan struct{})
	go r.run(ctx, r.updateCh, r.doneCh)
}

// Stop leaves the game and waits for the stream to close.
func (r *RemoteGame) Stop() {
	r.mu.Lock()
	cancel, doneCh := r.cancel, r.doneCh
	r.cancel = nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-doneCh
}

func (r *RemoteGame) Updates() <-chan tetris.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateCh
}

// ID returns the id of the game being played or watched, empty until the
// server has answered.
func (r *RemoteGame) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

func (r *RemoteGame) Action(a tetris.Action) bool {
	id := r.ID()
	if r.watch != "" || id == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), actTimeout)
	defer cancel()
	if _, err := r.tsc.Act(ctx, proto.NewActRequest(id, a)); err != nil {
		r.logger.Debug("unable to send action", slog.String("action", string(a)), slog.String("error", err.Error()))
		return false
	}
	return true
}

// Close stops the game and the connection to the server.
func (r *RemoteGame) Close() {
	r.Stop()
	if r.conn == nil {
		return
	}
	if err := r.conn.Close(); err != nil {
		r.logger.Error("unable to close gRPC client", slog.String("error", err.Error()))
	}
}

func (r *RemoteGame) run(ctx context.Context, updateCh chan tetris.Snapshot, doneCh chan struct{}) {
	defer close(doneCh)
	defer close(updateCh)

	id := r.watch
	if id == "" {
		res, err := r.tsc.NewGame(ctx, &emptypb.Empty{})
		if err != nil {
			r.logStreamErr("NewGame", err)
			return
		}
		id = res.GetValue()
	}
	r.mu.Lock()
	r.id = id
	r.mu.Unlock()
	r.logger.Info("online game", slog.String("game_id", id), slog.Bool("watching", r.watch != ""))

	stream, err := r.tsc.Watch(ctx, wrapperspb.String(id))
	if err != nil {
		r.logStreamErr("Watch", err)
		return
	}
	for {
		st, err := stream.Recv()
		if err != nil {
			r.logStreamErr("Watch", err)
			return
		}
		s, err := proto.SnapshotFromStruct(st)
		if err != nil {
			r.logger.Error("unable to decode snapshot", slog.String("error", err.Error()))
			return
		}
		select {
		case updateCh <- s:
		case <-ctx.Done():
			return
		}
	}
}

func (r *RemoteGame) logStreamErr(method string, err error) {
	if errors.Is(err, io.EOF) {
		r.logger.Debug(method+" closed with EOF", slog.String("msg", err.Error()))
		return
	}
	st, ok := status.FromError(err)
	switch {
	case ok && st.Code() == codes.Canceled:
		r.logger.Debug(method+" closed with Cancel", slog.String("msg", st.Message()))
	case ok && st.Code() == codes.DeadlineExceeded:
		r.logger.Debug(method+" closed with DeadlineExceeded", slog.String("msg", st.Message()))
	default:
		r.logger.Error(method+" failed", slog.String("error", err.Error()))
	}
}
