package tetris

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	t := &wrappedTicker{ticker: time.NewTicker(d)}
	t.ticker.Stop()
	return t
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs a Tetris on its own goroutine. Gravity ticks and player actions
// go through a single loop, so transitions never overlap and are applied in
// the order they arrive.
type Game struct {
	config   *config
	ticker   Ticker
	actionCh chan Action
	updateCh chan Snapshot
	latest   atomic.Pointer[Snapshot]

	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewGame(opts ...Option) *Game {
	c := newConfig(opts)
	ticker := c.ticker
	if ticker == nil {
		ticker = newWrappedTicker(c.interval)
	}
	g := &Game{
		config:   c,
		ticker:   ticker,
		actionCh: make(chan Action),
		updateCh: make(chan Snapshot),
	}
	g.latest.Store(&Snapshot{})
	return g
}

// Start begins a new game. A running game is stopped first.
func (g *Game) Start() {
	g.Stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	t := newTetris(g.config)
	s := t.Snapshot()
	g.latest.Store(&s)
	g.stopCh = make(chan struct{})
	g.doneCh = make(chan struct{})
	go g.listen(t, g.stopCh, g.doneCh)
}

// Stop ends the running game, if any, and waits for its loop to return.
func (g *Game) Stop() {
	g.mu.Lock()
	stopCh, doneCh := g.stopCh, g.doneCh
	g.stopCh = nil
	g.mu.Unlock()
	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
}

// Action hands a command to the running game. It reports false when there
// is no game to receive it.
func (g *Game) Action(a Action) bool {
	g.mu.Lock()
	doneCh := g.doneCh
	g.mu.Unlock()
	if doneCh == nil {
		return false
	}
	select {
	case g.actionCh <- a:
		return true
	case <-doneCh:
		return false
	}
}

// Updates emits a snapshot when the game starts and after every tick or
// action. The last one of a game has GameOver set.
func (g *Game) Updates() <-chan Snapshot { return g.updateCh }

// Read returns the latest snapshot. It's safe to call concurrently.
func (g *Game) Read() Snapshot { return *g.latest.Load() }

func (g *Game) listen(t *Tetris, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	defer g.ticker.Stop()

	if !g.publish(t, stopCh) {
		return
	}
	g.ticker.Reset(g.config.interval)
	for {
		select {
		case <-g.ticker.C():
			t.Tick()
		case a := <-g.actionCh:
			t.Apply(a)
		case <-stopCh:
			return
		}
		if !g.publish(t, stopCh) {
			return
		}
		if t.GameOver() {
			g.config.logger.Info("game over", slog.Int("blocks", t.board.Len()))
			return
		}
	}
}

// publish stores and emits the current snapshot. It gives up when the game
// is stopped while nobody is reading updates.
func (g *Game) publish(t *Tetris, stopCh chan struct{}) bool {
	s := t.Snapshot()
	g.latest.Store(&s)
	select {
	case g.updateCh <- s:
		return true
	case <-stopCh:
		return false
	}
}
