// Package client is the terminal front end: a lobby, the keyboard loop and
// the game being played, local or online.
package client

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/eiannone/keyboard"

	"wtptetris/terminal"
	"wtptetris/tetris"
)

type clientState int

const (
	lobby clientState = iota
	waiting
	playing
	watching
)

type state struct {
	current clientState
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) set(c clientState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

// swap sets the state to c if it's currently from.
func (s *state) swap(from, c clientState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != from {
		return false
	}
	s.current = c
	return true
}

type tetrisGame interface {
	Start()
	Stop()
	Action(tetris.Action) bool
	Updates() <-chan tetris.Snapshot
}

type renderer interface {
	Game(tetris.Snapshot)
	Lobby(lines ...string)
	Clear()
	SetTitle(string)
}

type Client struct {
	local  tetrisGame
	dial   func(watch string) (tetrisGame, error)
	render renderer
	logger *slog.Logger
	kbCh   <-chan keyboard.KeyEvent
	state  *state

	options *Options

	mu     sync.Mutex
	game   tetrisGame
	stopCh chan struct{}
	wg     sync.WaitGroup
}

type Options struct {
	NoGhost bool
	Address string
	// Online skips the lobby and starts an online game.
	Online bool
	// Watch is the id of an online game to spectate instead of playing.
	Watch string
}

func New(l *slog.Logger, o *Options, gameOpts ...tetris.Option) (*Client, error) {
	r, err := terminal.New(&terminal.Options{Writer: os.Stdout, Logger: l, NoGhost: o.NoGhost})
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return &Client{
		local:  tetris.NewGame(append(gameOpts, tetris.WithLogger(l))...),
		dial:   func(watch string) (tetrisGame, error) { return NewRemoteGame(o.Address, watch, l) },
		render: r,
		logger: l,
		kbCh:   kb,
		state:  &state{current: lobby},

		options: o,
	}, nil
}

// Start shows the lobby, or joins the watched game, and blocks until the
// player quits.
func (c *Client) Start() {
	c.render.Game(tetris.Snapshot{})
	switch {
	case c.options != nil && c.options.Watch != "":
		c.online(watching, c.options.Watch)
	case c.options != nil && c.options.Online:
		c.online(waiting, "")
	default:
		c.render.Lobby(terminal.Welcome...)
	}
	c.listenKB()
	c.stop()
	c.wg.Wait()
}

// Close releases the keyboard.
func (c *Client) Close() {
	if err := keyboard.Close(); err != nil {
		c.logger.Error("unable to close keyboard", slog.String("error", err.Error()))
	}
}

func (c *Client) listenKB() {
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			return
		}
		switch c.state.get() {
		case lobby:
			switch event.Rune {
			case 'p':
				c.state.set(playing)
				c.play(c.local)
			case 'o':
				c.online(waiting, "")
			case 'q':
				return
			}
		case waiting:
			if event.Rune == 'c' || event.Key == keyboard.KeyEsc {
				c.state.set(lobby)
				c.stop()
				c.render.Lobby(terminal.Welcome...)
			}
		case watching:
			if event.Rune == 'q' || event.Key == keyboard.KeyEsc {
				return
			}
		case playing:
			if event.Key == keyboard.KeyEsc {
				c.state.set(lobby)
				c.stop()
				c.render.Lobby(terminal.Welcome...)
				continue
			}
			g := c.currentGame()
			if a, ok := keyAction(event); ok && g != nil {
				g.Action(a)
			}
		}
	}
}

func keyAction(event keyboard.KeyEvent) (tetris.Action, bool) {
	switch {
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, true
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, true
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, true
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'w' || event.Rune == 'e':
		return tetris.RotatePiece, true
	case event.Key == keyboard.KeySpace:
		return tetris.DropDown, true
	}
	return "", false
}

func (c *Client) online(s clientState, watch string) {
	c.render.Lobby(terminal.Connecting...)
	g, err := c.dial(watch)
	if err != nil {
		c.logger.Error("unable to connect", slog.String("error", err.Error()))
		c.state.set(lobby)
		c.render.Lobby(terminal.Disconnected...)
		return
	}
	c.state.set(s)
	c.play(g)
}

func (c *Client) currentGame() tetrisGame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.game
}

// play starts g and renders its snapshots until the game is over, its
// stream ends or the player leaves.
func (c *Client) play(g tetrisGame) {
	c.stop()

	c.mu.Lock()
	stopCh := make(chan struct{})
	c.game, c.stopCh = g, stopCh
	c.mu.Unlock()

	g.Start()
	updates := g.Updates()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.listenTetris(g, updates, stopCh)
	}()
}

func (c *Client) listenTetris(g tetrisGame, updates <-chan tetris.Snapshot, stopCh chan struct{}) {
	first := true
	for {
		select {
		case s, ok := <-updates:
			if !ok {
				c.logger.Debug("game updates closed")
				if c.state.get() != lobby {
					c.state.set(lobby)
					c.render.Lobby(terminal.Disconnected...)
				}
				return
			}
			if first {
				first = false
				c.state.swap(waiting, playing)
				c.render.Clear()
				title := ""
				if r, ok := g.(*RemoteGame); ok {
					title = r.ID()
				}
				c.render.SetTitle(title)
			}
			c.render.Game(s)
			if s.GameOver {
				if c.state.get() == watching {
					c.render.Lobby(terminal.Watching...)
					return
				}
				c.state.set(lobby)
				c.render.Lobby(terminal.GameOver...)
				return
			}
		case <-stopCh:
			return
		}
	}
}

// stop ends the current game, if any. Online games also drop their
// connection.
func (c *Client) stop() {
	c.mu.Lock()
	g, stopCh := c.game, c.stopCh
	c.game, c.stopCh = nil, nil
	c.mu.Unlock()
	if stopCh == nil {
		return
	}
	close(stopCh)
	if cl, ok := g.(interface{ Close() }); ok {
		cl.Close()
		return
	}
	g.Stop()
}
