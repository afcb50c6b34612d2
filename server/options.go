package server

import (
	"log/slog"

	"wtptetris/tetris"
)

type config struct {
	logger      *slog.Logger
	gameOptions []tetris.Option
	newGame     func() *tetris.Game
}

type Option func(*config)

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGameOptions sets the options every hosted game is created with.
func WithGameOptions(opts ...tetris.Option) Option {
	return func(c *config) {
		c.gameOptions = append(c.gameOptions, opts...)
	}
}

// WithGameFactory replaces how hosted games are created.
func WithGameFactory(f func() *tetris.Game) Option {
	return func(c *config) {
		c.newGame = f
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	if c.newGame == nil {
		gameOpts := append([]tetris.Option{tetris.WithLogger(c.logger)}, c.gameOptions...)
		c.newGame = func() *tetris.Game { return tetris.NewGame(gameOpts...) }
	}
	return c
}
