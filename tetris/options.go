package tetris

import (
	"log/slog"
	"time"
)

// DefaultInterval is the gravity period when none is configured.
const DefaultInterval = 1000 * time.Millisecond

type config struct {
	source   Source
	logger   *slog.Logger
	interval time.Duration
	ticker   Ticker
}

type Option func(*config)

// WithSource sets where new piece shapes come from.
func WithSource(s Source) Option {
	return func(c *config) {
		if s != nil {
			c.source = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInterval sets the gravity period of a Game. Non positive values
// keep the default.
func WithInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithTicker replaces the wall clock ticker of a Game, mostly for tests.
func WithTicker(t Ticker) Option {
	return func(c *config) {
		c.ticker = t
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:   slog.New(slog.DiscardHandler),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.source == nil {
		c.source = NewRandomSource(uint64(time.Now().UnixNano())) //nolint:gosec
	}
	return c
}
