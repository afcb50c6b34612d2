package tetris

import (
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
	m.stop = false
}
func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// NewTestTetris creates a Tetris whose pieces come from shapes, in order,
// repeating. With no shapes every piece is a J.
func NewTestTetris(shapes ...Shape) *Tetris {
	if len(shapes) == 0 {
		shapes = []Shape{J}
	}
	return New(WithSource(NewCycleSource(shapes...)))
}

// NewTestGame creates a game driven by a manual ticker.
func NewTestGame(shapes ...Shape) (*Game, *MockTicker) {
	if len(shapes) == 0 {
		shapes = []Shape{J}
	}
	ticker := NewMockTicker()
	return NewGame(WithSource(NewCycleSource(shapes...)), WithTicker(ticker)), ticker
}
