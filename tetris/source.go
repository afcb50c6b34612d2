package tetris

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Source picks the shape of the next piece.
type Source interface {
	Next() Shape
}

// RandomSource draws every shape uniformly and independently. There is no
// bag: the same shape can come up any number of times in a row.
type RandomSource struct {
	r  *rand.Rand
	mu sync.Mutex
}

func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandomSource) Next() Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Shapes[s.r.IntN(len(Shapes))]
}

// CycleSource returns its shapes in order, starting over after the last one.
type CycleSource struct {
	shapes []Shape
	i      int
	mu     sync.Mutex
}

func NewCycleSource(shapes ...Shape) *CycleSource {
	if len(shapes) == 0 {
		shapes = Shapes
	}
	return &CycleSource{shapes: shapes}
}

func (s *CycleSource) Next() Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	shape := s.shapes[s.i]
	s.i = (s.i + 1) % len(s.shapes)
	return shape
}

// ParseSequence reads a comma separated list of shapes, like "I,O,T".
func ParseSequence(s string) ([]Shape, error) {
	var shapes []Shape
	for _, part := range strings.Split(s, ",") {
		shape, err := ParseShape(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}
