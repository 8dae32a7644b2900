// Package postid generates the 12-digit decimal identifiers of posts.
//
// An identifier is the Unix time in milliseconds reduced to its 12 least
// significant digits, so identifiers sort by creation time. While the clock
// stays below the 10^12 rollover a Generator never issues the same value twice:
// when the clock has not advanced past the last issued value it hands out the
// last value plus one. At the rollover it restarts from zero and may repeat
// values issued long ago, which the posts primary key rejects.
package postid

import (
	"fmt"
	"sync"
	"time"
)

const (
	Length = 12
	modulo = 1_000_000_000_000
)

type Generator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func New() *Generator {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Generator {
	return &Generator{
		now:  now,
		last: -1,
	}
}

func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := g.now().UnixMilli() % modulo
	if v <= g.last {
		v = g.last + 1
	}
	if v >= modulo {
		v = 0
	}
	g.last = v

	return Format(v)
}

func Format(v int64) string {
	return fmt.Sprintf("%0*d", Length, v)
}

// Valid reports whether s has the shape of a post identifier.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
