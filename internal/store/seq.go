package store

import (
	"strconv"
	"sync"
	"time"
)

// idGenerator issues ids derived from the creation time in milliseconds.
// Ids created within the same millisecond are bumped forward so they never
// collide.
type idGenerator struct {
	mu   sync.Mutex
	last int64
}

func newIDGenerator() *idGenerator {
	return &idGenerator{}
}

func (g *idGenerator) next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := now.UnixMilli()
	if v <= g.last {
		v = g.last + 1
	}
	g.last = v
	return strconv.FormatInt(v, 10)
}
