// Package ids generates natural keys for memos and style profiles on the
// device that creates them.
package ids

import (
	"sync"
	"time"
)

// Generator hands out strictly increasing ids derived from the wall clock in
// microseconds. Two devices of one user would only collide when creating a
// record within the same microsecond.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Observe makes every later id greater than id. Ids handed out before a
// clock step backwards are observed from the store, so the step cannot
// reuse them.
func (g *Generator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMicro()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
