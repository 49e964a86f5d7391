package application

import "time"

// skipTimer counts an item's skip delay down by the tick deltas a peer
// receives. Every peer arms it from the same item value.
type skipTimer struct {
	remaining time.Duration
	armed     bool
}

func (t *skipTimer) start(d time.Duration) {
	t.remaining = d
	t.armed = d > 0
}

func (t *skipTimer) stop() {
	t.remaining = 0
	t.armed = false
}

// tick reports true exactly once, on the tick the delay runs out.
func (t *skipTimer) tick(dt time.Duration) bool {
	if !t.armed {
		return false
	}

	t.remaining -= dt
	if t.remaining > 0 {
		return false
	}
	t.armed = false
	return true
}
