package export

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/sim"
)

// Tracer is a sim.Observer that keeps the most recent positions of every
// charge it has seen.
type Tracer struct {
	limit  int
	trails map[int][]r2.Vec
}

// NewTracer keeps at most limit points per charge. limit <= 0 keeps all.
func NewTracer(limit int) *Tracer {
	return &Tracer{limit: limit, trails: make(map[int][]r2.Vec)}
}

func (t *Tracer) OnTick(s sim.Snapshot) {
	for _, c := range s.Charges {
		if c.Fixed {
			continue
		}
		tr := append(t.trails[c.ID], c.Pos)
		if t.limit > 0 && len(tr) > t.limit {
			tr = tr[len(tr)-t.limit:]
		}
		t.trails[c.ID] = tr
	}
}

// Trails returns the recorded paths keyed by charge ID.
func (t *Tracer) Trails() map[int][]r2.Vec { return t.trails }
