package metrics

import (
	"github.com/san-kum/chargesim/internal/sim"
)

// MergeCount totals annihilations over the run.
type MergeCount struct {
	name   string
	merges int
}

func NewMergeCount() *MergeCount {
	return &MergeCount{name: "merges"}
}

func (m *MergeCount) Name() string           { return m.name }
func (m *MergeCount) Observe(s sim.Snapshot) { m.merges += s.Merges }
func (m *MergeCount) Value() float64         { return float64(m.merges) }
func (m *MergeCount) Reset()                 { m.merges = 0 }

// NetCharge reports the total signed charge at the latest tick.
type NetCharge struct {
	name string
	q    float64
}

func NewNetCharge() *NetCharge {
	return &NetCharge{name: "net_charge"}
}

func (n *NetCharge) Name() string { return n.name }

func (n *NetCharge) Observe(s sim.Snapshot) { n.q = SumCharge(s) }

func (n *NetCharge) Value() float64 { return n.q }
func (n *NetCharge) Reset()         { n.q = 0 }

// SumCharge returns the signed sum of q over the snapshot.
func SumCharge(s sim.Snapshot) float64 {
	q := 0.0
	for i := range s.Charges {
		q += s.Charges[i].Q
	}
	return q
}

// LiveCharges reports the charge count at the latest tick.
type LiveCharges struct {
	name string
	n    int
}

func NewLiveCharges() *LiveCharges {
	return &LiveCharges{name: "live_charges"}
}

func (l *LiveCharges) Name() string           { return l.name }
func (l *LiveCharges) Observe(s sim.Snapshot) { l.n = len(s.Charges) }
func (l *LiveCharges) Value() float64         { return float64(l.n) }
func (l *LiveCharges) Reset()                 { l.n = 0 }
