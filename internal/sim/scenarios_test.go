package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/voltmeter"
)

const frame = 1.0 / 60

var _ = Describe("Simulator", func() {
	var (
		s   *Simulator
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		s, err = New(physics.DefaultParams(), testLayout(), voltmeter.DefaultTolerance())
		Expect(err).NotTo(HaveOccurred())
	})

	tickN := func(n int) []*TickReport {
		reports := make([]*TickReport, 0, n)
		for i := 0; i < n; i++ {
			r, err := s.Tick(ctx, frame)
			Expect(err).NotTo(HaveOccurred())
			reports = append(reports, r)
		}
		return reports
	}

	Context("with two like charges at rest", func() {
		BeforeEach(func() {
			_, err := s.PlaceCharge(physics.Positive, r2.Vec{X: 300, Y: 250}, false)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.PlaceCharge(physics.Positive, r2.Vec{X: 500, Y: 250}, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("pushes them apart symmetrically", func() {
			tickN(30)
			cs := s.Charges()
			Expect(cs).To(HaveLen(2))
			Expect(cs[0].Pos.X).To(BeNumerically("<", 300))
			Expect(cs[1].Pos.X).To(BeNumerically(">", 500))
			Expect(cs[0].Pos.X + cs[1].Pos.X).To(BeNumerically("~", 800, 1e-9))
			Expect(cs[0].Pos.Y).To(Equal(250.0))
		})

		It("applies equal and opposite forces", func() {
			tickN(1)
			cs := s.Charges()
			Expect(cs[0].Net.X).To(BeNumerically("~", -cs[1].Net.X, 1e-15))
			Expect(cs[0].Net.X).To(BeNumerically("<", 0))
		})
	})

	Context("with two opposite charges", func() {
		BeforeEach(func() {
			s.PlaceCharge(physics.Positive, r2.Vec{X: 290, Y: 250}, false)
			s.PlaceCharge(physics.Negative, r2.Vec{X: 410, Y: 250}, false)
		})

		It("draws them together and merges them into one neutral body", func() {
			var merged *MergeEvent
			for i := 0; i < 300 && merged == nil; i++ {
				r, err := s.Tick(ctx, frame)
				Expect(err).NotTo(HaveOccurred())
				if len(r.Merges) > 0 {
					merged = &r.Merges[0]
					Expect(r.Live).To(Equal(1))
				}
			}
			Expect(merged).NotTo(BeNil(), "charges never merged")
			Expect(merged.Product).To(Equal(merged.First))

			cs := s.Charges()
			Expect(cs).To(HaveLen(1))
			Expect(cs[0].Sign).To(Equal(physics.Neutral))
			Expect(cs[0].Q).To(BeZero())
			Expect(cs[0].Pos.X).To(BeNumerically("~", 350, 1e-6))
			Expect(cs[0].Pos.Y).To(BeNumerically("~", 250, 1e-9))
		})
	})

	Context("with three mutually overlapping charges", func() {
		It("merges only one pair per charge in a tick", func() {
			s.PlaceCharge(physics.Positive, r2.Vec{X: 300, Y: 250}, false)
			s.PlaceCharge(physics.Negative, r2.Vec{X: 310, Y: 250}, false)
			s.PlaceCharge(physics.Negative, r2.Vec{X: 320, Y: 250}, false)

			r := tickN(1)[0]
			Expect(r.Merges).To(HaveLen(1))
			Expect(r.Merges[0].First).To(Equal(0))
			Expect(r.Merges[0].Second).To(Equal(1))

			cs := s.Charges()
			Expect(cs).To(HaveLen(2))
			Expect(cs[0].ID).To(Equal(2))
			Expect(cs[0].Sign).To(Equal(physics.Negative))
			Expect(cs[1].ID).To(Equal(0))
			Expect(cs[1].Sign).To(Equal(physics.Neutral))
		})
	})

	Context("with overlapping like charges", func() {
		It("separates a movable charge from a fixed one", func() {
			anchor, _ := s.PlaceCharge(physics.Positive, r2.Vec{X: 400, Y: 250}, true)
			free, _ := s.PlaceCharge(physics.Positive, r2.Vec{X: 450, Y: 250}, false)

			r := tickN(1)[0]
			Expect(r.Collisions).To(Equal(1))
			Expect(r.Merges).To(BeEmpty())

			a, _ := s.Charge(anchor)
			b, _ := s.Charge(free)
			Expect(a.Pos).To(Equal(r2.Vec{X: 400, Y: 250}))
			Expect(b.Pos.X - a.Pos.X).To(BeNumerically(">=", a.Radius+b.Radius))
			Expect(b.Vel).To(Equal(r2.Vec{}))
		})
	})

	Context("with a fixed charge", func() {
		It("never moves it", func() {
			id, _ := s.PlaceCharge(physics.Positive, r2.Vec{X: 400, Y: 250}, true)
			s.PlaceCharge(physics.Positive, r2.Vec{X: 560, Y: 250}, false)
			tickN(60)
			c, ok := s.Charge(id)
			Expect(ok).To(BeTrue())
			Expect(c.Pos).To(Equal(r2.Vec{X: 400, Y: 250}))
			Expect(c.Vel).To(Equal(r2.Vec{}))
			Expect(c.Acc).To(Equal(r2.Vec{}))
		})
	})

	Context("with a fixed dipole and the voltmeter", func() {
		BeforeEach(func() {
			s.PlaceCharge(physics.Positive, r2.Vec{X: 300, Y: 250}, true)
			s.PlaceCharge(physics.Negative, r2.Vec{X: 500, Y: 250}, true)
		})

		It("reads zero at the midpoint", func() {
			Expect(s.SetProbePosition(r2.Vec{X: 400, Y: 250})).To(BeNumerically("~", 0, 1e-9))
		})

		It("flags the pinned equipotential on the grid", func() {
			s.ToggleVoltmeter()
			s.SetProbePosition(r2.Vec{X: 400, Y: 250})
			level := s.PinEquipotential()
			Expect(s.Voltmeter().Levels()).To(ConsistOf(level))

			r := tickN(1)[0]
			Expect(r.OnLevel).To(BeNumerically(">", 0))

			g := s.Grid()
			mid, ok := g.Index(r2.Vec{X: 400, Y: 250})
			Expect(ok).To(BeTrue())
			Expect(g.OnLevel[mid]).To(BeTrue())

			near, _ := g.Index(r2.Vec{X: 350, Y: 250})
			Expect(g.OnLevel[near]).To(BeFalse())

			s.ClearEquipotentials()
			r = tickN(1)[0]
			Expect(r.OnLevel).To(BeZero())
		})

		It("hides probes around each charge", func() {
			tickN(1)
			hidden := 0
			for _, p := range s.Probes() {
				if p.Hidden {
					hidden++
					Expect(p.Net).To(Equal(r2.Vec{}))
				}
			}
			Expect(hidden).To(BeNumerically(">", 0))
			Expect(s.ProbeMax()).To(BeNumerically(">", 0))
		})
	})

	Context("with no charges", func() {
		It("samples a flat field", func() {
			r := tickN(1)[0]
			Expect(r.Live).To(BeZero())
			Expect(r.ProbeMax).To(BeZero())
			lo, hi := s.Grid().Range()
			Expect(lo).To(BeZero())
			Expect(hi).To(BeZero())
		})
	})
	Context("with a free dipole", func() {
		BeforeEach(func() {
			s.PlaceCharge(physics.Positive, r2.Vec{X: 100, Y: 100}, false)
			s.PlaceCharge(physics.Negative, r2.Vec{X: 300, Y: 100}, false)
		})

		It("pulls each charge toward the other with zero potential between them", func() {
			_, err := s.Tick(ctx, 0.016)
			Expect(err).NotTo(HaveOccurred())

			cs := s.Charges()
			Expect(cs).To(HaveLen(2))
			Expect(cs[0].Net.X).To(BeNumerically(">", 0))
			Expect(cs[1].Net.X).To(BeNumerically("<", 0))
			Expect(cs[0].Net.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(cs[1].Net.Y).To(BeNumerically("~", 0, 1e-12))

			k, ok := s.Grid().Index(r2.Vec{X: 200, Y: 100})
			Expect(ok).To(BeTrue())
			v := s.Grid().Potential[k]
			Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
			Expect(v).To(BeNumerically("~", 0, 1e-6))
		})
	})

	Context("with two fixed opposite charges in contact", func() {
		BeforeEach(func() {
			s.PlaceCharge(physics.Positive, r2.Vec{X: 200, Y: 200}, true)
			s.PlaceCharge(physics.Negative, r2.Vec{X: 240, Y: 230}, true)
		})

		It("annihilates them into a fixed neutral at the midpoint", func() {
			Expect(s.Len()).To(Equal(2))
			r, err := s.Tick(ctx, 0.016)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Merges).To(HaveLen(1))
			Expect(r.Live).To(Equal(1))

			cs := s.Charges()
			Expect(cs).To(HaveLen(1))
			Expect(cs[0].Sign).To(Equal(physics.Neutral))
			Expect(cs[0].Fixed).To(BeTrue())
			Expect(cs[0].Vel).To(Equal(r2.Vec{}))
			Expect(cs[0].Pos.X).To(BeNumerically("~", 220, 1e-9))
			Expect(cs[0].Pos.Y).To(BeNumerically("~", 215, 1e-9))
		})
	})
})
