package cahnhilliard

import (
	"bytes"
	"context"
	"log"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("Driver", func() {
	var (
		grid     Grid
		material Material
		logger   *log.Logger
	)

	newNoisyField := func(nx, ny int, noise float64, seed int64) *Field {
		g, err := NewGrid(nx, ny, 1, 1)
		Expect(err).NotTo(HaveOccurred())
		f, err := NewMicrostructure(g, material, noise, rand.New(rand.NewSource(seed)))
		Expect(err).NotTo(HaveOccurred())
		return f
	}

	newClock := func(steps, every int, dt float64) *Clock {
		c, err := NewClock(steps, every, dt, 0)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	BeforeEach(func() {
		var err error
		grid, err = NewGrid(8, 8, 1, 1)
		Expect(err).NotTo(HaveOccurred())
		material, err = NewMaterial(0.4, 1.0, 0.5, 1.0)
		Expect(err).NotTo(HaveOccurred())
		logger = log.New(GinkgoWriter, "", 0)
	})

	It("should start idle", func() {
		f, _ := NewUniformField(grid, material)
		d, err := NewDriver(f, newClock(1, 1, 0.01), Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.State()).To(Equal(Idle))
	})

	It("should reject missing inputs", func() {
		f, _ := NewUniformField(grid, material)
		_, err := NewDriver(nil, newClock(1, 1, 0.01), Options{})
		Expect(err).To(MatchError(ErrMissingInput))
		_, err = NewDriver(f, nil, Options{})
		Expect(err).To(MatchError(ErrMissingInput))
		_, err = NewDriver(f, newClock(1, 1, 0.01), Options{EnergyCheckInterval: -1})
		Expect(err).To(MatchError(ErrInvalidOptions))
		_, err = NewDriver(f, newClock(1, 1, 0.01), Options{EnergyTolerance: -1})
		Expect(err).To(MatchError(ErrInvalidOptions))
	})

	It("should leave everything unchanged for a zero-step run", func() {
		f := newNoisyField(8, 8, 0.1, 11)
		before := f.Snapshot()
		clock := newClock(0, 1, 0.01)
		clock.Time = 3.5

		d, err := NewDriver(f, clock, Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Run(context.Background())).To(Succeed())

		Expect(mat.Equal(before, f.Value())).To(BeTrue())
		Expect(clock.Time).To(Equal(3.5))
		Expect(clock.Step).To(Equal(0))
		Expect(d.State()).To(Equal(Idle))
	})

	It("should keep a uniform field uniform", func() {
		f, err := NewMicrostructure(grid, material, 0, rand.New(rand.NewSource(1)))
		Expect(err).NotTo(HaveOccurred())
		for _, v := range f.Value().RawMatrix().Data {
			Expect(v).To(Equal(0.4))
		}

		clock := newClock(1, 1, 0.01)
		d, err := NewDriver(f, clock, Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Run(context.Background())).To(Succeed())

		for _, v := range f.Value().RawMatrix().Data {
			Expect(v).To(Equal(0.4))
		}
		Expect(clock.Time).To(BeNumerically("~", 0.01, 1e-15))
		Expect(clock.Step).To(Equal(1))
	})

	It("should conserve the mean concentration", func() {
		f := newNoisyField(32, 24, 0.1, 5)
		before := f.Mean()

		d, err := NewDriver(f, newClock(300, 100, 0.01), Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Run(context.Background())).To(Succeed())

		Expect(f.Mean()).To(BeNumerically("~", before, 1e-12))
	})

	It("should decrease the free energy for a stable time step", func() {
		f := newNoisyField(32, 32, 0.1, 9)

		d, err := NewDriver(f, newClock(400, 400, 0.005), Options{
			EnergyCheckInterval: 10,
			EnergyTolerance:     1,
			Logger:              logger,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Run(context.Background())).To(Succeed())

		trace := d.EnergyTrace()
		Expect(trace).To(HaveLen(41))
		Expect(trace[0].Step).To(Equal(0))
		Expect(trace[40].Step).To(Equal(400))
		for k := 2; k < len(trace); k++ {
			Expect(trace[k].Energy).To(BeNumerically("<=", trace[k-1].Energy+1e-10),
				"checkpoint %d", trace[k].Step)
		}
		Expect(trace[40].Energy).To(BeNumerically("<", trace[0].Energy))
	})

	It("should warn about energy drift without stopping", func() {
		var out bytes.Buffer
		f := newNoisyField(8, 8, 0.2, 3)
		clock := newClock(3, 100, 0.01)

		d, err := NewDriver(f, clock, Options{
			EnergyCheckInterval: 1,
			EnergyTolerance:     0,
			Logger:              log.New(&out, "", 0),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Run(context.Background())).To(Succeed())

		Expect(out.String()).To(ContainSubstring("warning: free energy drift"))
		Expect(clock.Step).To(Equal(3))
		trace := d.EnergyTrace()
		Expect(trace).To(HaveLen(4))
		Expect(trace[0].Drift).To(BeFalse())
		Expect(trace[1].Drift).To(BeTrue())
	})

	It("should continue from the current state on repeated runs", func() {
		a := newNoisyField(16, 16, 0.1, 21)
		b := newNoisyField(16, 16, 0.1, 21)

		clockA := newClock(10, 100, 0.01)
		da, err := NewDriver(a, clockA, Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(da.Run(context.Background())).To(Succeed())
		Expect(da.Run(context.Background())).To(Succeed())

		clockB := newClock(20, 100, 0.01)
		db, err := NewDriver(b, clockB, Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Run(context.Background())).To(Succeed())

		Expect(mat.Equal(a.Value(), b.Value())).To(BeTrue())
		Expect(clockA.Step).To(Equal(20))
		Expect(clockA.Time).To(BeNumerically("~", clockB.Time, 1e-12))
	})

	It("should stop between steps when the context is cancelled", func() {
		f := newNoisyField(8, 8, 0.1, 2)
		before := f.Snapshot()
		clock := newClock(50, 10, 0.01)

		d, err := NewDriver(f, clock, Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(d.Run(ctx)).To(MatchError(context.Canceled))
		Expect(d.State()).To(Equal(Idle))
		Expect(clock.Step).To(Equal(0))
		Expect(mat.Equal(before, f.Value())).To(BeTrue())
	})

	Context("when the time step is too large", func() {
		It("should refuse to build the driver", func() {
			f, _ := NewUniformField(grid, material)
			_, err := NewDriver(f, newClock(1, 1, 0.5), Options{})
			Expect(err).To(MatchError(ErrUnstableTimeStep))
		})

		It("should fail on a non-finite field when stability is not enforced", func() {
			f := newNoisyField(16, 16, 0.1, 5)
			d, err := NewDriver(f, newClock(500, 1000, 1.0), Options{
				AllowUnstable: true,
				Logger:        logger,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Run(context.Background())).To(MatchError(ErrNonFinite))
			Expect(d.State()).To(Equal(Failed))
			Expect(d.Run(context.Background())).To(MatchError(ErrDriverFailed))
		})
	})

	Context("with an observer", func() {
		var (
			mockCtrl *gomock.Controller
			observer *MockObserver
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			observer = NewMockObserver(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should report checkpoints and progress", func() {
			f := newNoisyField(8, 8, 0.05, 4)

			var steps []int
			observer.EXPECT().
				ObserveEnergy(gomock.Any()).
				Do(func(s EnergySample) { steps = append(steps, s.Step) }).
				Times(5)
			observer.EXPECT().
				ObserveProgress(gomock.Any()).
				Do(func(p Progress) {
					Expect(p.Mean).To(BeNumerically("~", 0.4, 0.05))
					Expect(p.Min).To(BeNumerically("<=", p.Max))
				}).
				Times(2)

			d, err := NewDriver(f, newClock(20, 10, 0.01), Options{
				EnergyCheckInterval: 5,
				EnergyTolerance:     1,
				Logger:              logger,
				Observer:            observer,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Run(context.Background())).To(Succeed())

			Expect(steps).To(Equal([]int{0, 5, 10, 15, 20}))
		})

		It("should refuse a nested run", func() {
			f := newNoisyField(8, 8, 0.05, 6)

			var (
				d      *Driver
				nested []error
			)
			observer.EXPECT().
				ObserveEnergy(gomock.Any()).
				Do(func(EnergySample) { nested = append(nested, d.Run(context.Background())) }).
				Times(2)

			var err error
			d, err = NewDriver(f, newClock(2, 100, 0.01), Options{
				EnergyCheckInterval: 2,
				EnergyTolerance:     1,
				Logger:              logger,
				Observer:            observer,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Run(context.Background())).To(Succeed())

			Expect(nested).To(HaveLen(2))
			for _, e := range nested {
				Expect(e).To(MatchError(ErrDriverBusy))
			}
			Expect(d.State()).To(Equal(Idle))
			Expect(d.Clock().Step).To(Equal(2))
		})
	})
})

var _ = Describe("State", func() {
	It("should print lifecycle names", func() {
		Expect(Idle.String()).To(Equal("idle"))
		Expect(Running.String()).To(Equal("running"))
		Expect(Failed.String()).To(Equal("failed"))
		Expect(State(7).String()).To(Equal("State(7)"))
	})
})
