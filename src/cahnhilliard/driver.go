package cahnhilliard

import (
	"context"
	"fmt"
	"log"
	"math"
)

// State is the driver lifecycle: Idle → Running → (Idle | Failed).
type State int

const (
	Idle State = iota
	Running
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EnergySample is one free-energy diagnostic checkpoint.
type EnergySample struct {
	Step   int
	Time   float64
	Energy float64
	Delta  float64 // change since the previous checkpoint
	Drift  bool    // |Delta| exceeded the configured tolerance
}

// Progress is emitted every PrintInterval steps.
type Progress struct {
	Step     int
	Time     float64
	Energy   float64
	Mean     float64
	Min, Max float64
}

// Observer receives diagnostics from the driver. Calls happen on the
// goroutine running the driver, between steps.
type Observer interface {
	ObserveEnergy(EnergySample)
	ObserveProgress(Progress)
}

// Options configures a Driver. The zero value disables energy diagnostics
// and enforces the stability bound.
type Options struct {
	// EnergyCheckInterval is the number of steps between free-energy
	// checkpoints. Zero disables the diagnostic.
	EnergyCheckInterval int
	// EnergyTolerance is the largest |ΔF| between checkpoints accepted
	// without a warning.
	EnergyTolerance float64
	// AllowUnstable skips the time step check in NewDriver.
	AllowUnstable bool

	Logger   *log.Logger
	Observer Observer
}

// Driver integrates ∂c/∂t = M∇²(δF/δc) with forward Euler.
//
// A Driver owns its field and clock while Run executes and must not be used
// from more than one goroutine.
type Driver struct {
	field *Field
	clock *Clock
	opts  Options
	log   *log.Logger

	state      State
	trace      []EnergySample
	lastEnergy float64
	hasEnergy  bool
}

// NewDriver validates the setup and returns an idle driver.
func NewDriver(field *Field, clock *Clock, opts Options) (*Driver, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: field is required", ErrMissingInput)
	}
	if clock == nil {
		return nil, fmt.Errorf("%w: clock is required", ErrMissingInput)
	}
	if err := clock.Validate(); err != nil {
		return nil, err
	}
	if opts.EnergyCheckInterval < 0 {
		return nil, fmt.Errorf("%w: energy check interval %d is negative", ErrInvalidOptions, opts.EnergyCheckInterval)
	}
	if opts.EnergyTolerance < 0 {
		return nil, fmt.Errorf("%w: energy tolerance %g is negative", ErrInvalidOptions, opts.EnergyTolerance)
	}
	if !opts.AllowUnstable {
		if err := CheckStability(field.grid, field.material, clock.TimeStep); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Driver{
		field: field,
		clock: clock,
		opts:  opts,
		log:   logger,
		state: Idle,
	}, nil
}

func (d *Driver) State() State { return d.state }
func (d *Driver) Field() *Field { return d.field }
func (d *Driver) Clock() *Clock { return d.clock }

// EnergyTrace returns a copy of the checkpoints recorded so far.
func (d *Driver) EnergyTrace() []EnergySample {
	out := make([]EnergySample, len(d.trace))
	copy(out, d.trace)
	return out
}

// Run advances the field by Clock.TotalSteps steps. Calling Run again
// continues from the current field and time.
//
// ctx is checked between whole steps; on cancellation Run returns ctx.Err()
// and the driver is idle again. A non-finite field moves the driver to
// Failed and every later call returns ErrDriverFailed.
func (d *Driver) Run(ctx context.Context) error {
	if d.state == Failed {
		return ErrDriverFailed
	}
	if d.state == Running {
		return ErrDriverBusy
	}
	d.state = Running

	if d.opts.EnergyCheckInterval > 0 && !d.hasEnergy {
		d.checkpoint()
	}

	for n := 0; n < d.clock.TotalSteps; n++ {
		if err := ctx.Err(); err != nil {
			d.state = Idle
			return err
		}
		if err := d.step(); err != nil {
			d.state = Failed
			return err
		}
	}

	d.state = Idle
	return nil
}

func (d *Driver) step() error {
	d.clock.advance()

	VariationalDerivative(d.field)
	lap := OuterLaplacian(d.field)

	scale := d.clock.TimeStep * d.field.material.Mobility
	c := d.field.value.RawMatrix().Data
	l := lap.RawMatrix().Data

	finite := true
	for k := range c {
		c[k] += scale * l[k]
		if math.IsNaN(c[k]) || math.IsInf(c[k], 0) {
			finite = false
		}
	}
	if !finite {
		return fmt.Errorf("%w at step %d (t=%g)", ErrNonFinite, d.clock.Step, d.clock.Time)
	}

	if n := d.opts.EnergyCheckInterval; n > 0 && d.clock.Step%n == 0 {
		d.checkpoint()
	}
	if d.clock.Step%d.clock.PrintInterval == 0 {
		d.progress()
	}
	return nil
}

// checkpoint records the free energy and warns when it moved more than the
// tolerance. Drift is largest in the first few steps and should decay; a
// sustained drift points at an unstable dt/dx pairing.
func (d *Driver) checkpoint() {
	e := FreeEnergy(d.field)
	s := EnergySample{
		Step:   d.clock.Step,
		Time:   d.clock.Time,
		Energy: e,
	}
	if d.hasEnergy {
		s.Delta = e - d.lastEnergy
		s.Drift = math.Abs(s.Delta) > d.opts.EnergyTolerance
	}
	d.lastEnergy = e
	d.hasEnergy = true
	d.trace = append(d.trace, s)

	if s.Drift {
		d.log.Printf("warning: free energy drift %.6g at step %d (t=%.6g) exceeds tolerance %.6g",
			s.Delta, s.Step, s.Time, d.opts.EnergyTolerance)
	}
	if d.opts.Observer != nil {
		d.opts.Observer.ObserveEnergy(s)
	}
}

func (d *Driver) progress() {
	lo, hi := d.field.Bounds()
	p := Progress{
		Step:   d.clock.Step,
		Time:   d.clock.Time,
		Energy: FreeEnergy(d.field),
		Mean:   d.field.Mean(),
		Min:    lo,
		Max:    hi,
	}
	d.log.Printf("step %d t=%.4f F=%.6f mean=%.6f c=[%.4f, %.4f]",
		p.Step, p.Time, p.Energy, p.Mean, p.Min, p.Max)
	if d.opts.Observer != nil {
		d.opts.Observer.ObserveProgress(p)
	}
}
