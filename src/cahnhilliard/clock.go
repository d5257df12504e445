package cahnhilliard

import "fmt"

// Clock tracks simulated time. Only the Driver advances it.
type Clock struct {
	TotalSteps    int     // steps per Run call
	PrintInterval int     // progress cadence in steps
	TimeStep      float64 // Δt
	Time          float64 // current simulated time
	Step          int     // steps taken over the clock's lifetime
}

// NewClock validates and returns a clock starting at initialTime.
func NewClock(totalSteps, printInterval int, timeStep, initialTime float64) (*Clock, error) {
	c := &Clock{
		TotalSteps:    totalSteps,
		PrintInterval: printInterval,
		TimeStep:      timeStep,
		Time:          initialTime,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports a configuration error for an unusable clock.
func (c *Clock) Validate() error {
	switch {
	case c.TotalSteps < 0:
		return fmt.Errorf("%w: total steps %d is negative", ErrInvalidClock, c.TotalSteps)
	case c.PrintInterval <= 0:
		return fmt.Errorf("%w: print interval %d must be positive", ErrInvalidClock, c.PrintInterval)
	case !positive(c.TimeStep):
		return fmt.Errorf("%w: time step %g must be positive", ErrInvalidClock, c.TimeStep)
	}
	return nil
}

func (c *Clock) advance() {
	c.Time += c.TimeStep
	c.Step++
}
