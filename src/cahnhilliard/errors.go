package cahnhilliard

import "errors"

// Configuration errors are returned at construction; the simulation cannot start.
var (
	ErrInvalidGrid      = errors.New("invalid grid")
	ErrInvalidMaterial  = errors.New("invalid material parameters")
	ErrInvalidClock     = errors.New("invalid simulation clock")
	ErrShapeMismatch    = errors.New("array shape does not match grid")
	ErrInvalidNoise     = errors.New("invalid microstructure noise")
	ErrUnstableTimeStep = errors.New("time step exceeds explicit stability bound")
	ErrMissingInput     = errors.New("driver input is missing")
	ErrInvalidOptions   = errors.New("invalid driver options")
)

// Run-time errors.
var (
	// ErrNonFinite is returned when the field picks up NaN or Inf values.
	ErrNonFinite = errors.New("concentration field is not finite")
	// ErrDriverFailed is returned by Run on a driver that already failed.
	ErrDriverFailed = errors.New("driver is in failed state")
	// ErrDriverBusy is returned by Run while another Run is in progress.
	ErrDriverBusy = errors.New("driver is already running")
)
