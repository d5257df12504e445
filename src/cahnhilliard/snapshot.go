package cahnhilliard

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is the persisted state needed to resume a run: the concentration
// matrix plus grid, material and clock position.
type Snapshot struct {
	Grid     Grid     `json:"grid"`
	Material Material `json:"material"`
	Time     float64  `json:"time"`
	Step     int      `json:"step"`
	TimeStep float64  `json:"time_step"`

	// Values is the gonum binary encoding of the nx × ny matrix.
	Values []byte `json:"values"`
}

// NewSnapshot captures f and c.
func NewSnapshot(f *Field, c *Clock) (*Snapshot, error) {
	data, err := f.value.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode values: %w", err)
	}
	return &Snapshot{
		Grid:     f.grid,
		Material: f.material,
		Time:     c.Time,
		Step:     c.Step,
		TimeStep: c.TimeStep,
		Values:   data,
	}, nil
}

// WriteSnapshot encodes the state of f and c to w as JSON.
func WriteSnapshot(w io.Writer, f *Field, c *Clock) error {
	s, err := NewSnapshot(f, c)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("snapshot: write: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	return &s, nil
}

// Restore rebuilds the field. Grid, material and matrix shape are validated.
func (s *Snapshot) Restore() (*Field, error) {
	var v mat.Dense
	if err := v.UnmarshalBinary(s.Values); err != nil {
		return nil, fmt.Errorf("snapshot: decode values: %w", err)
	}
	return NewFieldFromValues(s.Grid, s.Material, &v)
}

// Clock returns a clock positioned at the snapshot time that runs totalSteps
// per call.
func (s *Snapshot) Clock(totalSteps, printInterval int) (*Clock, error) {
	c, err := NewClock(totalSteps, printInterval, s.TimeStep, s.Time)
	if err != nil {
		return nil, err
	}
	c.Step = s.Step
	return c, nil
}
