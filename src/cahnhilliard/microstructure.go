package cahnhilliard

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
)

// RandomSource supplies uniform draws in [0, 1). *math/rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewMicrostructure returns a field perturbed around the average concentration:
//
//	c[i,j] = avg + noise·(U − 0.5),  U ~ Uniform[0, 1)
//
// Two calls produce the same field only if rng is seeded identically.
func NewMicrostructure(g Grid, m Material, noise float64, rng RandomSource) (*Field, error) {
	if noise < 0 || math.IsNaN(noise) || math.IsInf(noise, 0) {
		return nil, fmt.Errorf("%w: %g must be a non-negative number", ErrInvalidNoise, noise)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidNoise)
	}

	f, err := NewUniformField(g, m)
	if err != nil {
		return nil, err
	}

	data := f.value.RawMatrix().Data
	for k := range data {
		data[k] += noise * (rng.Float64() - 0.5)
	}
	return f, nil
}

// NewSeed returns a seed from crypto/rand for runs that do not fix one.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
