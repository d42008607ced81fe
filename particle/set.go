package particle

import (
	"fmt"
	"math"

	filter "github.com/startracker/go-pf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Set is a fixed size set of weighted particles.
// Particles are stored in the rows of an N x D matrix.
type Set struct {
	// x stores particles in its rows
	x *mat.Dense
	// buf is a scratch matrix used when resampling particles
	buf *mat.Dense
	// w stores particle weights
	w []float64
}

// NewSet creates a set of n particles, each initialized to x0, with uniform weights 1/n.
// It returns error if n is smaller than 1 or if x0 is empty.
func NewSet(x0 mat.Vector, n int) (*Set, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: invalid particle count: %d", filter.ErrConfig, n)
	}

	if x0 == nil || x0.Len() == 0 {
		return nil, fmt.Errorf("%w: invalid initial state", filter.ErrConfig)
	}

	d := x0.Len()
	x := mat.NewDense(n, d, nil)
	for r := 0; r < n; r++ {
		x.RowView(r).(*mat.VecDense).CopyVec(x0)
	}

	s := &Set{
		x:   x,
		buf: mat.NewDense(n, d, nil),
		w:   make([]float64, n),
	}
	s.Reset()

	return s, nil
}

// Len returns the number of particles.
func (s *Set) Len() int {
	return len(s.w)
}

// Dim returns the particle state dimension.
func (s *Set) Dim() int {
	_, d := s.x.Dims()
	return d
}

// At returns a view of the i-th particle state.
// The returned vector shares storage with the set and is only valid until the set is modified.
func (s *Set) At(i int) mat.Vector {
	return s.x.RowView(i)
}

// SetAt copies x into the i-th particle.
// It returns error if the length of x does not match the particle dimension.
func (s *Set) SetAt(i int, x mat.Vector) error {
	if x == nil || x.Len() != s.Dim() {
		return fmt.Errorf("%w: particle %d: invalid state dimension", filter.ErrValidation, i)
	}
	s.x.RowView(i).(*mat.VecDense).CopyVec(x)

	return nil
}

// States returns the matrix which stores particle states in its rows.
// The returned matrix shares storage with the set and must not be modified.
func (s *Set) States() mat.Matrix {
	return s.x
}

// Particles returns a copy of particle states.
func (s *Set) Particles() *mat.Dense {
	return mat.DenseCopyOf(s.x)
}

// Weights returns a copy of particle weights.
func (s *Set) Weights() []float64 {
	w := make([]float64, len(s.w))
	copy(w, s.w)

	return w
}

// Replace replaces particle states with rows of x and weights with w normalized to sum up to 1.
// If w is nil the weights are reset to 1/N.
// It returns error wrapping filter.ErrValidation if x does not have N rows of dimension D
// or if w is not of length N or contains negative or NaN weights, and error wrapping
// filter.ErrDegenerateWeights if w does not sum up to a positive number.
// The set is left unmodified when error is returned.
func (s *Set) Replace(x mat.Matrix, w []float64) error {
	if x == nil {
		return fmt.Errorf("%w: nil particles", filter.ErrValidation)
	}

	rows, cols := x.Dims()
	if rows != s.Len() {
		return fmt.Errorf("%w: invalid particle count: %d != %d", filter.ErrValidation, rows, s.Len())
	}

	if cols != s.Dim() {
		return fmt.Errorf("%w: invalid particle dimension: %d != %d", filter.ErrValidation, cols, s.Dim())
	}

	if w == nil {
		s.x.Copy(x)
		s.Reset()
		return nil
	}

	if len(w) != s.Len() {
		return fmt.Errorf("%w: invalid weight count: %d != %d", filter.ErrValidation, len(w), s.Len())
	}

	for i, v := range w {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: invalid weight %d: %v", filter.ErrValidation, i, v)
		}
	}

	if err := s.Normalize(w); err != nil {
		return err
	}
	s.x.Copy(x)

	return nil
}

// Normalize sets particle weights to raw scores scaled so that they sum up to 1.
// It returns error if the number of scores is not N or if the scores do not sum up to a positive number.
// The weights are left unmodified when error is returned.
func (s *Set) Normalize(raw []float64) error {
	if len(raw) != s.Len() {
		return fmt.Errorf("%w: invalid score count: %d != %d", filter.ErrValidation, len(raw), s.Len())
	}

	sum := floats.Sum(raw)
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return fmt.Errorf("%w: scores sum up to %v", filter.ErrDegenerateWeights, sum)
	}

	copy(s.w, raw)
	floats.Scale(1/sum, s.w)

	return nil
}

// Reset sets all particle weights to 1/N.
func (s *Set) Reset() {
	n := float64(len(s.w))
	for i := range s.w {
		s.w[i] = 1 / n
	}
}

// Resample replaces the particles with particles selected by r from the current weights
// and resets all weights to 1/N.
// It returns error if r fails or returns indices which do not address N particles.
func (s *Set) Resample(r Resampler) error {
	indices, err := r.Resample(s.w)
	if err != nil {
		return fmt.Errorf("failed to resample particles: %w", err)
	}

	if len(indices) != s.Len() {
		return fmt.Errorf("invalid resampled particle count: %d", len(indices))
	}

	for m, i := range indices {
		if i < 0 || i >= s.Len() {
			return fmt.Errorf("invalid resampled particle index: %d", i)
		}
		s.buf.RowView(m).(*mat.VecDense).CopyVec(s.x.RowView(i))
	}

	// buf now holds the new particles: swap to avoid reallocating the storage
	s.x, s.buf = s.buf, s.x
	s.Reset()

	return nil
}
