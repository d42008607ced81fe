package particle

import (
	"math"
	"time"

	"github.com/startracker/go-pf/rand"
	rnd "golang.org/x/exp/rand"
)

// Resampler selects particles proportionally to their weights.
type Resampler interface {
	// Resample returns len(w) indices of the selected particles
	Resample(w []float64) ([]int, error)
}

// Systematic is a systematic a.k.a. low-variance resampler.
// It draws a single random offset per resampling and selects
// particles in one pass over the cumulative weights.
// Systematic is not safe for concurrent use.
type Systematic struct {
	rnd *rnd.Rand
}

// NewSystematic creates new systematic resampler which draws its offsets from src.
// If src is nil a time seeded source is used.
func NewSystematic(src rnd.Source) *Systematic {
	if src == nil {
		src = rnd.NewSource(uint64(time.Now().UnixNano()))
	}

	return &Systematic{rnd: rnd.New(src)}
}

// Resample draws offset r from [0, 1/len(w)) and returns indices selected by rand.SystematicDrawN.
func (s *Systematic) Resample(w []float64) ([]int, error) {
	var r float64
	if len(w) > 0 {
		step := 1 / float64(len(w))
		// the division may round up to step
		r = math.Min(s.rnd.Float64()/float64(len(w)), math.Nextafter(step, 0))
	}

	return rand.SystematicDrawN(w, r)
}

// Multinomial is a roulette wheel resampler: every particle is drawn independently.
type Multinomial struct {
	src rnd.Source
}

// NewMultinomial creates new multinomial resampler which draws from src.
// If src is nil a time seeded source is used.
func NewMultinomial(src rnd.Source) *Multinomial {
	if src == nil {
		src = rnd.NewSource(uint64(time.Now().UnixNano()))
	}

	return &Multinomial{src: src}
}

// Resample returns len(w) indices drawn independently with probabilities w.
func (m *Multinomial) Resample(w []float64) ([]int, error) {
	return rand.RouletteDrawN(w, len(w), m.src)
}
