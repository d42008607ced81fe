package model

import (
	"fmt"
	"math"

	filter "github.com/startracker/go-pf"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is a measurement model which scores particles by the probability
// density of the difference between the measurement and the particle output.
// In Kalman filter family this difference is referred to as "innovation vector".
type Gaussian struct {
	// o observes particle output
	o filter.Observer
	// pdf is PDF (Probability Density Function) of the output error
	pdf distmv.LogProber
}

// NewGaussian creates new Gaussian measurement model and returns it.
// It returns error if either o or pdf is nil.
func NewGaussian(o filter.Observer, pdf distmv.LogProber) (*Gaussian, error) {
	if o == nil || pdf == nil {
		return nil, fmt.Errorf("invalid observer or output error PDF")
	}

	return &Gaussian{o: o, pdf: pdf}, nil
}

// Likelihood returns the probability density of z - y where y is the noiseless output of x.
// Note: the scores of individual particles are not probabilities; the filter normalizes them.
// It returns error if the output fails to be observed or if its size differs from z.
func (g *Gaussian) Likelihood(x, z mat.Vector) (float64, error) {
	y, err := g.o.Observe(x, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("particle state observation failed: %w", err)
	}

	if z == nil || z.Len() != y.Len() {
		return 0, fmt.Errorf("invalid measurement size")
	}

	inn := make([]float64, z.Len())
	for i := range inn {
		inn[i] = z.AtVec(i) - y.AtVec(i)
	}

	return math.Exp(g.pdf.LogProb(inn)), nil
}

// InverseDistance is a measurement model which scores particles by the inverse
// of the absolute distance between the measurement and a single state component.
type InverseDistance struct {
	// Index is the index of the measured state component
	Index int
	// Eps bounds the score of a perfect match to 1/Eps
	Eps float64
}

// Likelihood returns 1/(|z[0] - x[Index]| + Eps).
// It returns error if x has no Index component, z is empty or Eps is not positive.
func (d InverseDistance) Likelihood(x, z mat.Vector) (float64, error) {
	if d.Eps <= 0 {
		return 0, fmt.Errorf("invalid epsilon: %v", d.Eps)
	}

	if d.Index < 0 || d.Index >= x.Len() {
		return 0, fmt.Errorf("invalid state index: %d", d.Index)
	}

	if z == nil || z.Len() == 0 {
		return 0, fmt.Errorf("invalid measurement size")
	}

	return 1 / (math.Abs(z.AtVec(0)-x.AtVec(d.Index)) + d.Eps), nil
}
