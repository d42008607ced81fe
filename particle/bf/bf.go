package bf

import (
	"fmt"
	"math"
	"time"

	"github.com/milosgajdos/matrix"
	filter "github.com/startracker/go-pf"
	"github.com/startracker/go-pf/estimate"
	"github.com/startracker/go-pf/particle"
	"github.com/startracker/go-pf/rand"
	rnd "golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// DefaultParticleCount is the number of particles used by NewConfig
const DefaultParticleCount = 50

// Config is Bootstrap Filter configuration
type Config struct {
	// Motion propagates particles to the next step
	Motion filter.MotionModel
	// Measurement scores particles against measurements
	Measurement filter.MeasurementModel
	// Estimator aggregates weighted particles into a state estimate.
	// If nil, estimate.WeightedSum is used.
	Estimator filter.Estimator
	// Resampler selects particles when resampling.
	// If nil, systematic resampler drawing from Source is used.
	Resampler particle.Resampler
	// Source is a random source used by the default resampler and by Regularize.
	// If nil, a time seeded source is used.
	Source rnd.Source
	// ParticleCount specifies number of filter particles
	ParticleCount int
	// Workers is the number of goroutines which run the motion and measurement
	// models. Values smaller than 2 run the models sequentially.
	// Motion and Measurement must be safe for concurrent use if Workers > 1.
	Workers int
}

// NewConfig returns Config with the given models and default settings.
func NewConfig(motion filter.MotionModel, measurement filter.MeasurementModel) *Config {
	return &Config{
		Motion:        motion,
		Measurement:   measurement,
		ParticleCount: DefaultParticleCount,
		Workers:       1,
	}
}

// BF is a Bootstrap Filter a.k.a. SIR Particle Filter.
// For more information about Bootstrap Filter see:
// https://en.wikipedia.org/wiki/Particle_filter#The_bootstrap_filter
//
// BF is not safe for concurrent use.
type BF struct {
	// motion is particle motion model
	motion filter.MotionModel
	// measurement is particle measurement model
	measurement filter.MeasurementModel
	// estimator aggregates particles into estimate
	estimator filter.Estimator
	// resampler selects particles when resampling
	resampler particle.Resampler
	// src is random source used when regularizing particles
	src rnd.Source
	// workers is the number of goroutines running the models
	workers int
	// set stores filter particles and their weights
	set *particle.Set
	// scores stores raw measurement scores.
	// The size of scores is fixed so we preallocate it to avoid reallocating it on every call to Update().
	scores []float64
	// est is the cached estimate
	est *estimate.Base
	// dirty is set when particles changed since est was computed
	dirty bool
}

// New creates new Bootstrap Filter with config c and initial state x0 and returns it.
// All particles are initialized to x0 with equal weights.
// It returns error wrapping filter.ErrConfig if the config is invalid or if x0 is empty.
func New(c *Config, x0 mat.Vector) (*BF, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil config", filter.ErrConfig)
	}

	if c.Motion == nil || c.Measurement == nil {
		return nil, fmt.Errorf("%w: motion and measurement models must be defined", filter.ErrConfig)
	}

	set, err := particle.NewSet(x0, c.ParticleCount)
	if err != nil {
		return nil, err
	}

	estimator := c.Estimator
	if estimator == nil {
		estimator = filter.EstimatorFunc(estimate.WeightedSum)
	}

	src := c.Source
	if src == nil {
		src = rnd.NewSource(uint64(time.Now().UnixNano()))
	}

	resampler := c.Resampler
	if resampler == nil {
		resampler = particle.NewSystematic(src)
	}

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}

	return &BF{
		motion:      c.Motion,
		measurement: c.Measurement,
		estimator:   estimator,
		resampler:   resampler,
		src:         src,
		workers:     workers,
		set:         set,
		scores:      make([]float64, c.ParticleCount),
		dirty:       true,
	}, nil
}

// Update runs one filter cycle for measurement z and control input u and returns the new estimate.
// If u is not nil the particles are first resampled using the weights from the previous cycle.
// The particles are then propagated by the motion model, weighted by the measurement model
// and their weights normalized before the estimate is computed and cached.
//
// Errors returned by the models are returned as *filter.ModelError.
// Update returns error wrapping filter.ErrDegenerateWeights if all measurement scores are zero.
// The particles are left at the last completed step when error is returned:
// the filter should be discarded or its particles restored with SetParticles.
func (b *BF) Update(z, u mat.Vector) (filter.Estimate, error) {
	b.dirty = true

	if u != nil {
		if err := b.set.Resample(b.resampler); err != nil {
			return nil, err
		}
	}

	if err := b.predict(u); err != nil {
		return nil, err
	}

	if err := b.weigh(z); err != nil {
		return nil, err
	}

	if err := b.set.Normalize(b.scores); err != nil {
		return nil, err
	}

	return b.estimate()
}

// predict propagates all particles using control input u.
func (b *BF) predict(u mat.Vector) error {
	d := b.set.Dim()

	return b.forEach(func(i int) error {
		x, err := b.motion.Move(b.set.At(i), u)
		if err != nil {
			return &filter.ModelError{Op: "predict", Index: i, Err: err}
		}

		if x == nil || x.Len() != d {
			return &filter.ModelError{
				Op:    "predict",
				Index: i,
				Err:   fmt.Errorf("%w: invalid state dimension", filter.ErrValidation),
			}
		}

		return b.set.SetAt(i, x)
	})
}

// weigh computes raw measurement scores of all particles given measurement z.
func (b *BF) weigh(z mat.Vector) error {
	return b.forEach(func(i int) error {
		score, err := b.measurement.Likelihood(b.set.At(i), z)
		if err != nil {
			return &filter.ModelError{Op: "weight", Index: i, Err: err}
		}

		if score < 0 || math.IsNaN(score) {
			return &filter.ModelError{
				Op:    "weight",
				Index: i,
				Err:   fmt.Errorf("%w: %v", filter.ErrInvalidScore, score),
			}
		}
		b.scores[i] = score

		return nil
	})
}

// forEach calls fn for every particle index.
// The indices are split into contiguous chunks when the filter runs multiple workers.
func (b *BF) forEach(fn func(i int) error) error {
	n := b.set.Len()

	if b.workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	size := (n + b.workers - 1) / b.workers

	var g errgroup.Group
	g.SetLimit(b.workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// estimate computes the estimate from the current particles and caches it.
func (b *BF) estimate() (filter.Estimate, error) {
	x := b.set.States()
	w := b.set.Weights()

	val, err := b.estimator.Estimate(x, w)
	if err != nil {
		return nil, &filter.ModelError{Op: "estimate", Index: -1, Err: err}
	}

	if val == nil || val.Len() != b.set.Dim() {
		return nil, &filter.ModelError{
			Op:    "estimate",
			Index: -1,
			Err:   fmt.Errorf("%w: invalid estimate dimension", filter.ErrValidation),
		}
	}

	cov, err := estimate.WeightedCov(x, w, val)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate covariance matrix: %w", err)
	}

	est, err := estimate.NewBaseWithCov(val, cov)
	if err != nil {
		return nil, err
	}

	b.est = est
	b.dirty = false

	return est, nil
}

// State returns the current filter estimate.
// The estimate is computed from the current particles if it has not been computed yet
// or if the particles have changed since it was computed.
func (b *BF) State() (filter.Estimate, error) {
	if b.est == nil || b.dirty {
		return b.estimate()
	}

	return b.est, nil
}

// Resample resamples filter particles using the configured resampler and resets their weights to 1/N.
// It returns error if the resampler fails.
func (b *BF) Resample() error {
	b.dirty = true

	return b.set.Resample(b.resampler)
}

// Regularize adds random perturbations to filter particles drawn from Gaussian kernel
// with the particle covariance scaled by regularization parameter alpha.
// If non-positive alpha is provided we use optimal alpha for gaussian kernel.
// Regularize is meant to be called after resampling to restore particle diversity.
// It returns error if the filter has fewer than two particles or if it fails to draw the perturbations.
func (b *BF) Regularize(alpha float64) error {
	n, d := b.set.Len(), b.set.Dim()
	if n < 2 {
		return fmt.Errorf("invalid particle count for regularization: %d", n)
	}

	// particles are stored as columns for covariance calculation
	xt := mat.DenseCopyOf(b.set.States().T())
	cov, err := matrix.Cov(xt, "cols")
	if err != nil {
		return fmt.Errorf("failed to calculate covariance matrix: %w", err)
	}

	// randomly draw values with given particle covariance
	m, err := rand.WithCovN(cov, n, b.src)
	if err != nil {
		return fmt.Errorf("failed to draw random particle perturbations: %w", err)
	}

	// if invalid alpha is given, use the optimal value for Gaussian
	if alpha <= 0 {
		alpha = AlphaGauss(d, n)
	}
	m.Scale(alpha, m)

	// add random perturbations to the particles
	m.Add(m, b.set.States())
	b.dirty = true

	return b.set.Replace(m, b.set.Weights())
}

// Particles returns a copy of filter particles stored in matrix rows
func (b *BF) Particles() mat.Matrix {
	return b.set.Particles()
}

// Weights returns a vector containing a copy of particle weights
func (b *BF) Weights() mat.Vector {
	w := b.set.Weights()

	return mat.NewVecDense(len(w), w)
}

// SetParticles replaces filter particles with rows of x and their weights with w normalized to sum up to 1.
// If w is nil all weights are set to 1/N.
// It returns error wrapping filter.ErrValidation if x does not contain N particles
// of the filter state dimension or if w is not nil and either its length is not N or it contains
// negative or NaN weights. It returns error wrapping filter.ErrDegenerateWeights if w sums up to zero.
func (b *BF) SetParticles(x mat.Matrix, w []float64) error {
	if err := b.set.Replace(x, w); err != nil {
		return err
	}
	b.dirty = true

	return nil
}

// AlphaGauss computes optimal regularization parameter for Gaussian kernel
// for n particles of dimension d and returns it.
func AlphaGauss(d, n int) float64 {
	return math.Pow(4.0/(float64(n)*(float64(d)+2.0)), 1/(float64(d)+4.0))
}
