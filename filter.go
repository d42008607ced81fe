package filter

import "gonum.org/v1/gonum/mat"

// Filter is a recursive state estimator driven by measurements and optional control input.
type Filter interface {
	// Update runs one filter cycle for measurement z and control input u
	Update(z, u mat.Vector) (Estimate, error)
	// State returns the current state estimate
	State() (Estimate, error)
}

// MotionModel propagates a single state hypothesis to the next step
type MotionModel interface {
	// Move returns the state x propagated by control input u.
	// The returned vector must have the same length as x.
	Move(x, u mat.Vector) (mat.Vector, error)
}

// MotionFunc is an adapter which allows to use ordinary functions as MotionModel
type MotionFunc func(x, u mat.Vector) (mat.Vector, error)

// Move calls f(x, u)
func (f MotionFunc) Move(x, u mat.Vector) (mat.Vector, error) {
	return f(x, u)
}

// MeasurementModel scores how well a state hypothesis explains a measurement
type MeasurementModel interface {
	// Likelihood returns non-negative score of state x given measurement z
	Likelihood(x, z mat.Vector) (float64, error)
}

// MeasurementFunc is an adapter which allows to use ordinary functions as MeasurementModel
type MeasurementFunc func(x, z mat.Vector) (float64, error)

// Likelihood calls f(x, z)
func (f MeasurementFunc) Likelihood(x, z mat.Vector) (float64, error) {
	return f(x, z)
}

// Estimator reduces weighted particles to a single state
type Estimator interface {
	// Estimate aggregates particles stored in rows of x weighted by w.
	// The weights are expected to sum up to 1.
	Estimate(x mat.Matrix, w []float64) (mat.Vector, error)
}

// EstimatorFunc is an adapter which allows to use ordinary functions as Estimator
type EstimatorFunc func(x mat.Matrix, w []float64) (mat.Vector, error)

// Estimate calls f(x, w)
func (f EstimatorFunc) Estimate(x mat.Matrix, w []float64) (mat.Vector, error) {
	return f(x, w)
}

// Propagator propagates internal state of the system to the next step
type Propagator interface {
	// Propagate propagates internal state of the system to the next step
	Propagate(x, u, q mat.Vector) (mat.Vector, error)
}

// Observer observes external state (output) of the system
type Observer interface {
	// Observe observes external state of the system
	Observe(x, u, r mat.Vector) (mat.Vector, error)
}

// DiscreteControlSystem is a linear discrete-time dynamical system
// driven by static propagation and observation matrices
type DiscreteControlSystem interface {
	Propagator
	Observer
	// SystemDims returns state, input, output and disturbance vector lengths
	SystemDims() (nx, nu, ny, nz int)
	// SystemMatrix returns state propagation matrix
	SystemMatrix() mat.Matrix
	// ControlMatrix returns state propagation control matrix
	ControlMatrix() mat.Matrix
	// OutputMatrix returns observation matrix
	OutputMatrix() mat.Matrix
	// FeedForwardMatrix returns observation control matrix
	FeedForwardMatrix() mat.Matrix
}

// InitCond is initial state condition of the filter
type InitCond interface {
	// State returns initial filter state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is dynamical system filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
}
