package model

import (
	"fmt"
	"math"
	"sync"
	"time"

	rnd "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Pendulum is a damped pendulum with state [theta, thetadot] driven by angular acceleration u:
//
//	dtheta/dt    = thetadot
//	dthetadot/dt = u - GL*sin(theta) - Damping*thetadot
type Pendulum struct {
	// GL is the ratio of gravity acceleration and pendulum length g/l
	GL float64
	// Damping is the damping coefficient
	Damping float64
	// DT is the integration time step
	DT float64
}

// Derivative returns the time derivative of state x given input acceleration u.
// It returns error if x is not a 2-dimensional state.
func (p Pendulum) Derivative(x mat.Vector, u float64) (mat.Vector, error) {
	if x == nil || x.Len() != 2 {
		return nil, fmt.Errorf("invalid pendulum state")
	}

	theta, thetadot := x.AtVec(0), x.AtVec(1)

	return mat.NewVecDense(2, []float64{
		thetadot,
		u - p.GL*math.Sin(theta) - p.Damping*thetadot,
	}), nil
}

// Step advances state x by one Euler step of length DT given input acceleration u.
func (p Pendulum) Step(x mat.Vector, u float64) (mat.Vector, error) {
	dx, err := p.Derivative(x, u)
	if err != nil {
		return nil, err
	}

	out := mat.NewVecDense(2, nil)
	out.AddScaledVec(x, p.DT, dx)

	return out, nil
}

// PendulumMotion is a noisy pendulum motion model.
// The control input is perturbed by relative actuator noise and every state
// component is perturbed by additive process noise after the Euler step.
type PendulumMotion struct {
	// Pendulum is the pendulum model
	Pendulum
	// mu guards the noise source
	mu sync.Mutex
	// actuator is relative actuator noise
	actuator distuv.Normal
	// process is additive process noise
	process distuv.Normal
}

// NewPendulumMotion creates new pendulum motion model with relative actuator noise
// standard deviation actSigma and process noise standard deviation procSigma.
// If src is nil a time seeded source is used.
// It returns error if either standard deviation is negative or if the time step is not positive.
func NewPendulumMotion(p Pendulum, actSigma, procSigma float64, src rnd.Source) (*PendulumMotion, error) {
	if actSigma < 0 || procSigma < 0 {
		return nil, fmt.Errorf("invalid noise standard deviation: %v, %v", actSigma, procSigma)
	}

	if p.DT <= 0 {
		return nil, fmt.Errorf("invalid time step: %v", p.DT)
	}

	if src == nil {
		src = rnd.NewSource(uint64(time.Now().UnixNano()))
	}

	return &PendulumMotion{
		Pendulum: p,
		actuator: distuv.Normal{Mu: 0, Sigma: actSigma, Src: src},
		process:  distuv.Normal{Mu: 0, Sigma: procSigma, Src: src},
	}, nil
}

// Move propagates pendulum state x given acceleration input u and returns it.
// Nil u is treated as zero input.
// It returns error if x is not a 2-dimensional state or u is empty.
func (m *PendulumMotion) Move(x, u mat.Vector) (mat.Vector, error) {
	var acc float64
	if u != nil {
		if u.Len() == 0 {
			return nil, fmt.Errorf("invalid input vector")
		}
		acc = u.AtVec(0)
		m.mu.Lock()
		acc += acc * m.actuator.Rand()
		m.mu.Unlock()
	}

	out, err := m.Step(x, acc)
	if err != nil {
		return nil, err
	}

	v := out.(*mat.VecDense)
	m.mu.Lock()
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, v.AtVec(i)+m.process.Rand())
	}
	m.mu.Unlock()

	return v, nil
}
