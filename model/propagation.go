package model

import (
	"fmt"

	filter "github.com/startracker/go-pf"
	"gonum.org/v1/gonum/mat"
)

// Propagation is a motion model which propagates particles through
// system propagator with additive state noise sampled for every particle.
type Propagation struct {
	// p propagates particle state
	p filter.Propagator
	// q is state noise a.k.a. process noise
	q filter.Noise
}

// NewPropagation creates new Propagation motion model and returns it.
// If q is nil the particles are propagated without noise.
// It returns error if p is nil.
func NewPropagation(p filter.Propagator, q filter.Noise) (*Propagation, error) {
	if p == nil {
		return nil, fmt.Errorf("invalid propagator")
	}

	return &Propagation{p: p, q: q}, nil
}

// Move propagates state x given control input u and returns it.
// It returns error if the propagation fails.
func (m *Propagation) Move(x, u mat.Vector) (mat.Vector, error) {
	var q mat.Vector
	if m.q != nil {
		q = m.q.Sample()
	}

	return m.p.Propagate(x, u, q)
}
