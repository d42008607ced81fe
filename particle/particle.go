package particle

import (
	filter "github.com/startracker/go-pf"
	"gonum.org/v1/gonum/mat"
)

// Particle is Particle Filter
type Particle interface {
	// filter.Filter is dynamical system filter
	filter.Filter
	// Particles returns filter particles stored in matrix rows
	Particles() mat.Matrix
	// Weights returns particle weights
	Weights() mat.Vector
	// SetParticles replaces filter particles and their weights
	SetParticles(x mat.Matrix, w []float64) error
}
