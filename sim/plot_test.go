package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTrackPlot(t *testing.T) {
	assert := assert.New(t)

	truth := Track{Name: "truth", X: []float64{0, 1, 2}, Y: []float64{1, 2, 3}}
	meas := Track{Name: "measurement", X: []float64{0, 1, 2}, Y: []float64{1.1, 1.9, 3.2}, Scatter: true}
	est := Track{Name: "filter", X: []float64{0, 1, 2}, Y: []float64{1, 2.1, 2.9}}

	plt, err := NewTrackPlot("Simulation", "t", "x", truth, meas, est)
	assert.NotNil(plt)
	assert.NoError(err)

	plt, err = NewTrackPlot("Simulation", "t", "x")
	assert.Nil(plt)
	assert.Error(err)

	plt, err = NewTrackPlot("Simulation", "t", "x", Track{Name: "short", X: []float64{0}, Y: []float64{0}})
	assert.Nil(plt)
	assert.Error(err)

	plt, err = NewTrackPlot("Simulation", "t", "x", Track{Name: "mismatch", X: []float64{0, 1}, Y: []float64{0}})
	assert.Nil(plt)
	assert.Error(err)
}
