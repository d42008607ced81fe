package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestWeightedSum(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})

	est, err := WeightedSum(x, []float64{1, 0, 0})
	assert.NoError(err)
	assert.Equal([]float64{1, 2}, mat.Col(nil, 0, est))

	est, err = WeightedSum(x, []float64{0, 0, 1})
	assert.NoError(err)
	assert.Equal([]float64{5, 6}, mat.Col(nil, 0, est))

	est, err = WeightedSum(x, []float64{0.5, 0.25, 0.25})
	assert.NoError(err)
	assert.InDeltaSlice([]float64{2.5, 3.5}, mat.Col(nil, 0, est), 1e-12)

	// weights are not normalized
	est, err = WeightedSum(x, []float64{2, 0, 0})
	assert.NoError(err)
	assert.Equal([]float64{2, 4}, mat.Col(nil, 0, est))

	est, err = WeightedSum(x, []float64{1, 0})
	assert.Nil(est)
	assert.Error(err)
}

func TestWeightedCov(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewDense(2, 2, []float64{
		0, 0,
		2, 4,
	})
	w := []float64{0.5, 0.5}
	m, err := WeightedSum(x, w)
	assert.NoError(err)

	cov, err := WeightedCov(x, w, m)
	assert.NoError(err)
	exp := mat.NewSymDense(2, []float64{1, 2, 2, 4})
	assert.True(mat.EqualApprox(exp, cov, 1e-12))

	// identical particles have zero covariance
	x = mat.NewDense(3, 1, []float64{7, 7, 7})
	w = []float64{0.2, 0.3, 0.5}
	m, err = WeightedSum(x, w)
	assert.NoError(err)
	cov, err = WeightedCov(x, w, m)
	assert.NoError(err)
	assert.InDelta(0.0, cov.At(0, 0), 1e-12)

	_, err = WeightedCov(x, []float64{1}, m)
	assert.Error(err)

	_, err = WeightedCov(x, w, mat.NewVecDense(2, nil))
	assert.Error(err)
}
