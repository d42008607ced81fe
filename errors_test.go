package filter

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestModelError(t *testing.T) {
	assert := assert.New(t)

	err := error(&ModelError{Op: "predict", Index: 3, Err: io.ErrUnexpectedEOF})
	assert.True(errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal("predict: particle 3: unexpected EOF", err.Error())

	var me *ModelError
	assert.True(errors.As(err, &me))
	assert.Equal(3, me.Index)

	err = &ModelError{Op: "estimate", Index: -1, Err: io.EOF}
	assert.Equal("estimate: EOF", err.Error())
}

func TestFuncAdapters(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewVecDense(2, []float64{1, 2})

	var m MotionModel = MotionFunc(func(x, u mat.Vector) (mat.Vector, error) {
		out := mat.VecDenseCopyOf(x)
		out.ScaleVec(2, out)
		return out, nil
	})
	xNext, err := m.Move(x, nil)
	assert.NoError(err)
	assert.Equal(4.0, xNext.AtVec(1))

	var s MeasurementModel = MeasurementFunc(func(x, z mat.Vector) (float64, error) {
		return x.AtVec(0) + z.AtVec(0), nil
	})
	score, err := s.Likelihood(x, mat.NewVecDense(1, []float64{0.5}))
	assert.NoError(err)
	assert.Equal(1.5, score)

	var e Estimator = EstimatorFunc(func(x mat.Matrix, w []float64) (mat.Vector, error) {
		return nil, io.EOF
	})
	est, err := e.Estimate(mat.NewDense(1, 2, nil), []float64{1})
	assert.Nil(est)
	assert.Error(err)
}
