package sim

import (
	"os"
	"testing"

	filter "github.com/startracker/go-pf"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

var (
	x, u, q, r *mat.VecDense
	A, B, C, D *mat.Dense
)

func setup() {
	x = mat.NewVecDense(2, []float64{0.5, 0.6})
	u = mat.NewVecDense(1, []float64{-1.0})

	// state and output noise
	q = mat.NewVecDense(2, []float64{0.1, 0.1})
	r = mat.NewVecDense(1, []float64{0.2})

	A = mat.NewDense(2, 2, []float64{1.0, 1.0, 0.0, 1.0})
	B = mat.NewDense(2, 1, []float64{0.5, 1.0})
	C = mat.NewDense(1, 2, []float64{1.0, 0.0})
	D = mat.NewDense(1, 1, []float64{0.0})
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestInitCond(t *testing.T) {
	assert := assert.New(t)

	state := mat.NewVecDense(2, []float64{1.0, 3.0})
	cov := mat.NewSymDense(2, []float64{0.25, 0, 0, 0.25})

	var ic filter.InitCond = NewInitCond(state, cov)

	assert.True(mat.Equal(state, ic.State()))
	assert.True(mat.Equal(cov, ic.Cov()))

	// initial condition does not share storage with its arguments
	state.SetVec(0, 100)
	assert.Equal(1.0, ic.State().AtVec(0))
}

func TestNewSystem(t *testing.T) {
	assert := assert.New(t)

	var s filter.DiscreteControlSystem
	s, err := NewSystem(A, B, C, D)
	assert.NotNil(s)
	assert.NoError(err)

	nx, nu, ny, nz := s.SystemDims()
	assert.Equal([]int{2, 1, 1, 2}, []int{nx, nu, ny, nz})

	sys, err := NewSystem(A, nil, C, nil)
	assert.NoError(err)
	assert.Nil(sys.ControlMatrix())
	assert.Nil(sys.FeedForwardMatrix())

	for _, test := range []struct {
		name       string
		A, B, C, D *mat.Dense
	}{
		{name: "nil A", A: nil, C: C},
		{name: "nil C", A: A, C: nil},
		{name: "non square A", A: mat.NewDense(2, 3, nil), C: C},
		{name: "invalid C", A: A, C: mat.NewDense(1, 3, nil)},
		{name: "invalid B", A: A, B: mat.NewDense(3, 1, nil), C: C},
		{name: "invalid D", A: A, C: C, D: mat.NewDense(2, 1, nil)},
	} {
		sys, err := NewSystem(test.A, test.B, test.C, test.D)
		assert.Nil(sys, test.name)
		assert.Error(err, test.name)
	}
}

func TestPropagate(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSystem(A, B, C, D)
	assert.NoError(err)

	v, err := s.Propagate(x, u, nil)
	assert.NoError(err)
	// [0.5+0.6-0.5, 0.6-1]
	assert.InDeltaSlice([]float64{0.6, -0.4}, mat.Col(nil, 0, v), 1e-12)

	v, err = s.Propagate(x, u, q)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{0.7, -0.3}, mat.Col(nil, 0, v), 1e-12)

	v, err = s.Propagate(x, nil, nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{1.1, 0.6}, mat.Col(nil, 0, v), 1e-12)

	v, err = s.Propagate(x, mat.NewVecDense(10, nil), q)
	assert.Nil(v)
	assert.Error(err)

	v, err = s.Propagate(mat.NewVecDense(10, nil), u, q)
	assert.Nil(v)
	assert.Error(err)

	// invalid noise vector
	v, err = s.Propagate(x, u, mat.NewVecDense(3, nil))
	assert.Nil(v)
	assert.Error(err)
}

func TestObserve(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSystem(A, B, C, D)
	assert.NoError(err)

	v, err := s.Observe(x, u, r)
	assert.NoError(err)
	assert.InDelta(0.7, v.AtVec(0), 1e-12)

	v, err = s.Observe(x, nil, nil)
	assert.NoError(err)
	assert.InDelta(0.5, v.AtVec(0), 1e-12)

	v, err = s.Observe(x, mat.NewVecDense(10, nil), r)
	assert.Nil(v)
	assert.Error(err)

	v, err = s.Observe(mat.NewVecDense(10, nil), u, r)
	assert.Nil(v)
	assert.Error(err)

	// invalid noise vector
	v, err = s.Observe(x, u, mat.NewVecDense(2, nil))
	assert.Nil(v)
	assert.Error(err)
}
