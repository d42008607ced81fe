package noise

import (
	"testing"

	filter "github.com/startracker/go-pf"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewZero(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)

	for _, size := range []int{0, -10} {
		e, err := NewZero(size)
		assert.Nil(e)
		assert.Error(err)
	}
}

func TestZero(t *testing.T) {
	assert := assert.New(t)

	var n filter.Noise
	n, err := NewZero(2)
	assert.NoError(err)

	assert.True(mat.Equal(mat.NewSymDense(2, nil), n.Cov()))
	assert.Equal([]float64{0, 0}, n.Mean())

	sample := n.Sample()
	assert.Equal(2, sample.Len())
	for i := 0; i < sample.Len(); i++ {
		assert.Equal(0.0, sample.AtVec(i))
	}
}

func TestZeroString(t *testing.T) {
	assert := assert.New(t)

	str := `Zero{
Mean=[0 0]
Cov=⎡0  0⎤
    ⎣0  0⎦
}`
	e, err := NewZero(2)
	assert.NoError(err)
	assert.Equal(str, e.String())
}
