package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// WeightedSum returns the sum of particles stored in rows of x scaled by weights w.
// WeightedSum does not normalize w: the weights are expected to sum up to 1.
// It returns error if the number of rows of x does not match the length of w.
func WeightedSum(x mat.Matrix, w []float64) (mat.Vector, error) {
	rows, cols := x.Dims()
	if rows != len(w) {
		return nil, fmt.Errorf("invalid weight count: %d != %d", len(w), rows)
	}

	// x^T * w
	est := mat.NewVecDense(cols, nil)
	est.MulVec(x.T(), mat.NewVecDense(len(w), w))

	return est, nil
}

// WeightedCov returns covariance of particles stored in rows of x around mean m weighted by w:
//
//	sum_i w[i] * (x[i] - m) * (x[i] - m)^T
//
// It returns error if the dimensions of x, m and w do not match.
func WeightedCov(x mat.Matrix, w []float64, m mat.Vector) (*mat.SymDense, error) {
	rows, cols := x.Dims()
	if rows != len(w) {
		return nil, fmt.Errorf("invalid weight count: %d != %d", len(w), rows)
	}

	if m == nil || m.Len() != cols {
		return nil, fmt.Errorf("invalid mean dimension")
	}

	cov := mat.NewSymDense(cols, nil)
	diff := mat.NewVecDense(cols, nil)
	for r := 0; r < rows; r++ {
		if w[r] == 0 {
			continue
		}
		for c := 0; c < cols; c++ {
			diff.SetVec(c, x.At(r, c)-m.AtVec(c))
		}
		cov.SymRankOne(cov, w[r], diff)
	}

	return cov, nil
}
