package rand

import (
	"fmt"
	"math"
	"sort"

	rnd "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CDFTolerance is the maximum distance of the total weight from 1
// tolerated before the cumulative weights are rescaled.
const CDFTolerance = 1e-9

// WithCovN draws n random samples from a zero-mean Normal (aka Gaussian) distribution with covariance cov.
// It returns matrix which contains the randomly generated samples stored in its rows.
// If src is nil the global random source is used.
// It fails with error if n is non-positive or if SVD factorization of cov fails.
func WithCovN(cov mat.Symmetric, n int, src rnd.Source) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	// Use SVD instead of Cholesky as Cholesky can be numerically unstable if cov is (almost) singular
	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}

	U := new(mat.Dense)
	svd.UTo(U)
	vals := svd.Values(nil)
	for i := range vals {
		vals[i] = math.Sqrt(vals[i])
	}
	L := new(mat.Dense)
	L.Mul(U, mat.NewDiagDense(len(vals), vals))

	norm := rnd.NormFloat64
	if src != nil {
		norm = rnd.New(src).NormFloat64
	}

	d := cov.SymmetricDim()
	data := make([]float64, n*d)
	for i := range data {
		data[i] = norm()
	}
	z := mat.NewDense(n, d, data)
	// each row is z^T * (U*sqrt(S))^T
	samples := new(mat.Dense)
	samples.Mul(z, L.T())

	return samples, nil
}

// RouletteDrawN draws n numbers randomly from a probability mass function (PMF) defined by weights in p.
// RouletteDrawN implements the Roulette Wheel Draw a.k.a. Fitness Proportionate Selection:
// - https://en.wikipedia.org/wiki/Fitness_proportionate_selection
// - http://www.keithschwarz.com/darts-dice-coins/
// It returns a slice of n indices into the slice p.
// If src is nil the global random source is used.
// It fails with error if p is empty or if its values do not sum up to a positive number.
func RouletteDrawN(p []float64, n int, src rnd.Source) ([]int, error) {
	cdf, err := cumWeights(p)
	if err != nil {
		return nil, err
	}

	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}

	// Generation:
	// 1. Generate a uniformly-random value x in the range [0,1)
	// 2. Using a binary search, find the index of the smallest element in cdf larger than x
	var val float64
	indices := make([]int, n)
	for i := range indices {
		val = uniform.Rand()
		// Search returns the smallest index i such that cdf[i] > val
		indices[i] = sort.Search(len(cdf), func(i int) bool { return cdf[i] > val })
		// guard against val landing past the last CDF value due to rounding
		if indices[i] == len(cdf) {
			indices[i] = len(cdf) - 1
		}
	}

	return indices, nil
}

// SystematicDrawN draws len(w) indices using systematic (low-variance) sampling of weights w with offset r.
// The i-th index is the first index whose cumulative weight reaches r + i/len(w), so the returned
// indices are sorted in ascending order and each index is selected proportionally to its weight.
// If the weights do not sum up to 1 the cumulative weights are rescaled by their total.
// It fails with error if w is empty, contains negative or NaN values, sums up to non-positive
// value or if r is outside of [0, 1/len(w)).
func SystematicDrawN(w []float64, r float64) ([]int, error) {
	cdf, err := cumWeights(w)
	if err != nil {
		return nil, err
	}

	n := len(w)
	step := 1 / float64(n)
	if math.IsNaN(r) || r < 0 || r >= step {
		return nil, fmt.Errorf("invalid systematic offset: %v", r)
	}

	indices := make([]int, n)
	// i is never reset: single pass over the cumulative weights
	i := 0
	for m := range indices {
		u := r + float64(m)*step
		for i < n-1 && u > cdf[i] {
			i++
		}
		indices[m] = i
	}

	return indices, nil
}

// cumWeights returns the cumulative sums of w rescaled so that the last value is 1.
func cumWeights(w []float64) ([]float64, error) {
	if len(w) == 0 {
		return nil, fmt.Errorf("invalid probability weights: %v", w)
	}

	for i, v := range w {
		if math.IsNaN(v) || v < 0 {
			return nil, fmt.Errorf("invalid probability weight %d: %v", i, v)
		}
	}

	cdf := make([]float64, len(w))
	floats.CumSum(cdf, w)

	total := cdf[len(cdf)-1]
	if total <= 0 || math.IsInf(total, 0) {
		return nil, fmt.Errorf("invalid probability weights total: %v", total)
	}

	if math.Abs(total-1) > CDFTolerance {
		floats.Scale(1/total, cdf)
	}

	return cdf, nil
}
