package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// System defines a linear discrete-time model of a plant using
// traditional matrices of modern control theory:
//
//	x[n+1] = A*x[n] + B*u[n] + q[n]
//	y[n]   = C*x[n] + D*u[n] + r[n]
//
// System is used to generate ground truth trajectories and measurements.
type System struct {
	// System/State matrix A
	A *mat.Dense
	// Control/Input Matrix B
	B *mat.Dense
	// Observation/Output Matrix C
	C *mat.Dense
	// Feedthrough matrix D
	D *mat.Dense
}

// NewSystem creates a linear discrete-time system and returns it.
// B and D are optional and may be nil.
// It returns error if A or C are nil or if the matrix dimensions do not match.
func NewSystem(A, B, C, D *mat.Dense) (*System, error) {
	if A == nil || C == nil {
		return nil, fmt.Errorf("system and output matrices must be defined")
	}

	nx, cols := A.Dims()
	if nx != cols {
		return nil, fmt.Errorf("invalid system matrix dimensions: [%d x %d]", nx, cols)
	}

	ny, cols := C.Dims()
	if cols != nx {
		return nil, fmt.Errorf("invalid output matrix dimensions: [%d x %d]", ny, cols)
	}

	if B != nil {
		if rows, _ := B.Dims(); rows != nx {
			return nil, fmt.Errorf("invalid control matrix rows: %d", rows)
		}
	}

	if D != nil {
		if rows, _ := D.Dims(); rows != ny {
			return nil, fmt.Errorf("invalid feedthrough matrix rows: %d", rows)
		}
	}

	return &System{
		A: mat.DenseCopyOf(A),
		B: denseCopyOrNil(B),
		C: mat.DenseCopyOf(C),
		D: denseCopyOrNil(D),
	}, nil
}

func denseCopyOrNil(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}
	return mat.DenseCopyOf(m)
}

// SystemDims returns internal state length (nx), input vector length (nu),
// external/observable/output state length (ny) and disturbance vector length (nz).
// Disturbances are modelled as additive state noise, so nz is always equal to nx.
func (s *System) SystemDims() (nx, nu, ny, nz int) {
	nx, _ = s.A.Dims()
	if s.B != nil {
		_, nu = s.B.Dims()
	}
	ny, _ = s.C.Dims()

	return nx, nu, ny, nx
}

// SystemMatrix returns state propagation matrix `A`.
func (s *System) SystemMatrix() mat.Matrix { return s.A }

// ControlMatrix returns state propagation control matrix `B`
func (s *System) ControlMatrix() mat.Matrix {
	if s.B == nil {
		return nil
	}
	return s.B
}

// OutputMatrix returns observation matrix `C`
func (s *System) OutputMatrix() mat.Matrix { return s.C }

// FeedForwardMatrix returns observation control matrix `D`
func (s *System) FeedForwardMatrix() mat.Matrix {
	if s.D == nil {
		return nil
	}
	return s.D
}

// Propagate returns the next internal state x given an input vector u.
// q is added to the state as process noise; u and q may be nil.
func (s *System) Propagate(x, u, q mat.Vector) (mat.Vector, error) {
	nx, nu, _, _ := s.SystemDims()
	if u != nil && s.B != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x == nil || x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := mat.NewVecDense(nx, nil)
	out.MulVec(s.A, x)

	if u != nil && s.B != nil {
		outU := mat.NewVecDense(nx, nil)
		outU.MulVec(s.B, u)
		out.AddVec(out, outU)
	}

	if q != nil {
		if q.Len() != nx {
			return nil, fmt.Errorf("invalid noise vector")
		}
		out.AddVec(out, q)
	}

	return out, nil
}

// Observe returns external/observable state given internal state x and input u.
// r is added to the output as measurement noise; u and r may be nil.
func (s *System) Observe(x, u, r mat.Vector) (mat.Vector, error) {
	nx, nu, ny, _ := s.SystemDims()
	if u != nil && s.D != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x == nil || x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := mat.NewVecDense(ny, nil)
	out.MulVec(s.C, x)

	if u != nil && s.D != nil {
		outU := mat.NewVecDense(ny, nil)
		outU.MulVec(s.D, u)
		out.AddVec(out, outU)
	}

	if r != nil {
		if r.Len() != ny {
			return nil, fmt.Errorf("invalid noise vector")
		}
		out.AddVec(out, r)
	}

	return out, nil
}
