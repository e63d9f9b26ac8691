/*package rock finds a single straight trajectory which passes through the
trajectories of several hailstones.

The rock's position at time t is X + t*V. Requiring that it meets hailstones
A, B and C at times tA, tB and tC gives nine equations,

    X + tP*V - P.X - tP*P.V = 0, for P in {A, B, C},

in the nine unknowns (X, V, tA, tB, tC). These are solved with Newton-Raphson
iteration from a fixed initial guess. This is an approximate method: nothing
guarantees convergence and the answer is obtained by rounding. The default
seed is tuned to puzzle-scale inputs and other inputs may need another one.
*/
package rock

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/big"

	"github.com/phil-mansfield/hailstone/geom"
	"github.com/phil-mansfield/hailstone/math/mat"
)

const (
	// DefaultIterations is the number of Newton-Raphson steps taken by
	// solvers created with NewSolver(0).
	DefaultIterations = 20

	n = 9
)

var (
	// DefaultSeed is the initial guess (x, y, z, vx, vy, vz, tA, tB, tC).
	// Times and velocities are distinct and non-zero so that the first
	// Jacobian is usually invertible.
	DefaultSeed = [n]float64{0, 0, 0, 1, 1, 1, 1, 2, 3}

	ErrTooFewParticles = errors.New("rock: at least three hailstones are needed")
	ErrSingular        = errors.New("rock: singular Jacobian")
	ErrDiverged        = errors.New("rock: iteration diverged")
	ErrNoHit           = errors.New("rock: no solution hits every hailstone")
)

// Rock is the result of a solve.
type Rock struct {
	X, V [3]float64
	// T contains the times at which the rock meets the three hailstones.
	T [3]float64

	// Iterations is the number of Newton-Raphson steps which were taken.
	Iterations int
	// Residual is the largest absolute residual at the final state.
	Residual float64
}

// Position returns the starting position rounded to the nearest integers.
func (r *Rock) Position() geom.Vec { return round(r.X) }

// Velocity returns the velocity rounded to the nearest integers.
func (r *Rock) Velocity() geom.Vec { return round(r.V) }

// Sum returns the sum of the components of Position.
func (r *Rock) Sum() int64 {
	pos := r.Position()
	return pos.Sum()
}

func round(x [3]float64) geom.Vec {
	return geom.Vec{
		int64(math.Round(x[0])), int64(math.Round(x[1])), int64(math.Round(x[2])),
	}
}

// Hits returns true if the rounded rock meets p at some time t >= 0 and
// returns that time. The check is exact for every rounded rock, including
// unconverged ones far outside the range of the inputs.
func Hits(r *Rock, p *geom.Particle) (t float64, ok bool) {
	pos, vel := r.Position(), r.Velocity()

	// X + t V = P.X + t P.V  ->  d = t w.
	var d, w [3]big.Int
	for i := 0; i < 3; i++ {
		d[i].Sub(big.NewInt(pos[i]), big.NewInt(p.X[i]))
		w[i].Sub(big.NewInt(p.V[i]), big.NewInt(vel[i]))
	}

	ww := dot(&w, &w)
	if ww.Sign() == 0 {
		return 0, dot(&d, &d).Sign() == 0
	}

	// d must be parallel to w.
	var lhs, rhs big.Int
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		lhs.Mul(&d[j], &w[k])
		rhs.Mul(&d[k], &w[j])
		if lhs.Cmp(&rhs) != 0 {
			return 0, false
		}
	}

	dw := dot(&d, &w)
	if dw.Sign() < 0 {
		return 0, false
	}
	t, _ = new(big.Rat).SetFrac(dw, ww).Float64()
	return t, true
}

func dot(a, b *[3]big.Int) *big.Int {
	sum, tmp := new(big.Int), new(big.Int)
	for i := 0; i < 3; i++ {
		sum.Add(sum, tmp.Mul(&a[i], &b[i]))
	}
	return sum
}

// Solver contains the parameters of the Newton-Raphson solve. A Solver may
// be used from several goroutines at once.
type Solver struct {
	Iterations int
	Seed       [n]float64
	// Tolerance stops iteration early once every residual is smaller than
	// it. Zero disables early stopping.
	Tolerance float64
	// Log prints the largest residual at every iteration.
	Log bool
}

// NewSolver creates a Solver which uses DefaultSeed. Values of iterations
// below one use DefaultIterations.
func NewSolver(iterations int) *Solver {
	if iterations < 1 {
		iterations = DefaultIterations
	}
	return &Solver{Iterations: iterations, Seed: DefaultSeed}
}

// workspace holds the buffers used by a single solve.
type workspace struct {
	jac, inv *mat.Matrix
	luf      *mat.LUFactors
	f, dx    []float64
}

func newWorkspace() *workspace {
	return &workspace{
		jac: mat.NewMatrix(make([]float64, n*n), n, n),
		inv: mat.NewMatrix(make([]float64, n*n), n, n),
		luf: mat.NewLUFactors(n),
		f:   make([]float64, n),
		dx:  make([]float64, n),
	}
}

// Solve finds the rock which meets the first three hailstones in ps and
// returns the sum of its rounded starting coordinates. The result is not
// checked against the other hailstones and may be off if the iteration has
// not converged. Use SolveRock with FirstMiss, or SolveAny, to check it.
func (s *Solver) Solve(ps []geom.Particle) (int64, error) {
	r, err := s.SolveRock(ps)
	if err != nil {
		return 0, err
	}
	return r.Sum(), nil
}

// SolveRock is Solve, but returns the full Rock.
func (s *Solver) SolveRock(ps []geom.Particle) (*Rock, error) {
	if len(ps) < 3 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewParticles, len(ps))
	}
	return s.SolveTriple(&ps[0], &ps[1], &ps[2])
}

// SolveTriple finds the rock which meets a, b and c.
//
// ErrSingular is returned if the Jacobian cannot be inverted at some step,
// and ErrDiverged if the state stops being finite. A finite result is
// returned even if it has not converged: check Residual.
func (s *Solver) SolveTriple(a, b, c *geom.Particle) (*Rock, error) {
	ps := [3]*geom.Particle{a, b, c}
	w := newWorkspace()
	x := s.Seed

	r := &Rock{}
	for it := 0; it < s.Iterations; it++ {
		res := residual(&x, &ps, w.f)
		if s.Log {
			log.Printf("Rock iteration %d: max residual = %.4g", it, res)
		}
		if !finite(x[:]) || !finite(w.f) {
			return nil, fmt.Errorf("%w at iteration %d", ErrDiverged, it)
		}
		if res < s.Tolerance {
			break
		}

		jacobian(&x, &ps, w.jac)
		err := w.jac.LUFactorsAt(w.luf)
		if errors.Is(err, mat.ErrNonFinite) {
			return nil, fmt.Errorf("%w at iteration %d: %w", ErrDiverged, it, err)
		} else if err != nil {
			return nil, fmt.Errorf("%w at iteration %d: %w", ErrSingular, it, err)
		}
		w.luf.InvertAt(w.inv)
		w.inv.MultVec(w.f, w.dx)

		for i := range x {
			x[i] -= w.dx[i]
		}
		r.Iterations++
	}

	r.Residual = residual(&x, &ps, w.f)
	if !finite(x[:]) || !finite(w.f) {
		return nil, fmt.Errorf(
			"%w after %d iterations", ErrDiverged, r.Iterations,
		)
	}

	copy(r.X[:], x[0:3])
	copy(r.V[:], x[3:6])
	copy(r.T[:], x[6:9])
	return r, nil
}

func finite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// residual writes f(x) to f and returns max |f_i|.
func residual(x *[n]float64, ps *[3]*geom.Particle, f []float64) float64 {
	max := 0.0
	for k, p := range ps {
		t := x[6+k]
		for i := 0; i < 3; i++ {
			f[3*k+i] = x[i] + t*x[3+i] - float64(p.X[i]) - t*float64(p.V[i])
			if abs := math.Abs(f[3*k+i]); abs > max {
				max = abs
			}
		}
	}
	return max
}

// jacobian writes the derivatives of f(x) to jac: row 3k+i is hailstone k's
// i-th equation.
func jacobian(x *[n]float64, ps *[3]*geom.Particle, jac *mat.Matrix) {
	for i := range jac.Vals {
		jac.Vals[i] = 0
	}

	for k, p := range ps {
		for i := 0; i < 3; i++ {
			row := 3*k + i
			jac.Set(row, i, 1)
			jac.Set(row, 3+i, x[6+k])
			jac.Set(row, 6+k, x[3+i]-float64(p.V[i]))
		}
	}
}
