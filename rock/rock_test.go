package rock

import (
	"math"
	"testing"

	"github.com/phil-mansfield/hailstone/geom"
	"github.com/phil-mansfield/hailstone/math/mat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func example() []geom.Particle {
	return []geom.Particle{
		{X: geom.Vec{19, 13, 30}, V: geom.Vec{-2, 1, -2}},
		{X: geom.Vec{18, 19, 22}, V: geom.Vec{-1, -1, -2}},
		{X: geom.Vec{20, 25, 34}, V: geom.Vec{-2, -2, -4}},
		{X: geom.Vec{12, 31, 28}, V: geom.Vec{-1, -2, -1}},
		{X: geom.Vec{20, 19, 15}, V: geom.Vec{1, -5, -3}},
	}
}

func TestSolveExample(t *testing.T) {
	sum, err := NewSolver(20).Solve(example())
	require.NoError(t, err)
	assert.Equal(t, int64(47), sum)

	// Extra iterations stay at the fixed point.
	sum, err = NewSolver(100).Solve(example())
	require.NoError(t, err)
	assert.Equal(t, int64(47), sum)
}

func TestSolveTriple(t *testing.T) {
	ps := example()
	r, err := NewSolver(0).SolveTriple(&ps[0], &ps[1], &ps[2])
	require.NoError(t, err)

	assert.Equal(t, DefaultIterations, r.Iterations)
	assert.Equal(t, geom.Vec{24, 13, 10}, r.Position())
	assert.Equal(t, geom.Vec{-3, 1, 2}, r.Velocity())
	assert.InDelta(t, 5, r.T[0], 1e-6)
	assert.InDelta(t, 3, r.T[1], 1e-6)
	assert.InDelta(t, 4, r.T[2], 1e-6)
	assert.True(t, r.Residual < 1e-9)
}

func TestSolveIdempotent(t *testing.T) {
	ps := example()
	s := NewSolver(20)
	r1, err := s.SolveTriple(&ps[0], &ps[1], &ps[2])
	require.NoError(t, err)
	r2, err := s.SolveTriple(&ps[0], &ps[1], &ps[2])
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	for i := 0; i < 3; i++ {
		assert.Equal(t, math.Float64bits(r1.X[i]), math.Float64bits(r2.X[i]))
	}
}

func TestSolveTolerance(t *testing.T) {
	s := NewSolver(20)
	s.Tolerance = 1e-6
	s.Log = true

	ps := example()
	r, err := s.SolveTriple(&ps[0], &ps[1], &ps[2])
	require.NoError(t, err)
	assert.True(t, r.Iterations < 20)
	assert.True(t, r.Residual < 1e-6)
	assert.Equal(t, int64(47), r.Sum())
}

func TestSolveTooFew(t *testing.T) {
	s := NewSolver(20)
	for n := 0; n < 3; n++ {
		_, err := s.Solve(example()[:n])
		assert.ErrorIs(t, err, ErrTooFewParticles, "%d hailstones", n)

		_, err = s.SolveAny(example()[:n], 3)
		assert.ErrorIs(t, err, ErrTooFewParticles, "%d hailstones", n)
	}
}

func TestSolveSingular(t *testing.T) {
	// A velocity equal to the seed velocity zeroes the tA column.
	ps := example()
	ps[0].V = geom.Vec{1, 1, 1}

	_, err := NewSolver(20).Solve(ps)
	assert.ErrorIs(t, err, ErrSingular)
	assert.ErrorIs(t, err, mat.ErrSingular)
	assert.NotErrorIs(t, err, ErrDiverged)
}

func TestSolveDiverged(t *testing.T) {
	ps := example()

	seeds := []func(x *[n]float64){
		func(x *[n]float64) { x[0] = math.NaN() },
		func(x *[n]float64) { x[7] = math.Inf(-1) },
		// Finite state whose residual overflows.
		func(x *[n]float64) { x[0], x[3], x[6] = 1e308, 1e308, 2 },
	}

	for i, seed := range seeds {
		s := NewSolver(5)
		seed(&s.Seed)
		_, err := s.SolveTriple(&ps[0], &ps[1], &ps[2])
		assert.ErrorIs(t, err, ErrDiverged, "%d)", i+1)
		assert.NotErrorIs(t, err, ErrSingular, "%d)", i+1)
		assert.ErrorContains(t, err, "iteration 0", "%d)", i+1)
	}
}

func TestHits(t *testing.T) {
	r := &Rock{X: [3]float64{24, 13, 10}, V: [3]float64{-3, 1, 2}}
	times := []float64{5, 3, 4, 6, 1}
	for i, p := range example() {
		tHit, ok := Hits(r, &p)
		assert.True(t, ok, "%d)", i+1)
		assert.InDelta(t, times[i], tHit, 1e-12, "%d)", i+1)
	}

	table := []struct {
		p  geom.Particle
		ok bool
	}{
		{geom.Particle{X: geom.Vec{0, 0, 0}, V: geom.Vec{0, 0, 0}}, false},
		// Met at t = -2.
		{geom.Particle{X: geom.Vec{26, 13, 10}, V: geom.Vec{-2, 1, 2}}, false},
		// Same trajectory.
		{geom.Particle{X: geom.Vec{24, 13, 10}, V: geom.Vec{-3, 1, 2}}, true},
		// Met at t = 0.
		{geom.Particle{X: geom.Vec{24, 13, 10}, V: geom.Vec{7, 7, 7}}, true},
	}
	for i, line := range table {
		_, ok := Hits(r, &line.p)
		assert.Equal(t, line.ok, ok, "%d)", i+1)
	}
}

func TestFirstMiss(t *testing.T) {
	ps := example()
	r, err := NewSolver(20).SolveRock(ps)
	require.NoError(t, err)
	assert.Equal(t, -1, FirstMiss(r, ps))

	ps = append(ps, geom.Particle{X: geom.Vec{1, 2, 3}})
	assert.Equal(t, 5, FirstMiss(r, ps))

	// An unconverged rock still gives a sum, but misses.
	r, err = NewSolver(2).SolveRock(example())
	require.NoError(t, err)
	assert.NotEqual(t, -1, FirstMiss(r, example()))

	_, err = NewSolver(20).SolveRock(example()[:2])
	assert.ErrorIs(t, err, ErrTooFewParticles)
}

func TestHitsLarge(t *testing.T) {
	// d.w and w.w are both far outside the int64 range.
	r := &Rock{X: [3]float64{3e18, 0, 0}}
	p := &geom.Particle{V: geom.Vec{3000000000, 0, 0}}

	tHit, ok := Hits(r, p)
	assert.True(t, ok)
	assert.Equal(t, 1e9, tHit)

	p.V = geom.Vec{-3000000000, 0, 0}
	_, ok = Hits(r, p)
	assert.False(t, ok)

	p.V = geom.Vec{3000000000, 1, 0}
	_, ok = Hits(r, p)
	assert.False(t, ok)

	r.V = [3]float64{4e18, 4e18, 4e18}
	p.V = geom.Vec{-4000000000000000000, -4000000000000000000, 0}
	_, ok = Hits(r, p)
	assert.False(t, ok)
}

func TestSolveAny(t *testing.T) {
	s := NewSolver(20)

	r, err := s.SolveAny(example(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(47), r.Sum())

	// The first triple is singular, the second is not. The singular
	// hailstone still meets the rock at t = 1.
	ps := append([]geom.Particle{
		{X: geom.Vec{20, 13, 11}, V: geom.Vec{1, 1, 1}},
	}, example()...)
	_, err = s.SolveTriple(&ps[0], &ps[1], &ps[2])
	require.ErrorIs(t, err, ErrSingular)

	r, err = s.SolveAny(ps, 2)
	require.NoError(t, err)
	assert.Equal(t, geom.Vec{24, 13, 10}, r.Position())

	_, err = s.SolveAny(ps, 1)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestSolveAnyNoHit(t *testing.T) {
	ps := append(example(), geom.Particle{
		X: geom.Vec{0, 0, 0}, V: geom.Vec{0, 0, 0},
	})
	_, err := NewSolver(20).SolveAny(ps, 3)
	assert.ErrorIs(t, err, ErrNoHit)
}

func BenchmarkSolveTriple(b *testing.B) {
	ps := example()
	s := NewSolver(20)
	for i := 0; i < b.N; i++ {
		s.SolveTriple(&ps[0], &ps[1], &ps[2])
	}
}
