package geom

import (
	"math/big"
)

// Crossing describes where the xy projections of two trajectories, l and r,
// meet. The crossing happens at l's time TNum / Denom and at r's time
// UNum / Denom. Denom is never negative.
//
// TNum, UNum and Denom are computed in native int64 arithmetic, so position
// differences times velocities must fit in an int64. For the input ranges
// this is used with (|x| ~ 1e15, |v| ~ 1e3) that holds comfortably.
type Crossing struct {
	TNum, UNum, Denom int64
}

// NewCrossing computes the crossing of l and r.
func NewCrossing(l, r *Particle) *Crossing {
	c := &Crossing{}
	c.Init(l, r)
	return c
}

// Init computes the crossing of l and r.
//
// l.X + t * l.V = r.X + u * r.V. Taking the 2D cross product of both sides
// with r.V eliminates u and taking it with l.V eliminates t.
func (c *Crossing) Init(l, r *Particle) {
	delta := l.X.Sub(r.X)
	c.TNum = r.V.Cross2(delta)
	c.UNum = l.V.Cross2(delta)
	c.Denom = l.V.Cross2(r.V)

	if c.Denom < 0 {
		c.TNum, c.UNum, c.Denom = -c.TNum, -c.UNum, -c.Denom
	}
}

// Parallel returns true if the two paths never cross or are the same line.
// Coincident paths are not treated as crossing.
func (c *Crossing) Parallel() bool { return c.Denom == 0 }

// Future returns true if the crossing happens after time zero for both
// particles.
func (c *Crossing) Future() bool { return c.TNum > 0 && c.UNum > 0 }

// Point returns the approximate location of the crossing. It should only be
// used for reporting: decisions are made with Future and Inside.
func (c *Crossing) Point(l *Particle) (x, y float64) {
	t := float64(c.TNum) / float64(c.Denom)
	p := l.At(t)
	return p[0], p[1]
}

// CrossingWorkspace contains buffers for checking whether crossings lie
// inside a Bound without allocating.
//
// Workspaces should not be shared between threads.
type CrossingWorkspace struct {
	c                    Crossing
	denom, lo, hi, x, dx big.Int
	tmp                  big.Int
}

// Inside returns true if the crossing, which must not be Parallel, lies in
// the window b. l must be the first particle used to compute c.
//
// The crossing coordinate l.X + (TNum / Denom) * l.V is scaled by Denom so
// that the comparison is exact. Denom * b.Max can easily overflow 64 bits, so
// this is done with big integers.
func (w *CrossingWorkspace) Inside(c *Crossing, l *Particle, b Bound) bool {
	w.denom.SetInt64(c.Denom)
	w.lo.Mul(&w.denom, w.tmp.SetInt64(b.Min))
	w.hi.Mul(&w.denom, w.tmp.SetInt64(b.Max))

	for k := 0; k < 2; k++ {
		w.x.Mul(&w.denom, w.tmp.SetInt64(l.X[k]))
		w.dx.SetInt64(c.TNum)
		w.dx.Mul(&w.dx, w.tmp.SetInt64(l.V[k]))
		w.x.Add(&w.x, &w.dx)

		if w.x.Cmp(&w.lo) < 0 || w.x.Cmp(&w.hi) > 0 {
			return false
		}
	}
	return true
}

// Crosses returns true if the paths of l and r cross inside b at a positive
// time for both particles.
func (w *CrossingWorkspace) Crosses(l, r *Particle, b Bound) bool {
	w.c.Init(l, r)
	if w.c.Parallel() || !w.c.Future() {
		return false
	}
	return w.Inside(&w.c, l, b)
}

// Crosses returns true if the paths of l and r cross inside b at a positive
// time for both particles.
func Crosses(l, r *Particle, b Bound) bool {
	w := &CrossingWorkspace{}
	return w.Crosses(l, r, b)
}
