package geom

import (
	"fmt"
)

// Particle is a point moving with constant velocity. Its trajectory is
// X + t * V.
type Particle struct {
	X, V Vec
}

// At returns the position of the particle at time t.
func (p *Particle) At(t float64) [3]float64 {
	out := [3]float64{}
	for i := 0; i < 3; i++ {
		out[i] = float64(p.X[i]) + t*float64(p.V[i])
	}
	return out
}

// String formats the particle the same way it is written in input files.
func (p Particle) String() string {
	return fmt.Sprintf(
		"%d, %d, %d @ %d, %d, %d",
		p.X[0], p.X[1], p.X[2], p.V[0], p.V[1], p.V[2],
	)
}

// Bound is the inclusive square window [Min, Max] x [Min, Max] in the xy
// plane.
type Bound struct {
	Min, Max int64
}

// Contains returns true if (x, y) lies inside the window.
func (b Bound) Contains(x, y float64) bool {
	min, max := float64(b.Min), float64(b.Max)
	return x >= min && x <= max && y >= min && y <= max
}
