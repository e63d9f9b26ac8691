package plot

import (
	"testing"

	"github.com/phil-mansfield/hailstone/geom"
	"github.com/stretchr/testify/assert"
)

func TestClip(t *testing.T) {
	b := geom.Bound{Min: 0, Max: 10}
	table := []struct {
		p      geom.Particle
		xs, ys [2]float64
		ok     bool
	}{
		// Starts inside, leaves through the top right corner.
		{geom.Particle{X: geom.Vec{5, 5, 0}, V: geom.Vec{1, 1, 0}},
			[2]float64{5, 10}, [2]float64{5, 10}, true},
		// Starts outside and passes through.
		{geom.Particle{X: geom.Vec{-5, 2, 0}, V: geom.Vec{1, 0, 9}},
			[2]float64{0, 10}, [2]float64{2, 2}, true},
		// Moving away from the area.
		{geom.Particle{X: geom.Vec{-5, 2, 0}, V: geom.Vec{-1, 0, 0}},
			[2]float64{}, [2]float64{}, false},
		// Misses the area.
		{geom.Particle{X: geom.Vec{-5, 20, 0}, V: geom.Vec{1, 1, 0}},
			[2]float64{}, [2]float64{}, false},
		// Stationary inside.
		{geom.Particle{X: geom.Vec{3, 4, 0}, V: geom.Vec{0, 0, 1}},
			[2]float64{3, 3}, [2]float64{4, 4}, true},
		// Vertical.
		{geom.Particle{X: geom.Vec{3, 12, 0}, V: geom.Vec{0, -2, 0}},
			[2]float64{3, 3}, [2]float64{10, 0}, true},
	}

	for i, line := range table {
		xs, ys, ok := Clip(&line.p, b)
		assert.Equal(t, line.ok, ok, "%d)", i+1)
		if !line.ok {
			continue
		}
		for k := 0; k < 2; k++ {
			assert.InDelta(t, line.xs[k], xs[k], 1e-12, "%d) x[%d]", i+1, k)
			assert.InDelta(t, line.ys[k], ys[k], 1e-12, "%d) y[%d]", i+1, k)
		}
	}
}
