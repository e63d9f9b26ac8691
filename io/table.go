package io

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/hailstone/geom"
	"github.com/phil-mansfield/table"
)

// Largest magnitude for which every integer is exactly representable as a
// float64.
const maxExactFloat = 1 << 53

// ReadParticleTable reads particles from a whitespace separated table with
// the columns "x y z vx vy vz". Table values pass through float64, so every
// value must be an integer with magnitude at most 2^53.
func ReadParticleTable(fname string) ([]geom.Particle, error) {
	colIdxs := []int{0, 1, 2, 3, 4, 5}
	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil {
		return nil, err
	}
	return tableParticles(cols)
}

func tableParticles(cols [][]float64) ([]geom.Particle, error) {
	if len(cols) != 6 {
		return nil, fmt.Errorf(
			"%w: expected 6 table columns, got %d", ErrMalformedLine, len(cols),
		)
	}

	n := len(cols[0])
	ps := make([]geom.Particle, n)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			x, err := exactInt(cols[k][i])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			v, err := exactInt(cols[k+3][i])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			ps[i].X[k], ps[i].V[k] = x, v
		}
	}

	return ps, nil
}

func exactInt(x float64) (int64, error) {
	if math.Trunc(x) != x || math.Abs(x) > maxExactFloat {
		return 0, fmt.Errorf(
			"%w: %g is not an exactly representable integer",
			ErrMalformedLine, x,
		)
	}
	return int64(x), nil
}
