/*package plot draws the hailstone test area with matplotlib.

Plots are accumulated as a python script and nothing is drawn until Execute
is called.
*/
package plot

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/hailstone/crossing"
	"github.com/phil-mansfield/hailstone/geom"
	plt "github.com/phil-mansfield/pyplot"
)

var (
	pathColor     = "DarkSlateGray"
	crossingColor = "DeepPink"
)

// Clip returns the part of p's future xy path which lies inside b. ok is
// false if the path never enters b.
func Clip(p *geom.Particle, b geom.Bound) (xs, ys [2]float64, ok bool) {
	t0, t1 := 0.0, math.Inf(+1)
	min, max := float64(b.Min), float64(b.Max)

	for k := 0; k < 2; k++ {
		x, v := float64(p.X[k]), float64(p.V[k])
		if v == 0 {
			if x < min || x > max {
				return xs, ys, false
			}
			continue
		}

		ta, tb := (min-x)/v, (max-x)/v
		if ta > tb {
			ta, tb = tb, ta
		}
		t0, t1 = math.Max(t0, ta), math.Min(t1, tb)
		if t0 > t1 {
			return xs, ys, false
		}
	}

	// Stationary hailstones are a single point.
	if math.IsInf(t1, +1) {
		t1 = t0
	}

	start, end := p.At(t0), p.At(t1)
	xs[0], xs[1] = start[0], end[0]
	ys[0], ys[1] = start[1], end[1]
	return xs, ys, true
}

// Crossings adds a figure showing every hailstone's path inside b and the
// crossing points in pairs to the plot script. The figure is saved to fname.
func Crossings(
	ps []geom.Particle, b geom.Bound, pairs []crossing.Pair, fname string,
) {
	plt.Figure(plt.FigSize(8, 8))

	for i := range ps {
		xs, ys, ok := Clip(&ps[i], b)
		if !ok {
			continue
		}
		plt.Plot(xs[:], ys[:], plt.C(pathColor), plt.LW(1))
	}

	if len(pairs) > 0 {
		xs, ys := make([]float64, len(pairs)), make([]float64, len(pairs))
		for i := range pairs {
			xs[i], ys[i] = pairs[i].X, pairs[i].Y
		}
		plt.Plot(xs, ys, "o", plt.C(crossingColor))
	}

	plt.Title(fmt.Sprintf(
		"%d hailstones, %d crossings", len(ps), len(pairs),
	))
	plt.XLabel(`$X$`, plt.FontSize(16))
	plt.YLabel(`$Y$`, plt.FontSize(16))
	plt.XLim(float64(b.Min), float64(b.Max))
	plt.YLim(float64(b.Min), float64(b.Max))
	plt.SaveFig(fname)
}

// Execute runs the accumulated plot script.
func Execute() { plt.Execute() }

// Reset discards the accumulated plot script.
func Reset() { plt.Reset() }
