/*package crossing counts the pairs of hailstones whose paths cross inside a
test area.
*/
package crossing

import (
	"runtime"

	"github.com/phil-mansfield/hailstone/geom"
)

// Pair is a pair of hailstones whose paths cross inside the test area. X and
// Y give the approximate crossing location.
type Pair struct {
	I, J int
	X, Y float64
}

// Count returns the number of unordered pairs in ps whose xy paths cross
// inside b at a positive time for both hailstones.
func Count(ps []geom.Particle, b geom.Bound) int {
	w := &geom.CrossingWorkspace{}
	n := 0
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if w.Crosses(&ps[i], &ps[j], b) {
				n++
			}
		}
	}
	return n
}

// Manager splits the pairs of a hailstone list between several workers.
type Manager struct {
	workers    int
	workspaces []workspace
}

type workspace struct {
	intr  geom.CrossingWorkspace
	count int
	pairs []Pair
}

// NewManager creates a Manager with the given number of workers. Values
// below one use the number of logical cores.
func NewManager(workers int) *Manager {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	man := &Manager{workers: workers}
	man.workspaces = make([]workspace, workers)
	return man
}

// Workers returns the number of workers used by the Manager.
func (man *Manager) Workers() int { return man.workers }

// Count returns the same value as the package-level Count, but the work is
// split between the Manager's workers.
func (man *Manager) Count(ps []geom.Particle, b geom.Bound) int {
	man.run(ps, b, false)

	n := 0
	for id := range man.workspaces {
		n += man.workspaces[id].count
	}
	return n
}

// Pairs returns every pair counted by Count, ordered by (I, J).
func (man *Manager) Pairs(ps []geom.Particle, b geom.Bound) []Pair {
	man.run(ps, b, true)

	// Each row belongs to exactly one worker and is already sorted by J.
	rows := make([][]Pair, len(ps))
	for id := range man.workspaces {
		for _, p := range man.workspaces[id].pairs {
			rows[p.I] = append(rows[p.I], p)
		}
	}

	out := []Pair{}
	for i := range rows {
		out = append(out, rows[i]...)
	}
	return out
}

func (man *Manager) run(ps []geom.Particle, b geom.Bound, keep bool) {
	out := make(chan int, man.workers)

	for id := 0; id < man.workers-1; id++ {
		go man.chanCount(id, ps, b, keep, out)
	}
	id := man.workers - 1
	man.chanCount(id, ps, b, keep, out)

	for i := 0; i < man.workers; i++ {
		<-out
	}
}

func (man *Manager) chanCount(
	id int, ps []geom.Particle, b geom.Bound, keep bool, out chan<- int,
) {
	w := &man.workspaces[id]
	w.count = 0
	w.pairs = w.pairs[:0]

	// Rows are striped rather than blocked since row i has len(ps) - i - 1
	// pairs.
	for i := id; i < len(ps); i += man.workers {
		for j := i + 1; j < len(ps); j++ {
			if !w.intr.Crosses(&ps[i], &ps[j], b) {
				continue
			}
			w.count++
			if keep {
				c := geom.NewCrossing(&ps[i], &ps[j])
				x, y := c.Point(&ps[i])
				w.pairs = append(w.pairs, Pair{i, j, x, y})
			}
		}
	}

	out <- id
}
