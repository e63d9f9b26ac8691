package rock

import (
	"fmt"

	"github.com/phil-mansfield/hailstone/geom"
)

type attempt struct {
	r   *Rock
	err error
}

// SolveAny solves for the rock using the triples (ps[k], ps[k+1], ps[k+2])
// for k < attempts, concurrently. The first triple, in order of k, whose
// rock Hits every hailstone in ps is returned.
//
// If no attempt succeeds, the first error in order of k is returned, or
// ErrNoHit if every attempt converged to a rock which misses a hailstone.
func (s *Solver) SolveAny(ps []geom.Particle, attempts int) (*Rock, error) {
	if len(ps) < 3 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewParticles, len(ps))
	}
	if attempts < 1 {
		attempts = 1
	}
	if attempts > len(ps)-2 {
		attempts = len(ps) - 2
	}

	results := make([]attempt, attempts)
	out := make(chan int, attempts)
	for k := 0; k < attempts; k++ {
		go s.chanSolve(k, ps, results, out)
	}
	for k := 0; k < attempts; k++ {
		<-out
	}

	for k := range results {
		if results[k].err == nil && hitsAll(results[k].r, ps) {
			return results[k].r, nil
		}
	}

	for k := range results {
		if results[k].err != nil {
			return nil, fmt.Errorf("triple %d: %w", k, results[k].err)
		}
	}
	return nil, ErrNoHit
}

func (s *Solver) chanSolve(
	k int, ps []geom.Particle, results []attempt, out chan<- int,
) {
	r, err := s.SolveTriple(&ps[k], &ps[k+1], &ps[k+2])
	results[k] = attempt{r, err}
	out <- k
}

func hitsAll(r *Rock, ps []geom.Particle) bool { return FirstMiss(r, ps) < 0 }

// FirstMiss returns the index of the first hailstone in ps which the rounded
// rock does not Hit, or -1 if it hits all of them.
func FirstMiss(r *Rock, ps []geom.Particle) int {
	for i := range ps {
		if _, ok := Hits(r, &ps[i]); !ok {
			return i
		}
	}
	return -1
}
