package solver

import (
	"math/rand"

	"routeopt/internal/model"
)

// MaxRounds caps the descent when improving moves keep arriving.
const MaxRounds = 100

// move is a pair of sequence positions interpreted by its neighborhood's
// applier.
type move struct {
	i, j int
}

// neighborhood couples a candidate-move generator with its applier. The
// engine scans neighborhoods in slice order and moves in generation order.
type neighborhood struct {
	name     string
	generate func(n int) []move
	apply    func(seq []int, m move) []int
}

// two-opt and swap enumerate the same interior pairs; only the applier
// differs. relocate has its own generator with an index shift on apply.
func neighborhoods() []neighborhood {
	return []neighborhood{
		{name: "two_opt", generate: interiorPairs, apply: applyTwoOpt},
		{name: "swap", generate: interiorPairs, apply: applySwap},
		{name: "relocate", generate: relocateMoves, apply: applyRelocate},
	}
}

// NeighborhoodNames lists the fixed visitation order for run parameters.
func NeighborhoodNames() []string {
	hoods := neighborhoods()
	names := make([]string, len(hoods))
	for i, nb := range hoods {
		names[i] = nb.name
	}
	return names
}

// interiorPairs enumerates i<j strictly between the depot entries of a
// sequence of length n.
func interiorPairs(n int) []move {
	var moves []move
	for i := 1; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			moves = append(moves, move{i, j})
		}
	}
	return moves
}

// relocateMoves enumerates source i and target j, skipping the two
// placements that reproduce the input sequence.
func relocateMoves(n int) []move {
	var moves []move
	for i := 1; i < n-1; i++ {
		for j := 1; j < n; j++ {
			if j == i || j == i+1 {
				continue
			}
			moves = append(moves, move{i, j})
		}
	}
	return moves
}

func applyTwoOpt(seq []int, m move) []int {
	out := append([]int(nil), seq...)
	for a, b := m.i, m.j; a < b; a, b = a+1, b-1 {
		out[a], out[b] = out[b], out[a]
	}
	return out
}

func applySwap(seq []int, m move) []int {
	out := append([]int(nil), seq...)
	out[m.i], out[m.j] = out[m.j], out[m.i]
	return out
}

// applyRelocate removes the node at i and reinserts it at j. Removal
// shifts later positions left, so a target past the source lands at j-1.
func applyRelocate(seq []int, m move) []int {
	out := append([]int(nil), seq...)
	node := out[m.i]
	out = append(out[:m.i], out[m.i+1:]...)
	j := m.j
	if j > m.i {
		j--
	}
	out = append(out[:j], append([]int{node}, out[j:]...)...)
	return out
}

// Improve runs variable neighborhood descent over the route's interior.
// Acceptance is first-improvement on total distance alone; an accepted
// move restarts the round from two-opt. A round with no accepted move is a
// local optimum and ends the search; maxRounds bounds it regardless.
//
// rng is threaded through for future randomized visitation orders; the
// current descent is deterministic and does not consult it.
func Improve(route model.Route, o *Oracle, tt *Timetable, rng *rand.Rand, maxRounds int) (model.Route, error) {
	_ = rng
	if maxRounds <= 0 {
		maxRounds = MaxRounds
	}

	best := append([]int(nil), route.Sequence...)
	ev, err := Evaluate(best, o, tt)
	if err != nil {
		return model.Route{}, err
	}
	bestDist := ev.TotalDistance

	hoods := neighborhoods()
	for round := 0; round < maxRounds; round++ {
		accepted := false
	scan:
		for _, nb := range hoods {
			for _, m := range nb.generate(len(best)) {
				cand := nb.apply(best, m)
				cev, err := Evaluate(cand, o, tt)
				if err != nil {
					return model.Route{}, err
				}
				if cev.TotalDistance < bestDist {
					best = cand
					bestDist = cev.TotalDistance
					accepted = true
					break scan
				}
			}
		}
		if !accepted {
			break
		}
	}

	final, err := Evaluate(best, o, tt)
	if err != nil {
		return model.Route{}, err
	}
	return model.Route{
		ClusterID:   route.ClusterID,
		VehicleType: route.VehicleType,
		Evaluation:  final,
	}, nil
}
