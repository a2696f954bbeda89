package solver

import (
	"math/rand"
	"sync"

	log "github.com/sirupsen/logrus"

	"routeopt/internal/model"
)

// DefaultSeed matches the reference runs of the pipeline.
const DefaultSeed = 84

// Options configures one pipeline run. An explicit value is passed in;
// the core reads no globals and touches no files.
type Options struct {
	Seed      int64
	MaxRounds int
	// Speed applies only when matrices are synthesized from coordinates.
	Speed float64
}

// Solve drives the full pipeline: sweep clustering, nearest-neighbor
// construction, baseline evaluation and RVND improvement per cluster, then
// the aggregate summary. Clusters share no mutable state, so they run as
// parallel goroutines each owning one result slot; slot order is cluster
// order, which keeps the output sorted by cluster id.
func Solve(inst model.Instance, data *model.DistanceData, opts Options) (*model.SolveResult, error) {
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = MaxRounds
	}

	var (
		o   *Oracle
		err error
	)
	if data != nil {
		o, err = NewOracle(*data)
	} else {
		o, err = NewEuclideanOracle(inst, opts.Speed)
	}
	if err != nil {
		return nil, err
	}
	tt, err := NewTimetable(inst)
	if err != nil {
		return nil, err
	}

	clusters, usage, err := BuildClusters(inst)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"clusters":  len(clusters),
		"customers": len(inst.Customers),
	}).Debug("sweep clustering complete")

	initial := make([]model.Route, len(clusters))
	results := make([]model.RouteResult, len(clusters))
	errs := make([]error, len(clusters))

	var wg sync.WaitGroup
	for i, cl := range clusters {
		wg.Add(1)
		go func(i int, cl model.Cluster) {
			defer wg.Done()
			route, err := ConstructRoute(cl, o, tt)
			if err != nil {
				errs[i] = err
				return
			}
			initial[i] = route

			baseline, err := Evaluate(route.Sequence, o, tt)
			if err != nil {
				errs[i] = err
				return
			}

			rng := rand.New(rand.NewSource(opts.Seed + int64(cl.ClusterID)))
			improved, err := Improve(route, o, tt, rng, opts.MaxRounds)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = model.RouteResult{
				ClusterID:   cl.ClusterID,
				VehicleType: cl.VehicleType,
				Baseline:    baseline,
				Improved:    improved.Evaluation,
			}
		}(i, cl)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var sum model.Summary
	for _, r := range results {
		sum.DistanceBefore += r.Baseline.TotalDistance
		sum.DistanceAfter += r.Improved.TotalDistance
		sum.ObjectiveBefore += r.Baseline.Objective
		sum.ObjectiveAfter += r.Improved.Objective
		sum.TWBefore += r.Baseline.TotalTWViolation
		sum.TWAfter += r.Improved.TotalTWViolation
	}
	log.WithFields(log.Fields{
		"distance_before": sum.DistanceBefore,
		"distance_after":  sum.DistanceAfter,
	}).Debug("local search complete")

	return &model.SolveResult{
		Clustering: model.ClusterReport{
			TotalClusters: len(clusters),
			Clusters:      clusters,
			FleetUsage:    usage,
		},
		InitialRoutes: initial,
		Routes:        results,
		Summary:       sum,
		Parameters: model.Parameters{
			Neighborhoods: NeighborhoodNames(),
			Seed:          opts.Seed,
		},
	}, nil
}
