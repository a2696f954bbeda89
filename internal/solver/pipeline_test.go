package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeopt/internal/model"
)

// The two-customer reference instance: both customers sit 10 from the
// depot with equal windows and demands, so construction is decided by the
// id tie-break and no interior move can shorten the loop.
func referenceInstance() model.Instance {
	return model.Instance{
		Depot: model.Node{ID: 0, TimeWindow: model.TimeWindow{Start: "08:00", End: "18:00"}},
		Customers: []model.Node{
			customer(1, 10, 0, 5, model.TimeWindow{Start: "08:00", End: "09:00"}, 10),
			customer(2, 0, 10, 5, model.TimeWindow{Start: "08:00", End: "09:00"}, 10),
		},
		Fleet: []model.FleetType{{ID: "van", Capacity: 10, Units: 1}},
	}
}

func TestSolveReferenceInstance(t *testing.T) {
	res, err := Solve(referenceInstance(), nil, Options{Speed: 1})
	require.NoError(t, err)

	// one cluster holding both customers, demand 10 <= capacity 10
	require.Len(t, res.Clustering.Clusters, 1)
	cl := res.Clustering.Clusters[0]
	assert.Equal(t, []int{1, 2}, cl.CustomerIDs)
	assert.Equal(t, 10.0, cl.TotalDemand)
	assert.Equal(t, map[string]int{"van": 1}, res.Clustering.FleetUsage)

	// nearest-neighbor takes customer 1 on the distance tie
	require.Len(t, res.InitialRoutes, 1)
	assert.Equal(t, []int{0, 1, 2, 0}, res.InitialRoutes[0].Sequence)

	// reversing the interior yields the identical distance, so no move is
	// accepted and the improved route keeps the constructed order
	require.Len(t, res.Routes, 1)
	rr := res.Routes[0]
	assert.Equal(t, []int{0, 1, 2, 0}, rr.Improved.Sequence)
	wantDist := 10 + math.Sqrt(200) + 10
	assert.InDelta(t, wantDist, rr.Baseline.TotalDistance, 1e-9)
	assert.InDelta(t, wantDist, rr.Improved.TotalDistance, 1e-9)

	assert.InDelta(t, res.Summary.DistanceBefore, res.Summary.DistanceAfter, 1e-9)
	assert.Equal(t, []string{"two_opt", "swap", "relocate"}, res.Parameters.Neighborhoods)
	assert.Equal(t, int64(DefaultSeed), res.Parameters.Seed)
}

func TestSolveImprovesAcrossClusters(t *testing.T) {
	// Two clusters of three customers each; the scrambled geometry leaves
	// nearest-neighbor room to improve in at least the summary totals.
	inst := model.Instance{
		Depot: model.Node{ID: 0, TimeWindow: model.TimeWindow{Start: "06:00", End: "22:00"}},
		Customers: []model.Node{
			customer(1, 10, 1, 2, wideWindow, 5),
			customer(2, 12, -1, 2, wideWindow, 5),
			customer(3, 14, 2, 2, wideWindow, 5),
			customer(4, -10, 1, 2, wideWindow, 5),
			customer(5, -12, -2, 2, wideWindow, 5),
			customer(6, -14, 1, 2, wideWindow, 5),
		},
		Fleet: []model.FleetType{{ID: "van", Capacity: 6, Units: 2}},
	}
	res, err := Solve(inst, nil, Options{Speed: 1, Seed: 7})
	require.NoError(t, err)

	require.Len(t, res.Routes, 2)
	for i, rr := range res.Routes {
		assert.Equal(t, i+1, rr.ClusterID)
		assert.LessOrEqual(t, rr.Improved.TotalDistance, rr.Baseline.TotalDistance)
	}
	assert.LessOrEqual(t, res.Summary.DistanceAfter, res.Summary.DistanceBefore)
	assert.Equal(t, int64(7), res.Parameters.Seed)

	// clustering conservation across the whole result
	seen := map[int]bool{}
	for _, cl := range res.Clustering.Clusters {
		for _, id := range cl.CustomerIDs {
			assert.False(t, seen[id], "customer %d assigned twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, len(inst.Customers))
}

func TestSolveWithPrecomputedMatrices(t *testing.T) {
	inst := referenceInstance()
	data := model.DistanceData{
		Nodes: []model.Node{{ID: 0}, {ID: 1}, {ID: 2}},
		DistanceMatrix: [][]float64{
			{0, 10, 10},
			{10, 0, 14.142135623730951},
			{10, 14.142135623730951, 0},
		},
		TravelTimeMatrix: [][]float64{
			{0, 10, 10},
			{10, 0, 14.142135623730951},
			{10, 14.142135623730951, 0},
		},
	}
	res, err := Solve(inst, &data, Options{})
	require.NoError(t, err)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, []int{0, 1, 2, 0}, res.Routes[0].Improved.Sequence)
}

func TestSolveDeterministic(t *testing.T) {
	inst := referenceInstance()
	a, err := Solve(inst, nil, Options{Speed: 1})
	require.NoError(t, err)
	b, err := Solve(inst, nil, Options{Speed: 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSolveCapacityInfeasible(t *testing.T) {
	inst := referenceInstance()
	inst.Customers[0].Demand = 99
	_, err := Solve(inst, nil, Options{Speed: 1})
	assert.ErrorIs(t, err, ErrCapacityInfeasible)
}

func TestSolveMalformedWindow(t *testing.T) {
	inst := referenceInstance()
	inst.Customers[1].TimeWindow.Start = "9am"
	_, err := Solve(inst, nil, Options{Speed: 1})
	assert.ErrorIs(t, err, model.ErrMalformedTime)
}
