package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeopt/internal/model"
)

func TestConstructRouteNearestFirst(t *testing.T) {
	inst := testInstance(
		[]model.Node{
			customer(1, 10, 0, 1, wideWindow, 0),
			customer(2, 2, 0, 1, wideWindow, 0),
			customer(3, 5, 0, 1, wideWindow, 0),
		},
		nil,
	)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	cl := model.Cluster{ClusterID: 1, VehicleType: "van", CustomerIDs: []int{1, 2, 3}}
	route, err := ConstructRoute(cl, o, tt)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 3, 1, 0}, route.Sequence)
	assert.Equal(t, 1, route.ClusterID)
	assert.Equal(t, "van", route.VehicleType)
	// walks out the line and back: 10 out, 10 home
	assert.InDelta(t, 20.0, route.TotalDistance, 1e-9)
	assert.Len(t, route.Stops, 5)
}

func TestConstructRouteTieBreaksOnLowerID(t *testing.T) {
	// Both customers are distance 10 from the depot.
	inst := testInstance(
		[]model.Node{
			customer(2, 0, 10, 1, wideWindow, 0),
			customer(1, 10, 0, 1, wideWindow, 0),
		},
		nil,
	)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	cl := model.Cluster{ClusterID: 1, CustomerIDs: []int{2, 1}}
	route, err := ConstructRoute(cl, o, tt)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 0}, route.Sequence)
}

func TestConstructRouteSharesEvaluationPath(t *testing.T) {
	inst := testInstance(
		[]model.Node{
			customer(1, 10, 0, 5, model.TimeWindow{Start: "08:00", End: "09:00"}, 10),
			customer(2, 0, 10, 5, model.TimeWindow{Start: "08:00", End: "09:00"}, 10),
		},
		nil,
	)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	cl := model.Cluster{ClusterID: 1, CustomerIDs: []int{1, 2}}
	route, err := ConstructRoute(cl, o, tt)
	require.NoError(t, err)

	ev, err := Evaluate(route.Sequence, o, tt)
	require.NoError(t, err)
	assert.Equal(t, ev, route.Evaluation)
}

func TestConstructRouteUnknownMember(t *testing.T) {
	inst := testInstance([]model.Node{customer(1, 1, 0, 1, wideWindow, 0)}, nil)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	cl := model.Cluster{ClusterID: 1, CustomerIDs: []int{1, 77}}
	_, err = ConstructRoute(cl, o, tt)
	assert.ErrorIs(t, err, ErrDataInconsistency)
}
