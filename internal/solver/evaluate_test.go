package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeopt/internal/model"
)

func TestEvaluateDepotOnly(t *testing.T) {
	inst := testInstance(nil, nil)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	ev, err := Evaluate([]int{model.DepotID}, o, tt)
	require.NoError(t, err)

	assert.Equal(t, 0.0, ev.TotalDistance)
	assert.Equal(t, 0.0, ev.TotalTravelTime)
	assert.Equal(t, 0.0, ev.Objective)
	require.Len(t, ev.Stops, 1)
	assert.Equal(t, 480.0, ev.Stops[0].Arrival) // depot window start 08:00
	assert.Equal(t, "08:00", ev.Stops[0].ArrivalClock)
}

func TestEvaluateWaitsForWindowStart(t *testing.T) {
	// Customer 10 away; depot opens 08:00, customer opens 09:00.
	inst := testInstance(
		[]model.Node{customer(1, 10, 0, 1, model.TimeWindow{Start: "09:00", End: "10:00"}, 5)},
		nil,
	)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	ev, err := Evaluate([]int{0, 1, 0}, o, tt)
	require.NoError(t, err)

	s := ev.Stops[1]
	assert.Equal(t, 540.0, s.Arrival) // clamped up to 09:00
	assert.Equal(t, 50.0, s.Wait)     // raw arrival was 08:10
	assert.Equal(t, 0.0, s.Violation)
	assert.Equal(t, 545.0, s.Departure) // arrival + service
}

func TestEvaluateLateArrivalNotClamped(t *testing.T) {
	inst := testInstance(
		[]model.Node{customer(1, 100, 0, 1, model.TimeWindow{Start: "08:00", End: "09:00"}, 0)},
		nil,
	)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	ev, err := Evaluate([]int{0, 1, 0}, o, tt)
	require.NoError(t, err)

	s := ev.Stops[1]
	// raw arrival 480+100 = 580, window ends 540: 40 late, arrival stands.
	assert.Equal(t, 580.0, s.Arrival)
	assert.Equal(t, 40.0, s.Violation)
	assert.Equal(t, 40.0, ev.TotalTWViolation)
}

func TestEvaluateDepotExcludedFromServiceAndViolation(t *testing.T) {
	// Depot service time 3; the return leg arrives after the depot window
	// closes, which must not count toward the violation total.
	inst := model.Instance{
		Depot: model.Node{ID: 0, TimeWindow: model.TimeWindow{Start: "08:00", End: "08:30"}, ServiceTime: 3},
		Customers: []model.Node{
			customer(1, 30, 0, 1, model.TimeWindow{Start: "08:00", End: "12:00"}, 7),
		},
	}
	o, tt, err := tables(inst)
	require.NoError(t, err)

	ev, err := Evaluate([]int{0, 1, 0}, o, tt)
	require.NoError(t, err)

	assert.Equal(t, 7.0, ev.TotalServiceTime) // customer only, depot's 3 excluded
	closing := ev.Stops[2]
	assert.Greater(t, closing.Violation, 0.0) // recorded on the stop
	assert.Equal(t, 0.0, ev.TotalTWViolation) // but not summed
	assert.Equal(t, 60.0, ev.TotalDistance)
	assert.Equal(t, 60.0, ev.TotalTravelTime)
	assert.Equal(t, ev.TotalDistance+ev.TotalTravelTime+ev.TotalServiceTime+ev.TotalTWViolation, ev.Objective)
}

func TestEvaluateDeterministic(t *testing.T) {
	inst := testInstance(
		[]model.Node{
			customer(1, 10, 0, 1, model.TimeWindow{Start: "08:00", End: "09:00"}, 10),
			customer(2, 0, 10, 1, model.TimeWindow{Start: "08:00", End: "09:00"}, 10),
		},
		nil,
	)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	seq := []int{0, 1, 2, 0}
	first, err := Evaluate(seq, o, tt)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Evaluate(seq, o, tt)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	// the caller's sequence is untouched
	assert.Equal(t, []int{0, 1, 2, 0}, seq)
}

func TestEvaluateUnknownNode(t *testing.T) {
	inst := testInstance(
		[]model.Node{customer(1, 1, 0, 1, wideWindow, 0)},
		nil,
	)
	o, tt, err := tables(inst)
	require.NoError(t, err)

	_, err = Evaluate([]int{0, 42, 0}, o, tt)
	assert.ErrorIs(t, err, ErrDataInconsistency)
}
