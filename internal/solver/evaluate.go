package solver

import (
	"fmt"

	"routeopt/internal/model"
)

// Evaluate simulates a node sequence chronologically against its time
// windows. The sequence must open with the depot. Pure: inputs are never
// mutated, so identical calls yield identical timings and totals.
//
// Arrival before a window start waits until the window opens; arrival
// after the window end records the overshoot as violation but the late
// arrival stands. Distance and travel time accumulate for every edge;
// service time and violation accumulate for customer stops only.
func Evaluate(seq []int, o *Oracle, tt *Timetable) (model.Evaluation, error) {
	var ev model.Evaluation
	if len(seq) == 0 {
		return ev, fmt.Errorf("evaluate: empty sequence")
	}
	if seq[0] != model.DepotID {
		return ev, fmt.Errorf("evaluate: sequence must open at depot %d, got %d", model.DepotID, seq[0])
	}

	depot, err := tt.at(seq[0])
	if err != nil {
		return ev, err
	}

	ev.Sequence = append([]int(nil), seq...)
	ev.Stops = make([]model.Stop, 0, len(seq))

	departure := depot.start + depot.service
	ev.Stops = append(ev.Stops, model.Stop{
		NodeID:         seq[0],
		Arrival:        depot.start,
		ArrivalClock:   model.FormatClock(depot.start),
		Departure:      departure,
		DepartureClock: model.FormatClock(departure),
	})

	prev := seq[0]
	for _, id := range seq[1:] {
		d, err := o.Distance(prev, id)
		if err != nil {
			return model.Evaluation{}, err
		}
		travel, err := o.TravelTime(prev, id)
		if err != nil {
			return model.Evaluation{}, err
		}
		w, err := tt.at(id)
		if err != nil {
			return model.Evaluation{}, err
		}

		ev.TotalDistance += d
		ev.TotalTravelTime += travel

		raw := departure + travel
		arrival := raw
		wait := 0.0
		if raw < w.start {
			wait = w.start - raw
			arrival = w.start
		}
		violation := 0.0
		if arrival > w.end {
			violation = arrival - w.end
		}
		departure = arrival + w.service

		if id != model.DepotID {
			ev.TotalServiceTime += w.service
			ev.TotalTWViolation += violation
		}

		ev.Stops = append(ev.Stops, model.Stop{
			NodeID:         id,
			Arrival:        arrival,
			ArrivalClock:   model.FormatClock(arrival),
			Departure:      departure,
			DepartureClock: model.FormatClock(departure),
			Wait:           wait,
			Violation:      violation,
		})
		prev = id
	}

	ev.TotalTimeComponent = ev.TotalTravelTime + ev.TotalServiceTime
	ev.Objective = ev.TotalDistance + ev.TotalTravelTime + ev.TotalServiceTime + ev.TotalTWViolation
	return ev, nil
}
