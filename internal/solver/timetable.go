package solver

import (
	"fmt"

	"routeopt/internal/model"
)

type window struct {
	start, end, service float64
}

// Timetable resolves each node id to its time window and service time,
// both in minutes. Built once per instance and read-only afterwards.
type Timetable struct {
	windows map[int]window
}

// NewTimetable parses the depot and customer windows. A clock string not
// in "HH:MM" form fails here, before any simulation starts.
func NewTimetable(inst model.Instance) (*Timetable, error) {
	tt := &Timetable{windows: make(map[int]window, len(inst.Customers)+1)}
	if err := tt.add(inst.Depot); err != nil {
		return nil, err
	}
	for _, c := range inst.Customers {
		if err := tt.add(c); err != nil {
			return nil, err
		}
	}
	return tt, nil
}

func (t *Timetable) add(n model.Node) error {
	start, err := model.ParseClock(n.TimeWindow.Start)
	if err != nil {
		return fmt.Errorf("node %d window start: %w", n.ID, err)
	}
	end, err := model.ParseClock(n.TimeWindow.End)
	if err != nil {
		return fmt.Errorf("node %d window end: %w", n.ID, err)
	}
	t.windows[n.ID] = window{start: start, end: end, service: n.ServiceTime}
	return nil
}

func (t *Timetable) at(id int) (window, error) {
	w, ok := t.windows[id]
	if !ok {
		return window{}, fmt.Errorf("%w: id %d not in time-window table", ErrDataInconsistency, id)
	}
	return w, nil
}
