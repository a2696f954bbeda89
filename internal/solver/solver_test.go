package solver

import (
	"routeopt/internal/model"
)

// wideWindow keeps time windows out of the way in geometry-only tests.
var wideWindow = model.TimeWindow{Start: "00:00", End: "23:59"}

func customer(id int, x, y, demand float64, tw model.TimeWindow, service float64) model.Node {
	return model.Node{ID: id, X: x, Y: y, Demand: demand, TimeWindow: tw, ServiceTime: service}
}

func testInstance(customers []model.Node, fleet []model.FleetType) model.Instance {
	return model.Instance{
		Depot:     model.Node{ID: model.DepotID, TimeWindow: model.TimeWindow{Start: "08:00", End: "18:00"}},
		Customers: customers,
		Fleet:     fleet,
	}
}

// tables builds the Euclidean oracle (speed 1) and timetable for an instance.
func tables(inst model.Instance) (*Oracle, *Timetable, error) {
	o, err := NewEuclideanOracle(inst, 1)
	if err != nil {
		return nil, nil, err
	}
	tt, err := NewTimetable(inst)
	if err != nil {
		return nil, nil, err
	}
	return o, tt, nil
}
