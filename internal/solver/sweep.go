package solver

import (
	"fmt"
	"math"
	"sort"

	"routeopt/internal/model"
)

// polarAngle is the customer's angle around the depot, normalized to
// [0, 2π) so the sweep wraps cleanly at the positive x-axis.
func polarAngle(c, depot model.Node) float64 {
	a := math.Atan2(c.Y-depot.Y, c.X-depot.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// sweepState is the open-cluster accumulator folded over the angle-sorted
// customers. It is emitted and reset whenever the next customer cannot fit
// any remaining vehicle.
type sweepState struct {
	ids     []int
	demand  float64
	vehicle model.FleetType
}

// BuildClusters sweeps customers by polar angle around the depot and packs
// them into capacity-feasible clusters. On every addition the cluster's
// vehicle type is re-chosen as the tightest currently-feasible fit among
// fleet types with units remaining. Closing a cluster consumes one unit of
// its vehicle type. Returns the ordered clusters and per-type units used.
func BuildClusters(inst model.Instance) ([]model.Cluster, map[string]int, error) {
	type swept struct {
		node  model.Node
		angle float64
	}
	order := make([]swept, len(inst.Customers))
	for i, c := range inst.Customers {
		order[i] = swept{node: c, angle: polarAngle(c, inst.Depot)}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].angle < order[j].angle })

	available := make(map[string]int, len(inst.Fleet))
	for _, f := range inst.Fleet {
		available[f.ID] = f.Units
	}

	var clusters []model.Cluster
	var cur sweepState
	emit := func() {
		clusters = append(clusters, model.Cluster{
			ClusterID:   len(clusters) + 1,
			VehicleType: cur.vehicle.ID,
			CustomerIDs: cur.ids,
			TotalDemand: cur.demand,
		})
		available[cur.vehicle.ID]--
		cur = sweepState{}
	}

	for _, s := range order {
		for placed := false; !placed; {
			proposed := cur.demand + s.node.Demand
			if best, ok := tightestFit(inst.Fleet, available, proposed); ok {
				cur.ids = append(cur.ids, s.node.ID)
				cur.demand = proposed
				cur.vehicle = best
				placed = true
				continue
			}
			if len(cur.ids) == 0 {
				return nil, nil, fmt.Errorf("%w: customer %d demand %g", ErrCapacityInfeasible, s.node.ID, s.node.Demand)
			}
			emit()
		}
	}
	if len(cur.ids) > 0 {
		emit()
	}

	used := make(map[string]int, len(inst.Fleet))
	for _, f := range inst.Fleet {
		used[f.ID] = f.Units - available[f.ID]
	}
	return clusters, used, nil
}

// tightestFit picks the smallest-capacity fleet type that still has units
// and can hold the proposed demand.
func tightestFit(fleet []model.FleetType, available map[string]int, demand float64) (model.FleetType, bool) {
	var best model.FleetType
	found := false
	for _, f := range fleet {
		if available[f.ID] <= 0 || f.Capacity < demand {
			continue
		}
		if !found || f.Capacity < best.Capacity {
			best = f
			found = true
		}
	}
	return best, found
}
