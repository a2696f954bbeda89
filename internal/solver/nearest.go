package solver

import (
	"routeopt/internal/model"
)

// ConstructRoute sequences one cluster by repeated nearest-neighbor hops
// from the depot, ties broken by lower node id, then evaluates the closed
// loop through the shared simulation path.
func ConstructRoute(cluster model.Cluster, o *Oracle, tt *Timetable) (model.Route, error) {
	seq := make([]int, 0, len(cluster.CustomerIDs)+2)
	seq = append(seq, model.DepotID)
	current := model.DepotID

	remaining := append([]int(nil), cluster.CustomerIDs...)
	for len(remaining) > 0 {
		bestAt := -1
		var bestID int
		var bestDist float64
		for k, id := range remaining {
			d, err := o.Distance(current, id)
			if err != nil {
				return model.Route{}, err
			}
			if bestAt < 0 || d < bestDist || (d == bestDist && id < bestID) {
				bestAt, bestID, bestDist = k, id, d
			}
		}
		seq = append(seq, bestID)
		remaining = append(remaining[:bestAt], remaining[bestAt+1:]...)
		current = bestID
	}
	seq = append(seq, model.DepotID)

	ev, err := Evaluate(seq, o, tt)
	if err != nil {
		return model.Route{}, err
	}
	return model.Route{
		ClusterID:   cluster.ClusterID,
		VehicleType: cluster.VehicleType,
		Evaluation:  ev,
	}, nil
}
