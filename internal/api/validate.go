package api

import (
	"fmt"

	"routeopt/internal/model"
)

func validateSolveRequest(req *model.SolveRequest) error {
	if req.Instance.Depot.ID != model.DepotID {
		return fmt.Errorf("depot id must be %d", model.DepotID)
	}
	if len(req.Instance.Customers) == 0 {
		return fmt.Errorf("at least one customer is required")
	}
	if len(req.Instance.Fleet) == 0 {
		return fmt.Errorf("at least one fleet type is required")
	}
	seen := map[int]struct{}{model.DepotID: {}}
	for _, c := range req.Instance.Customers {
		if c.ID == model.DepotID {
			return fmt.Errorf("customer id %d collides with the depot", c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate customer id %d", c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.Demand < 0 {
			return fmt.Errorf("customer %d: demand must be >= 0", c.ID)
		}
		if c.ServiceTime < 0 {
			return fmt.Errorf("customer %d: serviceTime must be >= 0", c.ID)
		}
	}
	fleetIDs := map[string]struct{}{}
	for _, f := range req.Instance.Fleet {
		if f.ID == "" {
			return fmt.Errorf("fleet type id must not be empty")
		}
		if _, dup := fleetIDs[f.ID]; dup {
			return fmt.Errorf("duplicate fleet type id %q", f.ID)
		}
		fleetIDs[f.ID] = struct{}{}
		if f.Capacity <= 0 {
			return fmt.Errorf("fleet type %q: capacity must be > 0", f.ID)
		}
		if f.Units < 0 {
			return fmt.Errorf("fleet type %q: units must be >= 0", f.ID)
		}
	}
	if req.MaxRounds < 0 {
		return fmt.Errorf("maxRounds must be >= 0")
	}
	if req.Speed < 0 {
		return fmt.Errorf("speed must be >= 0")
	}
	if req.Distances != nil {
		n := len(req.Distances.Nodes)
		if len(req.Distances.DistanceMatrix) != n || len(req.Distances.TravelTimeMatrix) != n {
			return fmt.Errorf("distance and travel time matrices must be %dx%d", n, n)
		}
	}
	return nil
}
