package model

// DepotID is the reserved node id for the single depot. Every route
// sequence begins and ends with it.
const DepotID = 0

// TimeWindow bounds service at a node; "HH:MM" clock strings on the wire.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Node is a depot or customer location. The depot carries demand 0 and the
// global operating window; customers carry their own windows and demand.
type Node struct {
	ID          int        `json:"id"`
	Name        string     `json:"name,omitempty"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Demand      float64    `json:"demand,omitempty"`
	TimeWindow  TimeWindow `json:"time_window"`
	ServiceTime float64    `json:"service_time,omitempty"`
}

// FleetType describes one vehicle class available at the depot.
type FleetType struct {
	ID       string  `json:"id"`
	Capacity float64 `json:"capacity"`
	Units    int     `json:"units"`
}

// Instance is a full problem instance: one depot, its customers and fleet.
type Instance struct {
	Depot     Node        `json:"depot"`
	Customers []Node      `json:"customers"`
	Fleet     []FleetType `json:"fleet"`
}

// DistanceData carries precomputed matrices. Nodes defines the matrix
// index order; matrices are addressed through that order, never by raw id.
type DistanceData struct {
	Nodes            []Node      `json:"nodes"`
	DistanceMatrix   [][]float64 `json:"distance_matrix"`
	TravelTimeMatrix [][]float64 `json:"travel_time_matrix"`
}

// Cluster is one sweep cluster: customers in sweep order plus the vehicle
// type chosen for them. Immutable once built.
type Cluster struct {
	ClusterID   int     `json:"cluster_id"`
	VehicleType string  `json:"vehicle_type"`
	CustomerIDs []int   `json:"customer_ids"`
	TotalDemand float64 `json:"total_demand"`
}

// ClusterReport is the clustering output consumed by downstream stages.
type ClusterReport struct {
	TotalClusters int            `json:"total_clusters"`
	Clusters      []Cluster      `json:"clusters"`
	FleetUsage    map[string]int `json:"fleet_usage"`
}

// Stop is one simulated visit. All times are minutes since midnight.
type Stop struct {
	NodeID         int     `json:"node_id"`
	Arrival        float64 `json:"arrival"`
	ArrivalClock   string  `json:"arrival_str"`
	Departure      float64 `json:"departure"`
	DepartureClock string  `json:"departure_str"`
	Wait           float64 `json:"wait"`
	Violation      float64 `json:"violation"`
}

// RouteMetrics aggregates a simulated route. Service time and violation
// cover customer stops only; distance and travel time cover every edge.
type RouteMetrics struct {
	TotalDistance      float64 `json:"total_distance"`
	TotalTravelTime    float64 `json:"total_travel_time"`
	TotalServiceTime   float64 `json:"total_service_time"`
	TotalTimeComponent float64 `json:"total_time_component"`
	TotalTWViolation   float64 `json:"total_tw_violation"`
	Objective          float64 `json:"objective"`
}

// Evaluation is the full result of simulating one sequence.
type Evaluation struct {
	Sequence []int  `json:"sequence"`
	Stops    []Stop `json:"stops"`
	RouteMetrics
}

// Route ties an evaluation to its cluster and vehicle type.
type Route struct {
	ClusterID   int    `json:"cluster_id"`
	VehicleType string `json:"vehicle_type"`
	Evaluation
}

// RouteResult pairs the nearest-neighbor baseline with the RVND-improved
// evaluation for one cluster.
type RouteResult struct {
	ClusterID   int        `json:"cluster_id"`
	VehicleType string     `json:"vehicle_type"`
	Baseline    Evaluation `json:"baseline"`
	Improved    Evaluation `json:"improved"`
}

// Summary sums distance, objective and time-window violation across all
// routes, before and after local search.
type Summary struct {
	DistanceBefore  float64 `json:"distance_before"`
	DistanceAfter   float64 `json:"distance_after"`
	ObjectiveBefore float64 `json:"objective_before"`
	ObjectiveAfter  float64 `json:"objective_after"`
	TWBefore        float64 `json:"tw_before"`
	TWAfter         float64 `json:"tw_after"`
}

// Parameters records how a solve was run.
type Parameters struct {
	Neighborhoods []string `json:"neighborhoods"`
	Seed          int64    `json:"seed"`
}

// SolveResult is the final pipeline output. The plotting view reads
// sequences plus node coordinates; the summary view reads per-route
// total_distance and the cluster assignment. Both shapes are stable.
type SolveResult struct {
	Clustering    ClusterReport `json:"clustering"`
	InitialRoutes []Route       `json:"initial_routes"`
	Routes        []RouteResult `json:"routes"`
	Summary       Summary       `json:"summary"`
	Parameters    Parameters    `json:"parameters"`
}

// SolveRequest is the API input: an instance, optional precomputed
// matrices, and solver knobs.
type SolveRequest struct {
	Instance  Instance      `json:"instance"`
	Distances *DistanceData `json:"distances,omitempty"`
	Seed      int64         `json:"seed,omitempty"`
	MaxRounds int           `json:"maxRounds,omitempty"`
	Speed     float64       `json:"speed,omitempty"`
}

// SubscriptionRequest registers a webhook endpoint for solve events.
type SubscriptionRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
}

// Subscription is a stored webhook registration.
type Subscription struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret,omitempty"`
}
