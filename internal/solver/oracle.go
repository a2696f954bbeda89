package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"routeopt/internal/model"
)

// Oracle answers distance and travel-time lookups between node ids.
// Node ids are not guaranteed contiguous, so every lookup resolves through
// the id→row map; matrices are never indexed by raw id.
type Oracle struct {
	index  map[int]int
	dist   *mat.Dense
	travel *mat.Dense
}

// NewOracle builds an Oracle from a distance record. The record's node
// list defines matrix row order; both matrices must be square over it.
func NewOracle(data model.DistanceData) (*Oracle, error) {
	n := len(data.Nodes)
	if n == 0 {
		return nil, fmt.Errorf("distance data: empty node list")
	}
	if len(data.DistanceMatrix) != n || len(data.TravelTimeMatrix) != n {
		return nil, fmt.Errorf("distance data: matrices must have %d rows", n)
	}
	o := &Oracle{
		index:  make(map[int]int, n),
		dist:   mat.NewDense(n, n, nil),
		travel: mat.NewDense(n, n, nil),
	}
	for i, node := range data.Nodes {
		if len(data.DistanceMatrix[i]) != n || len(data.TravelTimeMatrix[i]) != n {
			return nil, fmt.Errorf("distance data: row %d must have %d columns", i, n)
		}
		o.index[node.ID] = i
		o.dist.SetRow(i, data.DistanceMatrix[i])
		o.travel.SetRow(i, data.TravelTimeMatrix[i])
	}
	return o, nil
}

// NewEuclideanOracle synthesizes matrices straight from instance
// coordinates: straight-line distance, travel time = distance / speed.
func NewEuclideanOracle(inst model.Instance, speed float64) (*Oracle, error) {
	if speed <= 0 {
		speed = 1
	}
	nodes := make([]model.Node, 0, len(inst.Customers)+1)
	nodes = append(nodes, inst.Depot)
	nodes = append(nodes, inst.Customers...)

	n := len(nodes)
	data := model.DistanceData{
		Nodes:            nodes,
		DistanceMatrix:   make([][]float64, n),
		TravelTimeMatrix: make([][]float64, n),
	}
	for i := range nodes {
		data.DistanceMatrix[i] = make([]float64, n)
		data.TravelTimeMatrix[i] = make([]float64, n)
		for j := range nodes {
			d := math.Hypot(nodes[j].X-nodes[i].X, nodes[j].Y-nodes[i].Y)
			data.DistanceMatrix[i][j] = d
			data.TravelTimeMatrix[i][j] = d / speed
		}
	}
	return NewOracle(data)
}

func (o *Oracle) row(id int) (int, error) {
	i, ok := o.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: id %d not in distance index", ErrDataInconsistency, id)
	}
	return i, nil
}

// Distance returns the matrix distance from one node id to another.
func (o *Oracle) Distance(from, to int) (float64, error) {
	i, err := o.row(from)
	if err != nil {
		return 0, err
	}
	j, err := o.row(to)
	if err != nil {
		return 0, err
	}
	return o.dist.At(i, j), nil
}

// TravelTime returns the matrix travel time from one node id to another.
func (o *Oracle) TravelTime(from, to int) (float64, error) {
	i, err := o.row(from)
	if err != nil {
		return 0, err
	}
	j, err := o.row(to)
	if err != nil {
		return 0, err
	}
	return o.travel.At(i, j), nil
}
