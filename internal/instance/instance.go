// Package instance parses and preprocesses VRPTW instances (I): Solomon
// format parsing, Euclidean distance/travel-time matrices, the
// split-depot duplication, and the arc filter's edge cases.
// Grounded on original_source/src/data_processing/{parser,graph,filters}.py.
package instance

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/azaryc2s/vrptw-cg/internal/espprc"
	"github.com/azaryc2s/vrptw-cg/internal/vrperr"
)

// Customer is one parsed Solomon record, including the depot (id 0).
type Customer struct {
	ID          int
	X, Y        float64
	Demand      float64
	ReadyTime   float64
	DueDate     float64
	ServiceTime float64
}

// Raw is the parsed instance before split-depot duplication or arc
// filtering: vehicle capacity and the depot plus every customer.
type Raw struct {
	Capacity  float64
	Customers []Customer // index 0 is the depot
}

// ParseSolomon reads a Solomon-format VRPTW instance file and keeps the
// depot plus the first numCustomers customer records, per the original's
// parse_solomon_instance.
func ParseSolomon(path string, numCustomers int) (Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return Raw{}, vrperr.New(vrperr.KindInstance, "open "+path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Raw{}, vrperr.New(vrperr.KindInstance, "read "+path, err)
	}

	vehicleIdx := -1
	customerIdx := -1
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "VEHICLE") {
			vehicleIdx = i + 2
		}
		if strings.HasPrefix(t, "CUSTOMER") {
			customerIdx = i + 2
		}
	}
	if vehicleIdx < 0 || vehicleIdx >= len(lines) {
		return Raw{}, vrperr.New(vrperr.KindInstance, "missing VEHICLE section in "+path, nil)
	}
	if customerIdx < 0 {
		return Raw{}, vrperr.New(vrperr.KindInstance, "missing CUSTOMER section in "+path, nil)
	}

	fields := strings.Fields(lines[vehicleIdx])
	if len(fields) < 2 {
		return Raw{}, vrperr.New(vrperr.KindInstance, "malformed VEHICLE line in "+path, nil)
	}
	capacity, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Raw{}, vrperr.New(vrperr.KindInstance, "malformed VEHICLE capacity in "+path, err)
	}

	var customers []Customer
	for _, line := range lines[customerIdx:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 7 {
			continue
		}
		vals := make([]float64, 7)
		for i, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return Raw{}, vrperr.New(vrperr.KindInstance, "malformed customer line in "+path, err)
			}
			vals[i] = v
		}
		customers = append(customers, Customer{
			ID: int(vals[0]), X: vals[1], Y: vals[2], Demand: vals[3],
			ReadyTime: vals[4], DueDate: vals[5], ServiceTime: vals[6],
		})
		if len(customers) == numCustomers+1 {
			break
		}
	}
	if len(customers) < numCustomers+1 {
		return Raw{}, vrperr.New(vrperr.KindInstance, fmt.Sprintf("%s has fewer than %d customers", path, numCustomers), nil)
	}

	return Raw{Capacity: capacity, Customers: customers}, nil
}

// SplitDepot duplicates the depot record as the destination node
// numCustomers+1, per the split-depot convention.
func (r Raw) SplitDepot(numCustomers int) []Customer {
	out := append([]Customer(nil), r.Customers[:numCustomers+1]...)
	depot := out[0]
	depot.ID = numCustomers + 1
	out = append(out, depot)
	return out
}

// dist is the Euclidean distance at full float64 precision; arc costs are
// not truncated or rounded.
func dist(a, b Customer) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BuildProblemData runs the full preprocessing pipeline: distance and
// travel-time matrices (travel time includes the source node's service
// time, per the original's build_graph), split-depot duplication, and the
// arc filter of filter_arcs_vrptw, producing an espprc.ProblemData ready
// for NewESPPTWC.
func BuildProblemData(raw Raw, numCustomers int) *espprc.ProblemData {
	nodes := raw.SplitDepot(numCustomers)
	n := len(nodes)
	last := n - 1

	data := &espprc.ProblemData{
		NumCustomers: numCustomers,
		Capacity:     raw.Capacity,
		Demand:       make([]float64, n),
		TimeWindow:   make([]espprc.ResourceWindowPoint, n),
		ServiceTime:  make([]float64, n),
		Graph:        make(map[int][]int, n),
		BaseCost:     make(map[espprc.Arc]float64),
		TravelTime:   make(map[espprc.Arc]float64),
	}
	for i, c := range nodes {
		data.Demand[i] = c.Demand
		data.TimeWindow[i] = espprc.ResourceWindowPoint{Lo: c.ReadyTime, Hi: c.DueDate}
		data.ServiceTime[i] = c.ServiceTime
	}

	for i := 0; i < n; i++ {
		data.Graph[i] = nil
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if j == 0 {
				continue // never re-enter the origin depot
			}
			if i == last {
				continue // the destination depot has no outgoing arcs
			}
			cost := dist(nodes[i], nodes[j])
			travel := cost + nodes[i].ServiceTime
			if data.Demand[i]+data.Demand[j] > data.Capacity {
				continue
			}
			if data.TimeWindow[i].Lo+travel > data.TimeWindow[j].Hi {
				continue
			}
			data.Graph[i] = append(data.Graph[i], j)
			arc := espprc.Arc{From: i, To: j}
			data.BaseCost[arc] = cost
			data.TravelTime[arc] = travel
		}
	}
	return data
}
