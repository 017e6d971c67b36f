package instance_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azaryc2s/vrptw-cg/internal/espprc"
	"github.com/azaryc2s/vrptw-cg/internal/instance"
)

const fixture = `Test Instance

VEHICLE
NUMBER     CAPACITY
  25         50

CUSTOMER
CUST NO.  XCOORD.   YCOORD.    DEMAND   READY TIME  DUE DATE   SERVICE TIME
    0      40.0       50.0          0          0       1000          0
    1      10.0       10.0          1          0        100         10
    2      20.0       20.0          1          0        100         10
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instance.txt")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

func TestParseSolomonReadsCapacityAndCustomers(t *testing.T) {
	raw, err := instance.ParseSolomon(writeFixture(t), 2)
	require.NoError(t, err)
	require.InDelta(t, 50.0, raw.Capacity, 1e-9)
	require.Len(t, raw.Customers, 3)
	require.Equal(t, 0, raw.Customers[0].ID)
	require.Equal(t, 1, raw.Customers[1].ID)
	require.InDelta(t, 10.0, raw.Customers[1].ServiceTime, 1e-9)
}

func TestParseSolomonErrorsWhenTooFewCustomers(t *testing.T) {
	_, err := instance.ParseSolomon(writeFixture(t), 5)
	require.Error(t, err)
}

func TestParseSolomonErrorsOnMissingFile(t *testing.T) {
	_, err := instance.ParseSolomon(filepath.Join(t.TempDir(), "missing.txt"), 2)
	require.Error(t, err)
}

func TestSplitDepotAppendsDestinationCopy(t *testing.T) {
	raw, err := instance.ParseSolomon(writeFixture(t), 2)
	require.NoError(t, err)
	nodes := raw.SplitDepot(2)
	require.Len(t, nodes, 4)
	require.Equal(t, 3, nodes[3].ID)
	require.InDelta(t, nodes[0].X, nodes[3].X, 1e-9)
	require.InDelta(t, nodes[0].Y, nodes[3].Y, 1e-9)
}

func TestBuildProblemDataNeverReEntersOriginOrLeavesDestination(t *testing.T) {
	raw, err := instance.ParseSolomon(writeFixture(t), 2)
	require.NoError(t, err)
	data := instance.BuildProblemData(raw, 2)

	for _, targets := range data.Graph {
		for _, to := range targets {
			require.NotEqual(t, 0, to, "no arc may re-enter the origin depot")
		}
	}
	require.Empty(t, data.Graph[3], "the destination depot has no outgoing arcs")
}

func TestBuildProblemDataFiltersArcsOverCapacity(t *testing.T) {
	raw := instance.Raw{
		Capacity: 10,
		Customers: []instance.Customer{
			{ID: 0, X: 0, Y: 0, Demand: 0, ReadyTime: 0, DueDate: 1000},
			{ID: 1, X: 10, Y: 0, Demand: 6, ReadyTime: 0, DueDate: 1000},
			{ID: 2, X: 20, Y: 0, Demand: 6, ReadyTime: 0, DueDate: 1000},
		},
	}
	data := instance.BuildProblemData(raw, 2)
	require.NotContains(t, data.Graph[1], 2, "combined demand 6+6=12 exceeds capacity 10")
	require.NotContains(t, data.Graph[2], 1)
	require.Contains(t, data.Graph[0], 1, "depot to a single customer under capacity stays feasible")
}

func TestBuildProblemDataFiltersArcsViolatingTimeWindows(t *testing.T) {
	raw := instance.Raw{
		Capacity: 1000,
		Customers: []instance.Customer{
			{ID: 0, X: 0, Y: 0, Demand: 0, ReadyTime: 0, DueDate: 1000},
			{ID: 1, X: 0, Y: 0, Demand: 1, ReadyTime: 0, DueDate: 1000, ServiceTime: 0},
			{ID: 2, X: 50, Y: 0, Demand: 1, ReadyTime: 0, DueDate: 3},
		},
	}
	data := instance.BuildProblemData(raw, 2)
	require.NotContains(t, data.Graph[1], 2, "arrival after customer 2's due date must be filtered")
}

func TestBuildProblemDataTravelTimeIncludesSourceServiceTime(t *testing.T) {
	raw := instance.Raw{
		Capacity: 1000,
		Customers: []instance.Customer{
			{ID: 0, X: 0, Y: 0, Demand: 0, ReadyTime: 0, DueDate: 1000, ServiceTime: 7},
			{ID: 1, X: 3, Y: 4, Demand: 1, ReadyTime: 0, DueDate: 1000},
			{ID: 2, X: 3, Y: 4, Demand: 1, ReadyTime: 0, DueDate: 1000},
		},
	}
	data := instance.BuildProblemData(raw, 2)
	travel := data.TravelTime[espprc.Arc{From: 0, To: 1}]
	require.InDelta(t, 5.0+7.0, travel, 1e-9, "travel time folds in the source node's service time")
}
