// vrptw-gen writes a synthetic Solomon-format VRPTW instance file with
// random coordinates, demands, and time windows.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
)

var (
	numCustomers = flag.Int("n", 25, "Number of customers to generate")
	capacity     = flag.Int("capacity", 200, "Vehicle capacity")
	numVehicles  = flag.Int("vehicles", 25, "Number of vehicles declared in the VEHICLE section")
	gridTo       = flag.Int("grid", 100, "Coordinates are drawn uniformly from [0, grid]")
	demandMax    = flag.Int("demand-max", 30, "Per-customer demand is drawn uniformly from [1, demand-max]")
	horizon      = flag.Int("horizon", 500, "Planning horizon; due dates are drawn within [0, horizon]")
	windowSpan   = flag.Int("window", 100, "Width of every customer's time window")
	serviceTime  = flag.Int("service", 10, "Fixed per-customer service time")
	seed         = flag.Int64("seed", 1, "Random seed")
	outputF      = flag.String("output", "instance.txt", "Output file path")
)

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*outputF)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Fprintf(f, "GENERATED\n\n")
	fmt.Fprintf(f, "VEHICLE\nNUMBER     CAPACITY\n")
	fmt.Fprintf(f, "%5d     %5d\n\n", *numVehicles, *capacity)
	fmt.Fprintf(f, "CUSTOMER\n")
	fmt.Fprintf(f, "CUST NO.  XCOORD.   YCOORD.   DEMAND   READY TIME  DUE DATE   SERVICE TIME\n\n")

	fmt.Fprintf(f, "%4d %9d %9d %8d %11d %10d %13d\n", 0, *gridTo/2, *gridTo/2, 0, 0, *horizon, 0)
	for i := 1; i <= *numCustomers; i++ {
		x := rng.Intn(*gridTo + 1)
		y := rng.Intn(*gridTo + 1)
		demand := 1 + rng.Intn(*demandMax)
		ready := rng.Intn(*horizon - *windowSpan)
		due := ready + *windowSpan
		fmt.Fprintf(f, "%4d %9d %9d %8d %11d %10d %13d\n", i, x, y, demand, ready, due, *serviceTime)
	}
}
