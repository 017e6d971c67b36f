// Package metrics exposes column-generation run metrics on a dedicated
// Prometheus registry, grounded on gpsnav's internal/metrics package.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for a solver run.
	Registry = prometheus.NewRegistry()

	// Iterations counts completed MASTER/PRICING rounds.
	Iterations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vrptw_cg_iterations_total", Help: "Total column-generation iterations run.",
	})
	// MasterObjective is the restricted master's relaxed objective after
	// the most recent MASTER solve.
	MasterObjective = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vrptw_cg_master_objective", Help: "Restricted master relaxed objective.",
	})
	// ColumnsAdded counts routes added to the RMP across the run.
	ColumnsAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vrptw_cg_columns_added_total", Help: "Total columns (routes) added to the restricted master.",
	})
	// LabelsExplored counts labels allocated per pricing round.
	LabelsExplored = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "vrptw_cg_labels_explored", Help: "Labels explored per pricing round.",
		Buckets: prometheus.ExponentialBuckets(10, 2, 12),
	})
	// PricingDuration tracks labeling solve wall time in seconds.
	PricingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "vrptw_cg_pricing_duration_seconds", Help: "Labeling solve duration in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	// TerminalState counts runs ending in each orchestrator state.
	TerminalState = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrptw_cg_terminal_state_total", Help: "Runs by terminal orchestrator state."},
		[]string{"state"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry exactly once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Iterations)
		Registry.MustRegister(MasterObjective)
		Registry.MustRegister(ColumnsAdded)
		Registry.MustRegister(LabelsExplored)
		Registry.MustRegister(PricingDuration)
		Registry.MustRegister(TerminalState)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
