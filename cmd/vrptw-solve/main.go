package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"github.com/azaryc2s/vrptw-cg/internal/cache"
	"github.com/azaryc2s/vrptw-cg/internal/config"
	"github.com/azaryc2s/vrptw-cg/internal/espprc"
	"github.com/azaryc2s/vrptw-cg/internal/instance"
	"github.com/azaryc2s/vrptw-cg/internal/labeling"
	"github.com/azaryc2s/vrptw-cg/internal/logx"
	"github.com/azaryc2s/vrptw-cg/internal/lpbackend"
	"github.com/azaryc2s/vrptw-cg/internal/metrics"
	"github.com/azaryc2s/vrptw-cg/internal/orchestrator"
	"github.com/azaryc2s/vrptw-cg/internal/rmp"
	"github.com/azaryc2s/vrptw-cg/internal/store"
)

var (
	configPath   = flag.String("config", "", "Path to a YAML run config. Flags below override its fields when set.")
	inputF       = flag.String("input", "", "Path to a Solomon-format VRPTW instance")
	numCustomers = flag.Int("n", 0, "Number of customers to read from the instance")
	outputF      = flag.String("output", "", "Path to write the solution JSON. Defaults to stdout.")
	backendName  = flag.String("backend", "", "LP backend: native or gurobi. Overrides config.")
	logLvl       = flag.Int("log", 0, "Logging verbosity (1-4). Overrides config.")
)

// sysInfo stamps host info into the output for reproducibility.
type sysInfo struct {
	Platform string `json:"platform"`
	CPU      string `json:"cpu"`
	RAM      string `json:"ram"`
}

type solution struct {
	System        sysInfo `json:"system"`
	TerminalState string  `json:"terminal_state"`
	Objective     float64 `json:"objective"`
	Iterations    int     `json:"iterations"`
	Routes        [][]int `json:"routes,omitempty"`
	Comment       string  `json:"comment,omitempty"`
}

func main() {
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *inputF != "" {
		cfg.Instance.Path = *inputF
	}
	if *numCustomers > 0 {
		cfg.Instance.NumCustomers = *numCustomers
	}
	if *backendName != "" {
		cfg.CG.Backend = *backendName
	}
	if *logLvl > 0 {
		cfg.Logging.Verbosity = *logLvl
	}
	logx.Init(cfg.Logging.Verbosity)

	if cfg.Instance.Path == "" || cfg.Instance.NumCustomers <= 0 {
		fmt.Fprintln(os.Stderr, "vrptw-solve: -input and -n (or an equivalent config) are required")
		os.Exit(1)
	}

	if cfg.Metrics.Enabled {
		metrics.RegisterDefault()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logx.Logf(logx.LvlError, "metrics: server stopped: %v", err)
			}
		}()
	}

	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	sys := sysInfo{}
	if hostStat != nil {
		sys.Platform = hostStat.Platform
	}
	if len(cpuStat) > 0 {
		sys.CPU = cpuStat[0].ModelName
	}
	if vmStat != nil {
		sys.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}

	raw, err := instance.ParseSolomon(cfg.Instance.Path, cfg.Instance.NumCustomers)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	data := instance.BuildProblemData(raw, cfg.Instance.NumCustomers)
	model := espprc.NewESPPTWC(data)

	var backend lpbackend.Backend
	if cfg.CG.Backend == "gurobi" {
		backend = lpbackend.NewGurobiBackend("vrptw_rmp", nil)
	} else {
		backend = lpbackend.NewNativeBackend("vrptw_rmp")
	}

	master, err := rmp.New(backend, cfg.Instance.NumCustomers, cfg.CG.Partitioned)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	instanceKey := fmt.Sprintf("%s:%d", cfg.Instance.Path, cfg.Instance.NumCustomers)

	var columnCache *cache.ColumnCache
	warmStarted := false
	if cfg.Cache.Enabled {
		columnCache, err = cache.New(cfg.Cache.RedisURL, 24*time.Hour)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer columnCache.Close()
		if routes, ok, err := columnCache.Load(ctx, instanceKey); err != nil {
			logx.Logf(logx.LvlError, "cache: load failed, falling back to trivial seeding: %v", err)
		} else if ok {
			for _, route := range routes {
				cost := 0.0
				for i := 0; i+1 < len(route); i++ {
					cost += data.BaseCost[espprc.Arc{From: route[i], To: route[i+1]}]
				}
				if err := master.AddColumn(route, cost); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
			}
			warmStarted = len(routes) > 0
			logx.Logf(logx.LvlInfo, "cache: warm-started %d columns for %s", len(routes), instanceKey)
		}
	}
	if !warmStarted {
		err = master.SeedTrivialRoutes(data.Origin(), data.Destination(), func(customer int) (float64, bool) {
			arc1, arc2 := espprc.Arc{From: data.Origin(), To: customer}, espprc.Arc{From: customer, To: data.Destination()}
			c1, ok1 := data.BaseCost[arc1]
			c2, ok2 := data.BaseCost[arc2]
			if !ok1 || !ok2 {
				return 0, false
			}
			return c1 + c2, true
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	ocfg := orchestrator.DefaultConfig()
	ocfg.MaxIterations = cfg.CG.MaxIterations
	ocfg.Tolerance = cfg.CG.Tolerance
	ocfg.LabelingStrategy = labeling.ParseStrategy(cfg.CG.LabelingStrategy)
	ocfg.SolveIntegerAfter = cfg.CG.SolveIntegerAfter
	ocfg.Partitioned = cfg.CG.Partitioned
	if cfg.CG.ColumnsPerIter == "best" {
		ocfg.ColumnsPerIter = orchestrator.BestOnly
	}
	if cfg.Metrics.Enabled {
		ocfg.OnMasterSolved = func(iteration int, objective float64) {
			metrics.Iterations.Inc()
			metrics.MasterObjective.Set(objective)
		}
		ocfg.OnPricingSolved = func(iteration int, result labeling.Result) {
			metrics.LabelsExplored.Observe(float64(result.LabelsExplored))
		}
	}

	startedAt := time.Now()
	orch := orchestrator.New(ocfg, model, master, data.BaseCost)
	result := orch.Run()

	if cfg.Metrics.Enabled {
		metrics.ColumnsAdded.Add(float64(len(master.Columns())))
		metrics.TerminalState.WithLabelValues(result.State.String()).Inc()
	}

	sol := solution{System: sys, TerminalState: result.State.String(), Objective: result.Objective, Iterations: result.Iterations}
	if result.Cause != nil {
		sol.Comment = result.Cause.Error()
	}
	if result.Integer != nil {
		for _, c := range result.Integer.Routes {
			sol.Routes = append(sol.Routes, c.Route)
		}
	}

	if cfg.Cache.Enabled && columnCache != nil && len(sol.Routes) > 0 {
		if err := columnCache.Store(ctx, instanceKey, sol.Routes); err != nil {
			logx.Logf(logx.LvlError, "cache: store failed: %v", err)
		}
	}

	if cfg.Store.Enabled {
		pg, err := store.New(cfg.Store.DSN)
		if err != nil {
			logx.Logf(logx.LvlError, "store: connect failed, skipping persistence: %v", err)
		} else {
			defer pg.Close()
			record := store.RunRecord{
				InstancePath:  cfg.Instance.Path,
				NumCustomers:  cfg.Instance.NumCustomers,
				TerminalState: sol.TerminalState,
				Objective:     sol.Objective,
				Iterations:    sol.Iterations,
				StartedAt:     startedAt,
				FinishedAt:    time.Now(),
				Routes:        sol.Routes,
			}
			if _, err := pg.CreateRun(ctx, record); err != nil {
				logx.Logf(logx.LvlError, "store: persist run failed: %v", err)
			}
		}
	}

	out, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *outputF == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(*outputF, out, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
