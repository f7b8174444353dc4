package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/dcf-simulator/internal/api"
	"github.com/yourusername/dcf-simulator/internal/health"
	"github.com/yourusername/dcf-simulator/internal/metrics"
	"github.com/yourusername/dcf-simulator/internal/scenario"
	"github.com/yourusername/dcf-simulator/internal/scheduler"
	"github.com/yourusername/dcf-simulator/internal/service"
	"github.com/yourusername/dcf-simulator/internal/simulation"
)

const (
	formatConsole = "console"
	formatJSON    = "json"
	formatCSV     = "csv"
	formatHTML    = "html"
)

type selection struct {
	scenarioID string
	paramsFile string
}

func (s *selection) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.scenarioID, "scenario", "s", "", "Scenario id (defaults to valuation.default_scenario)")
	cmd.Flags().StringVarP(&s.paramsFile, "params", "p", "", "Scenario YAML file to value instead of a stored scenario")
}

// request turns the flags into a service request. A params file supplies both
// the parameters and, unless --scenario is set, the id.
func (s *selection) request() (service.Request, error) {
	req := service.Request{ScenarioID: s.scenarioID}
	if s.paramsFile == "" {
		return req, nil
	}
	sc, err := scenario.LoadFile(s.paramsFile)
	if err != nil {
		return service.Request{}, err
	}
	if req.ScenarioID == "" {
		req.ScenarioID = sc.ID
	}
	req.Params = &sc.Params
	return req, nil
}

func newCalcCmd() *cobra.Command {
	var (
		sel    selection
		format string
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run the deterministic DCF valuation",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := sel.request()
			if err != nil {
				return err
			}
			sc, err := svc.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			report, err := svc.Value(cmd.Context(), sc)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, format, "")
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatConsole, "Output format: console, csv or json")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	var (
		sel        selection
		format     string
		outputPath string
		iterations int
		seed       uint64
		workers    int
	)
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Sample the share price distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			simCfg, err := simulation.FromConfig(&cfg.Valuation)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("iterations") {
				simCfg.Iterations = iterations
			}
			if flags.Changed("seed") {
				simCfg.Seed = seed
			}
			if flags.Changed("workers") {
				simCfg.Workers = workers
			}

			req, err := sel.request()
			if err != nil {
				return err
			}
			sc, err := svc.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			run, err := svc.Simulate(ctx, sc, simCfg)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), run.Report, format, outputPath)
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatConsole, "Output format: console, csv, html or json")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file (required for html)")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", simulation.DefaultIterations, "Number of Monte Carlo iterations")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one and reports it)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker goroutines (0 uses one per CPU)")
	return cmd
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List scenarios with their revenue preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := svc.ListScenarios(cmd.Context())
			if err != nil {
				return err
			}
			return writeScenarioTable(cmd.OutOrStdout(), list)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the valuation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := simulation.FromConfig(&cfg.Valuation)
			if err != nil {
				return err
			}
			metrics.InitRegistry()

			healthCfg := health.Config{
				ServiceName: cfg.App.Name,
				Version:     Version,
				Store:       repos.Scenario.Kind(),
				Logger:      logger,
			}
			if db != nil {
				healthCfg.DB = db
			}
			checker := health.NewChecker(healthCfg)

			cache := api.NewResultCache(cfg.Server.CacheTTL(), cfg.Server.CacheMaxSize)
			handler := api.NewHandler(svc, cache, defaults, logger)
			server := api.NewServer(cfg, handler, checker, logger)

			if spec := cfg.Server.RevalueSchedule; spec != "" {
				sched := scheduler.NewScheduler(svc, logger)
				if err := sched.ScheduleRevaluation(spec); err != nil {
					return err
				}
				if err := sched.Start(); err != nil {
					return err
				}
				defer sched.Stop()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
}

// writeReport renders report in format. File output is used when path is set;
// html always needs a path.
func writeReport(out io.Writer, report simulation.Report, format, path string) error {
	switch strings.ToLower(format) {
	case formatConsole:
		return writeMaybeFile(out, path, func(w io.Writer) error {
			_, err := io.WriteString(w, simulation.GenerateConsoleReport(report))
			return err
		})
	case formatJSON:
		return writeMaybeFile(out, path, func(w io.Writer) error {
			return simulation.WriteJSON(w, report)
		})
	case formatCSV:
		if path != "" {
			return simulation.GenerateCSVExport(report, path)
		}
		return simulation.WriteCSV(out, report)
	case formatHTML:
		if path == "" {
			return fmt.Errorf("--output is required for html reports")
		}
		return simulation.GenerateHTMLReport(report, path)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeMaybeFile(out io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(out)
	}
	return simulation.WriteFile(path, write)
}

func writeScenarioTable(out io.Writer, list []service.ScenarioSummary) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tREVENUE 2025 ($B)\tREVENUE 2026 ($B)\tREVENUE 2027 ($B)")
	for _, s := range list {
		cols := []string{s.ID, s.Name}
		for _, y := range s.RevenuePreview {
			if math.IsNaN(y.Revenue) || math.IsInf(y.Revenue, 0) {
				cols = append(cols, "n/a")
				continue
			}
			cols = append(cols, decimal.NewFromFloat(y.Revenue).StringFixed(1))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}
