package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poolbench/poolbench/internal/config"
	"github.com/poolbench/poolbench/internal/pkg/logger"
	"github.com/poolbench/poolbench/internal/report"
	"github.com/poolbench/poolbench/internal/service"
)

const appVersion = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "poolbench",
		Short:         "Benchmark connection pooling against per-operation connections",
		Long:          "poolbench measures the performance impact of connection pooling versus\nper-operation connection establishment for concurrent CRUD workloads\nagainst PostgreSQL.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		dataPoints  int
		workers     int
		poolMin     int
		poolMax     int
		reportDir   string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the four-phase CRUD benchmark under both provider variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// flags override env and file configuration
			flags := cmd.Flags()
			if flags.Changed("data-points") {
				cfg.Benchmark.DataPoints = dataPoints
			}
			if flags.Changed("workers") {
				cfg.Benchmark.Workers = workers
			}
			if flags.Changed("pool-min") {
				cfg.Postgres.PoolMin = poolMin
			}
			if flags.Changed("pool-max") {
				cfg.Postgres.PoolMax = poolMax
			}
			if flags.Changed("report-dir") {
				cfg.Report.Dir = reportDir
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			if err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
				return err
			}
			defer logger.Sync()

			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("benchmark starting",
				zap.Int("data_points", cfg.Benchmark.DataPoints),
				zap.Int("workers", cfg.Benchmark.Workers),
				zap.Int("pool_min", cfg.Postgres.PoolMin),
				zap.Int("pool_max", cfg.Postgres.PoolMax),
			)

			started := time.Now()
			comparison, err := service.NewBenchmarkService(cfg).Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Render(comparison))

			path, err := report.WriteChart(cfg.Report.Dir, comparison)
			if err != nil {
				return err
			}

			logger.Info("benchmark finished",
				zap.Duration("elapsed", time.Since(started)),
				zap.String("chart", path),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&dataPoints, "data-points", 1000, "records per phase")
	cmd.Flags().IntVar(&workers, "workers", 50, "concurrent workers per phase")
	cmd.Flags().IntVar(&poolMin, "pool-min", 1, "pre-warmed pool connections")
	cmd.Flags().IntVar(&poolMax, "pool-max", 50, "maximum pool connections")
	cmd.Flags().StringVar(&reportDir, "report-dir", "reports", "directory for report artifacts")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	return cmd
}

// serveMetrics exposes the Prometheus registry for scraping during long runs
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics listener stopped", zap.Error(err))
	}
}
