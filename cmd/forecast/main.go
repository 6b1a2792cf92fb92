// Package main provides the entry point for the forecasting CLI.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/flowcast/internal/config"
	"github.com/yourusername/flowcast/internal/database"
	"github.com/yourusername/flowcast/internal/ingest"
	"github.com/yourusername/flowcast/internal/logger"
	"github.com/yourusername/flowcast/internal/metrics"
	"github.com/yourusername/flowcast/internal/models"
	"github.com/yourusername/flowcast/internal/pipeline"
	"github.com/yourusername/flowcast/internal/repository"
	"github.com/yourusername/flowcast/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile    string
	primaryFile   string
	secondaryFile string
	horizonDays   int
	watch         bool

	cfg *config.Config
	lg  *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&primaryFile, "primary", "", "Path to the primary (date, amount) CSV")
	rootCmd.Flags().StringVar(&secondaryFile, "secondary", "", "Path to the optional secondary (date, withdrawal, deposit) CSV")
	rootCmd.Flags().IntVar(&horizonDays, "horizon", 0, "Override forecast horizon in days")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Keep running and refresh on the configured schedule")
	_ = rootCmd.MarkFlagRequired("primary")
}

var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast future daily cash flow from historical transactions",
	Long:  `Merges transaction sources, trains the model bank, ranks the models and prints future-date predictions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}
		if horizonDays > 0 {
			cfg.Forecast.HorizonDays = horizonDays
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		lg = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runForecast(cmd.Context())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runForecast(ctx context.Context) error {
	lg.WithFields(logrus.Fields{"version": Version, "commit": GitCommit}).Info("Starting forecast run")

	repos, cleanup, err := setupRepositories(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Metrics.Enabled {
		go serveMetrics()
	}

	runner := pipeline.NewRunner(cfg, repos, lg)

	primary, secondary, err := readSources(ctx)
	if err != nil {
		return err
	}
	report, err := runner.Run(ctx, primary, secondary)
	if err != nil {
		return err
	}
	printReport(report)

	if watch && cfg.Schedule.Enabled {
		return runScheduled(ctx, runner)
	}
	return nil
}

func setupRepositories(ctx context.Context) (*repository.Repositories, func(), error) {
	if !cfg.Database.Enabled {
		return nil, func() {}, nil
	}
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to report sink: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return repos, db.Close, nil
}

func runScheduled(ctx context.Context, runner *pipeline.Runner) error {
	sched := scheduler.NewScheduler(runner, func(ctx context.Context) (ingest.Table, *ingest.Table, error) {
		return readSources(ctx)
	}, lg)
	if err := sched.ScheduleRefresh(cfg.Schedule.Cron); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	<-ctx.Done()
	lg.Info("Shutting down scheduler")
	return nil
}

func readSources(ctx context.Context) (ingest.Table, *ingest.Table, error) {
	_ = ctx
	primary, err := readCSV(primaryFile)
	if err != nil {
		return ingest.Table{}, nil, fmt.Errorf("reading primary source: %w", err)
	}
	if secondaryFile == "" {
		return primary, nil, nil
	}
	secondary, err := readCSV(secondaryFile)
	if err != nil {
		return ingest.Table{}, nil, fmt.Errorf("reading secondary source: %w", err)
	}
	return primary, &secondary, nil
}

func readCSV(path string) (ingest.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return ingest.Table{}, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return ingest.Table{}, err
	}
	if len(rows) == 0 {
		return ingest.Table{}, fmt.Errorf("%s is empty", path)
	}
	return ingest.Table{Columns: rows[0], Rows: rows[1:]}, nil
}

func printReport(report *pipeline.RunReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tMODEL\tCATEGORY\tTEST MAE\tTEST RMSE\tTEST SMAPE")
	for _, row := range report.Table.Rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%.1f%%\n",
			row.Rank, row.ModelName, row.Category,
			row.Metrics["test_"+models.MetricMAE],
			row.Metrics["test_"+models.MetricRMSE],
			row.Metrics["test_"+models.MetricSMAPE],
		)
	}
	w.Flush()

	for _, handle := range report.Skipped {
		fmt.Printf("skipped %s: %s\n", handle.Name, handle.SkipReason)
	}
	fmt.Printf("history %s to %s (%d days), %d forecast points, run %s in %s\n",
		report.HistoryStart.Format("2006-01-02"), report.HistoryEnd.Format("2006-01-02"),
		report.HistoryDays, len(report.Forecasts), report.RunID, report.Duration.Round(time.Millisecond))
}

func serveMetrics() {
	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	lg.WithField("addr", addr).Info("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		lg.WithError(err).Error("Metrics server stopped")
	}
}
