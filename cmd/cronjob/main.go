package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/jobs"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository/postgres"
	"toolrental-backend/internal/scheduler"
	"toolrental-backend/internal/service"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run one job and exit (expire-stale-reservations, report-overdue-returns or all)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Ignoring unreadable .env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting rental maintenance runner", "log_level", cfg.Log.Level)

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("Database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	jobRunner := jobs.NewJobRunner(service.NewRentalService(store, store.Repos(), cfg.ServiceSettings()), cfg)

	if *runOnce != "" {
		job, ok := oneShotJobs(jobRunner)[*runOnce]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown job %q, available: %v\n", *runOnce, jobNames(jobRunner))
			os.Exit(1)
		}
		logger.Info("Running job once", "job", *runOnce)
		job()
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to configure scheduler: %v", err)
	}
	cronScheduler.Start()
	logger.Info("Scheduler running",
		"expire_stale_reservations", cfg.Scheduler.ExpireStaleReservations,
		"report_overdue_returns", cfg.Scheduler.ReportOverdueReturns)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("Stopping scheduler", "signal", sig.String())
	cronScheduler.Stop()
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	logger.Info("Connecting to database", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, err
	}
	// Jobs run one at a time.
	db.SetMaxOpenConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	return db, nil
}

func oneShotJobs(jr *jobs.JobRunner) map[string]func() {
	return map[string]func(){
		"expire-stale-reservations": jr.ExpireStaleReservations,
		"report-overdue-returns":    jr.ReportOverdueReturns,
		"all":                       jr.RunAll,
	}
}

func jobNames(jr *jobs.JobRunner) []string {
	var names []string
	for name := range oneShotJobs(jr) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
