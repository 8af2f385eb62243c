package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/edunaija/teachershub/internal/collector"
	"github.com/edunaija/teachershub/internal/config"
	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/processor"
	"github.com/edunaija/teachershub/internal/scheduler"
	"github.com/edunaija/teachershub/internal/storage"
)

// One-shot collection entry point: runs a single cycle and prints the
// report, useful for cron-less deploys and manual backfills.
func main() {
	logger.Init()
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	fetcher := collector.NewAPNewsFetcher(cfg.NewsSourceURL)
	proc := processor.NewEducationProcessor()
	sched, err := scheduler.New(cfg.CronSpec, fetcher, proc, store, collector.NewPageImageResolver())
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	report, err := sched.TriggerNow()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
	if err != nil {
		os.Exit(1)
	}
}
