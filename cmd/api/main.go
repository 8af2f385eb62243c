package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/edunaija/teachershub/internal/api"
	"github.com/edunaija/teachershub/internal/collector"
	"github.com/edunaija/teachershub/internal/config"
	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/payments"
	"github.com/edunaija/teachershub/internal/processor"
	"github.com/edunaija/teachershub/internal/scheduler"
	"github.com/edunaija/teachershub/internal/storage"
	"github.com/edunaija/teachershub/internal/uploader"
)

func main() {
	logger.Init()
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	if _, err := store.EnsureAdmin(cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("warn: ensure admin account: %v", err)
	}
	if err := store.EnsureAdvertPricing(); err != nil {
		log.Fatalf("ensure advert pricing failed: %v", err)
	}

	fetcher := collector.NewAPNewsFetcher(cfg.NewsSourceURL)
	proc := processor.NewEducationProcessor()
	sched, err := scheduler.New(cfg.CronSpec, fetcher, proc, store, collector.NewPageImageResolver())
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	sched.Start()

	r := gin.Default()
	apiServer := api.NewServer(
		store,
		store,
		sched,
		payments.NewClient(cfg.PaystackSecretKey),
		uploader.NewClient(cfg.ImageKitPrivateKey),
		cfg.AppURL,
	)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
