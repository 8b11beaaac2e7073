// Command sweeper runs the scheduled-publish sweep on an interval. It is
// the external scheduler collaborator: readers already see elapsed
// schedules as published; the sweep persists that status.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/database"
	"newsdesk/internal/observability"
	"newsdesk/internal/repository"
	"newsdesk/internal/service"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)

	newsService := service.NewNewsService(repository.NewNewsRepository(db), nil)

	runSweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Each run carries its own correlation ID so its log lines group.
		ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())

		swept, err := newsService.SweepScheduled(ctx)
		if err != nil {
			log.Printf("sweep failed: %v", err)
			return
		}
		if swept > 0 {
			log.Printf("sweep published %d articles", swept)
		}
	}

	// Catch up immediately on start, then run on the configured interval.
	runSweep()

	c := cron.New()
	schedule := fmt.Sprintf("@every %s", cfg.SweepInterval)
	if _, err := c.AddFunc(schedule, runSweep); err != nil {
		log.Fatalf("Failed to schedule sweep: %v", err)
	}
	c.Start()
	log.Printf("Sweeper running every %s", cfg.SweepInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Stopping sweeper...")
	<-c.Stop().Done()
}
