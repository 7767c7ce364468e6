package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinova/clinic-booking/internal/booking"
	"github.com/clinova/clinic-booking/internal/config"
	"github.com/clinova/clinic-booking/internal/db"
	"github.com/clinova/clinic-booking/internal/directory"
	"github.com/clinova/clinic-booking/internal/export"
	"github.com/clinova/clinic-booking/internal/notify"
	"github.com/clinova/clinic-booking/internal/schedule"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("report-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running report worker in env=%s interval=%s dir=%s", cfg.Env, cfg.ReportInterval, cfg.ReportDir)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	exporter := export.NewExporter(
		directory.NewPgRepository(pgPool),
		schedule.NewPgRepository(pgPool),
		booking.NewPgRepository(pgPool),
		notify.NewPgSink(pgPool),
	)

	// Run once at startup
	runOnce(rootCtx, exporter, cfg.ReportDir)

	ticker := time.NewTicker(cfg.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping report worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, exporter, cfg.ReportDir)
		}
	}
}

func runOnce(ctx context.Context, exporter *export.Exporter, dir string) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	path, err := exporter.WriteArtifact(runCtx, dir)
	if err != nil {
		log.Printf("report run error: %v", err)
		return
	}
	log.Printf("report written to %s in %s", path, time.Since(start))
}
