package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"BreakoutBoard/internal/config"
	"BreakoutBoard/internal/model"
	"BreakoutBoard/internal/scheduler"
	"BreakoutBoard/internal/server"
	"BreakoutBoard/internal/source"
	"BreakoutBoard/internal/store"
	"BreakoutBoard/internal/stream"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] BreakoutBoard starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using noop: %v", err)
			st = store.NewNoopStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewNoopStore()
	}

	// Register data sources
	reg := source.NewRegistry()
	for _, sc := range cfg.Sources.CSV {
		reg.Register(&source.CSVSource{SourceName: sc.Name, Path: sc.Path}, sc.DisplayName)
		log.Printf("[INFO] csv source: %s (%s)", sc.Name, sc.Path)
	}
	if cfg.Sources.Binance.Enabled {
		start, err := cfg.BinanceStart()
		if err != nil {
			log.Fatalf("[FATAL] binance config: %v", err)
		}
		reg.Register(source.NewBinanceSource(cfg.Sources.Binance.Symbol, start, cfg.Proxy), "Binance")
		log.Printf("[INFO] binance source: %s since %s",
			cfg.Sources.Binance.Symbol, cfg.Sources.Binance.HistoryStart)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(reg, st)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional live kline stream
	var live *stream.Latest
	if cfg.Stream.Enabled {
		live = &stream.Latest{}
		ws := stream.NewBinanceStream(cfg.Stream.Symbol, cfg.Stream.Interval)
		go ws.Run(ctx, func(c model.Candle, closed bool) {
			live.Update(c)
		})
		log.Printf("[INFO] live stream: %s@%s", cfg.Stream.Symbol, cfg.Stream.Interval)
	}

	// Optional: refresh immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing data now")
		go sched.RunRefreshNow()
	}

	// Init HTTP server
	srv := server.New(server.Config{
		Registry:   reg,
		Store:      st,
		Live:       live,
		LiveSource: cfg.Stream.Source,
		Params:     cfg.Strategy,
		MaxPoints:  cfg.Chart.MaxPoints,
		Refresh:    sched.RunRefreshNow,
	})
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Server.ListenAddr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	log.Println("[INFO] BreakoutBoard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		log.Printf("[ERROR] http server: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] BreakoutBoard stopped")
}
