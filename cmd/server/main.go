package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"img-hist/internal/api"
	"img-hist/internal/config"
	"img-hist/internal/service"
	"img-hist/internal/storage"
	"img-hist/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := storage.NewStore(cfg.DataPath, cfg.HistoryLimit)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}

	ctx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := ws.NewHub()
	go hub.Run(ctx)

	histSvc := service.NewHistogramService(cfg, store, hub)

	router := api.NewRouter(cfg, store, hub, histSvc)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
