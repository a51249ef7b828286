package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gobwas/ws"
	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/alerts"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/api"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/cache"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/engine"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/gateway"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/history"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/hub"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/tickers"
	"github.com/WagdySamih/Trading-Dashboard/pkg/config"
	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := config.NewLogger(cfg.App)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	seed := models.SeedTickers()
	engineRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	historyCache := cache.NewCache(logger, cfg.Cache.MaxEntries, cfg.Cache.SweepInterval, cache.RealClock{})
	generator := history.NewGenerator(logger, seed, cfg.History.BaseVolume, history.RealRand{}, history.RealClock{})
	tickerService := tickers.NewService(logger, seed, historyCache, generator)
	alertEngine := alerts.NewEngine(logger)
	wsHub := hub.NewHub(tickerService, alertEngine, logger)

	// Per-tick pipeline, in this fixed order: table update, price
	// broadcast, then alert evaluation and delivery. Alert-fired
	// notifications therefore always follow the price update that
	// caused them on the wire.
	sink := func(u models.PriceUpdate) {
		tickerService.UpdatePrice(u)
		wsHub.PublishPriceUpdate(u)
		for _, t := range alertEngine.Evaluate(u.TickerID, u.Price) {
			wsHub.PublishAlertFired(t.SubscriberID, t.Alert)
		}
	}

	priceEngine := engine.NewEngine(logger, cfg.Engine.TickInterval, seed, engine.RealRand{Rand: engineRand}, engine.RealClock{}, sink)

	mux := http.NewServeMux()
	api.NewHandler(tickerService, logger).RegisterRoutes(mux)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}

		client := gateway.NewClient(conn, wsHub, logger)
		client.Start()
	})

	srv := &http.Server{Addr: cfg.App.Port, Handler: mux}

	priceEngine.Start()

	go func() {
		logger.Info("Server Started", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP Error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutdown signal received")
	priceEngine.Stop()
	historyCache.Close()
	srv.Shutdown(context.Background())
	logger.Info("Shutdown Complete")
}
