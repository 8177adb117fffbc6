package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/application"
	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	auctionhttp "github.com/cristianortiz/bidcoordinator/internal/auction/infra/http"
	"github.com/cristianortiz/bidcoordinator/internal/auction/infra/notifier"
	"github.com/cristianortiz/bidcoordinator/internal/auction/infra/repository/memory"
	"github.com/cristianortiz/bidcoordinator/internal/auction/infra/repository/postgres"
	redisstore "github.com/cristianortiz/bidcoordinator/internal/auction/infra/repository/redis"
	auctionws "github.com/cristianortiz/bidcoordinator/internal/auction/infra/websocket"
	"github.com/cristianortiz/bidcoordinator/internal/shared/config"
	"github.com/cristianortiz/bidcoordinator/internal/shared/db"
	"github.com/cristianortiz/bidcoordinator/internal/shared/db/migrations"
	"github.com/cristianortiz/bidcoordinator/internal/shared/httpserver"
	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/cristianortiz/bidcoordinator/internal/shared/websocket"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// auctionStore is what every storage driver provides
type auctionStore interface {
	domain.AuctionCatalog
	domain.BidStore
}

// stores bundles the selected driver with its demo seeding and cleanup
type stores struct {
	auctionStore
	seed    func(ctx context.Context, a *domain.Auction) error
	cleanup func()
}

func main() {
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()

	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatal("Invalid command line", zap.Error(err))
	}
	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if !logger.SetLevel(cfg.Log.Level) {
		log.Warn("Unknown log level, keeping default", zap.String("level", cfg.Log.Level))
	}
	log.Info("Starting bid coordinator...", zap.String("store", cfg.Store.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
	}

	st, err := openStores(ctx, cfg, redisClient)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.cleanup()

	if cfg.Store.SeedDemoAuction {
		demo, err := domain.NewAuction(uuid.New(), decimal.RequireFromString("100.00"), time.Now().UTC())
		if err != nil {
			log.Fatal("Failed to build demo auction", zap.Error(err))
		}
		if err := st.seed(ctx, demo); err != nil {
			log.Fatal("Failed to seed demo auction", zap.Error(err))
		}
		log.Info("Demo auction open", zap.Stringer("auctionID", demo.ID), zap.String("basePrice", domain.FormatAmount(demo.BasePrice)))
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	var outbidNotifiers []domain.OutbidNotifier
	outbidNotifiers = append(outbidNotifiers, notifier.NewHubNotifier(hub))
	if redisClient != nil {
		outbidNotifiers = append(outbidNotifiers, notifier.NewRedisPublisher(redisClient, cfg.Redis.OutbidChannel))
	}
	dispatcher := notifier.NewDispatcher(st, notifier.NewMultiNotifier(outbidNotifiers...),
		notifier.WithQueueSize(cfg.Notifier.QueueSize),
		notifier.WithWorkers(cfg.Notifier.Workers),
		notifier.WithNotifyTimeout(cfg.Notifier.Timeout),
	)
	// not tied to the signal ctx, Stop drains what is still queued
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	placeBidUC := application.NewPlaceBidUseCase(st, st, dispatcher)
	bidViewUC := application.NewBidViewUseCase(st, st)
	service := application.NewAuctionService(placeBidUC, bidViewUC)

	server := httpserver.NewServer()
	auctionhttp.NewAuctionHandler(service).RegisterRoutes(server.Router().Group("/api/v1"))
	wsHandler := auctionws.NewAuctionWSHandler(service, hub)
	wsHandler.RegisterRoutes(ctx, server.Router())
	go wsHandler.ListenForMessages(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown failed", zap.Error(err))
		}
	}
	log.Info("Bid coordinator stopped")
}

func openStores(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.NewBidStore()
		return &stores{
			auctionStore: store,
			seed: func(_ context.Context, a *domain.Auction) error {
				return store.AddAuction(a)
			},
			cleanup: func() {},
		}, nil

	case config.DriverPostgres:
		if err := migrations.RunMigrations(cfg.DB.PostgresDSN()); err != nil {
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		pool, err := db.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		auctions := postgres.NewAuctionRepository(pool)
		return &stores{
			auctionStore: struct {
				*postgres.AuctionRepository
				*postgres.BidStore
			}{auctions, postgres.NewBidStore(pool)},
			seed:    auctions.Create,
			cleanup: pool.Close,
		}, nil

	case config.DriverRedis:
		if redisClient == nil {
			return nil, errors.New("redis store selected without a redis client")
		}
		store := redisstore.NewBidStore(redisClient, redisstore.WithKeyPrefix(cfg.Redis.KeyPrefix))
		return &stores{
			auctionStore: store,
			seed:         store.PutAuction,
			cleanup:      func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
