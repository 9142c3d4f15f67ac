package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/mataju/api"
	"github.com/Domenick1991/mataju/config"
	"github.com/Domenick1991/mataju/internal/auth"
	"github.com/Domenick1991/mataju/internal/bootstrap"
	"github.com/Domenick1991/mataju/internal/cache"
	"github.com/Domenick1991/mataju/internal/kafka"
	"github.com/Domenick1991/mataju/internal/repository"
	"github.com/Domenick1991/mataju/internal/repository/memory"
	"github.com/Domenick1991/mataju/internal/seed"
	"github.com/Domenick1991/mataju/internal/service/allocation"
	"github.com/Domenick1991/mataju/internal/service/catalog"
	"github.com/Domenick1991/mataju/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		houseRepo   repository.HouseRepository
		unitRepo    repository.UnitRepository
		bookingRepo repository.BookingRepository
		userRepo    repository.UserRepository
	)
	switch cfg.Storage.Driver {
	case "memory":
		houseRepo = memory.NewHouseStore()
		unitRepo = memory.NewUnitStore()
		bookingRepo = memory.NewBookingStore()
		userRepo = memory.NewUserStore()
	default:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		houseRepo = repository.NewHouseRepository(pool)
		unitRepo = repository.NewUnitRepository(pool)
		bookingRepo = repository.NewBookingRepository(pool)
		userRepo = repository.NewUserRepository(pool)
	}

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Catalog.HousesCacheTTLSeconds)*time.Second,
		time.Duration(cfg.Catalog.UnitsCacheTTLSeconds)*time.Second,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tokens := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	catalogService := catalog.NewCatalogService(houseRepo, unitRepo, redisCache)
	userService := users.NewUserService(userRepo, tokens)
	allocationService := allocation.NewAllocationService(
		bookingRepo,
		unitRepo,
		houseRepo,
		userRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		allocation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	seeder := seed.NewSeeder(houseRepo, unitRepo, userRepo, cfg.Seed.Random)
	if cfg.Seed.Enabled {
		if err := seeder.Run(ctx); err != nil {
			log.Fatalf("seed data: %v", err)
		}
	}

	handlers := bootstrap.Handlers{
		Users:    api.NewUserHandler(userService),
		Houses:   api.NewHouseHandler(catalogService),
		Units:    api.NewUnitHandler(catalogService),
		Bookings: api.NewBookingHandler(allocationService),
		Admin:    api.NewAdminHandler(allocationService, seeder),
		Tokens:   tokens,
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
