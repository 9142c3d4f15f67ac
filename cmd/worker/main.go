package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/mataju/config"
	"github.com/Domenick1991/mataju/internal/cache"
	"github.com/Domenick1991/mataju/internal/email"
	"github.com/Domenick1991/mataju/internal/kafka"
	"github.com/Domenick1991/mataju/internal/repository"
	"github.com/Domenick1991/mataju/internal/service/allocation"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Catalog.HousesCacheTTLSeconds)*time.Second,
		time.Duration(cfg.Catalog.UnitsCacheTTLSeconds)*time.Second,
	)

	houseRepo := repository.NewHouseRepository(pool)
	unitRepo := repository.NewUnitRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	staleTicker := time.NewTicker(time.Duration(cfg.Worker.StaleSweepMinutes) * time.Minute)
	defer staleTicker.Stop()

	staleAfter := time.Duration(cfg.Worker.StaleAfterDays) * 24 * time.Hour

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-staleTicker.C:
			// Bookings stay pending until an admin decides; the sweep
			// only surfaces the backlog, it never auto-resolves.
			stale, err := allocationService.ListStalePending(ctx, staleAfter)
			if err != nil {
				log.Printf("list stale bookings error: %v", err)
				continue
			}
			if len(stale) > 0 {
				log.Printf("WARNING: %d bookings pending longer than %d days", len(stale), cfg.Worker.StaleAfterDays)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
