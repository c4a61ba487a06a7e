package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/skyfare/skyfare/config"
	"github.com/skyfare/skyfare/internal/bootstrap"
	"github.com/skyfare/skyfare/internal/cache"
	"github.com/skyfare/skyfare/internal/gateway"
	"github.com/skyfare/skyfare/internal/kafka"
	"github.com/skyfare/skyfare/internal/repository"
	"github.com/skyfare/skyfare/internal/service/booking"
	"github.com/skyfare/skyfare/internal/service/flights"
	"github.com/skyfare/skyfare/internal/service/passengers"
)

func main() {
	_ = godotenv.Load()

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

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := bootstrap.WaitForDB(ctx, pool, 30*time.Second); err != nil {
		log.Fatalf("wait for postgres: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.CacheTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		passengerRepo,
		flightRepo,
		redisCache,
		gateway.New(cfg.Gateway),
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	flightService := flights.NewFlightService(flightRepo, bookingRepo, redisCache)
	passengerService := passengers.NewPassengerService(passengerRepo)

	router := bootstrap.NewRouter(bookingService, flightService, passengerService)

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
