package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/skyfare/skyfare/config"
	"github.com/skyfare/skyfare/internal/bootstrap"
	"github.com/skyfare/skyfare/internal/domain"
	"github.com/skyfare/skyfare/internal/repository"
)

// Seeds a development database with a few passengers, flights and confirmed
// bookings. Safe to run repeatedly: existing records are reused.
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

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := bootstrap.WaitForDB(ctx, pool, 30*time.Second); err != nil {
		log.Fatalf("wait for postgres: %v", err)
	}

	if err := seed(ctx, pool); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed data in place")
}

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	passengerRepo := repository.NewPassengerRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	passengers := []domain.Passenger{
		{FirstName: "Alice", LastName: "Johnson", Email: "alice.johnson@example.com", DateOfBirth: date(1990, 5, 14)},
		{FirstName: "Bob", LastName: "Smith", Email: "bob.smith@example.com", DateOfBirth: date(1985, 11, 2)},
		{FirstName: "Carol", LastName: "Nguyen", Email: "carol.nguyen@example.com", DateOfBirth: date(1998, 3, 27)},
	}
	for i := range passengers {
		existing, err := passengerRepo.GetByEmail(ctx, passengers[i].Email)
		if err == nil {
			passengers[i] = *existing
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("lookup passenger %s: %w", passengers[i].Email, err)
		}
		if err := passengerRepo.Create(ctx, &passengers[i]); err != nil {
			return fmt.Errorf("create passenger %s: %w", passengers[i].Email, err)
		}
	}

	departure := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	flights := []domain.Flight{
		{FlightNumber: "SA101", Origin: "JFK", Destination: "LAX", DepartureTime: departure, ArrivalTime: departure.Add(6 * time.Hour), TotalSeats: 150, PriceCents: 19999},
		{FlightNumber: "SA202", Origin: "LAX", Destination: "ORD", DepartureTime: departure.Add(24 * time.Hour), ArrivalTime: departure.Add(28 * time.Hour), TotalSeats: 120, PriceCents: 14999},
		{FlightNumber: "SA303", Origin: "ORD", Destination: "JFK", DepartureTime: departure.Add(48 * time.Hour), ArrivalTime: departure.Add(50*time.Hour + 30*time.Minute), TotalSeats: 90, PriceCents: 12499},
	}
	for i := range flights {
		existing, err := flightRepo.GetByNumber(ctx, flights[i].FlightNumber)
		if err == nil {
			flights[i] = *existing
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("lookup flight %s: %w", flights[i].FlightNumber, err)
		}
		if err := flightRepo.Create(ctx, &flights[i]); err != nil {
			return fmt.Errorf("create flight %s: %w", flights[i].FlightNumber, err)
		}
	}

	pairs := []struct {
		passenger int
		flight    int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
	}
	for _, pair := range pairs {
		b := domain.Booking{
			PassengerID: passengers[pair.passenger].ID,
			FlightID:    flights[pair.flight].ID,
		}
		if err := bookingRepo.CreatePending(ctx, &b); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return fmt.Errorf("create booking for %s on %s: %w",
				passengers[pair.passenger].Email, flights[pair.flight].FlightNumber, err)
		}
		externalRef := fmt.Sprintf("EXT-%s-SEED", b.Reference)
		if _, _, err := bookingRepo.UpdateStatus(ctx, b.ID, domain.BookingStatusConfirmed, externalRef); err != nil {
			return fmt.Errorf("confirm booking %s: %w", b.Reference, err)
		}
	}

	return nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
