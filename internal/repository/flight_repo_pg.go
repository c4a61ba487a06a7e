package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/skyfare/internal/domain"
)

// FlightFilter narrows and orders the flight listing. Ordering accepts
// departure_time, price, -departure_time and -price; anything else falls
// back to departure_time.
type FlightFilter struct {
	Origin        string
	Destination   string
	DepartureDate *time.Time
	Ordering      string
}

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, origin, destination, departure_time, arrival_time, total_seats, price_cents, created_at, updated_at`

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO flights (id, flight_number, origin, destination, departure_time, arrival_time, total_seats, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		flight.ID, flight.FlightNumber, flight.Origin, flight.Destination, flight.DepartureTime, flight.ArrivalTime, flight.TotalSeats, flight.PriceCents).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("flight number %s already exists: %w", flight.FlightNumber, domain.ErrConflict)
	}
	return err
}

func (r *PGFlightRepository) List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights`
	var (
		conds []string
		args  []interface{}
	)
	if filter.Origin != "" {
		args = append(args, filter.Origin)
		conds = append(conds, fmt.Sprintf("LOWER(origin) = LOWER($%d)", len(args)))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		conds = append(conds, fmt.Sprintf("LOWER(destination) = LOWER($%d)", len(args)))
	}
	if filter.DepartureDate != nil {
		args = append(args, *filter.DepartureDate)
		conds = append(conds, fmt.Sprintf("departure_time::date = $%d::date", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY " + orderClause(filter.Ordering)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.TotalSeats, &f.PriceCents, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	return r.get(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	return r.get(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_number=$1`, number)
}

func (r *PGFlightRepository) get(ctx context.Context, query string, arg interface{}) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, query, arg)
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.TotalSeats, &f.PriceCents, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("flight: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &f, nil
}

// orderClause whitelists orderings so filter input never reaches SQL raw.
func orderClause(ordering string) string {
	switch ordering {
	case "price":
		return "price_cents"
	case "-price":
		return "price_cents DESC"
	case "-departure_time":
		return "departure_time DESC"
	default:
		return "departure_time"
	}
}

var _ FlightRepository = (*PGFlightRepository)(nil)
