package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/skyfare/internal/domain"
)

type PassengerRepository interface {
	Create(ctx context.Context, passenger *domain.Passenger) error
	List(ctx context.Context) ([]domain.Passenger, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Passenger, error)
	GetByEmail(ctx context.Context, email string) (*domain.Passenger, error)
	// Update touches the mutable contact fields only; identity is fixed at
	// creation.
	Update(ctx context.Context, passenger *domain.Passenger) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

const passengerColumns = `id, first_name, last_name, email, date_of_birth, created_at, updated_at`

func (r *PGPassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	if passenger.ID == uuid.Nil {
		passenger.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO passengers (id, first_name, last_name, email, date_of_birth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		passenger.ID, passenger.FirstName, passenger.LastName, passenger.Email, passenger.DateOfBirth).
		Scan(&passenger.CreatedAt, &passenger.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s already registered: %w", passenger.Email, domain.ErrConflict)
	}
	return err
}

func (r *PGPassengerRepository) List(ctx context.Context) ([]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, `SELECT `+passengerColumns+` FROM passengers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Passenger, error) {
	return r.get(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE id=$1`, id)
}

func (r *PGPassengerRepository) GetByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	return r.get(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE email=$1`, email)
}

func (r *PGPassengerRepository) get(ctx context.Context, query string, arg interface{}) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, query, arg)
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("passenger: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	row := r.db.QueryRow(ctx, `UPDATE passengers SET first_name=$1, last_name=$2, email=$3, date_of_birth=$4, updated_at=now() WHERE id=$5 RETURNING updated_at`,
		passenger.FirstName, passenger.LastName, passenger.Email, passenger.DateOfBirth, passenger.ID)
	if err := row.Scan(&passenger.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("passenger: %w", domain.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s already registered: %w", passenger.Email, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *PGPassengerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM passengers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("passenger: %w", domain.ErrNotFound)
	}
	return nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
