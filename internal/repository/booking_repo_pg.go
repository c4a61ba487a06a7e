package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/skyfare/internal/domain"
)

// referenceAttempts bounds regeneration of a booking reference when the
// generated code collides with an existing one.
const referenceAttempts = 5

type BookingRepository interface {
	// CreatePending inserts the booking as PENDING. The flight row is
	// locked for the duration of the transaction so the capacity check and
	// the duplicate-active check cannot race with concurrent creates.
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*domain.BookingDetail, error)
	List(ctx context.Context) ([]domain.BookingDetail, error)
	// UpdateStatus transitions the booking under a row lock and returns the
	// updated booking together with the status it held before the change.
	// A no-op target returns the booking untouched; a terminal origin
	// returns domain.ErrInvalidTransition. A transition into CONFIRMED
	// re-checks flight capacity under the flight lock and returns
	// domain.ErrNoAvailability when the flight has filled.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus, externalRef string) (*domain.Booking, domain.BookingStatus, error)
	// CountConfirmed reports the confirmed-seat count for a flight.
	CountConfirmed(ctx context.Context, flightID uuid.UUID) (int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, passenger_id, flight_id, reference, status, seat_number, external_ref, created_at, updated_at`

func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the flight row: concurrent creates for the same flight serialize
	// here, so the capacity check below cannot be overtaken.
	var totalSeats int
	if err := tx.QueryRow(ctx, `SELECT total_seats FROM flights WHERE id=$1 FOR UPDATE`, booking.FlightID).Scan(&totalSeats); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("flight: %w", domain.ErrNotFound)
		}
		return err
	}

	var confirmed int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND status=$2`,
		booking.FlightID, domain.BookingStatusConfirmed).Scan(&confirmed); err != nil {
		return err
	}
	if confirmed >= totalSeats {
		return domain.ErrNoAvailability
	}

	var active int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND passenger_id=$2 AND status IN ($3, $4)`,
		booking.FlightID, booking.PassengerID, domain.BookingStatusPending, domain.BookingStatusConfirmed).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("passenger already has an active booking on this flight: %w", domain.ErrConflict)
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.Status = domain.BookingStatusPending

	// A reference collision aborts the INSERT with SQLSTATE 23505; the
	// savepoint lets the transaction survive the abort and retry with a
	// fresh code. The id is a fresh uuid, so 23505 here can only mean the
	// reference.
	for attempt := 0; ; attempt++ {
		booking.Reference = domain.NewReference()
		if _, err := tx.Exec(ctx, `SAVEPOINT insert_booking`); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, `INSERT INTO bookings (id, passenger_id, flight_id, reference, status, seat_number)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at, updated_at`,
			booking.ID, booking.PassengerID, booking.FlightID, booking.Reference, booking.Status, booking.SeatNumber).
			Scan(&booking.CreatedAt, &booking.UpdatedAt)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return err
		}
		if _, rbErr := tx.Exec(ctx, `ROLLBACK TO SAVEPOINT insert_booking`); rbErr != nil {
			return rbErr
		}
		if attempt+1 >= referenceAttempts {
			return fmt.Errorf("could not generate a unique booking reference after %d attempts", referenceAttempts)
		}
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}

const bookingDetailQuery = `SELECT b.id, b.passenger_id, b.flight_id, b.reference, b.status, b.seat_number, b.external_ref, b.created_at, b.updated_at,
		p.first_name, p.last_name, p.email, p.date_of_birth, p.created_at, p.updated_at,
		f.flight_number, f.origin, f.destination, f.departure_time, f.arrival_time, f.total_seats, f.price_cents, f.created_at, f.updated_at
	FROM bookings b
	JOIN passengers p ON p.id = b.passenger_id
	JOIN flights f ON f.id = b.flight_id`

func (r *PGBookingRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.BookingDetail, error) {
	row := r.db.QueryRow(ctx, bookingDetailQuery+` WHERE b.id=$1`, id)
	var d domain.BookingDetail
	if err := scanBookingDetail(row, &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.BookingDetail, error) {
	rows, err := r.db.Query(ctx, bookingDetailQuery+` ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]domain.BookingDetail, 0)
	for rows.Next() {
		var d domain.BookingDetail
		if err := scanBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus, externalRef string) (*domain.Booking, domain.BookingStatus, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback(ctx)

	// Row lock: concurrent cancel and confirm on the same booking
	// serialize here instead of losing one of the updates.
	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
	var current domain.Booking
	if err := scanBooking(row, &current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("booking: %w", domain.ErrNotFound)
		}
		return nil, "", err
	}

	prior := current.Status
	if prior == status {
		// Idempotent no-op: no write, no timestamp touch.
		return &current, prior, tx.Commit(ctx)
	}
	if prior.IsTerminal() {
		return nil, "", fmt.Errorf("cannot change status from %s: %w", prior, domain.ErrInvalidTransition)
	}

	// Confirming claims a seat, so the capacity check from CreatePending is
	// repeated here under the same flight lock. Without it two PENDING
	// bookings created for the last seat would both confirm.
	if status == domain.BookingStatusConfirmed {
		var totalSeats int
		if err := tx.QueryRow(ctx, `SELECT total_seats FROM flights WHERE id=$1 FOR UPDATE`, current.FlightID).Scan(&totalSeats); err != nil {
			return nil, "", err
		}
		var confirmed int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND status=$2`,
			current.FlightID, domain.BookingStatusConfirmed).Scan(&confirmed); err != nil {
			return nil, "", err
		}
		if confirmed >= totalSeats {
			return nil, "", domain.ErrNoAvailability
		}
	}

	row = tx.QueryRow(ctx, `UPDATE bookings SET status=$1, external_ref=COALESCE(NULLIF($2, ''), external_ref), updated_at=now() WHERE id=$3 RETURNING `+bookingColumns,
		status, externalRef, id)
	var updated domain.Booking
	if err := scanBooking(row, &updated); err != nil {
		return nil, "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}
	return &updated, prior, nil
}

func (r *PGBookingRepository) CountConfirmed(ctx context.Context, flightID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND status=$2`,
		flightID, domain.BookingStatusConfirmed).Scan(&count)
	return count, err
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.PassengerID, &b.FlightID, &b.Reference, &b.Status, &b.SeatNumber, &b.ExternalRef, &b.CreatedAt, &b.UpdatedAt)
}

func scanBookingDetail(row pgx.Row, d *domain.BookingDetail) error {
	err := row.Scan(&d.ID, &d.PassengerID, &d.FlightID, &d.Reference, &d.Status, &d.SeatNumber, &d.ExternalRef, &d.CreatedAt, &d.UpdatedAt,
		&d.Passenger.FirstName, &d.Passenger.LastName, &d.Passenger.Email, &d.Passenger.DateOfBirth, &d.Passenger.CreatedAt, &d.Passenger.UpdatedAt,
		&d.Flight.FlightNumber, &d.Flight.Origin, &d.Flight.Destination, &d.Flight.DepartureTime, &d.Flight.ArrivalTime, &d.Flight.TotalSeats, &d.Flight.PriceCents, &d.Flight.CreatedAt, &d.Flight.UpdatedAt)
	if err != nil {
		return err
	}
	d.Passenger.ID = d.PassengerID
	d.Flight.ID = d.FlightID
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ BookingRepository = (*PGBookingRepository)(nil)
