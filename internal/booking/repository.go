package booking

import (
	"context"
	"database/sql"
	"time"

	"maison-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FetchBookedTimes(ctx context.Context, date time.Time, loc *time.Location) (map[string]struct{}, error)
	CreateBooking(ctx context.Context, params CreateBookingParams) (*Booking, error)
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	CancelBooking(ctx context.Context, id string, userID uint) error
	ConfirmByRef(ctx context.Context, bookingRef string) (int64, error)
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `
	id,
	booking_ref,
	user_id,
	service_id,
	booking_time,
	status,
	special_requests,
	created_at,
	updated_at
`

func scanBooking(row interface{ Scan(dest ...any) error }) (*Booking, error) {
	b := &Booking{}
	err := row.Scan(
		&b.ID,
		&b.BookingRef,
		&b.UserID,
		&b.ServiceID,
		&b.BookingTime,
		&b.Status,
		&b.SpecialRequests,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FetchBookedTimes returns the display labels of every non-cancelled booking
// on the given business-local calendar day. An empty day is a valid result.
func (r *repository) FetchBookedTimes(
	ctx context.Context,
	date time.Time,
	loc *time.Location,
) (map[string]struct{}, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FetchBookedTimes"),
		zap.String("date", date.Format("2006-01-02")),
	)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.db.QueryContext(ctx, `
		SELECT booking_time
		FROM bookings
		WHERE booking_time >= $1
		  AND booking_time < $2
		  AND status != 'cancelled'
	`, dayStart, dayEnd)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	taken := map[string]struct{}{}
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		local := at.In(loc)
		taken[FormatTimeLabel(local.Hour(), local.Minute())] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("fetched booked times", zap.Int("count", len(taken)))

	return taken, nil
}

func (r *repository) CreateBooking(ctx context.Context, params CreateBookingParams) (*Booking, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateBooking"),
		zap.String("booking_ref", params.BookingRef),
		zap.String("service_id", params.ServiceID),
	)

	query := `
	INSERT INTO bookings (
		booking_ref,
		user_id,
		service_id,
		booking_time,
		status,
		special_requests
	)
	VALUES ($1, $2, $3, $4, 'pending', $5)
	RETURNING` + bookingColumns

	row := r.db.QueryRowContext(
		ctx,
		query,
		params.BookingRef,
		params.UserID,
		params.ServiceID,
		params.BookingTime,
		params.SpecialRequests,
	)

	b, err := scanBooking(row)
	if err != nil {
		log.Error("failed to create booking", zap.Error(err))
		return nil, err
	}

	log.Info("success create booking", zap.String("booking_id", b.ID))

	return b, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT` + bookingColumns + `FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (r *repository) CancelBooking(ctx context.Context, id string, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'cancelled',
		    updated_at = NOW()
		WHERE id = $1
		  AND user_id = $2
		  AND status IN ('pending', 'confirmed')
	`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ConfirmByRef flips every pending booking in a group to confirmed. The
// deposit covers the batch, so the whole group confirms together.
func (r *repository) ConfirmByRef(ctx context.Context, bookingRef string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'confirmed',
		    updated_at = NOW()
		WHERE booking_ref = $1
		  AND status = 'pending'
	`, bookingRef)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *repository) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'cancelled',
		    updated_at = NOW()
		WHERE status = 'pending'
		  AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
