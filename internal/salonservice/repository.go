package salonservice

import (
	"context"
	"database/sql"
	"errors"

	"maison-be/internal/logger"

	"go.uber.org/zap"
)

var ErrServiceNotFound = errors.New("salon service not found")

type Repository interface {
	GetByID(ctx context.Context, serviceID string) (*SalonService, error)
	GetActive(ctx context.Context) ([]*SalonService, error)
	Create(ctx context.Context, svc *SalonService) (*SalonService, error)
	SetActive(ctx context.Context, serviceID string, active bool) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, serviceID string) (*SalonService, error) {
	var s SalonService
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, duration_minutes, active, description
		FROM services
		WHERE id = $1
	`, serviceID).Scan(&s.ID, &s.Name, &s.Price, &s.DurationMinutes, &s.Active, &s.Description)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetActive(ctx context.Context) ([]*SalonService, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetActive"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, duration_minutes, active, description
		FROM services
		WHERE active = TRUE
		ORDER BY name ASC
	`)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	services := []*SalonService{}
	for rows.Next() {
		var s SalonService
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.DurationMinutes, &s.Active, &s.Description); err != nil {
			return nil, err
		}
		services = append(services, &s)
	}

	return services, rows.Err()
}

func (r *repository) Create(ctx context.Context, svc *SalonService) (*SalonService, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO services (name, price, duration_minutes, active, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, svc.Name, svc.Price, svc.DurationMinutes, svc.Active, svc.Description).Scan(&svc.ID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create service", zap.Error(err))
		return nil, err
	}

	return svc, nil
}

func (r *repository) SetActive(ctx context.Context, serviceID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE services SET active = $1 WHERE id = $2`,
		active, serviceID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrServiceNotFound
	}

	return nil
}
