package user

import (
	"context"
	"database/sql"

	"maison-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, email, password, name, role string) (User, error)
	FindByEmail(email string) (User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email, password, name, role string) (User, error) {
	log := logger.FromCtx(ctx)

	var u User
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (email, password, name, role) VALUES ($1, $2, $3, $4) RETURNING id, email, password, name, role",
		email, password, name, role,
	).Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Role)

	if err != nil {
		log.Error("db: failed to insert user",
			zap.String("email", email),
			zap.Error(err),
		)
	}

	return u, err
}

func (r *repository) FindByEmail(email string) (User, error) {
	var u User
	err := r.db.QueryRow(
		"SELECT id, email, password, name, phone, role FROM users WHERE email=$1",
		email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &u.Role)

	return u, err
}
