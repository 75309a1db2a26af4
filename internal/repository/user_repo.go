package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/auth"
	"github.com/TanuSree02/prodex/internal/model"
)

// DemoEmail identifies the single bootstrap user every sync operates on.
// Real account management is a placeholder in this version.
const (
	DemoEmail    = "demo@prodex.io"
	demoPassword = "Prodex@123"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `
        SELECT id, email, password_hash, full_name, timezone, weekly_capacity_hours, created_at
        FROM users
        WHERE id = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Timezone,
		&u.WeeklyCapacityHours,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT id, email, password_hash, full_name, timezone, weekly_capacity_hours, created_at
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Timezone,
		&u.WeeklyCapacityHours,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureDemoUser returns the demo user, creating it on first access.
func (r *UserRepository) EnsureDemoUser(ctx context.Context) (*model.User, error) {
	existing, err := r.FindByEmail(ctx, DemoEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to look up demo user", zap.Error(err))
		return nil, err
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:                  uuid.NewString(),
		Email:               DemoEmail,
		PasswordHash:        hash,
		FullName:            "Demo User",
		Timezone:            "UTC",
		WeeklyCapacityHours: 40,
	}

	query := `
        INSERT INTO users (id, email, password_hash, full_name, timezone, weekly_capacity_hours)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `
	if err := r.db.QueryRow(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Timezone, u.WeeklyCapacityHours,
	).Scan(&u.CreatedAt); err != nil {
		r.logger.Error("Failed to create demo user", zap.Error(err))
		return nil, err
	}

	r.logger.Info("Demo user created", zap.String("user_id", u.ID))
	return u, nil
}

// UpdateSettings persists the profile/capacity fields of a sync payload.
// Blank name/timezone and non-positive capacity keep or reset to the
// current defaults rather than overwriting with empty values.
func (r *UserRepository) UpdateSettings(ctx context.Context, userID string, s model.SettingsPayload) error {
	query := `
        UPDATE users SET
            full_name = CASE WHEN $2 = '' THEN full_name ELSE $2 END,
            timezone = CASE WHEN $3 = '' THEN timezone ELSE $3 END,
            weekly_capacity_hours = CASE WHEN $4 <= 0 THEN 40 ELSE $4 END
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, userID, s.FullName, s.Timezone, s.WeeklyCapacity)
	if err != nil {
		r.logger.Error("Failed to update user settings",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return err
	}
	return nil
}
