package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
)

type ApplicationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewApplicationRepository(db *pgxpool.Pool, logger *zap.Logger) *ApplicationRepository {
	return &ApplicationRepository{db: db, logger: logger}
}

func (r *ApplicationRepository) UpsertAll(ctx context.Context, userID string, apps []model.ApplicationPayload) error {
	r.logger.Debug("Upserting applications",
		zap.String("user_id", userID),
		zap.Int("count", len(apps)),
	)
	query := `
        INSERT INTO job_applications (id, user_id, company_name, role_title, status,
                                      applied_date, job_url, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE SET
            company_name = EXCLUDED.company_name,
            role_title = EXCLUDED.role_title,
            status = EXCLUDED.status,
            applied_date = EXCLUDED.applied_date,
            job_url = EXCLUDED.job_url,
            notes = EXCLUDED.notes
    `
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, a := range apps {
			if _, err := tx.Exec(ctx, query,
				a.ID,
				userID,
				a.Company,
				a.Role,
				model.AppStatusToDB(a.Status),
				model.ParseDateMaybe(a.DateApplied),
				textOrNil(a.JobURL),
				textOrNil(a.Notes),
				timeOrNow(a.CreatedAt),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to upsert applications",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return err
	}
	return nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]model.ApplicationPayload, error) {
	query := `
        SELECT id, company_name, role_title, status, applied_date, job_url, notes, created_at
        FROM job_applications
        WHERE user_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query applications",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	apps := []model.ApplicationPayload{}
	for rows.Next() {
		var (
			a           model.ApplicationPayload
			appliedDate *time.Time
			jobURL      *string
			notes       *string
			createdAt   time.Time
		)
		if err := rows.Scan(
			&a.ID,
			&a.Company,
			&a.Role,
			&a.Status,
			&appliedDate,
			&jobURL,
			&notes,
			&createdAt,
		); err != nil {
			return nil, err
		}
		a.Status = model.AppStatusToClient(a.Status)
		a.DateApplied = model.DayString(appliedDate)
		a.JobURL = textOrEmpty(jobURL)
		a.Notes = textOrEmpty(notes)
		a.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}
