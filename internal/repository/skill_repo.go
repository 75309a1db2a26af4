package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
)

type SkillRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSkillRepository(db *pgxpool.Pool, logger *zap.Logger) *SkillRepository {
	return &SkillRepository{db: db, logger: logger}
}

// UpsertAll writes skills and their latest-assessment slots in one
// transaction. Skills are keyed by (user_id, name): re-submitting a
// known name under a fresh client id updates the existing row. Each
// skill keeps a single assessment row keyed '<skill_id>-latest'; no
// rating history is retained.
func (r *SkillRepository) UpsertAll(ctx context.Context, userID string, skills []model.SkillPayload) error {
	r.logger.Debug("Upserting skills",
		zap.String("user_id", userID),
		zap.Int("count", len(skills)),
	)
	skillQuery := `
        INSERT INTO skills (id, user_id, name, category, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, name) DO UPDATE SET
            category = EXCLUDED.category
        RETURNING id
    `
	assessmentQuery := `
        INSERT INTO skill_assessments (id, skill_id, rating, assessed_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET
            rating = EXCLUDED.rating,
            assessed_at = EXCLUDED.assessed_at
    `
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, s := range skills {
			name := strings.TrimSpace(s.Name)
			if name == "" {
				continue
			}
			var skillID string
			if err := tx.QueryRow(ctx, skillQuery,
				s.ID, userID, name, s.Category, timeOrNow(s.AssessedAt),
			).Scan(&skillID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, assessmentQuery,
				skillID+"-latest", skillID, s.Rating, timeOrNow(s.AssessedAt),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to upsert skills",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return err
	}
	return nil
}

func (r *SkillRepository) ListByUser(ctx context.Context, userID string) ([]model.SkillPayload, error) {
	query := `
        SELECT s.id, s.name, s.category, a.rating, a.assessed_at
        FROM skills s
        LEFT JOIN skill_assessments a ON a.id = s.id || '-latest'
        WHERE s.user_id = $1
        ORDER BY s.created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query skills",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	skills := []model.SkillPayload{}
	for rows.Next() {
		var (
			s          model.SkillPayload
			rating     *int
			assessedAt *time.Time
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &rating, &assessedAt); err != nil {
			return nil, err
		}
		// Missing assessment slot falls back to a neutral rating.
		s.Rating = 3
		if rating != nil {
			s.Rating = *rating
		}
		if assessedAt != nil {
			s.AssessedAt = assessedAt.UTC().Format(time.RFC3339)
		} else {
			s.AssessedAt = time.Now().UTC().Format(time.RFC3339)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skills, nil
}
