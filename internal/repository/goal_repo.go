package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
)

type GoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{db: db, logger: logger}
}

// UpsertAll writes goals and their milestones in one transaction.
// Milestone completion timestamps are set to now on the done transition
// and cleared otherwise; original completion times are not preserved
// across re-syncs.
func (r *GoalRepository) UpsertAll(ctx context.Context, userID string, goals []model.GoalPayload) error {
	r.logger.Debug("Upserting goals",
		zap.String("user_id", userID),
		zap.Int("count", len(goals)),
	)
	goalQuery := `
        INSERT INTO career_goals (id, user_id, title, description, category, target_date, progress_pct, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO UPDATE SET
            title = EXCLUDED.title,
            description = EXCLUDED.description,
            category = EXCLUDED.category,
            target_date = EXCLUDED.target_date,
            progress_pct = EXCLUDED.progress_pct
    `
	milestoneQuery := `
        INSERT INTO career_milestones (id, goal_id, title, status, completed_date)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            title = EXCLUDED.title,
            status = EXCLUDED.status,
            completed_date = EXCLUDED.completed_date
    `
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, g := range goals {
			if _, err := tx.Exec(ctx, goalQuery,
				g.ID,
				userID,
				g.Title,
				textOrNil(g.Description),
				g.Category,
				model.ParseDateMaybe(g.TargetDate),
				g.Progress,
				timeOrNow(g.CreatedAt),
			); err != nil {
				return err
			}
			for _, m := range g.Milestones {
				status := model.MilestonePending
				var completed *time.Time
				if m.Done {
					status = model.MilestoneCompleted
					now := time.Now()
					completed = &now
				}
				if _, err := tx.Exec(ctx, milestoneQuery,
					m.ID, g.ID, m.Title, status, completed,
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to upsert goals",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return err
	}
	return nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID string) ([]model.GoalPayload, error) {
	query := `
        SELECT id, title, description, category, target_date, progress_pct, created_at
        FROM career_goals
        WHERE user_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query goals",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	goals := []model.GoalPayload{}
	index := map[string]int{}
	for rows.Next() {
		var (
			g           model.GoalPayload
			description *string
			targetDate  *time.Time
			createdAt   time.Time
		)
		if err := rows.Scan(
			&g.ID,
			&g.Title,
			&description,
			&g.Category,
			&targetDate,
			&g.Progress,
			&createdAt,
		); err != nil {
			return nil, err
		}
		g.Description = textOrEmpty(description)
		g.TargetDate = model.DayString(targetDate)
		g.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		g.Milestones = []model.MilestonePayload{}
		index[g.ID] = len(goals)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	milestoneQuery := `
        SELECT m.id, m.goal_id, m.title, m.status
        FROM career_milestones m
        JOIN career_goals g ON g.id = m.goal_id
        WHERE g.user_id = $1
        ORDER BY m.created_at ASC
    `
	mrows, err := r.db.Query(ctx, milestoneQuery, userID)
	if err != nil {
		r.logger.Error("Failed to query milestones",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, err
	}
	defer mrows.Close()

	for mrows.Next() {
		var (
			m      model.MilestonePayload
			goalID string
			status string
		)
		if err := mrows.Scan(&m.ID, &goalID, &m.Title, &status); err != nil {
			return nil, err
		}
		m.Done = status == model.MilestoneCompleted
		if i, ok := index[goalID]; ok {
			goals[i].Milestones = append(goals[i].Milestones, m)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}
