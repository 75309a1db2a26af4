package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// UpsertAll writes every task in one transaction. Either all tasks in
// the payload land or none do.
func (r *TaskRepository) UpsertAll(ctx context.Context, userID string, tasks []model.TaskPayload) error {
	r.logger.Debug("Upserting tasks",
		zap.String("user_id", userID),
		zap.Int("count", len(tasks)),
	)
	query := `
        INSERT INTO tasks (id, user_id, title, description, priority, status,
                           estimated_hours, actual_hours, deadline, week_start, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (id) DO UPDATE SET
            title = EXCLUDED.title,
            description = EXCLUDED.description,
            priority = EXCLUDED.priority,
            status = EXCLUDED.status,
            estimated_hours = EXCLUDED.estimated_hours,
            actual_hours = EXCLUDED.actual_hours,
            deadline = EXCLUDED.deadline,
            week_start = EXCLUDED.week_start
    `
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, t := range tasks {
			if _, err := tx.Exec(ctx, query,
				t.ID,
				userID,
				t.Title,
				textOrNil(t.Description),
				t.Priority,
				model.TaskStatusToDB(t.Status),
				t.EstimatedHours,
				t.ActualHours,
				model.ParseDateMaybe(t.Deadline),
				model.ParseDateMaybe(t.Week),
				timeOrNow(t.CreatedAt),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to upsert tasks",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return err
	}
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.TaskPayload, error) {
	query := `
        SELECT id, title, description, priority, status,
               estimated_hours, actual_hours, deadline, week_start, created_at
        FROM tasks
        WHERE user_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.TaskPayload{}
	for rows.Next() {
		var (
			t           model.TaskPayload
			description *string
			deadline    *time.Time
			weekStart   *time.Time
			createdAt   time.Time
		)
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&description,
			&t.Priority,
			&t.Status,
			&t.EstimatedHours,
			&t.ActualHours,
			&deadline,
			&weekStart,
			&createdAt,
		); err != nil {
			return nil, err
		}
		t.Description = textOrEmpty(description)
		t.Status = model.TaskStatusToClient(t.Status)
		t.Deadline = model.DayString(deadline)
		t.Week = model.DayString(weekStart)
		t.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
