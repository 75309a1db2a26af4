// Package sync implements the server side of the Prodex data
// synchronization protocol: upsert-based writes per entity group and
// the denormalized read snapshot.
package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
	"github.com/TanuSree02/prodex/pkg/metrics"
)

type UserStore interface {
	EnsureDemoUser(ctx context.Context) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateSettings(ctx context.Context, userID string, s model.SettingsPayload) error
}

type TaskStore interface {
	UpsertAll(ctx context.Context, userID string, tasks []model.TaskPayload) error
	ListByUser(ctx context.Context, userID string) ([]model.TaskPayload, error)
}

type GoalStore interface {
	UpsertAll(ctx context.Context, userID string, goals []model.GoalPayload) error
	ListByUser(ctx context.Context, userID string) ([]model.GoalPayload, error)
}

type ApplicationStore interface {
	UpsertAll(ctx context.Context, userID string, apps []model.ApplicationPayload) error
	ListByUser(ctx context.Context, userID string) ([]model.ApplicationPayload, error)
}

type SkillStore interface {
	UpsertAll(ctx context.Context, userID string, skills []model.SkillPayload) error
	ListByUser(ctx context.Context, userID string) ([]model.SkillPayload, error)
}

type Service struct {
	users        UserStore
	tasks        TaskStore
	goals        GoalStore
	applications ApplicationStore
	skills       SkillStore
	logger       *zap.Logger
}

func NewService(users UserStore, tasks TaskStore, goals GoalStore, applications ApplicationStore, skills SkillStore, logger *zap.Logger) *Service {
	return &Service{
		users:        users,
		tasks:        tasks,
		goals:        goals,
		applications: applications,
		skills:       skills,
		logger:       logger,
	}
}

// EnsureUser returns the backing user for all sync operations, creating
// it on first access.
func (s *Service) EnsureUser(ctx context.Context) (*model.User, error) {
	return s.users.EnsureDemoUser(ctx)
}

// Snapshot assembles the denormalized read of all five collections.
// The settings block deliberately returns blank fullName/email: profile
// fields are not round-tripped through this path, only timezone and
// capacity are authoritative here.
func (s *Service) Snapshot(ctx context.Context, userID string) (*model.Snapshot, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	applications, err := s.applications.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	skills, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := model.DefaultSettings()
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		settings.Timezone = user.Timezone
		settings.WeeklyCapacity = user.WeeklyCapacityHours
	}

	return &model.Snapshot{
		Tasks:        tasks,
		Goals:        goals,
		Applications: applications,
		Skills:       skills,
		Settings:     settings,
	}, nil
}

// SyncTasks upserts the pushed tasks in a single all-or-nothing
// transaction and returns the refreshed task collection.
func (s *Service) SyncTasks(ctx context.Context, userID string, tasks []model.TaskPayload) ([]model.TaskPayload, error) {
	if err := s.tasks.UpsertAll(ctx, userID, tasks); err != nil {
		metrics.RecordSyncRequest("tasks", "failed")
		return nil, err
	}
	metrics.RecordSyncRequest("tasks", "success")
	return s.tasks.ListByUser(ctx, userID)
}

// FullSync persists a multi-group push. The settings update must
// succeed; after that each entity group is written in its own
// transaction and a failure is reduced to the group's name in the
// returned warnings list so one broken group never blocks the rest.
func (s *Service) FullSync(ctx context.Context, userID string, payload model.SyncRequest) (*model.Snapshot, []string, error) {
	if err := s.users.UpdateSettings(ctx, userID, *payload.Settings); err != nil {
		return nil, nil, err
	}

	warnings := []string{}

	if payload.Tasks != nil {
		if err := s.tasks.UpsertAll(ctx, userID, payload.Tasks); err != nil {
			s.logger.Error("Task sync failed", zap.Error(err), zap.String("user_id", userID))
			metrics.RecordSyncGroupFailure(model.GroupTasks)
			warnings = append(warnings, model.GroupTasks)
		}
	}

	goals := make([]model.GoalPayload, len(payload.Goals))
	for i, g := range payload.Goals {
		g.Progress = model.GoalProgress(g.Milestones, g.Progress)
		goals[i] = g
	}
	if err := s.goals.UpsertAll(ctx, userID, goals); err != nil {
		s.logger.Error("Goal sync failed", zap.Error(err), zap.String("user_id", userID))
		metrics.RecordSyncGroupFailure(model.GroupGoals)
		warnings = append(warnings, model.GroupGoals)
	}

	if err := s.applications.UpsertAll(ctx, userID, payload.Applications); err != nil {
		s.logger.Error("Application sync failed", zap.Error(err), zap.String("user_id", userID))
		metrics.RecordSyncGroupFailure(model.GroupApplications)
		warnings = append(warnings, model.GroupApplications)
	}

	if err := s.skills.UpsertAll(ctx, userID, payload.Skills); err != nil {
		s.logger.Error("Skill sync failed", zap.Error(err), zap.String("user_id", userID))
		metrics.RecordSyncGroupFailure(model.GroupSkills)
		warnings = append(warnings, model.GroupSkills)
	}

	if len(warnings) == 0 {
		metrics.RecordSyncRequest("full", "success")
	} else {
		metrics.RecordSyncRequest("full", "failed")
	}

	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, warnings, nil
}
