package model

// Snapshot is the complete denormalized read of one user's collections,
// as served by GET /api/v1/data and POST /api/v1/sync.
type Snapshot struct {
	Tasks        []TaskPayload        `json:"tasks"`
	Goals        []GoalPayload        `json:"goals"`
	Applications []ApplicationPayload `json:"applications"`
	Skills       []SkillPayload       `json:"skills"`
	Settings     SettingsPayload      `json:"settings"`
}

// SyncRequest is the body of POST /api/v1/sync. Tasks is optional: a
// missing key decodes to nil and skips the task group entirely, while
// an explicit empty array still runs it (as the non-task client push
// does). Settings is required.
type SyncRequest struct {
	Tasks        []TaskPayload        `json:"tasks"`
	Goals        []GoalPayload        `json:"goals"`
	Applications []ApplicationPayload `json:"applications"`
	Skills       []SkillPayload       `json:"skills"`
	Settings     *SettingsPayload     `json:"settings"`
}

// SyncResponse carries the authoritative post-write snapshot plus the
// names of any entity groups whose transaction failed.
type SyncResponse struct {
	Data     Snapshot `json:"data"`
	Warnings []string `json:"warnings"`
}

// TasksSyncRequest is the body of POST /api/v1/tasks/sync.
type TasksSyncRequest struct {
	Tasks []TaskPayload `json:"tasks"`
}

type TasksSyncResponse struct {
	Data struct {
		Tasks []TaskPayload `json:"tasks"`
	} `json:"data"`
}

// Entity group names used for tombstone keys and sync warnings.
const (
	GroupTasks        = "tasks"
	GroupGoals        = "goals"
	GroupApplications = "applications"
	GroupSkills       = "skills"
)
