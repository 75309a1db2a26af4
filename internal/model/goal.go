package model

import "math"

// Goal categories, shared with skills.
const (
	CategoryTechnical  = "technical"
	CategoryEducation  = "education"
	CategoryLeadership = "leadership"
	CategoryNetwork    = "network"
	CategoryOther      = "other"
)

// Milestone status values as stored in the database.
const (
	MilestoneCompleted = "completed"
	MilestonePending   = "pending"
)

type MilestonePayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type GoalPayload struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Category    string             `json:"category"`
	TargetDate  string             `json:"targetDate"`
	Description string             `json:"description"`
	Progress    int                `json:"progress"`
	Milestones  []MilestonePayload `json:"milestones"`
	CreatedAt   string             `json:"createdAt"`
}

// GoalProgress derives a goal's progress percentage from its milestones.
// With no milestones the directly-set value is kept; otherwise progress
// is the rounded completion ratio and direct edits are overwritten.
func GoalProgress(milestones []MilestonePayload, direct int) int {
	if len(milestones) == 0 {
		return clampProgress(direct)
	}
	done := 0
	for _, m := range milestones {
		if m.Done {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(milestones)) * 100))
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
