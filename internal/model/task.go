package model

// Task priority values accepted from the client.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Task status values in client spelling. The database stores
// "in_progress"; see TaskStatusToDB / TaskStatusToClient.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"
	TaskStatusArchived   = "archived"
)

type TaskPayload struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	EstimatedHours float64 `json:"estimatedHours"`
	ActualHours    float64 `json:"actualHours"`
	Deadline       string  `json:"deadline"`
	Week           string  `json:"week"`
	CreatedAt      string  `json:"createdAt"`
}
