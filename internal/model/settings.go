package model

type SettingsPayload struct {
	FullName                string  `json:"fullName"`
	Email                   string  `json:"email"`
	Timezone                string  `json:"timezone"`
	WeeklyCapacity          float64 `json:"weeklyCapacity"`
	ShowOverloadWarnings    bool    `json:"showOverloadWarnings"`
	EnableDeadlineReminders bool    `json:"enableDeadlineReminders"`
}

// DefaultSettings is what a client starts with before hydration and
// what the server falls back to for a snapshot without a user row.
func DefaultSettings() SettingsPayload {
	return SettingsPayload{
		Timezone:                "UTC",
		WeeklyCapacity:          40,
		ShowOverloadWarnings:    true,
		EnableDeadlineReminders: true,
	}
}

// WorkloadPercent computes scheduled hours as a percentage of weekly
// capacity. Zero or negative capacity yields 0, never a division by zero.
func WorkloadPercent(scheduledHours, weeklyCapacity float64) float64 {
	if weeklyCapacity <= 0 {
		return 0
	}
	return scheduledHours / weeklyCapacity * 100
}
