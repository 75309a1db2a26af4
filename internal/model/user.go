package model

import "time"

type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	FullName            string
	Timezone            string
	WeeklyCapacityHours float64
	CreatedAt           time.Time
}
