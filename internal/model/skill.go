package model

type SkillPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Rating     int    `json:"rating"`
	AssessedAt string `json:"assessedAt"`
}
