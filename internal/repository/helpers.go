package repository

import (
	"time"

	"github.com/TanuSree02/prodex/internal/model"
)

// textOrNil maps empty strings to NULL, matching how optional text
// fields are stored.
func textOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func textOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrNow(value string) time.Time {
	if t := model.ParseDateMaybe(value); t != nil {
		return *t
	}
	return time.Now()
}
