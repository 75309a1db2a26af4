package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatusRoundTrip(t *testing.T) {
	tests := []struct {
		client string
		db     string
	}{
		{"todo", "todo"},
		{"in-progress", "in_progress"},
		{"done", "done"},
		{"archived", "archived"},
	}
	for _, tt := range tests {
		t.Run(tt.client, func(t *testing.T) {
			assert.Equal(t, tt.db, TaskStatusToDB(tt.client))
			assert.Equal(t, tt.client, TaskStatusToClient(tt.db))
		})
	}
}

func TestAppStatusRoundTrip(t *testing.T) {
	tests := []struct {
		client string
		db     string
	}{
		{"saved", "saved"},
		{"phone-screen", "phone_screen"},
		{"interview", "interview"},
		{"withdrawn", "withdrawn"},
	}
	for _, tt := range tests {
		t.Run(tt.client, func(t *testing.T) {
			assert.Equal(t, tt.db, AppStatusToDB(tt.client))
			assert.Equal(t, tt.client, AppStatusToClient(tt.db))
		})
	}
}

func TestGoalProgress(t *testing.T) {
	milestones := func(done, pending int) []MilestonePayload {
		var ms []MilestonePayload
		for i := 0; i < done; i++ {
			ms = append(ms, MilestonePayload{ID: NewID(), Done: true})
		}
		for i := 0; i < pending; i++ {
			ms = append(ms, MilestonePayload{ID: NewID()})
		}
		return ms
	}

	tests := []struct {
		name       string
		milestones []MilestonePayload
		direct     int
		want       int
	}{
		{"no milestones keeps direct value", nil, 42, 42},
		{"no milestones clamps high", nil, 150, 100},
		{"no milestones clamps low", nil, -5, 0},
		{"two of three done rounds to 67", milestones(2, 1), 10, 67},
		{"one of three done rounds to 33", milestones(1, 2), 0, 33},
		{"all done", milestones(4, 0), 0, 100},
		{"none done", milestones(0, 5), 80, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GoalProgress(tt.milestones, tt.direct))
		})
	}
}

func TestDayString(t *testing.T) {
	assert.Equal(t, "", DayString(nil))

	zero := time.Time{}
	assert.Equal(t, "", DayString(&zero))

	d := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	assert.Equal(t, "2025-03-14", DayString(&d))
}

func TestParseDateMaybe(t *testing.T) {
	assert.Nil(t, ParseDateMaybe(""))
	assert.Nil(t, ParseDateMaybe("not a date"))

	got := ParseDateMaybe("2025-03-14")
	require.NotNil(t, got)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.March, got.Month())

	got = ParseDateMaybe("2025-03-14T12:30:00Z")
	require.NotNil(t, got)
	assert.Equal(t, 12, got.Hour())
}

func TestWorkloadPercent(t *testing.T) {
	assert.Equal(t, float64(0), WorkloadPercent(20, 0))
	assert.Equal(t, float64(0), WorkloadPercent(20, -5))
	assert.Equal(t, float64(50), WorkloadPercent(20, 40))
	assert.Equal(t, float64(125), WorkloadPercent(50, 40))
}

func TestNewID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
