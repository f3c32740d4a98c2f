package usermodule

import (
	"time"

	"github.com/streamvault/streamvault/internal/database"
)

// DemoUsers returns the subscriber accounts the demo deployment ships with.
func DemoUsers() []database.User {
	return []database.User{
		{
			ID:        "1",
			Name:      "John Doe",
			Email:     "john@example.com",
			Status:    database.UserStatusActive,
			Plan:      database.UserPlanPremium,
			CreatedAt: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			LastLogin: time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "2",
			Name:      "Jane Smith",
			Email:     "jane@example.com",
			Status:    database.UserStatusActive,
			Plan:      database.UserPlanStandard,
			CreatedAt: time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC),
			LastLogin: time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "3",
			Name:      "Mike Johnson",
			Email:     "mike@example.com",
			Status:    database.UserStatusSuspended,
			Plan:      database.UserPlanBasic,
			CreatedAt: time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC),
			LastLogin: time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "4",
			Name:      "Sara Williams",
			Email:     "sara@example.com",
			Status:    database.UserStatusPending,
			Plan:      database.UserPlanPremium,
			CreatedAt: time.Date(2023, 5, 25, 0, 0, 0, 0, time.UTC),
			LastLogin: time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC),
		},
	}
}
