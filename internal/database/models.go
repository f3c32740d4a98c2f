package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is an ordered list of strings stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// UserStatus enum for users.status
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusPending   UserStatus = "pending"
)

// Valid reports whether s is a known status
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusPending:
		return true
	}
	return false
}

// UserPlan enum for users.plan
type UserPlan string

const (
	UserPlanBasic    UserPlan = "basic"
	UserPlanStandard UserPlan = "standard"
	UserPlanPremium  UserPlan = "premium"
)

// Valid reports whether p is a known plan
func (p UserPlan) Valid() bool {
	switch p {
	case UserPlanBasic, UserPlanStandard, UserPlanPremium:
		return true
	}
	return false
}

// Movie represents a title in the streaming catalog
type Movie struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	ThumbnailURL string     `gorm:"not null" json:"thumbnailUrl"`
	CoverURL     string     `json:"coverUrl"`
	Year         int        `json:"year"`
	Duration     string     `json:"duration"` // display string, e.g. "2h 28m"
	Genres       StringList `gorm:"type:text" json:"genre"`
	Rating       string     `json:"rating"` // display string, e.g. "PG-13"
	IsFeatured   bool       `json:"isFeatured,omitempty"`
	TrailerURL   string     `json:"trailerUrl,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a time-ordered UUID so IDs created in sequence sort
// by creation time.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		id, err := uuid.NewUUID()
		if err != nil {
			return err
		}
		m.ID = id.String()
	}
	return nil
}

// User represents a managed subscriber account, distinct from the admin
// session identity.
type User struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"not null;uniqueIndex" json:"email"`
	Status    UserStatus `gorm:"type:text;not null" json:"status"`
	Plan      UserPlan   `gorm:"type:text;not null" json:"plan"`
	CreatedAt time.Time  `json:"createdAt"` // set once at creation, immutable
	LastLogin time.Time  `json:"lastLogin"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a time-ordered UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		id, err := uuid.NewUUID()
		if err != nil {
			return err
		}
		u.ID = id.String()
	}
	return nil
}
