// internal/profile/models.go

package profile

import (
	"time"

	"github.com/lib/pq"
)

// Experience levels recognized on runner profiles
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelElite        = "elite"
)

// Profile represents a runner's profile. This package is a read-only
// collaborator: profiles are created and edited by the account service.
type Profile struct {
	ID                int64          `json:"id" db:"id"`
	FirstName         string         `json:"first_name" db:"first_name"`
	LastName          string         `json:"last_name" db:"last_name"`
	ProfileImageURL   *string        `json:"profile_image_url,omitempty" db:"profile_image_url"`
	Location          *string        `json:"location,omitempty" db:"location"`
	DateOfBirth       *time.Time     `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender            *string        `json:"gender,omitempty" db:"gender"`
	ExperienceLevel   *string        `json:"experience_level,omitempty" db:"experience_level"`
	PreferredDistance *string        `json:"preferred_distance,omitempty" db:"preferred_distance"`
	Pace              *string        `json:"pace,omitempty" db:"pace"`
	Goals             pq.StringArray `json:"goals" db:"goals"`
	AvailableDays     pq.StringArray `json:"available_days" db:"available_days"`
	PreferredTime     *string        `json:"preferred_time,omitempty" db:"preferred_time"`
	Bio               *string        `json:"bio,omitempty" db:"bio"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// LocationOrEmpty returns the free-text location, or "" when unset
func (p *Profile) LocationOrEmpty() string {
	if p.Location == nil {
		return ""
	}
	return *p.Location
}

// Summary is the public subset of a profile exposed to other actors
type Summary struct {
	ID              int64   `json:"id" db:"id"`
	FirstName       string  `json:"first_name" db:"first_name"`
	LastName        string  `json:"last_name" db:"last_name"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" db:"profile_image_url"`
	Location        *string `json:"location,omitempty" db:"location"`
	ExperienceLevel *string `json:"experience_level,omitempty" db:"experience_level"`
}
