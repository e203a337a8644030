// internal/matching/dto.go

package matching

// DTOs for API requests/responses

type UpdatePreferencesDTO struct {
	MaxDistanceKm       *int     `json:"max_distance_km,omitempty" validate:"omitempty,min=1,max=500"`
	AgeRangeMin         *int     `json:"age_range_min,omitempty" validate:"omitempty,min=13,max=120"`
	AgeRangeMax         *int     `json:"age_range_max,omitempty" validate:"omitempty,min=13,max=120"`
	PaceFlexibility     *string  `json:"pace_flexibility,omitempty" validate:"omitempty,oneof=strict moderate flexible"`
	ExperienceLevels    []string `json:"experience_levels,omitempty" validate:"omitempty,dive,oneof=any beginner intermediate advanced elite"`
	GenderPreference    *string  `json:"gender_preference,omitempty" validate:"omitempty,max=30"`
	CommunicationStyle  *string  `json:"communication_style,omitempty" validate:"omitempty,max=50"`
	GoalAlignment       *bool    `json:"goal_alignment,omitempty"`
	ScheduleFlexibility *string  `json:"schedule_flexibility,omitempty" validate:"omitempty,oneof=strict moderate flexible"`
	Active              *bool    `json:"active,omitempty"`
}

type SendBuddyRequestDTO struct {
	RecipientID int64 `json:"recipient_id" validate:"required,min=1"`
}

type RespondBuddyRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}
