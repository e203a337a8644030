// internal/matching/models.go

package matching

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/profile"
)

// Buddy request lifecycle states. Accepted and declined are terminal.
// Blocked is terminal and reserved for a future moderation path; no API
// transition reaches it.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusBlocked  = "blocked"
)

// Pace categories, ordered easy to very_fast. Compatibility compares
// categories by ordinal distance.
const (
	PaceEasy     = "easy"
	PaceModerate = "moderate"
	PaceFast     = "fast"
	PaceVeryFast = "very_fast"
)

// paceOrdinal maps a pace category to its position on the effort scale
var paceOrdinal = map[string]int{
	PaceEasy:     0,
	PaceModerate: 1,
	PaceFast:     2,
	PaceVeryFast: 3,
}

// Pace flexibility modes
const (
	FlexStrict   = "strict"
	FlexModerate = "moderate"
	FlexFlexible = "flexible"
)

// distanceTier buckets race-distance preferences into three tiers;
// adjacent tiers are still considered compatible.
var distanceTier = map[string]int{
	"5k":            0,
	"fun_run":       0,
	"10k":           1,
	"15k":           1,
	"half_marathon": 2,
	"marathon":      2,
	"ultra":         2,
}

// wildcard is the legacy sentinel used on the wire and in storage.
// In memory the any-variant is carried explicitly by GenderChoice and
// LevelSet so the scorer never compares against this string.
const wildcard = "any"

// GenderChoice is a gender preference: either the any-variant or a
// specific value.
type GenderChoice struct {
	any   bool
	value string
}

// AnyGender returns the wildcard preference
func AnyGender() GenderChoice {
	return GenderChoice{any: true}
}

// SpecificGender returns a preference for one gender value
func SpecificGender(v string) GenderChoice {
	if v == "" || v == wildcard {
		return AnyGender()
	}
	return GenderChoice{value: v}
}

// IsAny reports whether the preference accepts every gender
func (g GenderChoice) IsAny() bool { return g.any }

// Matches reports whether the candidate's gender satisfies the preference
func (g GenderChoice) Matches(gender *string) bool {
	if g.any {
		return true
	}
	return gender != nil && *gender == g.value
}

func (g GenderChoice) String() string {
	if g.any {
		return wildcard
	}
	return g.value
}

// MarshalJSON encodes the preference as its wire string
func (g GenderChoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON decodes the wire string, treating "any" as the wildcard
func (g *GenderChoice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = SpecificGender(s)
	return nil
}

// Value implements driver.Valuer; the wildcard is stored as "any"
func (g GenderChoice) Value() (driver.Value, error) {
	return g.String(), nil
}

// Scan implements sql.Scanner
func (g *GenderChoice) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*g = AnyGender()
	case string:
		*g = SpecificGender(v)
	case []byte:
		*g = SpecificGender(string(v))
	default:
		return fmt.Errorf("cannot scan %T into GenderChoice", src)
	}
	return nil
}

// LevelSet is an experience-level preference: either the any-variant or
// an explicit set of accepted levels.
type LevelSet struct {
	any    bool
	levels []string
}

// AnyLevel returns the wildcard level set
func AnyLevel() LevelSet {
	return LevelSet{any: true}
}

// Levels returns a set accepting exactly the given levels. A "any" entry
// collapses the whole set to the wildcard.
func Levels(vs ...string) LevelSet {
	if len(vs) == 0 {
		return AnyLevel()
	}
	for _, v := range vs {
		if v == wildcard {
			return AnyLevel()
		}
	}
	out := make([]string, len(vs))
	copy(out, vs)
	return LevelSet{levels: out}
}

// IsAny reports whether every experience level is accepted
func (s LevelSet) IsAny() bool { return s.any }

// Contains reports whether the candidate's level satisfies the set
func (s LevelSet) Contains(level *string) bool {
	if s.any {
		return true
	}
	if level == nil {
		return false
	}
	for _, l := range s.levels {
		if l == *level {
			return true
		}
	}
	return false
}

// Slice returns the wire representation of the set
func (s LevelSet) Slice() []string {
	if s.any {
		return []string{wildcard}
	}
	out := make([]string, len(s.levels))
	copy(out, s.levels)
	return out
}

// MarshalJSON encodes the set as its wire slice
func (s LevelSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes the wire slice
func (s *LevelSet) UnmarshalJSON(data []byte) error {
	var vs []string
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	*s = Levels(vs...)
	return nil
}

// Value implements driver.Valuer; stored as a text array
func (s LevelSet) Value() (driver.Value, error) {
	return pq.StringArray(s.Slice()).Value()
}

// Scan implements sql.Scanner
func (s *LevelSet) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*s = Levels(arr...)
	return nil
}

// Preferences holds one actor's buddy-matching preferences. When an actor
// has never saved preferences the defaults from DefaultPreferences apply.
type Preferences struct {
	UserID              int64        `json:"user_id" db:"user_id"`
	MaxDistanceKm       int          `json:"max_distance_km" db:"max_distance_km"`
	AgeRangeMin         int          `json:"age_range_min" db:"age_range_min"`
	AgeRangeMax         int          `json:"age_range_max" db:"age_range_max"`
	PaceFlexibility     string       `json:"pace_flexibility" db:"pace_flexibility"`
	ExperienceLevels    LevelSet     `json:"experience_levels" db:"experience_levels"`
	GenderPreference    GenderChoice `json:"gender_preference" db:"gender_preference"`
	CommunicationStyle  string       `json:"communication_style" db:"communication_style"`
	GoalAlignment       bool         `json:"goal_alignment" db:"goal_alignment"`
	ScheduleFlexibility string       `json:"schedule_flexibility" db:"schedule_flexibility"`
	Active              bool         `json:"active" db:"active"`
	UpdatedAt           time.Time    `json:"updated_at" db:"updated_at"`
}

// MatchDefaults are the configurable values applied when synthesizing
// preferences for actors who have never saved any.
type MatchDefaults struct {
	MaxDistanceKm int
	AgeRangeMin   int
	AgeRangeMax   int
}

// DefaultPreferences synthesizes the preferences applied to actors who
// have not saved any.
func DefaultPreferences(userID int64, d MatchDefaults) *Preferences {
	return &Preferences{
		UserID:              userID,
		MaxDistanceKm:       d.MaxDistanceKm,
		AgeRangeMin:         d.AgeRangeMin,
		AgeRangeMax:         d.AgeRangeMax,
		PaceFlexibility:     FlexModerate,
		ExperienceLevels:    AnyLevel(),
		GenderPreference:    AnyGender(),
		CommunicationStyle:  "supportive",
		GoalAlignment:       true,
		ScheduleFlexibility: FlexModerate,
		Active:              true,
	}
}

// BuddyRequest is one actor's solicitation to another. At most one
// non-superseded request exists per unordered actor pair; the storage
// layer enforces this with a unique index on the canonical pair key.
type BuddyRequest struct {
	ID          int64      `json:"id" db:"id"`
	RequesterID int64      `json:"requester_id" db:"requester_id"`
	RecipientID int64      `json:"recipient_id" db:"recipient_id"`
	Status      string     `json:"status" db:"status"`
	MatchScore  int        `json:"match_score" db:"match_score"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty" db:"responded_at"`

	// Joined fields
	Requester *profile.Summary `json:"requester,omitempty"`
	Recipient *profile.Summary `json:"recipient,omitempty"`
}

// IsTerminal reports whether the request can no longer transition
func (r *BuddyRequest) IsTerminal() bool {
	return r.Status != StatusPending
}

// MatchResult is one ranked candidate from the matching pipeline
type MatchResult struct {
	Profile    *profile.Profile `json:"profile"`
	Age        int              `json:"age"`
	Score      int              `json:"score"`
	Reasons    []string         `json:"reasons"`
	DistanceKm float64          `json:"distance_km"`
}

// Connection is an accepted buddy request resolved to the counterparty
type Connection struct {
	RequestID  int64            `json:"request_id" db:"request_id"`
	Partner    *profile.Summary `json:"partner"`
	MatchScore int              `json:"match_score" db:"match_score"`
	MatchedAt  time.Time        `json:"matched_at" db:"matched_at"`
}
