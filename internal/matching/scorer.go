// internal/matching/scorer.go

package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/profile"
)

// Factor weights. The maxima sum to exactly 100.
const (
	weightAge        = 15
	weightGender     = 10
	weightExperience = 20
	weightPace       = 25
	weightDistance   = 15
	weightGoals      = 15

	// paceFallback is awarded when a pace value is unrecognized or the
	// flexibility mode is unknown.
	paceFallback = 10

	// adjacentTierPoints is awarded when race-distance preferences fall
	// into the same or neighbouring tiers without matching exactly.
	adjacentTierPoints = 10

	// flexibleFloor is the minimum pace award under flexible mode.
	flexibleFloor = 15
)

// Scorer computes the weighted compatibility between two runners.
// It is pure: identical inputs always produce identical output. The
// clock is injected so age computation is pinned in tests.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a scorer using the wall clock
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt creates a scorer with a fixed clock
func NewScorerAt(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

// Score returns the compatibility score in [0,100] for the candidate
// against the requester under the requester's preferences, plus the
// ordered list of human-readable reasons behind the score.
func (s *Scorer) Score(requester, candidate *profile.Profile, prefs *Preferences) (int, []string) {
	score := 0
	var reasons []string

	// Age
	if age, ok := s.ageOf(candidate); ok {
		if age >= prefs.AgeRangeMin && age <= prefs.AgeRangeMax {
			score += weightAge
			reasons = append(reasons, "Within your preferred age range")
		}
	}

	// Gender
	if prefs.GenderPreference.Matches(candidate.Gender) {
		score += weightGender
		reasons = append(reasons, "Matches your gender preference")
	}

	// Experience level
	if prefs.ExperienceLevels.Contains(candidate.ExperienceLevel) {
		score += weightExperience
		reasons = append(reasons, "Experience level fits your preference")
	}

	// Pace
	pacePoints, paceReason := s.scorePace(requester.Pace, candidate.Pace, prefs.PaceFlexibility)
	score += pacePoints
	if paceReason != "" {
		reasons = append(reasons, paceReason)
	}

	// Race distance category
	distPoints, distReason := s.scoreDistance(requester.PreferredDistance, candidate.PreferredDistance)
	score += distPoints
	if distReason != "" {
		reasons = append(reasons, distReason)
	}

	// Goal alignment
	goalPoints, goalReason := s.scoreGoals(requester.Goals, candidate.Goals, prefs.GoalAlignment)
	score += goalPoints
	if goalReason != "" {
		reasons = append(reasons, goalReason)
	}

	return clampScore(score), reasons
}

// ageOf computes the candidate's age at the scorer's clock, subtracting a
// year when the birthday has not yet occurred this calendar year.
func (s *Scorer) ageOf(p *profile.Profile) (int, bool) {
	if p.DateOfBirth == nil {
		return 0, false
	}
	now := s.now()
	dob := *p.DateOfBirth

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, true
}

// AgeAt exposes the candidate age computation to the pipeline so ranked
// results carry the same age the scorer used.
func (s *Scorer) AgeAt(p *profile.Profile) (int, bool) {
	return s.ageOf(p)
}

// scorePace awards points based on the ordinal distance between pace
// categories under the requester's flexibility mode. Unrecognized paces
// degrade to a flat award with no reason text.
func (s *Scorer) scorePace(requesterPace, candidatePace *string, flexibility string) (int, string) {
	ri, ok1 := ordinalOf(requesterPace)
	ci, ok2 := ordinalOf(candidatePace)
	if !ok1 || !ok2 {
		return paceFallback, ""
	}

	// An unrecognized flexibility mode degrades the whole factor, even
	// for identical paces.
	switch flexibility {
	case FlexStrict, FlexModerate, FlexFlexible:
	default:
		return paceFallback, ""
	}

	diff := ri - ci
	if diff < 0 {
		diff = -diff
	}

	if diff == 0 {
		return weightPace, "Perfect pace match"
	}

	switch flexibility {
	case FlexStrict:
		return 0, ""
	case FlexModerate:
		switch diff {
		case 1:
			return 15, "Very similar running pace"
		case 2:
			return 5, "Workable pace difference"
		default:
			return 0, ""
		}
	case FlexFlexible:
		if diff <= 2 {
			return 20, "Close enough pace to run together"
		}
		return flexibleFloor, "Different paces, but you are flexible"
	default:
		return paceFallback, ""
	}
}

// scoreDistance compares preferred race distances: full points for an
// exact match, partial points for adjacent tiers.
func (s *Scorer) scoreDistance(requesterDist, candidateDist *string) (int, string) {
	if requesterDist == nil || candidateDist == nil {
		return 0, ""
	}
	if *requesterDist == *candidateDist {
		return weightDistance, "Same preferred race distance"
	}

	rt, ok1 := distanceTier[*requesterDist]
	ct, ok2 := distanceTier[*candidateDist]
	if !ok1 || !ok2 {
		return 0, ""
	}

	diff := rt - ct
	if diff < 0 {
		diff = -diff
	}
	// Same tier (e.g. 5k and fun_run) or a neighbouring one
	if diff <= 1 {
		return adjacentTierPoints, "Similar race distance goals"
	}
	return 0, ""
}

// scoreGoals awards full points when alignment is not required, otherwise
// points for a non-empty goal intersection with up to two shared goals in
// the reason text.
func (s *Scorer) scoreGoals(requesterGoals, candidateGoals []string, alignmentRequired bool) (int, string) {
	if !alignmentRequired {
		return weightGoals, ""
	}

	shared := sharedGoals(requesterGoals, candidateGoals, 2)
	if len(shared) == 0 {
		return 0, ""
	}
	return weightGoals, fmt.Sprintf("Shared goals: %s", strings.Join(shared, ", "))
}

// sharedGoals returns up to max goals present in both sets, in the
// requester's order.
func sharedGoals(a, b []string, max int) []string {
	set := make(map[string]bool, len(b))
	for _, g := range b {
		set[g] = true
	}

	var shared []string
	for _, g := range a {
		if set[g] {
			shared = append(shared, g)
			if len(shared) == max {
				break
			}
		}
	}
	return shared
}

func ordinalOf(pace *string) (int, bool) {
	if pace == nil {
		return 0, false
	}
	i, ok := paceOrdinal[*pace]
	return i, ok
}

// clampScore bounds a score to [0,100]. The weights already sum to 100;
// the clamp guards future weight changes.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
