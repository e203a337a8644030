// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/profile"
)

var (
	ErrActorNotFound       = errors.New("actor not found")
	ErrRequestNotFound     = errors.New("buddy request not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrDuplicateRequest    = errors.New("buddy request already exists for this pair")
	ErrCannotRequestSelf   = errors.New("cannot send a buddy request to yourself")
	ErrAlreadyResponded    = errors.New("buddy request already responded")
	ErrNotRecipient        = errors.New("only the recipient can respond to a request")
	ErrInvalidResponse     = errors.New("response status must be accepted or declined")
	ErrInvalidAgeRange     = errors.New("age range minimum exceeds maximum")
)

const (
	// MaxCandidates bounds how many profiles one matching run evaluates.
	// A cost-control bound, not a correctness bound.
	MaxCandidates = 50

	// MinViableScore is the minimum compatibility for a candidate to
	// appear in ranked results.
	MinViableScore = 30
)

type Service interface {
	// Preferences
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	UpdatePreferences(ctx context.Context, userID int64, dto *UpdatePreferencesDTO) (*Preferences, error)

	// Matching
	FindPotentialMatches(ctx context.Context, userID int64) ([]*MatchResult, error)
	Compatibility(ctx context.Context, requesterID, candidateID int64) (*MatchResult, error)

	// Buddy request lifecycle
	SendRequest(ctx context.Context, requesterID, recipientID int64) (*BuddyRequest, error)
	RespondToRequest(ctx context.Context, requestID, responderID int64, status string) (*BuddyRequest, error)
	GetRequests(ctx context.Context, userID int64, box string) ([]*BuddyRequest, error)
	GetConnections(ctx context.Context, userID int64) ([]*Connection, error)
}

type service struct {
	repo      Repository
	profiles  profile.Repository
	scorer    *Scorer
	estimator DistanceEstimator
	cache     *MatchCache
	defaults  MatchDefaults
}

func NewService(repo Repository, profiles profile.Repository, scorer *Scorer, estimator DistanceEstimator, cache *MatchCache, defaults MatchDefaults) Service {
	return &service{
		repo:      repo,
		profiles:  profiles,
		scorer:    scorer,
		estimator: estimator,
		cache:     cache,
		defaults:  defaults,
	}
}

// Preferences

func (s *service) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	return s.effectivePreferences(ctx, userID)
}

func (s *service) UpdatePreferences(ctx context.Context, userID int64, dto *UpdatePreferencesDTO) (*Preferences, error) {
	prefs, err := s.effectivePreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyPreferencePatch(prefs, dto)

	if prefs.AgeRangeMin > prefs.AgeRangeMax {
		return nil, ErrInvalidAgeRange
	}

	if err := s.repo.UpsertPreferences(ctx, prefs); err != nil {
		return nil, err
	}

	// Stored preferences change the ranking, drop any cached run
	s.cache.Invalidate(ctx, userID)

	return prefs, nil
}

// effectivePreferences returns stored preferences, or synthesized
// defaults when the actor has never saved any.
func (s *service) effectivePreferences(ctx context.Context, userID int64) (*Preferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrPreferencesNotFound) {
			return DefaultPreferences(userID, s.defaults), nil
		}
		return nil, err
	}
	return prefs, nil
}

func applyPreferencePatch(prefs *Preferences, dto *UpdatePreferencesDTO) {
	if dto.MaxDistanceKm != nil {
		prefs.MaxDistanceKm = *dto.MaxDistanceKm
	}
	if dto.AgeRangeMin != nil {
		prefs.AgeRangeMin = *dto.AgeRangeMin
	}
	if dto.AgeRangeMax != nil {
		prefs.AgeRangeMax = *dto.AgeRangeMax
	}
	if dto.PaceFlexibility != nil {
		prefs.PaceFlexibility = *dto.PaceFlexibility
	}
	if dto.ExperienceLevels != nil {
		prefs.ExperienceLevels = Levels(dto.ExperienceLevels...)
	}
	if dto.GenderPreference != nil {
		prefs.GenderPreference = SpecificGender(*dto.GenderPreference)
	}
	if dto.CommunicationStyle != nil {
		prefs.CommunicationStyle = *dto.CommunicationStyle
	}
	if dto.GoalAlignment != nil {
		prefs.GoalAlignment = *dto.GoalAlignment
	}
	if dto.ScheduleFlexibility != nil {
		prefs.ScheduleFlexibility = *dto.ScheduleFlexibility
	}
	if dto.Active != nil {
		prefs.Active = *dto.Active
	}
}

// Matching pipeline

func (s *service) FindPotentialMatches(ctx context.Context, userID int64) ([]*MatchResult, error) {
	if cached, ok := s.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	start := time.Now()

	requester, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	prefs, err := s.effectivePreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Anyone already linked by a request, in either direction and any
	// status, is out of the pool.
	exclude, err := s.repo.PartnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.profiles.FindCandidates(ctx, userID, exclude, MaxCandidates)
	if err != nil {
		return nil, err
	}

	evaluated := 0
	results := make([]*MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		// Age-dependent scoring is undefined without a date of birth
		age, ok := s.scorer.AgeAt(candidate)
		if !ok {
			continue
		}

		distance := s.estimator.EstimateKm(requester.LocationOrEmpty(), candidate.LocationOrEmpty())
		score, reasons := s.scorer.Score(requester, candidate, prefs)
		evaluated++
		recordCompatibilityScore(score)

		if distance > float64(prefs.MaxDistanceKm) || score < MinViableScore {
			continue
		}

		results = append(results, &MatchResult{
			Profile:    candidate,
			Age:        age,
			Score:      score,
			Reasons:    reasons,
			DistanceKm: distance,
		})
	}

	// Highest score first; equal scores order by candidate id so the
	// ranking is reproducible.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Profile.ID < results[j].Profile.ID
	})

	recordPipelineRun(start, evaluated)
	s.cache.Set(ctx, userID, results)

	return results, nil
}

func (s *service) Compatibility(ctx context.Context, requesterID, candidateID int64) (*MatchResult, error) {
	requester, err := s.profiles.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	candidate, err := s.profiles.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	prefs, err := s.effectivePreferences(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	score, reasons := s.scorer.Score(requester, candidate, prefs)
	recordCompatibilityScore(score)
	age, _ := s.scorer.AgeAt(candidate)

	return &MatchResult{
		Profile:    candidate,
		Age:        age,
		Score:      score,
		Reasons:    reasons,
		DistanceKm: s.estimator.EstimateKm(requester.LocationOrEmpty(), candidate.LocationOrEmpty()),
	}, nil
}

// Buddy request lifecycle

func (s *service) SendRequest(ctx context.Context, requesterID, recipientID int64) (*BuddyRequest, error) {
	if requesterID == recipientID {
		return nil, ErrCannotRequestSelf
	}

	requester, err := s.profiles.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	recipient, err := s.profiles.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}

	// Friendly pre-check; the unique index on the canonical pair key is
	// what actually guarantees at-most-one request under concurrency.
	exists, err := s.repo.PairExists(ctx, requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRequest
	}

	prefs, err := s.effectivePreferences(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	score, _ := s.scorer.Score(requester, recipient, prefs)

	req := &BuddyRequest{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      StatusPending,
		MatchScore:  score,
	}

	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	recordBuddyRequest(StatusPending)
	recordCompatibilityScore(score)

	// The pair now excludes each other from future candidate pools
	s.cache.Invalidate(ctx, requesterID, recipientID)

	return req, nil
}

func (s *service) RespondToRequest(ctx context.Context, requestID, responderID int64, status string) (*BuddyRequest, error) {
	if status != StatusAccepted && status != StatusDeclined {
		return nil, ErrInvalidResponse
	}

	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.RecipientID != responderID {
		return nil, ErrNotRecipient
	}

	if req.IsTerminal() {
		return nil, ErrAlreadyResponded
	}

	now := time.Now()
	if err := s.repo.UpdateRequestStatus(ctx, requestID, status, now); err != nil {
		return nil, err
	}

	req.Status = status
	req.RespondedAt = &now

	recordBuddyRequest(status)
	if status == StatusAccepted {
		recordConnection()
	}

	return req, nil
}

func (s *service) GetRequests(ctx context.Context, userID int64, box string) ([]*BuddyRequest, error) {
	return s.repo.ListRequests(ctx, userID, box)
}

func (s *service) GetConnections(ctx context.Context, userID int64) ([]*Connection, error) {
	return s.repo.ListConnections(ctx, userID)
}
