package matching

import (
	"context"
	"sort"
	"time"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/profile"
)

// testNow pins the scorer clock so age computation is stable
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

// bornYearsAgo returns a date of birth producing exactly the given age at
// testNow (the birthday has already passed this calendar year).
func bornYearsAgo(age int) *time.Time {
	dob := time.Date(testNow.Year()-age, time.March, 10, 0, 0, 0, 0, time.UTC)
	return &dob
}

// runnerProfile builds a candidate that scores 100 against prefsFor(...)
// defaults; tests override individual fields to probe single factors.
func runnerProfile(id int64, age int) *profile.Profile {
	return &profile.Profile{
		ID:              id,
		FirstName:       "Alex",
		LastName:        "Runner",
		Location:        strPtr("Sydney"),
		DateOfBirth:     bornYearsAgo(age),
		Gender:          strPtr("female"),
		ExperienceLevel: strPtr(profile.LevelIntermediate),
		PreferredDistance: func() *string {
			s := "10k"
			return &s
		}(),
		Pace:  strPtr(PaceModerate),
		Goals: []string{"endurance"},
	}
}

// prefsFor builds moderate-flexibility preferences accepting everything
func prefsFor(userID int64) *Preferences {
	return &Preferences{
		UserID:           userID,
		MaxDistanceKm:    25,
		AgeRangeMin:      25,
		AgeRangeMax:      35,
		PaceFlexibility:  FlexModerate,
		ExperienceLevels: AnyLevel(),
		GenderPreference: AnyGender(),
		GoalAlignment:    true,
		Active:           true,
	}
}

// fakeProfileRepo is an in-memory profile.Repository. When linked to a
// fakeMatchingRepo it honours the paused flag the way the SQL candidate
// query does.
type fakeProfileRepo struct {
	profiles map[int64]*profile.Profile
	prefs    *fakeMatchingRepo
}

func newFakeProfileRepo(profiles ...*profile.Profile) *fakeProfileRepo {
	m := make(map[int64]*profile.Profile, len(profiles))
	for _, p := range profiles {
		m[p.ID] = p
	}
	return &fakeProfileRepo{profiles: m}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id int64) (*profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) FindCandidates(_ context.Context, requesterID int64, excludeIDs []int64, limit int) ([]*profile.Profile, error) {
	excluded := make(map[int64]bool, len(excludeIDs)+1)
	excluded[requesterID] = true
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var out []*profile.Profile
	for _, p := range f.profiles {
		if excluded[p.ID] || f.paused(p.ID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProfileRepo) paused(id int64) bool {
	if f.prefs == nil {
		return false
	}
	p, ok := f.prefs.prefs[id]
	return ok && !p.Active
}

// fakeMatchingRepo is an in-memory matching.Repository
type fakeMatchingRepo struct {
	prefs    map[int64]*Preferences
	requests []*BuddyRequest
	nextID   int64
}

func newFakeMatchingRepo() *fakeMatchingRepo {
	return &fakeMatchingRepo{prefs: make(map[int64]*Preferences), nextID: 1}
}

func (f *fakeMatchingRepo) GetPreferences(_ context.Context, userID int64) (*Preferences, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeMatchingRepo) UpsertPreferences(_ context.Context, prefs *Preferences) error {
	cp := *prefs
	cp.UpdatedAt = testNow
	f.prefs[prefs.UserID] = &cp
	prefs.UpdatedAt = cp.UpdatedAt
	return nil
}

func (f *fakeMatchingRepo) CreateRequest(_ context.Context, req *BuddyRequest) error {
	for _, existing := range f.requests {
		if samePair(existing, req.RequesterID, req.RecipientID) {
			return ErrDuplicateRequest
		}
	}
	req.ID = f.nextID
	f.nextID++
	req.CreatedAt = testNow
	cp := *req
	f.requests = append(f.requests, &cp)
	return nil
}

func (f *fakeMatchingRepo) GetRequest(_ context.Context, id int64) (*BuddyRequest, error) {
	for _, req := range f.requests {
		if req.ID == id {
			cp := *req
			return &cp, nil
		}
	}
	return nil, ErrRequestNotFound
}

func (f *fakeMatchingRepo) UpdateRequestStatus(_ context.Context, id int64, status string, respondedAt time.Time) error {
	for _, req := range f.requests {
		if req.ID == id {
			req.Status = status
			at := respondedAt
			req.RespondedAt = &at
			return nil
		}
	}
	return ErrRequestNotFound
}

func (f *fakeMatchingRepo) PairExists(_ context.Context, userA, userB int64) (bool, error) {
	for _, req := range f.requests {
		if samePair(req, userA, userB) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMatchingRepo) ListRequests(_ context.Context, userID int64, box string) ([]*BuddyRequest, error) {
	var out []*BuddyRequest
	for _, req := range f.requests {
		switch box {
		case "sent":
			if req.RequesterID != userID {
				continue
			}
		case "received":
			if req.RecipientID != userID {
				continue
			}
		default:
			if req.RequesterID != userID && req.RecipientID != userID {
				continue
			}
		}
		cp := *req
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeMatchingRepo) PartnerIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for _, req := range f.requests {
		if req.RequesterID == userID {
			ids = append(ids, req.RecipientID)
		} else if req.RecipientID == userID {
			ids = append(ids, req.RequesterID)
		}
	}
	return ids, nil
}

func (f *fakeMatchingRepo) ListConnections(_ context.Context, userID int64) ([]*Connection, error) {
	var out []*Connection
	for _, req := range f.requests {
		if req.Status != StatusAccepted {
			continue
		}
		if req.RequesterID != userID && req.RecipientID != userID {
			continue
		}
		partnerID := req.RequesterID
		if partnerID == userID {
			partnerID = req.RecipientID
		}
		conn := &Connection{
			RequestID:  req.ID,
			Partner:    &profile.Summary{ID: partnerID},
			MatchScore: req.MatchScore,
		}
		if req.RespondedAt != nil {
			conn.MatchedAt = *req.RespondedAt
		}
		out = append(out, conn)
	}
	return out, nil
}

func samePair(req *BuddyRequest, a, b int64) bool {
	return (req.RequesterID == a && req.RecipientID == b) ||
		(req.RequesterID == b && req.RecipientID == a)
}

// fixedEstimator returns the same distance for every pair
type fixedEstimator struct {
	km float64
}

func (e fixedEstimator) EstimateKm(_, _ string) float64 { return e.km }

// testDefaults mirror the configuration defaults used in production
var testDefaults = MatchDefaults{MaxDistanceKm: 25, AgeRangeMin: 18, AgeRangeMax: 65}

// newTestService wires a service over the fakes with a pinned clock
func newTestService(profiles *fakeProfileRepo, repo *fakeMatchingRepo, km float64) Service {
	profiles.prefs = repo
	return NewService(repo, profiles, NewScorerAt(fixedClock), fixedEstimator{km: km}, nil, testDefaults)
}
