// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/profile"
)

// uniqueViolation is the Postgres error code raised by the canonical-pair
// unique index when two requests for the same pair race.
const uniqueViolation = "23505"

type Repository interface {
	// Preferences
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	UpsertPreferences(ctx context.Context, prefs *Preferences) error

	// Buddy requests
	CreateRequest(ctx context.Context, req *BuddyRequest) error
	GetRequest(ctx context.Context, id int64) (*BuddyRequest, error)
	UpdateRequestStatus(ctx context.Context, id int64, status string, respondedAt time.Time) error
	PairExists(ctx context.Context, userA, userB int64) (bool, error)
	ListRequests(ctx context.Context, userID int64, box string) ([]*BuddyRequest, error)
	PartnerIDs(ctx context.Context, userID int64) ([]int64, error)

	// Connections
	ListConnections(ctx context.Context, userID int64) ([]*Connection, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Preference methods

func (r *postgresRepository) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	var prefs Preferences
	query := `
		SELECT user_id, max_distance_km, age_range_min, age_range_max,
		       pace_flexibility, experience_levels, gender_preference,
		       communication_style, goal_alignment, schedule_flexibility,
		       active, updated_at
		FROM buddy_preferences
		WHERE user_id = $1`

	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return &prefs, nil
}

func (r *postgresRepository) UpsertPreferences(ctx context.Context, prefs *Preferences) error {
	query := `
		INSERT INTO buddy_preferences (
			user_id, max_distance_km, age_range_min, age_range_max,
			pace_flexibility, experience_levels, gender_preference,
			communication_style, goal_alignment, schedule_flexibility, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			max_distance_km = $2, age_range_min = $3, age_range_max = $4,
			pace_flexibility = $5, experience_levels = $6, gender_preference = $7,
			communication_style = $8, goal_alignment = $9,
			schedule_flexibility = $10, active = $11,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`

	err := r.db.QueryRowxContext(
		ctx, query,
		prefs.UserID, prefs.MaxDistanceKm, prefs.AgeRangeMin, prefs.AgeRangeMax,
		prefs.PaceFlexibility, prefs.ExperienceLevels, prefs.GenderPreference,
		prefs.CommunicationStyle, prefs.GoalAlignment, prefs.ScheduleFlexibility,
		prefs.Active,
	).Scan(&prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}

	return nil
}

// Buddy request methods

func (r *postgresRepository) CreateRequest(ctx context.Context, req *BuddyRequest) error {
	query := `
		INSERT INTO buddy_requests (requester_id, recipient_id, status, match_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(
		ctx, query,
		req.RequesterID, req.RecipientID, req.Status, req.MatchScore,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateRequest
		}
		return fmt.Errorf("failed to create buddy request: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetRequest(ctx context.Context, id int64) (*BuddyRequest, error) {
	var req BuddyRequest
	query := `
		SELECT id, requester_id, recipient_id, status, match_score,
		       created_at, responded_at
		FROM buddy_requests
		WHERE id = $1`

	err := r.db.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get buddy request: %w", err)
	}

	return &req, nil
}

func (r *postgresRepository) UpdateRequestStatus(ctx context.Context, id int64, status string, respondedAt time.Time) error {
	query := `
		UPDATE buddy_requests
		SET status = $2, responded_at = $3
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status, respondedAt)
	if err != nil {
		return fmt.Errorf("failed to update buddy request: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *postgresRepository) PairExists(ctx context.Context, userA, userB int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM buddy_requests
			WHERE LEAST(requester_id, recipient_id) = LEAST($1::bigint, $2::bigint)
			  AND GREATEST(requester_id, recipient_id) = GREATEST($1::bigint, $2::bigint)
		)`

	err := r.db.GetContext(ctx, &exists, query, userA, userB)
	if err != nil {
		return false, fmt.Errorf("failed to check request pair: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListRequests(ctx context.Context, userID int64, box string) ([]*BuddyRequest, error) {
	baseQuery := `
		SELECT br.id, br.requester_id, br.recipient_id, br.status,
		       br.match_score, br.created_at, br.responded_at,
		       u1.id, u1.first_name, u1.last_name, u1.profile_image_url,
		       u1.location, u1.experience_level,
		       u2.id, u2.first_name, u2.last_name, u2.profile_image_url,
		       u2.location, u2.experience_level
		FROM buddy_requests br
		JOIN users u1 ON br.requester_id = u1.id
		JOIN users u2 ON br.recipient_id = u2.id`

	var query string
	switch box {
	case "sent":
		query = baseQuery + ` WHERE br.requester_id = $1 ORDER BY br.created_at DESC`
	case "received":
		query = baseQuery + ` WHERE br.recipient_id = $1 ORDER BY br.created_at DESC`
	default:
		query = baseQuery + ` WHERE br.requester_id = $1 OR br.recipient_id = $1 ORDER BY br.created_at DESC`
	}

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buddy requests: %w", err)
	}
	defer rows.Close()

	var requests []*BuddyRequest
	for rows.Next() {
		var req BuddyRequest
		var requester, recipient profile.Summary

		err := rows.Scan(
			&req.ID, &req.RequesterID, &req.RecipientID, &req.Status,
			&req.MatchScore, &req.CreatedAt, &req.RespondedAt,
			&requester.ID, &requester.FirstName, &requester.LastName,
			&requester.ProfileImageURL, &requester.Location, &requester.ExperienceLevel,
			&recipient.ID, &recipient.FirstName, &recipient.LastName,
			&recipient.ProfileImageURL, &recipient.Location, &recipient.ExperienceLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buddy request: %w", err)
		}

		req.Requester = &requester
		req.Recipient = &recipient
		requests = append(requests, &req)
	}

	return requests, rows.Err()
}

// PartnerIDs returns the "other" actor id of every request involving the
// given actor, regardless of status. The selector excludes these from the
// candidate pool.
func (r *postgresRepository) PartnerIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `
		SELECT CASE
			WHEN requester_id = $1 THEN recipient_id
			ELSE requester_id
		END
		FROM buddy_requests
		WHERE requester_id = $1 OR recipient_id = $1`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load request partners: %w", err)
	}
	return ids, nil
}

// Connection methods

func (r *postgresRepository) ListConnections(ctx context.Context, userID int64) ([]*Connection, error) {
	query := `
		SELECT br.id, br.match_score, br.responded_at,
		       CASE WHEN br.requester_id = $1 THEN u2.id ELSE u1.id END,
		       CASE WHEN br.requester_id = $1 THEN u2.first_name ELSE u1.first_name END,
		       CASE WHEN br.requester_id = $1 THEN u2.last_name ELSE u1.last_name END,
		       CASE WHEN br.requester_id = $1 THEN u2.profile_image_url ELSE u1.profile_image_url END,
		       CASE WHEN br.requester_id = $1 THEN u2.location ELSE u1.location END,
		       CASE WHEN br.requester_id = $1 THEN u2.experience_level ELSE u1.experience_level END
		FROM buddy_requests br
		JOIN users u1 ON br.requester_id = u1.id
		JOIN users u2 ON br.recipient_id = u2.id
		WHERE (br.requester_id = $1 OR br.recipient_id = $1)
		  AND br.status = 'accepted'
		ORDER BY br.responded_at DESC`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var connections []*Connection
	for rows.Next() {
		var conn Connection
		var partner profile.Summary
		var matchedAt sql.NullTime

		err := rows.Scan(
			&conn.RequestID, &conn.MatchScore, &matchedAt,
			&partner.ID, &partner.FirstName, &partner.LastName,
			&partner.ProfileImageURL, &partner.Location, &partner.ExperienceLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}

		if matchedAt.Valid {
			conn.MatchedAt = matchedAt.Time
		}
		conn.Partner = &partner
		connections = append(connections, &conn)
	}

	return connections, rows.Err()
}
