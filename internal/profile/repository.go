// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrProfileNotFound is returned when the referenced actor does not exist
var ErrProfileNotFound = errors.New("profile not found")

// Repository defines the read surface the matching core consumes
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Profile, error)
	FindCandidates(ctx context.Context, requesterID int64, excludeIDs []int64, limit int) ([]*Profile, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	id, first_name, last_name, profile_image_url, location, date_of_birth,
	gender, experience_level, preferred_distance, pace, goals, available_days,
	preferred_time, bio, created_at, updated_at`

// GetByID retrieves a profile by actor id
func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Profile, error) {
	var p Profile
	query := `SELECT` + profileColumns + ` FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// FindCandidates returns up to limit profiles eligible to be scored against
// the requester. The requester's own id and the exclusion set are filtered
// out, as are actors who have paused matching in their buddy preferences.
func (r *postgresRepository) FindCandidates(ctx context.Context, requesterID int64, excludeIDs []int64, limit int) ([]*Profile, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.profile_image_url, u.location,
		       u.date_of_birth, u.gender, u.experience_level, u.preferred_distance,
		       u.pace, u.goals, u.available_days, u.preferred_time, u.bio,
		       u.created_at, u.updated_at
		FROM users u
		WHERE u.id <> $1
		  AND u.id <> ALL($2)
		  AND NOT EXISTS (
		      SELECT 1 FROM buddy_preferences bp
		      WHERE bp.user_id = u.id AND bp.active = FALSE
		  )
		ORDER BY u.id
		LIMIT $3`

	var profiles []*Profile
	err := r.db.SelectContext(ctx, &profiles, query, requesterID, pq.Array(excludeIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}

	return profiles, nil
}
