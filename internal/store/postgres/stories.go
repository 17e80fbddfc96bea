package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hooked/internal/domain/epoch"
	"hooked/internal/domain/story"
)

type storyRepository struct {
	db *pgxpool.Pool
}

func NewStoryRepository(db *pgxpool.Pool) *storyRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Save(ctx context.Context, s *story.Story) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = epoch.Now()
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = epoch.New(s.CreatedAt.Add(story.DefaultTTL))
	}
	err := r.db.QueryRow(ctx, `
		WITH s AS (
			INSERT INTO stories (id, user_id, video_url, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING user_id
		)
		SELECT u.first_name, u.last_name, u.profile_icon FROM s JOIN users u ON u.id = s.user_id`,
		s.ID, s.UserID, s.VideoURL, s.CreatedAt.Time, s.ExpiresAt.Time).
		Scan(&s.UserFirstName, &s.UserLastName, &s.UserProfileIconURL)
	return mapErr(err)
}

// FindForUser returns unexpired stories posted by accepted friends, newest first.
func (r *storyRepository) FindForUser(ctx context.Context, userID string, now time.Time) ([]story.Story, error) {
	rows, err := r.db.Query(ctx, `WITH `+friendsCTE+`
		SELECT s.id, s.user_id, u.profile_icon, u.first_name, u.last_name, s.video_url, s.created_at, s.expires_at
		  FROM stories s
		  JOIN users u ON u.id = s.user_id
		 WHERE s.user_id IN (SELECT id FROM friends) AND s.expires_at > $2
		 ORDER BY s.created_at DESC`, userID, now)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []story.Story{}
	for rows.Next() {
		var (
			s                story.Story
			created, expires time.Time
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserProfileIconURL, &s.UserFirstName, &s.UserLastName,
			&s.VideoURL, &created, &expires); err != nil {
			return nil, err
		}
		s.CreatedAt, s.ExpiresAt = epoch.New(created), epoch.New(expires)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *storyRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM stories WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
