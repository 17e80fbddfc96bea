package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hooked/internal/domain/epoch"
	"hooked/internal/domain/post"
	"hooked/internal/store"
)

type postRepository struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Save(ctx context.Context, p *post.Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = epoch.Now()
	}
	var lat, lng *float64
	if p.Location != nil {
		lat, lng = &p.Location.Lat, &p.Location.Lng
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO posts (id, user_id, description, images, tags, lat, lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.Content.Description, nonNil(p.Images), nonNil(p.Tags), lat, lng, p.Timestamp.Time)
	return mapErr(err)
}

func (r *postRepository) Feed(ctx context.Context, userID string, limit, offset int) ([]post.Post, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `WITH `+friendsCTE+`
		SELECT count(*) FROM posts
		 WHERE user_id = $1 OR user_id IN (SELECT id FROM friends)`, userID).Scan(&total)
	if err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.db.Query(ctx, `WITH `+friendsCTE+`
		SELECT p.id, p.user_id, p.created_at,
		       u.handle_name, u.first_name, u.last_name, u.profile_icon,
		       (SELECT count(*) FROM post_likes l WHERE l.post_id = p.id),
		       EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1),
		       (SELECT count(*) FROM comments c WHERE c.post_id = p.id),
		       p.description, p.images, p.tags, p.lat, p.lng
		  FROM posts p
		  JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = $1 OR p.user_id IN (SELECT id FROM friends)
		 ORDER BY p.created_at DESC, p.id
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := []post.Post{}
	for rows.Next() {
		var (
			p        post.Post
			created  time.Time
			lat, lng *float64
		)
		if err := rows.Scan(&p.ID, &p.UserID, &created,
			&p.HandleName, &p.FirstName, &p.LastName, &p.ProfileIcon,
			&p.LikeCount, &p.Liked, &p.CommentCount,
			&p.Content.Description, &p.Images, &p.Tags, &lat, &lng); err != nil {
			return nil, 0, err
		}
		p.Timestamp = epoch.New(created)
		if lat != nil && lng != nil {
			p.Location = &post.Location{Lat: *lat, Lng: *lng}
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// ToggleLike flips the caller's like inside one transaction.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID string) (post.LikeResult, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return post.LikeResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var visible bool
	err = tx.QueryRow(ctx, `WITH `+friendsCTE+`
		SELECT user_id = $1 OR user_id IN (SELECT id FROM friends)
		  FROM posts WHERE id = $2`, userID, postID).Scan(&visible)
	if err != nil {
		return post.LikeResult{}, mapErr(err)
	}
	if !visible {
		return post.LikeResult{}, store.ErrNotFound
	}

	tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return post.LikeResult{}, mapErr(err)
	}
	res := post.LikeResult{Liked: tag.RowsAffected() == 0}
	if res.Liked {
		if _, err := tx.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID); err != nil {
			return post.LikeResult{}, mapErr(err)
		}
	}
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&res.LikeCount); err != nil {
		return post.LikeResult{}, err
	}
	return res, tx.Commit(ctx)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
