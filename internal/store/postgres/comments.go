package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hooked/internal/domain/comment"
	"hooked/internal/domain/epoch"
	"hooked/internal/store"
)

type commentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *commentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `c.id, c.user_id, c.post_id, c.content, c.created_at, c.updated_at,
	u.first_name, u.last_name, u.handle_name, u.profile_icon`

func (r *commentRepository) FindByPost(ctx context.Context, postID string, limit, offset int) ([]comment.Comment, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM comments WHERE post_id = $1`, postID).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		  FROM comments c
		  JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at, c.id
		 LIMIT $2 OFFSET $3`, postID, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := []comment.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *commentRepository) Save(ctx context.Context, c *comment.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := r.db.QueryRow(ctx, `
		WITH c AS (
			INSERT INTO comments (id, post_id, user_id, content)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT `+commentColumns+` FROM c JOIN users u ON u.id = c.user_id`,
		c.ID, c.PostID, c.UserID, c.Content)
	saved, err := scanComment(row)
	if err != nil {
		return mapErr(err)
	}
	*c = *saved
	return nil
}

func (r *commentRepository) Update(ctx context.Context, userID, id, content string) (*comment.Comment, error) {
	row := r.db.QueryRow(ctx, `
		WITH c AS (
			UPDATE comments SET content = $3, updated_at = now()
			 WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT `+commentColumns+` FROM c JOIN users u ON u.id = c.user_id`,
		id, userID, content)
	c, err := scanComment(row)
	if err != nil {
		return nil, r.ownershipErr(ctx, id, mapErr(err))
	}
	return c, nil
}

func (r *commentRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return r.ownershipErr(ctx, id, store.ErrNotFound)
	}
	return nil
}

// ownershipErr distinguishes "no such comment" from "someone else's comment"
// after a write matched no rows.
func (r *commentRepository) ownershipErr(ctx context.Context, id string, err error) error {
	var exists bool
	if qerr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`, id).Scan(&exists); qerr != nil {
		return err
	}
	if exists {
		return store.ErrForbidden
	}
	return err
}

func scanComment(row pgx.Row) (*comment.Comment, error) {
	var (
		c                comment.Comment
		created, updated time.Time
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.PostID, &c.Content, &created, &updated,
		&c.User.FirstName, &c.User.LastName, &c.User.HandleName, &c.User.ProfileIcon); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = epoch.New(created), epoch.New(updated)
	return &c, nil
}
