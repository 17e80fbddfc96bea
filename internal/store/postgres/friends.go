package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hooked/internal/domain/user"
	"hooked/internal/store"
)

type friendRepository struct {
	db *pgxpool.Pool
}

func NewFriendRepository(db *pgxpool.Pool) *friendRepository {
	return &friendRepository{db: db}
}

// nameMatch is true when $2 is empty or matches the user's name or handle.
const nameMatch = `($2 = '' OR (u.first_name || ' ' || u.last_name) ILIKE '%' || $2 || '%' OR u.handle_name ILIKE '%' || $2 || '%')`

func (r *friendRepository) List(ctx context.Context, userID string, status user.FriendStatus, query string, limit, offset int) ([]user.Friend, int, error) {
	// Accepted friendships count in both directions; pending ones only when
	// addressed to the caller.
	const edges = `
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
		WHERE f.status = $3
		  AND (f.addressee_id = $1 OR (f.requester_id = $1 AND f.status = 'accepted'))
		  AND ` + nameMatch

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) `+edges, userID, query, string(status)).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT f.id, f.status, u.id, u.first_name, u.last_name, u.handle_name, u.email, u.profile_icon `+edges+`
		 ORDER BY f.created_at, f.id
		 LIMIT $4 OFFSET $5`, userID, query, string(status), limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := []user.Friend{}
	for rows.Next() {
		var (
			f  user.Friend
			st string
		)
		if err := rows.Scan(&f.ID, &st, &f.User.ID, &f.User.FirstName, &f.User.LastName,
			&f.User.HandleName, &f.User.Email, &f.User.ProfileIcon); err != nil {
			return nil, 0, err
		}
		f.Status = user.FriendStatus(st)
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func (r *friendRepository) Suggestions(ctx context.Context, userID, query string, limit, offset int) ([]user.User, int, error) {
	base := `WITH ` + friendsCTE + `
		SELECT %s
		  FROM users u
		 WHERE u.id <> $1
		   AND u.id NOT IN (SELECT id FROM friends)
		   AND ` + nameMatch

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf(base, "count(*)"), userID, query).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(base, `u.id, u.first_name, u.last_name, u.handle_name, u.profile_icon,
		       EXISTS (SELECT 1 FROM friendships p
		                WHERE p.requester_id = $1 AND p.addressee_id = u.id AND p.status = 'pending')`)+`
		 ORDER BY u.created_at, u.id
		 LIMIT $3 OFFSET $4`, userID, query, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := []user.User{}
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.HandleName, &u.ProfileIcon, &u.FriendRequested); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Request creates a pending friendship. The pair index rejects a second edge
// in either direction.
func (r *friendRepository) Request(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return store.ErrConflict
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO friendships (id, requester_id, addressee_id) VALUES ($1, $2, $3)`,
		uuid.NewString(), userID, friendID)
	return mapErr(err)
}

func (r *friendRepository) Approve(ctx context.Context, userID, friendshipID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE friendships SET status = 'accepted'
		 WHERE id = $1 AND addressee_id = $2 AND status = 'pending'`, friendshipID, userID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	// Nothing pending matched: either it is already accepted or it is not ours.
	var one int
	err = r.db.QueryRow(ctx, `SELECT 1 FROM friendships WHERE id = $1 AND addressee_id = $2`,
		friendshipID, userID).Scan(&one)
	if err != nil {
		return mapErr(err)
	}
	return store.ErrConflict
}
