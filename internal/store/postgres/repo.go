package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hooked/internal/store"
	"hooked/internal/store/repositories"
)

// NewRepositories wires every repository to the same pool.
func NewRepositories(db *pgxpool.Pool) repositories.Repositories {
	return repositories.Repositories{
		Users:    NewUserRepository(db),
		Posts:    NewPostRepository(db),
		Comments: NewCommentRepository(db),
		Friends:  NewFriendRepository(db),
		Species:  NewSpeciesRepository(db),
		Catches:  NewCatchRepository(db),
		Stories:  NewStoryRepository(db),
	}
}

// mapErr turns driver errors into store sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)
		case "23503", "22P02": // foreign_key_violation, invalid_text_representation
			return fmt.Errorf("%w: %s", store.ErrNotFound, pgErr.Message)
		}
	}
	return err
}

// friendsCTE selects the ids of $1's accepted friends as "friends(id)".
const friendsCTE = `friends AS (
	SELECT CASE WHEN requester_id = $1 THEN addressee_id ELSE requester_id END AS id
	  FROM friendships
	 WHERE status = 'accepted' AND (requester_id = $1 OR addressee_id = $1)
)`
