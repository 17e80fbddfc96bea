package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hooked/internal/domain/user"
)

type userRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *userRepository {
	return &userRepository{db: db}
}

// Save inserts or updates a user.
func (r *userRepository) Save(ctx context.Context, u *user.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, handle_name, email, profile_icon)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		  SET first_name = EXCLUDED.first_name,
		      last_name = EXCLUDED.last_name,
		      handle_name = EXCLUDED.handle_name,
		      email = EXCLUDED.email,
		      profile_icon = EXCLUDED.profile_icon`,
		u.ID, u.FirstName, u.LastName, u.HandleName, u.Email, u.ProfileIcon)
	return mapErr(err)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, handle_name, email, profile_icon
		  FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.HandleName, &u.Email, &u.ProfileIcon)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
