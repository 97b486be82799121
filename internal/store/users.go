package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"moodjournal/backend/internal/model"
)

type UserRepository struct {
	db dbQuerier
}

func NewUserRepository(db dbQuerier) *UserRepository {
	return &UserRepository{db: db}
}

// FindUserByEmail matches case-insensitively and returns model.ErrUserNotFound when absent.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.User{}, model.ErrUserNotFound
	}

	var user model.User
	err := r.db.QueryRow(
		ctx,
		`SELECT id, email, COALESCE("firstName", ''), COALESCE("lastName", '')
		 FROM "User"
		 WHERE lower(email) = lower($1)
		 LIMIT 1`,
		email,
	).Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
