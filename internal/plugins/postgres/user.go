package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"

	"github.com/google/uuid"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

/*
	CREATE TABLE users (
		id            UUID PRIMARY KEY,
		email         TEXT UNIQUE NOT NULL,
		full_name     TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		profile_pic   TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
*/

func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		return domain.ErrInvalidUserID
	}
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, profile_pic)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.FullName, u.PasswordHash, u.ProfilePic)
	if err != nil && strings.Contains(err.Error(), "users_email_key") {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if id == uuid.Nil {
		return nil, domain.ErrInvalidUserID
	}
	u := &domain.User{ID: id}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
		SELECT email, full_name, password_hash, profile_pic, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.Email, &u.FullName, &u.PasswordHash, &u.ProfilePic, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{Email: email}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
		SELECT id, full_name, password_hash, profile_pic, created_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.FullName, &u.PasswordHash, &u.ProfilePic, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) UpdateProfilePic(ctx context.Context, id uuid.UUID, url string) error {
	if id == uuid.Nil {
		return domain.ErrInvalidUserID
	}
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `
		UPDATE users SET profile_pic = $2 WHERE id = $1
	`, id, url)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) ListOthers(ctx context.Context, exclude uuid.UUID) ([]domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT id, email, full_name, profile_pic, created_at
		FROM users
		WHERE id <> $1
		ORDER BY full_name ASC
	`, exclude)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.ProfilePic, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
