package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/cinecrib/cinecrib/internal/model"
	"github.com/cinecrib/cinecrib/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID and public uid.
func (r *UserRepo) Create(ctx context.Context, email, password, displayName string, cost int) (uint64, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, "", err
	}
	uid := uuid.NewString()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (uid, email, password_hash, display_name, role) VALUES (?,?,?,?,'MEMBER')",
		uid, email, hash, displayName)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, "", ErrEmailExists
		}
		return 0, "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", err
	}
	return uint64(id), uid, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "email", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "id", id)
}

func (r *UserRepo) get(ctx context.Context, col string, val any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,uid,email,password_hash,display_name,role,is_active,created_at,updated_at FROM users WHERE "+col+"=? LIMIT 1",
		val).Scan(&u.ID, &u.UID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
