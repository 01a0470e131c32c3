package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"realtime-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository reads user rows owned by the identity pipeline and
// records last-seen timestamps.
type UserRepository interface {
	GetBasic(ctx context.Context, userID int) (models.User, error)
	TouchLastOnline(ctx context.Context, userID int) error
	ListChatUsers(ctx context.Context, userID int) ([]models.ChatUser, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetBasic loads a user's display attributes.
func (r *UserRepo) GetBasic(ctx context.Context, userID int) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, external_id, display_name, handle, avatar_url, last_online_at
         FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

// TouchLastOnline records the moment a user's last connection closed.
func (r *UserRepo) TouchLastOnline(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_online_at = NOW() WHERE id=$1`, userID)
	return err
}

// ListChatUsers returns the accepted friends a user can message, sorted
// by display name.
func (r *UserRepo) ListChatUsers(ctx context.Context, userID int) ([]models.ChatUser, error) {
	var users []models.ChatUser
	err := r.db.SelectContext(ctx, &users,
		`SELECT u.id, u.display_name, u.handle, u.avatar_url, u.last_online_at
         FROM users u
         JOIN friendships f ON (
             (f.requester_id = $1 AND f.addressee_id = u.id)
             OR (f.addressee_id = $1 AND f.requester_id = u.id))
         WHERE f.status = 'accepted'
         ORDER BY COALESCE(u.display_name, u.handle, 'User') ASC`,
		userID)
	return users, err
}
