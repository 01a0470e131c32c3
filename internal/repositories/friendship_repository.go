package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"realtime-service/internal/models"
)

var ErrFriendshipNotFound = errors.New("friendship not found")

// FriendshipRepository abstracts friendship persistence.
type FriendshipRepository interface {
	Create(ctx context.Context, requesterID, addresseeID int) (models.Friendship, error)
	GetByPair(ctx context.Context, userID, otherUserID int) (models.Friendship, error)
	GetByID(ctx context.Context, friendshipID int) (models.Friendship, error)
	UpdateStatus(ctx context.Context, friendshipID int, status models.FriendshipStatus) (models.Friendship, error)
	AreFriends(ctx context.Context, userID, otherUserID int) (bool, error)
	ListFriends(ctx context.Context, userID int) ([]models.FriendUser, error)
	ListPending(ctx context.Context, userID int) ([]models.FriendUser, error)
	SearchUsers(ctx context.Context, userID int, query string) ([]models.ChatUser, error)
}

// FriendshipRepo is a sqlx implementation of FriendshipRepository.
type FriendshipRepo struct {
	db *sqlx.DB
}

// NewFriendshipRepo constructs a FriendshipRepo.
func NewFriendshipRepo(db *sqlx.DB) *FriendshipRepo {
	return &FriendshipRepo{db: db}
}

const friendshipColumns = `id, requester_id, addressee_id, status, created_at, updated_at`

// Create inserts a pending friendship request.
func (r *FriendshipRepo) Create(ctx context.Context, requesterID, addresseeID int) (models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f,
		`INSERT INTO friendships (requester_id, addressee_id, status)
         VALUES ($1, $2, 'pending')
         RETURNING `+friendshipColumns,
		requesterID, addresseeID)
	return f, err
}

// GetByPair finds the friendship between two users regardless of who
// requested it.
func (r *FriendshipRepo) GetByPair(ctx context.Context, userID, otherUserID int) (models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f,
		`SELECT `+friendshipColumns+` FROM friendships
         WHERE (requester_id=$1 AND addressee_id=$2) OR (requester_id=$2 AND addressee_id=$1)`,
		userID, otherUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrFriendshipNotFound
	}
	return f, err
}

// GetByID fetches a friendship by id.
func (r *FriendshipRepo) GetByID(ctx context.Context, friendshipID int) (models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f,
		`SELECT `+friendshipColumns+` FROM friendships WHERE id=$1`, friendshipID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrFriendshipNotFound
	}
	return f, err
}

// UpdateStatus sets the friendship status and bumps updated_at.
func (r *FriendshipRepo) UpdateStatus(ctx context.Context, friendshipID int, status models.FriendshipStatus) (models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f,
		`UPDATE friendships SET status=$2, updated_at=NOW()
         WHERE id=$1
         RETURNING `+friendshipColumns,
		friendshipID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrFriendshipNotFound
	}
	return f, err
}

// AreFriends reports whether an accepted friendship links the two users.
func (r *FriendshipRepo) AreFriends(ctx context.Context, userID, otherUserID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(
            SELECT 1 FROM friendships
            WHERE ((requester_id=$1 AND addressee_id=$2) OR (requester_id=$2 AND addressee_id=$1))
              AND status='accepted')`,
		userID, otherUserID)
	return exists, err
}

const friendUserSelect = `SELECT
        u.id, u.display_name, u.handle, u.avatar_url,
        f.id AS friendship_id, f.status,
        (f.requester_id = $1) AS is_requester
    FROM friendships f
    JOIN users u ON (CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END) = u.id
    WHERE (f.requester_id = $1 OR f.addressee_id = $1)`

// ListFriends returns accepted friendships as seen by the user.
func (r *FriendshipRepo) ListFriends(ctx context.Context, userID int) ([]models.FriendUser, error) {
	var friends []models.FriendUser
	err := r.db.SelectContext(ctx, &friends,
		friendUserSelect+` AND f.status='accepted' ORDER BY u.display_name ASC`, userID)
	return friends, err
}

// ListPending returns pending requests in either direction, newest first.
func (r *FriendshipRepo) ListPending(ctx context.Context, userID int) ([]models.FriendUser, error) {
	var pending []models.FriendUser
	err := r.db.SelectContext(ctx, &pending,
		friendUserSelect+` AND f.status='pending' ORDER BY f.created_at DESC`, userID)
	return pending, err
}

// SearchUsers finds users with no existing friendship row toward the
// caller. An empty query returns random suggestions.
func (r *FriendshipRepo) SearchUsers(ctx context.Context, userID int, query string) ([]models.ChatUser, error) {
	order := `RANDOM()`
	if query != "" {
		order = `COALESCE(u.display_name, u.handle) ASC`
	}
	var users []models.ChatUser
	err := r.db.SelectContext(ctx, &users,
		`SELECT u.id, u.display_name, u.handle, u.avatar_url, u.last_online_at
         FROM users u
         WHERE u.id != $1
           AND ($2 = '' OR u.display_name ILIKE $3 OR u.handle ILIKE $3)
           AND NOT EXISTS (
             SELECT 1 FROM friendships f
             WHERE (f.requester_id = $1 AND f.addressee_id = u.id)
                OR (f.requester_id = u.id AND f.addressee_id = $1))
         ORDER BY `+order+`
         LIMIT 20`,
		userID, query, "%"+query+"%")
	return users, err
}
