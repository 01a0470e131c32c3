package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"realtime-service/internal/models"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrThreadNotFound       = errors.New("thread not found")
)

// NotificationInsert is the write shape for a notification row. The
// fan-out service fills exactly one of ThreadID / FriendshipID depending
// on the variant.
type NotificationInsert struct {
	UserID       int
	ActorUserID  int
	ThreadID     *int
	FriendshipID *int
	Type         models.NotificationType
}

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	Insert(ctx context.Context, n NotificationInsert) (int, error)
	GetDetailed(ctx context.Context, notificationID int) (models.Notification, error)
	ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int) error
	ThreadAuthor(ctx context.Context, threadID int) (int, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

type notificationRow struct {
	ID               int        `db:"id"`
	Type             string     `db:"type"`
	ThreadID         *int       `db:"thread_id"`
	FriendshipID     *int       `db:"friendship_id"`
	CreatedAt        time.Time  `db:"created_at"`
	ReadAt           *time.Time `db:"read_at"`
	ActorDisplayName *string    `db:"actor_display_name"`
	ActorHandle      *string    `db:"actor_handle"`
	ActorAvatarURL   *string    `db:"actor_avatar_url"`
	ThreadTitle      *string    `db:"thread_title"`
}

func (row notificationRow) toModel() models.Notification {
	n := models.Notification{
		ID:           row.ID,
		Type:         models.NotificationType(row.Type),
		ThreadID:     row.ThreadID,
		FriendshipID: row.FriendshipID,
		CreatedAt:    row.CreatedAt,
		ReadAt:       row.ReadAt,
		Actor: models.NotificationActor{
			DisplayName: row.ActorDisplayName,
			Handle:      row.ActorHandle,
			AvatarURL:   row.ActorAvatarURL,
		},
	}
	if row.ThreadTitle != nil {
		n.Thread = &models.ThreadRef{Title: *row.ThreadTitle}
	}
	return n
}

const notificationSelect = `SELECT
        n.id, n.type, n.thread_id, n.friendship_id, n.created_at, n.read_at,
        actor.display_name AS actor_display_name,
        actor.handle AS actor_handle,
        actor.avatar_url AS actor_avatar_url,
        t.title AS thread_title
    FROM notifications n
    JOIN users actor ON actor.id = n.actor_user_id
    LEFT JOIN threads t ON t.id = n.thread_id`

// Insert stores a notification row and returns its id.
func (r *NotificationRepo) Insert(ctx context.Context, n NotificationInsert) (int, error) {
	var id int
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, actor_user_id, thread_id, friendship_id, type)
         VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		n.UserID, n.ActorUserID, n.ThreadID, n.FriendshipID, n.Type).Scan(&id)
	return id, err
}

// GetDetailed loads the push payload for one notification.
func (r *NotificationRepo) GetDetailed(ctx context.Context, notificationID int) (models.Notification, error) {
	var row notificationRow
	err := r.db.GetContext(ctx, &row, notificationSelect+` WHERE n.id=$1`, notificationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotificationNotFound
	}
	if err != nil {
		return models.Notification{}, err
	}
	return row.toModel(), nil
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	query := notificationSelect + ` WHERE n.user_id=$1`
	if unreadOnly {
		query += ` AND n.read_at IS NULL`
	}
	query += ` ORDER BY n.created_at DESC`

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// MarkRead sets read_at once; a second call leaves the timestamp alone.
// The user_id predicate scopes the update to the owner, so marking
// someone else's notification reports not found.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, NOW())
         WHERE id=$1 AND user_id=$2`,
		notificationID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// ThreadAuthor resolves the author of a thread for reply/like fan-out.
func (r *NotificationRepo) ThreadAuthor(ctx context.Context, threadID int) (int, error) {
	var authorID int
	err := r.db.GetContext(ctx, &authorID,
		`SELECT author_user_id FROM threads WHERE id=$1`, threadID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrThreadNotFound
	}
	return authorID, err
}
