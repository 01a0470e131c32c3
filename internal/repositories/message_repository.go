package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"realtime-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// DirectMessageRepository abstracts direct-message persistence and the
// delivery-state transitions.
type DirectMessageRepository interface {
	Create(ctx context.Context, senderID, recipientID int, body, imageURL *string) (models.DirectMessage, error)
	GetMessage(ctx context.Context, messageID int) (models.DirectMessage, error)
	ListConversation(ctx context.Context, userID, otherUserID, limit, offset int) (models.ConversationPage, error)
	MarkDelivered(ctx context.Context, senderID, recipientID int) error
	MarkRead(ctx context.Context, messageIDs []int, recipientID int) (int64, error)
}

// DirectMessageRepo is a sqlx implementation of DirectMessageRepository.
type DirectMessageRepo struct {
	db *sqlx.DB
}

// NewDirectMessageRepo constructs a DirectMessageRepo.
func NewDirectMessageRepo(db *sqlx.DB) *DirectMessageRepo {
	return &DirectMessageRepo{db: db}
}

type directMessageRow struct {
	ID                   int       `db:"id"`
	SenderUserID         int       `db:"sender_user_id"`
	RecipientUserID      int       `db:"recipient_user_id"`
	Body                 *string   `db:"body"`
	ImageURL             *string   `db:"image_url"`
	Status               string    `db:"status"`
	CreatedAt            time.Time `db:"created_at"`
	SenderDisplayName    *string   `db:"sender_display_name"`
	SenderHandle         *string   `db:"sender_handle"`
	SenderAvatar         *string   `db:"sender_avatar"`
	RecipientDisplayName *string   `db:"recipient_display_name"`
	RecipientHandle      *string   `db:"recipient_handle"`
	RecipientAvatar      *string   `db:"recipient_avatar"`
}

func (row directMessageRow) toModel() models.DirectMessage {
	return models.DirectMessage{
		ID:              row.ID,
		SenderUserID:    row.SenderUserID,
		RecipientUserID: row.RecipientUserID,
		Body:            row.Body,
		ImageURL:        row.ImageURL,
		CreatedAt:       row.CreatedAt,
		Status:          models.MessageStatus(row.Status),
		Sender: models.MessageParty{
			DisplayName: row.SenderDisplayName,
			Handle:      row.SenderHandle,
			AvatarURL:   row.SenderAvatar,
		},
		Recipient: models.MessageParty{
			DisplayName: row.RecipientDisplayName,
			Handle:      row.RecipientHandle,
			AvatarURL:   row.RecipientAvatar,
		},
	}
}

const directMessageSelect = `SELECT
        dm.id, dm.sender_user_id, dm.recipient_user_id, dm.body, dm.image_url, dm.status, dm.created_at,
        s.display_name AS sender_display_name, s.handle AS sender_handle, s.avatar_url AS sender_avatar,
        r.display_name AS recipient_display_name, r.handle AS recipient_handle, r.avatar_url AS recipient_avatar
    FROM direct_messages dm
    JOIN users s ON s.id = dm.sender_user_id
    JOIN users r ON r.id = dm.recipient_user_id`

// Create inserts a direct message with the initial 'sent' status and
// returns it with both parties' display attributes attached.
func (r *DirectMessageRepo) Create(ctx context.Context, senderID, recipientID int, body, imageURL *string) (models.DirectMessage, error) {
	var id int
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO direct_messages (sender_user_id, recipient_user_id, body, image_url)
         VALUES ($1, $2, $3, $4) RETURNING id`,
		senderID, recipientID, body, imageURL).Scan(&id)
	if err != nil {
		return models.DirectMessage{}, err
	}
	return r.GetMessage(ctx, id)
}

// GetMessage loads a single message with display attributes.
func (r *DirectMessageRepo) GetMessage(ctx context.Context, messageID int) (models.DirectMessage, error) {
	var row directMessageRow
	err := r.db.GetContext(ctx, &row, directMessageSelect+` WHERE dm.id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DirectMessage{}, ErrMessageNotFound
	}
	if err != nil {
		return models.DirectMessage{}, err
	}
	return row.toModel(), nil
}

// ListConversation returns one page of the conversation between two
// users, oldest first within the page.
func (r *DirectMessageRepo) ListConversation(ctx context.Context, userID, otherUserID, limit, offset int) (models.ConversationPage, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM direct_messages dm
         WHERE (dm.sender_user_id=$1 AND dm.recipient_user_id=$2)
            OR (dm.sender_user_id=$2 AND dm.recipient_user_id=$1)`,
		userID, otherUserID)
	if err != nil {
		return models.ConversationPage{}, err
	}

	var rows []directMessageRow
	err = r.db.SelectContext(ctx, &rows, directMessageSelect+`
         WHERE (dm.sender_user_id=$1 AND dm.recipient_user_id=$2)
            OR (dm.sender_user_id=$2 AND dm.recipient_user_id=$1)
         ORDER BY dm.created_at DESC
         LIMIT $3 OFFSET $4`,
		userID, otherUserID, limit, offset)
	if err != nil {
		return models.ConversationPage{}, err
	}

	msgs := make([]models.DirectMessage, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		msgs = append(msgs, rows[i].toModel())
	}
	return models.ConversationPage{
		Messages: msgs,
		HasMore:  total > offset+len(msgs),
	}, nil
}

// MarkDelivered transitions all 'sent' messages from sender to recipient
// to 'delivered'. The status guard makes the call idempotent and keeps
// already-read messages untouched.
func (r *DirectMessageRepo) MarkDelivered(ctx context.Context, senderID, recipientID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE direct_messages SET status='delivered'
         WHERE sender_user_id=$1 AND recipient_user_id=$2 AND status='sent'`,
		senderID, recipientID)
	return err
}

// MarkRead transitions the named messages to 'read', restricted to rows
// where the caller is the recipient. Returns the number of rows updated.
func (r *DirectMessageRepo) MarkRead(ctx context.Context, messageIDs []int, recipientID int) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE direct_messages SET status='read'
         WHERE id = ANY($1) AND recipient_user_id=$2 AND status <> 'read'`,
		pq.Array(messageIDs), recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
