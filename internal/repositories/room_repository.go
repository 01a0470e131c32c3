package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"realtime-service/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository abstracts topic-room persistence. Every read treats a
// room whose expires_at has passed as nonexistent.
type RoomRepository interface {
	CreateRoom(ctx context.Context, creatorID int, title, category string, maxUsers int, expiresAt time.Time) (models.TopicRoom, error)
	ListActive(ctx context.Context, category, search string) ([]models.TopicRoom, error)
	GetActive(ctx context.Context, roomID int) (models.TopicRoom, error)
	IsParticipant(ctx context.Context, roomID, userID int) (bool, error)
	AddParticipant(ctx context.Context, roomID, userID, maxUsers int) (bool, error)
	RemoveParticipant(ctx context.Context, roomID, userID int) error
	ParticipantCount(ctx context.Context, roomID int) (int, error)
	CreateMessage(ctx context.Context, roomID, userID int, content string) (models.RoomMessage, error)
	ListMessages(ctx context.Context, roomID, limit int) ([]models.RoomMessage, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// CreateRoom persists a room with a precomputed expiry.
func (r *RoomRepo) CreateRoom(ctx context.Context, creatorID int, title, category string, maxUsers int, expiresAt time.Time) (models.TopicRoom, error) {
	var room models.TopicRoom
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO topic_rooms (title, category, creator_id, max_users, expires_at)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, title, category, creator_id, max_users, created_at, expires_at`,
		title, category, creatorID, maxUsers, expiresAt).
		Scan(&room.ID, &room.Title, &room.Category, &room.CreatorID, &room.MaxUsers, &room.CreatedAt, &room.ExpiresAt)
	return room, err
}

const activeRoomSelect = `SELECT
        t.id, t.title, t.category, t.creator_id, t.max_users, t.created_at, t.expires_at,
        COALESCE(COUNT(p.user_id), 0)::int AS participant_count
    FROM topic_rooms t
    LEFT JOIN room_participants p ON t.id = p.room_id
    WHERE t.expires_at > NOW()`

// ListActive returns live rooms with participant counts, newest first.
// Category filters exactly ("All" means no filter); search matches the
// title case-insensitively.
func (r *RoomRepo) ListActive(ctx context.Context, category, search string) ([]models.TopicRoom, error) {
	query := activeRoomSelect
	args := []interface{}{}

	if category != "" && category != "All" {
		args = append(args, category)
		query += ` AND t.category = $1`
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		if len(args) == 1 {
			query += ` AND t.title ILIKE $1`
		} else {
			query += ` AND t.title ILIKE $2`
		}
	}
	query += ` GROUP BY t.id ORDER BY t.created_at DESC LIMIT 50`

	var rooms []models.TopicRoom
	err := r.db.SelectContext(ctx, &rooms, query, args...)
	return rooms, err
}

// GetActive fetches a live room with its participant count.
func (r *RoomRepo) GetActive(ctx context.Context, roomID int) (models.TopicRoom, error) {
	var room models.TopicRoom
	err := r.db.GetContext(ctx, &room, activeRoomSelect+` AND t.id=$1 GROUP BY t.id`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TopicRoom{}, ErrRoomNotFound
	}
	return room, err
}

// IsParticipant reports whether the user already joined the room.
func (r *RoomRepo) IsParticipant(ctx context.Context, roomID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM room_participants WHERE room_id=$1 AND user_id=$2)`,
		roomID, userID)
	return exists, err
}

// AddParticipant inserts the participant row only while the room has
// spare capacity. The count guard and insert run in one statement, so
// concurrent joins at the boundary cannot overfill the room. Returns
// false when the guard blocked the insert.
func (r *RoomRepo) AddParticipant(ctx context.Context, roomID, userID, maxUsers int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO room_participants (room_id, user_id)
         SELECT $1, $2
         WHERE (SELECT COUNT(*) FROM room_participants WHERE room_id=$1) < $3
         ON CONFLICT (room_id, user_id) DO NOTHING`,
		roomID, userID, maxUsers)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RemoveParticipant deletes the join row; removing a non-participant is
// a no-op.
func (r *RoomRepo) RemoveParticipant(ctx context.Context, roomID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM room_participants WHERE room_id=$1 AND user_id=$2`, roomID, userID)
	return err
}

// ParticipantCount counts current participants.
func (r *RoomRepo) ParticipantCount(ctx context.Context, roomID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM room_participants WHERE room_id=$1`, roomID)
	return count, err
}

type roomMessageRow struct {
	ID                int       `db:"id"`
	RoomID            int       `db:"room_id"`
	UserID            int       `db:"user_id"`
	Content           string    `db:"content"`
	CreatedAt         time.Time `db:"created_at"`
	SenderDisplayName *string   `db:"sender_display_name"`
	SenderAvatarURL   *string   `db:"sender_avatar_url"`
}

func (row roomMessageRow) toModel() models.RoomMessage {
	return models.RoomMessage{
		ID:        row.ID,
		RoomID:    row.RoomID,
		UserID:    row.UserID,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		Sender: &models.RoomSender{
			ID:          row.UserID,
			DisplayName: row.SenderDisplayName,
			AvatarURL:   row.SenderAvatarURL,
		},
	}
}

// CreateMessage appends a room message and returns it with the sender
// snapshot for broadcasting.
func (r *RoomRepo) CreateMessage(ctx context.Context, roomID, userID int, content string) (models.RoomMessage, error) {
	var row roomMessageRow
	err := r.db.GetContext(ctx, &row,
		`WITH inserted AS (
            INSERT INTO room_messages (room_id, user_id, content)
            VALUES ($1, $2, $3)
            RETURNING id, room_id, user_id, content, created_at
         )
         SELECT i.id, i.room_id, i.user_id, i.content, i.created_at,
                u.display_name AS sender_display_name, u.avatar_url AS sender_avatar_url
         FROM inserted i
         JOIN users u ON u.id = i.user_id`,
		roomID, userID, content)
	if err != nil {
		return models.RoomMessage{}, err
	}
	return row.toModel(), nil
}

// ListMessages returns room history oldest first.
func (r *RoomRepo) ListMessages(ctx context.Context, roomID, limit int) ([]models.RoomMessage, error) {
	if limit < 1 {
		limit = 50
	}
	var rows []roomMessageRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT m.id, m.room_id, m.user_id, m.content, m.created_at,
                u.display_name AS sender_display_name, u.avatar_url AS sender_avatar_url
         FROM room_messages m
         JOIN users u ON u.id = m.user_id
         WHERE m.room_id=$1
         ORDER BY m.created_at ASC
         LIMIT $2`,
		roomID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.RoomMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}
