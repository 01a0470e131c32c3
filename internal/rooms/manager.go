// Package rooms manages ephemeral topic rooms. Rooms expire by
// timestamp rather than by an active sweep: every read filters on
// expires_at, so an expired room simply stops admitting joins and
// disappears from listings while its rows linger for external cleanup.
package rooms

import (
	"context"
	"errors"
	"strings"
	"time"

	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

// DefaultMaxUsers caps participants when a creator does not choose one.
const DefaultMaxUsers = 50

var (
	ErrRoomNotFound  = repositories.ErrRoomNotFound
	ErrRoomFull      = errors.New("room is full")
	ErrMissingFields = errors.New("title, category and duration are required")
	ErrEmptyContent  = errors.New("message content is required")
)

// Manager enforces capacity and expiry around the room repository.
type Manager struct {
	repo repositories.RoomRepository
	now  func() time.Time
}

// NewManager constructs a Manager.
func NewManager(repo repositories.RoomRepository) *Manager {
	return &Manager{repo: repo, now: time.Now}
}

// Create persists a room expiring durationMinutes from now.
func (m *Manager) Create(ctx context.Context, creatorID int, title, category string, durationMinutes, maxUsers int) (models.TopicRoom, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	if title == "" || category == "" || durationMinutes <= 0 {
		return models.TopicRoom{}, ErrMissingFields
	}
	if maxUsers <= 0 {
		maxUsers = DefaultMaxUsers
	}
	expiresAt := m.now().Add(time.Duration(durationMinutes) * time.Minute)
	return m.repo.CreateRoom(ctx, creatorID, title, category, maxUsers, expiresAt)
}

// List returns active rooms with participant counts.
func (m *Manager) List(ctx context.Context, category, search string) ([]models.TopicRoom, error) {
	return m.repo.ListActive(ctx, category, search)
}

// Get fetches an active room with its participant count.
func (m *Manager) Get(ctx context.Context, roomID int) (models.TopicRoom, error) {
	return m.repo.GetActive(ctx, roomID)
}

// Join admits a user into an active room. Rejoining is idempotent even
// at capacity; a first join into a full room fails with ErrRoomFull. The
// capacity guard lives in the conditional insert, so concurrent boundary
// joins cannot overfill the room.
func (m *Manager) Join(ctx context.Context, roomID, userID int) (models.TopicRoom, error) {
	room, err := m.repo.GetActive(ctx, roomID)
	if err != nil {
		return models.TopicRoom{}, err
	}

	member, err := m.repo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return models.TopicRoom{}, err
	}
	if member {
		return room, nil
	}

	inserted, err := m.repo.AddParticipant(ctx, roomID, userID, room.MaxUsers)
	if err != nil {
		return models.TopicRoom{}, err
	}
	if !inserted {
		// Zero rows means either the capacity guard blocked the insert
		// or a concurrent join of the same user won the conflict.
		member, err = m.repo.IsParticipant(ctx, roomID, userID)
		if err != nil {
			return models.TopicRoom{}, err
		}
		if !member {
			return models.TopicRoom{}, ErrRoomFull
		}
	}
	return room, nil
}

// Leave removes the participant row; leaving twice is a no-op.
func (m *Manager) Leave(ctx context.Context, roomID, userID int) error {
	return m.repo.RemoveParticipant(ctx, roomID, userID)
}

// ParticipantCount counts current participants of a room.
func (m *Manager) ParticipantCount(ctx context.Context, roomID int) (int, error) {
	return m.repo.ParticipantCount(ctx, roomID)
}

// PostMessage appends a message to an active room and returns it with
// the sender snapshot for broadcasting.
func (m *Manager) PostMessage(ctx context.Context, roomID, userID int, content string) (models.RoomMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.RoomMessage{}, ErrEmptyContent
	}
	if _, err := m.repo.GetActive(ctx, roomID); err != nil {
		return models.RoomMessage{}, err
	}
	return m.repo.CreateMessage(ctx, roomID, userID, content)
}

// Messages returns the history of an active room, oldest first.
func (m *Manager) Messages(ctx context.Context, roomID int) ([]models.RoomMessage, error) {
	if _, err := m.repo.GetActive(ctx, roomID); err != nil {
		return nil, err
	}
	return m.repo.ListMessages(ctx, roomID, 50)
}
