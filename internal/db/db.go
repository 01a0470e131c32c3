package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            external_id VARCHAR(255) NOT NULL UNIQUE,
            display_name VARCHAR(100),
            handle VARCHAR(100),
            avatar_url TEXT,
            last_online_at TIMESTAMPTZ
        );`,
		`CREATE TABLE IF NOT EXISTS friendships (
            id SERIAL PRIMARY KEY,
            requester_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            addressee_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            status VARCHAR(20) NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending', 'accepted', 'rejected')),
            created_at TIMESTAMPTZ DEFAULT NOW(),
            updated_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_friendships_pair
            ON friendships (LEAST(requester_id, addressee_id), GREATEST(requester_id, addressee_id));`,
		`CREATE TABLE IF NOT EXISTS direct_messages (
            id SERIAL PRIMARY KEY,
            sender_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            recipient_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            body TEXT,
            image_url TEXT,
            status VARCHAR(20) NOT NULL DEFAULT 'sent'
                CHECK (status IN ('sent', 'delivered', 'read')),
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_direct_messages_pair
            ON direct_messages (sender_user_id, recipient_user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS threads (
            id SERIAL PRIMARY KEY,
            author_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title VARCHAR(200) NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id SERIAL PRIMARY KEY,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            actor_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            thread_id INT REFERENCES threads(id) ON DELETE CASCADE,
            friendship_id INT REFERENCES friendships(id) ON DELETE CASCADE,
            type VARCHAR(40) NOT NULL
                CHECK (type IN ('REPLY_ON_THREAD', 'LIKE_ON_THREAD', 'FRIEND_REQUEST', 'FRIEND_ACCEPTED', 'FRIEND_REJECTED')),
            created_at TIMESTAMPTZ DEFAULT NOW(),
            read_at TIMESTAMPTZ
        );`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user
            ON notifications (user_id, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS topic_rooms (
            id SERIAL PRIMARY KEY,
            title VARCHAR(100) NOT NULL,
            category VARCHAR(50) NOT NULL,
            creator_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            max_users INT NOT NULL DEFAULT 50,
            created_at TIMESTAMPTZ DEFAULT NOW(),
            expires_at TIMESTAMPTZ NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_topic_rooms_expires_at ON topic_rooms(expires_at);`,
		`CREATE INDEX IF NOT EXISTS idx_topic_rooms_category ON topic_rooms(category);`,
		`CREATE TABLE IF NOT EXISTS room_participants (
            room_id INT NOT NULL REFERENCES topic_rooms(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            joined_at TIMESTAMPTZ DEFAULT NOW(),
            conn_id VARCHAR(255),
            PRIMARY KEY (room_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS room_messages (
            id SERIAL PRIMARY KEY,
            room_id INT NOT NULL REFERENCES topic_rooms(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_room_messages_room_id ON room_messages(room_id);`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
