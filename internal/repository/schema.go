package repository

import (
	"context"
	"fmt"
)

// ReferenceSchemas は予約Webアプリケーションが所有するテーブルです
// ボットは参照と承認/却下の更新のみを行い、作成はしません
var ReferenceSchemas = []string{`
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	players TEXT NOT NULL DEFAULT '',
	duration TEXT NOT NULL DEFAULT '',
	age TEXT NOT NULL DEFAULT ''
);
`, `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL
);
`, `
CREATE TABLE IF NOT EXISTS reservations (
	id TEXT PRIMARY KEY,
	game_id TEXT NOT NULL REFERENCES games(id),
	user_id TEXT NOT NULL REFERENCES users(id),
	user_name TEXT NOT NULL DEFAULT '',
	start_date TIMESTAMP WITH TIME ZONE NOT NULL,
	end_date TIMESTAMP WITH TIME ZONE NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	notes TEXT,
	admin_notes TEXT,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`}

// BotSchemas はボットが所有するテーブルです
// reservation_id の主キー制約により、1つの予約に紐付くメッセージは高々1件になります
var BotSchemas = []string{`
CREATE TABLE IF NOT EXISTS reservation_messages (
	reservation_id TEXT PRIMARY KEY REFERENCES reservations(id),
	message_id TEXT NOT NULL UNIQUE,
	channel_id TEXT NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`}

// EnsureSchema はボットが所有するテーブルを作成します
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range BotSchemas {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
