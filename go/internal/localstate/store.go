package localstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// Identity is the signed-in user as persisted between runs.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// Store keeps the signed-in identity and the current room id on disk, the
// way a browser client would keep them in local storage. Single-row
// tables: saving overwrites, clearing deletes.
type Store struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close()
		return nil, fmt.Errorf("chmod db path: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS identity (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	user_id  INTEGER NOT NULL,
	username TEXT NOT NULL,
	role     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS current_room (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	room_id INTEGER NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveUser(ctx context.Context, id Identity) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO identity(id, user_id, username, role) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	user_id=excluded.user_id,
	username=excluded.username,
	role=excluded.role
`, id.UserID, id.Username, id.Role)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *Store) LoadUser(ctx context.Context) (*Identity, error) {
	var id Identity
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, role FROM identity WHERE id = 1`,
	).Scan(&id.UserID, &id.Username, &id.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &id, nil
}

func (s *Store) ClearUser(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM identity`); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

func (s *Store) SaveRoom(ctx context.Context, roomID int64) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO current_room(id, room_id) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET room_id=excluded.room_id
`, roomID)
	if err != nil {
		return fmt.Errorf("save room: %w", err)
	}
	return nil
}

func (s *Store) LoadRoom(ctx context.Context) (int64, error) {
	var roomID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT room_id FROM current_room WHERE id = 1`,
	).Scan(&roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load room: %w", err)
	}
	return roomID, nil
}

func (s *Store) ClearRoom(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM current_room`); err != nil {
		return fmt.Errorf("clear room: %w", err)
	}
	return nil
}
