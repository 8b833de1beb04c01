// Package sqlite persists cookies in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/artpar/doctester/internal/cookies"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cookies (
	id         TEXT PRIMARY KEY,
	domain     TEXT NOT NULL,
	path       TEXT NOT NULL,
	name       TEXT NOT NULL,
	value      TEXT NOT NULL,
	secure     INTEGER NOT NULL DEFAULT 0,
	http_only  INTEGER NOT NULL DEFAULT 0,
	host_only  INTEGER NOT NULL DEFAULT 0,
	expires    INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL,
	UNIQUE(domain, path, name)
);
CREATE INDEX IF NOT EXISTS idx_cookies_domain ON cookies(domain);
`

const columns = "id, domain, path, name, value, secure, http_only, host_only, expires, updated_at"

// Store implements cookies.Store.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Open opens the database at path, creating the schema if needed. An empty
// path opens a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cookie database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cookie database: %w", err)
	}
	return &Store{db: db}, nil
}

// Put inserts or replaces a cookie, keeping the id of an existing row.
func (s *Store) Put(ctx context.Context, c *cookies.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return cookies.ErrStoreClosed
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cookies (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(domain, path, name) DO UPDATE SET
			value = excluded.value,
			secure = excluded.secure,
			http_only = excluded.http_only,
			host_only = excluded.host_only,
			expires = excluded.expires,
			updated_at = excluded.updated_at`,
		c.ID, c.Domain, c.Path, c.Name, c.Value,
		c.Secure, c.HTTPOnly, c.HostOnly,
		unixOrZero(c.Expires), c.UpdatedAt.UnixNano(),
	)
	return err
}

// List returns unexpired cookies ordered by domain, path and name.
func (s *Store) List(ctx context.Context, domain string) ([]*cookies.Cookie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, cookies.ErrStoreClosed
	}

	query := `SELECT ` + columns + ` FROM cookies WHERE (expires = 0 OR expires > ?)`
	args := []any{time.Now().Unix()}
	if domain != "" {
		query += ` AND domain = ?`
		args = append(args, domain)
	}
	query += ` ORDER BY domain, path, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*cookies.Cookie
	for rows.Next() {
		var c cookies.Cookie
		var expires, updated int64
		if err := rows.Scan(&c.ID, &c.Domain, &c.Path, &c.Name, &c.Value,
			&c.Secure, &c.HTTPOnly, &c.HostOnly, &expires, &updated); err != nil {
			return nil, err
		}
		if expires != 0 {
			c.Expires = time.Unix(expires, 0)
		}
		c.UpdatedAt = time.Unix(0, updated)
		result = append(result, &c)
	}
	return result, rows.Err()
}

// Delete removes one cookie. Deleting a missing cookie is not an error.
func (s *Store) Delete(ctx context.Context, domain, path, name string) error {
	return s.exec(ctx, `DELETE FROM cookies WHERE domain = ? AND path = ? AND name = ?`, domain, path, name)
}

// Clear removes every cookie.
func (s *Store) Clear(ctx context.Context) error {
	return s.exec(ctx, `DELETE FROM cookies`)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return cookies.ErrStoreClosed
	}
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// Close closes the database. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
