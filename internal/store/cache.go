package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marks-cli/internal/model"
	"marks-cli/internal/suggest"

	_ "modernc.org/sqlite"
)

// Cache is the local SQLite bookmark mirror. It is what keeps suggestions
// working when the server is unreachable: the sync worker fills it in the
// background and the TUI falls back to it on fetch failures.
type Cache struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the per-user cache location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".marks", "cache.sqlite"), nil
}

// Open opens (creating if needed) the cache at path.
func Open(ctx context.Context, path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	c := &Cache{db: db, path: path}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS bookmarks (
  id          INTEGER PRIMARY KEY,
  title       TEXT NOT NULL,
  url         TEXT NOT NULL,
  icon        TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  keywords    TEXT NOT NULL DEFAULT '',
  category_id INTEGER NOT NULL DEFAULT 0,
  click_count INTEGER NOT NULL DEFAULT 0,
  weight      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS sync_meta (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// ReplaceAll swaps the cached bookmark set in one transaction and stamps
// the sync time.
func (c *Cache) ReplaceAll(ctx context.Context, bookmarks []model.Bookmark, syncedAt time.Time) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookmarks`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO bookmarks (id, title, url, icon, description, keywords, category_id, click_count, weight)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, b := range bookmarks {
		if _, err := stmt.ExecContext(ctx, b.ID, b.Title, b.URL, b.Icon, b.Description, b.Keywords, b.CategoryID, b.ClickCount, b.Weight); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sync_meta (key, value) VALUES ('synced_at', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		syncedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// Suggest runs the offline version of the server's suggestion query:
// substring match on title/description/keywords/url, most-clicked first.
func (c *Cache) Suggest(ctx context.Context, term string, limit int) ([]suggest.Result, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	pat := "%" + escapeLike(term) + "%"
	rows, err := c.db.QueryContext(ctx, `
SELECT id, title, url, icon FROM bookmarks
WHERE title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
   OR keywords LIKE ? ESCAPE '\' OR url LIKE ? ESCAPE '\'
ORDER BY click_count DESC, id DESC
LIMIT ?`, pat, pat, pat, pat, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []suggest.Result
	for rows.Next() {
		var r suggest.Result
		if err := rows.Scan(&r.ID, &r.Title, &r.URL, &r.IconURL); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of cached bookmarks.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&n)
	return n, err
}

// SyncedAt returns the last successful sync time, or zero when the cache
// has never been filled.
func (c *Cache) SyncedAt(ctx context.Context) (time.Time, error) {
	var v string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM sync_meta WHERE key = 'synced_at'`).Scan(&v)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
