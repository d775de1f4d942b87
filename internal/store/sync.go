package store

import (
	"context"
	"fmt"
	"time"

	"marks-cli/internal/model"

	"github.com/rs/zerolog"
)

// BookmarkSource supplies the canonical bookmark set. api.Client satisfies
// this.
type BookmarkSource interface {
	Bookmarks(ctx context.Context) ([]model.Bookmark, error)
}

// Sync refreshes the cache from src once. It is the offline-support worker
// of the app shell: best-effort, never retried within a run, and its
// outcome goes to the log sink only, never to the user.
func Sync(ctx context.Context, cache *Cache, src BookmarkSource, log zerolog.Logger) error {
	start := time.Now()
	bookmarks, err := src.Bookmarks(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("offline sync: fetch failed")
		return fmt.Errorf("offline sync: %w", err)
	}
	if err := cache.ReplaceAll(ctx, bookmarks, time.Now()); err != nil {
		log.Warn().Err(err).Msg("offline sync: cache write failed")
		return fmt.Errorf("offline sync: %w", err)
	}
	log.Info().
		Int("bookmarks", len(bookmarks)).
		Dur("took", time.Since(start)).
		Msg("offline sync: complete")
	return nil
}
