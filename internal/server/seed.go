package server

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"marks-cli/internal/model"
	"marks-cli/internal/suggest"

	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk shape of the bookmark seed.
type seedFile struct {
	Categories []model.Category `yaml:"categories"`
	Bookmarks  []model.Bookmark `yaml:"bookmarks"`
}

// memStore is the server's bookmark set. Handlers run concurrently, so
// unlike the client cores this one carries a lock.
type memStore struct {
	mu         sync.RWMutex
	bookmarks  []model.Bookmark
	categories []model.Category
}

func loadSeed(path string) (*memStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server: read seed: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("server: parse seed %s: %w", path, err)
	}
	seen := map[int64]bool{}
	for _, b := range sf.Bookmarks {
		if b.ID == 0 || strings.TrimSpace(b.URL) == "" {
			return nil, fmt.Errorf("server: seed bookmark %q needs id and url", b.Title)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("server: duplicate bookmark id %d", b.ID)
		}
		seen[b.ID] = true
	}
	return &memStore{bookmarks: sf.Bookmarks, categories: sf.Categories}, nil
}

func (s *memStore) all() []model.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// suggest mirrors the original search ranking: substring match on
// title/description/keywords/url, ordered by click count then recency (id).
func (s *memStore) suggest(term string, limit int) []suggest.Result {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	s.mu.RLock()
	var matched []model.Bookmark
	for _, b := range s.bookmarks {
		if containsFold(b.Title, term) || containsFold(b.Description, term) ||
			containsFold(b.Keywords, term) || containsFold(b.URL, term) {
			matched = append(matched, b)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].ClickCount != matched[j].ClickCount {
			return matched[i].ClickCount > matched[j].ClickCount
		}
		return matched[i].ID > matched[j].ID
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]suggest.Result, 0, len(matched))
	for _, b := range matched {
		out = append(out, suggest.Result{ID: b.ID, Title: b.Title, URL: b.URL, IconURL: b.Icon})
	}
	return out
}

// click increments the click counter and returns the new count, or false
// for an unknown id.
func (s *memStore) click(id int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			s.bookmarks[i].ClickCount++
			return s.bookmarks[i].ClickCount, true
		}
	}
	return 0, false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
