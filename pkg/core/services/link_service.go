package services

import (
	"context"
	"log"
	"sync"

	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

// LinkService holds the in-memory history list. The list is only ever
// replaced wholesale from the server; Patch touches local fields.
type LinkService struct {
	api ports.LinkAPI

	mu         sync.RWMutex
	links      []domain.LinkRecord
	loaded     bool
	issued     uint64 // refresh sequence
	applied    uint64
	generation uint64 // bumped by Reset
}

func NewLinkService(api ports.LinkAPI) *LinkService {
	return &LinkService{api: api}
}

// Refresh replaces the list with the server's. On error the previous list
// is kept. A response is dropped if a later refresh already landed or the
// store was reset while it was in flight.
func (s *LinkService) Refresh(ctx context.Context) error {
	return s.refresh(ctx, s.currentGeneration())
}

func (s *LinkService) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// refresh applies the response only while the store is still at gen.
func (s *LinkService) refresh(ctx context.Context, gen uint64) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	links, err := s.api.History(ctx)
	if err != nil {
		return err
	}

	fresh := make([]domain.LinkRecord, 0, len(links))
	seen := make(map[int64]bool, len(links))
	for _, l := range links {
		if seen[l.ID] {
			log.Printf("history: dropping duplicate link id %d", l.ID)
			continue
		}
		seen[l.ID] = true
		l.Copied = false
		fresh = append(fresh, l)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || seq <= s.applied {
		return nil
	}
	s.applied = seq
	s.links = fresh
	s.loaded = true
	return nil
}

// Shorten creates a link and then resyncs the whole list instead of
// inserting the returned record. If the store was reset while the POST was
// in flight the resync is skipped and ErrSessionChanged is returned with
// the result.
func (s *LinkService) Shorten(ctx context.Context, url string) (*domain.ShortenResult, error) {
	if url == "" {
		return nil, domain.ErrEmptyURL
	}

	gen := s.currentGeneration()
	res, err := s.api.Shorten(ctx, url)
	if err != nil {
		return nil, err
	}
	if s.currentGeneration() != gen {
		return res, domain.ErrSessionChanged
	}

	if err := s.refresh(ctx, gen); err != nil {
		log.Printf("Failed to load history: %v", err)
	}
	return res, nil
}

// Patch applies fn to the record with id. It never reaches the server.
func (s *LinkService) Patch(id int64, fn func(*domain.LinkRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.links {
		if s.links[i].ID == id {
			fn(&s.links[i])
			s.links[i].ID = id
			return true
		}
	}
	return false
}

// SetCopied implements ports.FlagSink
func (s *LinkService) SetCopied(id int64, copied bool) bool {
	return s.Patch(id, func(l *domain.LinkRecord) { l.Copied = copied })
}

func (s *LinkService) Get(id int64) (domain.LinkRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.links {
		if l.ID == id {
			return l, true
		}
	}
	return domain.LinkRecord{}, false
}

// Links returns a copy of the current list
func (s *LinkService) Links() []domain.LinkRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LinkRecord, len(s.links))
	copy(out, s.links)
	return out
}

func (s *LinkService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}

// Loaded reports whether a refresh has landed since the last Reset
func (s *LinkService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Reset empties the list and orphans every refresh still in flight.
func (s *LinkService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.links = nil
	s.loaded = false
}
