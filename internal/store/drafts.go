package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/model"
)

var (
	ErrTitleRequired = errors.New(config.ErrTitleRequired)
	ErrDraftNotFound = errors.New(config.ErrDraftNotFound)
)

// DraftStore keeps the whole draft collection as one JSON array under
// config.DraftsKey, newest first. Mutations are read-modify-write and are
// serialised by a mutex.
type DraftStore struct {
	backend Backend
	key     string
	now     func() time.Time

	mu sync.Mutex
}

func NewDraftStore(backend Backend) *DraftStore {
	return &DraftStore{
		backend: backend,
		key:     config.DraftsKey,
		now:     time.Now,
	}
}

// SetClock replaces the time source used for CreatedAt.
func (s *DraftStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *DraftStore) load(ctx context.Context) ([]model.Draft, error) {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []model.Draft{}, nil
	}
	if err != nil {
		return nil, err
	}

	var drafts []model.Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.key, err)
	}
	if drafts == nil {
		drafts = []model.Draft{}
	}
	return drafts, nil
}

func (s *DraftStore) save(ctx context.Context, drafts []model.Draft) error {
	data, err := json.Marshal(drafts)
	if err != nil {
		return err
	}
	return s.backend.Put(ctx, s.key, data)
}

func (s *DraftStore) List(ctx context.Context) ([]model.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *DraftStore) Get(ctx context.Context, id model.DraftID) (model.Draft, error) {
	drafts, err := s.List(ctx)
	if err != nil {
		return model.Draft{}, err
	}

	for _, d := range drafts {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Draft{}, ErrDraftNotFound
}

// Add trims the title and prepends a new draft. An empty title is rejected
// and the collection is left untouched.
func (s *DraftStore) Add(ctx context.Context, title, body string) (model.Draft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Draft{}, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.load(ctx)
	if err != nil {
		return model.Draft{}, err
	}

	draft := model.Draft{
		ID:        model.DraftID(uuid.New().String()),
		Title:     title,
		Body:      body,
		CreatedAt: s.now(),
	}

	if err := s.save(ctx, append([]model.Draft{draft}, drafts...)); err != nil {
		return model.Draft{}, err
	}

	storeLogger.Debug().Str("draft_id", string(draft.ID)).Msg("Draft added")
	return draft, nil
}

// Update replaces the title and body of an existing draft in place. The title
// is stored as given.
func (s *DraftStore) Update(ctx context.Context, id model.DraftID, title, body string) (model.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.load(ctx)
	if err != nil {
		return model.Draft{}, err
	}

	for i := range drafts {
		if drafts[i].ID == id {
			drafts[i].Title = title
			drafts[i].Body = body
			if err := s.save(ctx, drafts); err != nil {
				return model.Draft{}, err
			}
			return drafts[i], nil
		}
	}
	return model.Draft{}, ErrDraftNotFound
}

// Delete removes a draft. Deleting an unknown id is not an error.
func (s *DraftStore) Delete(ctx context.Context, id model.DraftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := drafts[:0]
	for _, d := range drafts {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return s.save(ctx, kept)
}

// Remove deletes every draft whose id is listed. Unknown ids are ignored.
func (s *DraftStore) Remove(ctx context.Context, ids ...model.DraftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.load(ctx)
	if err != nil {
		return err
	}

	drop := make(map[model.DraftID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := drafts[:0]
	for _, d := range drafts {
		if _, ok := drop[d.ID]; !ok {
			kept = append(kept, d)
		}
	}
	return s.save(ctx, kept)
}

func (s *DraftStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, []model.Draft{})
}
