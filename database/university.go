package database

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/qaunion/portal/model"
)

// UniversitiesKey is the fixed key the universities collection is stored under
const UniversitiesKey = "universities_data"

// UniversityStore is list/create/update/delete over the stored JSON array.
// Every mutation rewrites the whole array; writers in this process are
// serialized so the max+1 id rule stays unique.
type UniversityStore struct {
	kv  KeyValue
	key string
	mu  sync.Mutex
}

func NewUniversityStore(kv KeyValue) *UniversityStore {
	return &UniversityStore{kv: kv, key: UniversitiesKey}
}

// List returns the stored universities. Missing or corrupt data reads as empty;
// only a failing backend is reported.
func (s *UniversityStore) List(ctx context.Context) ([]model.University, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []model.University{}, nil
	}

	var list []model.University
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("Ignoring unreadable %s: %v", s.key, err)
		return []model.University{}, nil
	}
	if list == nil {
		list = []model.University{}
	}
	return list, nil
}

// Get returns ErrNotFound when no record has id
func (s *UniversityStore) Get(ctx context.Context, id int) (model.University, error) {
	list, err := s.List(ctx)
	if err != nil {
		return model.University{}, err
	}
	for _, u := range list {
		if u.UniversityID == id {
			return u, nil
		}
	}
	return model.University{}, ErrNotFound
}

// Create assigns max(existing ids)+1, or 1 for an empty collection
func (s *UniversityStore) Create(ctx context.Context, in model.UniversityInput) (model.University, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.List(ctx)
	if err != nil {
		return model.University{}, err
	}

	u := model.University{UniversityID: NextID(list)}
	in.Apply(&u)
	list = append(list, u)

	if err := s.save(ctx, list); err != nil {
		return model.University{}, err
	}
	return u, nil
}

// Update replaces the name and logo of the matching record. A missing id is a
// no-op and reports false.
func (s *UniversityStore) Update(ctx context.Context, id int, in model.UniversityInput) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	found := false
	for i := range list {
		if list[i].UniversityID == id {
			in.Apply(&list[i])
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	return true, s.save(ctx, list)
}

// Delete filters out the matching record and persists the result
func (s *UniversityStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, u := range list {
		if u.UniversityID != id {
			kept = append(kept, u)
		}
	}
	return s.save(ctx, kept)
}

// Snapshot copies the current raw value to key+suffix
func (s *UniversityStore) Snapshot(ctx context.Context, suffix string) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil || !ok {
		return false, err
	}
	return true, s.kv.Set(ctx, s.key+suffix, raw)
}

func (s *UniversityStore) save(ctx context.Context, list []model.University) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(b))
}

// NextID is max+1 over the ids in list, gaps are never reused
func NextID(list []model.University) int {
	next := 1
	for _, u := range list {
		if u.UniversityID >= next {
			next = u.UniversityID + 1
		}
	}
	return next
}
