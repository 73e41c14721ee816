package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"assettrack-api/internal/models"

	"github.com/google/uuid"
)

// NewMemory returns a gateway backed by in-process maps. It implements the
// same last-write-wins semantics as the hosted store and is what the unit
// tests run against.
func NewMemory() *Gateway {
	return &Gateway{
		Items: &memItems{items: map[string]models.Item{}},
		Users: &memUsers{users: map[string]models.UserProfile{}},
		Logs:  &memLogs{},
	}
}

type memItems struct {
	mu    sync.RWMutex
	items map[string]models.Item
}

func (s *memItems) Get(_ context.Context, itemID string) (models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[itemID]
	if !ok {
		return models.Item{}, ErrNotFound
	}
	return it, nil
}

func (s *memItems) List(_ context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.Item, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LastUpdated.After(items[j].LastUpdated)
	})
	return items, nil
}

func (s *memItems) Put(_ context.Context, item models.Item) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.LastUpdated = time.Now()
	s.items[item.ItemID] = item
	return item, nil
}

func (s *memItems) Update(_ context.Context, itemID string, patch models.ItemPatch) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return models.Item{}, ErrNotFound
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.Status != nil {
		it.Status = *patch.Status
	}
	if patch.ClearHolder {
		it.CurrentHolderID = nil
		it.CurrentHolderName = nil
	} else {
		if patch.HolderID != nil {
			id := *patch.HolderID
			it.CurrentHolderID = &id
		}
		if patch.HolderName != nil {
			name := *patch.HolderName
			it.CurrentHolderName = &name
		}
	}
	if patch.LastCondition != nil {
		it.LastCondition = *patch.LastCondition
	}
	it.LastUpdated = time.Now()
	s.items[itemID] = it
	return it, nil
}

func (s *memItems) Delete(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

type memUsers struct {
	mu    sync.RWMutex
	users map[string]models.UserProfile
}

func (s *memUsers) Get(_ context.Context, uid string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.users[uid]
	if !ok {
		return models.UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (s *memUsers) List(_ context.Context) ([]models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.UserProfile, 0, len(s.users))
	for _, p := range s.users {
		users = append(users, p)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *memUsers) Put(_ context.Context, profile models.UserProfile) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[profile.UID] = profile
	return profile, nil
}

func (s *memUsers) Update(_ context.Context, uid string, patch models.UserPatch) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.users[uid]
	if !ok {
		return models.UserProfile{}, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.Department != nil {
		p.Department = *patch.Department
	}
	s.users[uid] = p
	return p, nil
}

func (s *memUsers) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[uid]; !ok {
		return ErrNotFound
	}
	delete(s.users, uid)
	return nil
}

type memLogs struct {
	mu      sync.RWMutex
	entries []models.LogEntry
}

func (s *memLogs) Insert(_ context.Context, entry models.LogEntry) (models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.LogID = uuid.NewString()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *memLogs) List(_ context.Context) ([]models.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.LogEntry, len(s.entries))
	copy(entries, s.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}
