package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/storage"
)

// Storage keys.
const (
	KeyUsers       = "users"
	KeyRecords     = "marketing-records"
	KeyTasks       = "tasks"
	KeyCurrentUser = "current-user"
)

// Repositories groups every collection of the dashboard.
type Repositories struct {
	Users   *Collection[models.User]
	Records *Collection[models.MarketingRecord]
	Tasks   *Collection[models.Task]
	Session *Session
}

// New binds all collections to store.
func New(store storage.Store) *Repositories {
	return &Repositories{
		Users:   NewCollection(store, KeyUsers, SeedUsers),
		Records: NewCollection[models.MarketingRecord](store, KeyRecords, nil),
		Tasks:   NewCollection(store, KeyTasks, SeedTasks),
		Session: &Session{store: store},
	}
}

// SeedUsers is the initial account list, one per role.
func SeedUsers() []models.User {
	return []models.User{
		{ID: "1", Username: "admin", Password: "password", Role: models.RoleAdmin},
		{ID: "2", Username: "ads_spesialis", Password: "password", Role: models.RoleAdsSpecialist},
		{ID: "3", Username: "socmed_spesialis", Password: "password", Role: models.RoleSocialMediaSpecialist},
	}
}

// SeedTasks is the initial task board.
func SeedTasks() []models.Task {
	return []models.Task{
		{ID: "t1", Title: "Audit Meta Ads", Label: "Urgent", Content: "Cek ROAS campaign Q4", Status: models.TaskStatusTodo},
		{ID: "t2", Title: "Plan Social Media Content", Label: "Planning", Content: "Buat kalender konten Januari", Status: models.TaskStatusInProgress},
	}
}

// Session persists the pointer to the logged-in user.
type Session struct {
	store storage.Store
	mu    sync.Mutex
}

// Current returns the logged-in user, or nil when nobody is.
func (s *Session) Current(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, KeyCurrentUser)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("repository: decode %s: %w", KeyCurrentUser, err)
	}
	return &u, nil
}

// SetCurrent stores u as the logged-in user; nil clears the pointer.
func (s *Session) SetCurrent(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u == nil {
		return s.store.Delete(ctx, KeyCurrentUser)
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", KeyCurrentUser, err)
	}
	return s.store.Set(ctx, KeyCurrentUser, data)
}
