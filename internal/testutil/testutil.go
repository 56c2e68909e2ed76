// Package testutil provides shared test helpers for building a seeded service.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/repository"
	"github.com/starford/digimark/internal/service"
	"github.com/starford/digimark/internal/storage"
)

// Now is the fixed clock used by NewService.
var Now = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Env is an in-memory service with its collaborators exposed.
type Env struct {
	Store    *storage.Memory
	Repos    *repository.Repositories
	Svc      *service.Service
	Notifier *Notifier
}

// NewService builds a service over a fresh in-memory store with a fixed
// clock and sequential ids (id-1, id-2, ...).
func NewService(t *testing.T, opts ...service.Option) *Env {
	t.Helper()
	store := storage.NewMemory()
	t.Cleanup(func() { store.Close() })

	repos := repository.New(store)
	n := &Notifier{}
	var seq atomic.Int64
	base := []service.Option{
		service.WithNotifier(n),
		service.WithClock(func() time.Time { return Now }),
		service.WithIDGenerator(func() string { return fmt.Sprintf("id-%d", seq.Add(1)) }),
	}
	svc := service.New(repos, Logger(), append(base, opts...)...)
	return &Env{Store: store, Repos: repos, Svc: svc, Notifier: n}
}

// User returns the seed account with the given username.
func (e *Env) User(t *testing.T, username string) models.User {
	t.Helper()
	users, err := e.Repos.Users.GetAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range users {
		if u.Username == username {
			return u
		}
	}
	t.Fatalf("no user %q", username)
	return models.User{}
}

// AddRecord stores a record directly, bypassing validation and policy.
func (e *Env) AddRecord(t *testing.T, r models.MarketingRecord) {
	t.Helper()
	if err := e.Repos.Records.Upsert(context.Background(), r); err != nil {
		t.Fatal(err)
	}
}

// Notifier records published changes.
type Notifier struct {
	mu      sync.Mutex
	changes []string
}

func (n *Notifier) PublishChange(kind, id string) {
	n.mu.Lock()
	n.changes = append(n.changes, kind+":"+id)
	n.mu.Unlock()
}

// Changes returns a copy of every "kind:id" published so far.
func (n *Notifier) Changes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.changes...)
}
