package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type keyRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *keyRecorder) record(key string) {
	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.mu.Unlock()
}

func (r *keyRecorder) has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k == key {
			return true
		}
	}
	return false
}

func (r *keyRecorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

func startWatcher(t *testing.T) (string, *FS, *keyRecorder) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rec := &keyRecorder{}
	go Watch(ctx, s, logger, rec.record)
	time.Sleep(100 * time.Millisecond)
	return dir, s, rec
}

func TestWatch_ExternalWriteReported(t *testing.T) {
	dir, _, rec := startWatcher(t)

	_ = os.WriteFile(filepath.Join(dir, "marketing-records.json"), []byte(`[]`), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("marketing-records")
	}, "external write not reported")
}

func TestWatch_ExternalDeleteReported(t *testing.T) {
	dir, s, rec := startWatcher(t)

	_ = s.Set(context.Background(), "tasks", []byte(`[]`))
	time.Sleep(400 * time.Millisecond)
	_ = os.Remove(filepath.Join(dir, "tasks.json"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("tasks")
	}, "external delete not reported")
}

func TestWatch_OwnWritesSuppressed(t *testing.T) {
	dir, s, rec := startWatcher(t)
	ctx := context.Background()

	_ = s.Set(ctx, "users", []byte(`[]`))
	_ = s.Set(ctx, "users", []byte(`[{"id":"1"}]`))
	_ = os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o644)

	time.Sleep(800 * time.Millisecond)
	if n := rec.len(); n != 0 {
		t.Errorf("expected no callbacks for own writes, got %d", n)
	}
}
