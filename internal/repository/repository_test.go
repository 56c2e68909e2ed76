package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/storage"
)

func TestUsers_SeededOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	repos := New(storage.NewMemory())

	users, err := repos.Users.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 seed users, got %d", len(users))
	}
	if users[0].Username != "admin" || users[0].Role != models.RoleAdmin {
		t.Errorf("unexpected first user %+v", users[0])
	}
}

func TestUsers_EmptyListIsNotReseeded(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	_ = store.Set(ctx, KeyUsers, []byte(`[]`))

	users, err := New(store).Users.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 0 {
		t.Errorf("expected stored empty list, got %d users", len(users))
	}
}

func TestTasks_Seed(t *testing.T) {
	tasks, err := New(storage.NewMemory()).Tasks.GetAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 seed tasks, got %d", len(tasks))
	}
	if tasks[0].Status != models.TaskStatusTodo || tasks[1].Status != models.TaskStatusInProgress {
		t.Errorf("unexpected statuses %s, %s", tasks[0].Status, tasks[1].Status)
	}
}

func TestRecords_NoSeed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	records, err := New(store).Records.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty records, got %d", len(records))
	}
	if _, err := store.Get(ctx, KeyRecords); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unseeded collection should not be written on read, got %v", err)
	}
}

func TestCollection_UpsertReplacesOrAppends(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemory()).Records

	a := models.MarketingRecord{ID: "a", Channel: models.ChannelFacebook}
	b := models.MarketingRecord{ID: "b", Channel: models.ChannelInstagram}
	_ = c.Upsert(ctx, a)
	_ = c.Upsert(ctx, b)

	a.Channel = models.ChannelYoutube
	if err := c.Upsert(ctx, a); err != nil {
		t.Fatal(err)
	}

	all, _ := c.GetAll(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if all[0].ID != "a" || all[0].Channel != models.ChannelYoutube {
		t.Errorf("replace should keep position and update value, got %+v", all[0])
	}
	if all[1].ID != "b" {
		t.Errorf("expected b second, got %s", all[1].ID)
	}
}

func TestCollection_UpsertSameValueTwice(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	c := New(store).Records

	r := models.MarketingRecord{ID: "a", Date: "2024-01-15", Channel: models.ChannelFacebook}
	_ = c.Upsert(ctx, r)
	first, _ := store.Get(ctx, KeyRecords)
	if err := c.Upsert(ctx, r); err != nil {
		t.Fatal(err)
	}
	second, _ := store.Get(ctx, KeyRecords)

	all, _ := c.GetAll(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
	if string(first) != string(second) {
		t.Errorf("stored document changed:\n%s\n%s", first, second)
	}
}

func TestCollection_UpdateErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	c := New(store).Records
	_ = c.Upsert(ctx, models.MarketingRecord{ID: "a"})

	boom := errors.New("boom")
	err := c.Update(ctx, func(items []models.MarketingRecord) ([]models.MarketingRecord, error) {
		return append(items, models.MarketingRecord{ID: "b"}), boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	all, _ := c.GetAll(ctx)
	if len(all) != 1 {
		t.Errorf("records = %d, want 1", len(all))
	}
}

func TestCollection_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemory()).Tasks

	got, err := c.Get(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Audit Meta Ads" {
		t.Errorf("got %q", got.Title)
	}

	if err := c.DeleteByID(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(ctx, "t1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := c.DeleteByID(ctx, "missing"); err != nil {
		t.Errorf("deleting absent id should be a no-op, got %v", err)
	}
	all, _ := c.GetAll(ctx)
	if len(all) != 1 {
		t.Errorf("expected 1 task left, got %d", len(all))
	}
}

func TestCollection_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	_ = store.Set(ctx, KeyTasks, []byte(`{not json`))

	if _, err := New(store).Tasks.GetAll(ctx); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCollection_MetricsRoundTripAsStrings(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	c := New(store).Records

	rec := models.MarketingRecord{
		ID:      "r1",
		Metrics: models.MetricsFromStrings(map[string]string{"Spend": "1500", "Noted": "promo"}),
	}
	_ = c.Upsert(ctx, rec)

	raw, _ := store.Get(ctx, KeyRecords)
	want := `"metrics":{"Noted":"promo","Spend":"1500"}`
	if !strings.Contains(string(raw), want) {
		t.Errorf("stored document %s does not contain %s", raw, want)
	}

	got, _ := c.Get(ctx, "r1")
	if v, ok := got.Metrics.Number(models.FieldSpend); !ok || v != 1500 {
		t.Errorf("spend = %v, %v", v, ok)
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	s := New(store).Session

	u, err := s.Current(ctx)
	if err != nil || u != nil {
		t.Fatalf("expected no current user, got %v, %v", u, err)
	}

	admin := SeedUsers()[0]
	if err := s.SetCurrent(ctx, &admin); err != nil {
		t.Fatal(err)
	}
	u, _ = s.Current(ctx)
	if u == nil || u.Username != "admin" {
		t.Fatalf("got %+v", u)
	}

	if err := s.SetCurrent(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, KeyCurrentUser); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("clearing session should delete the key, got %v", err)
	}
}
