package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/go-cmp/cmp"

	"opuluxe-go/internal/model"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newRedis(t))

	u := &model.User{Email: "asha@example.com", PasswordHash: "h", CreatedAt: time.Unix(1700000000, 0).UTC()}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, u); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	got, err := repo.FindByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if diff := cmp.Diff(u, got); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConversationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationRepository(newRedis(t))
	base := time.Unix(1700000000, 0).UTC()

	for i, id := range []string{"old", "new"} {
		s := &model.ChatSession{
			SessionID: id,
			UserEmail: "asha@example.com",
			Title:     id + " chat...",
			Messages:  []model.StoredMessage{{Role: model.RoleUser, Text: "hi"}},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	list, err := repo.List(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []model.SessionSummary{{SessionID: "new", Title: "new chat..."}, {SessionID: "old", Title: "old chat..."}}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.Get(ctx, "someone@else.com", "new"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other users must not see the session, got %v", err)
	}

	if err := repo.Delete(ctx, "asha@example.com", "new"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = repo.List(ctx, "asha@example.com")
	if len(list) != 1 || list[0].SessionID != "old" {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}

func TestProfileRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newRedis(t))
	email := "asha@example.com"

	p := &model.Profile{ID: "1717000000000", Name: "Asha", Category: model.CategoryWomen,
		Measurements: map[string]string{"bust": "34"}, Fit: model.DefaultFit()}
	if err := repo.Upsert(ctx, email, p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	p.Name = "Asha R"
	if err := repo.Upsert(ctx, email, p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, email, &model.Profile{ID: "99", Name: "Kid"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	list, err := repo.List(ctx, email)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "99" || list[1].Name != "Asha R" {
		t.Fatalf("unexpected list: %+v", list)
	}

	got, err := repo.Get(ctx, email, "1717000000000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}

	_ = repo.Delete(ctx, email, "99")
	if _, err := repo.Get(ctx, email, "99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
