package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

func TestNewSession(t *testing.T) {
	s := New("tok", models.User{ID: 7, Username: "spiritfan", Role: models.RoleUser}, time.Hour)

	if s.ID == "" {
		t.Fatal("session id should be generated")
	}
	if s.Token != "tok" {
		t.Errorf("token = %q", s.Token)
	}
	if s.Expired(time.Now()) {
		t.Error("new session should not be expired")
	}
	if !s.Expired(time.Now().Add(2 * time.Hour)) {
		t.Error("session should expire after ttl")
	}
	if s.IsAdmin() {
		t.Error("user role should not be admin")
	}

	other := New("tok", models.User{}, time.Hour)
	if other.ID == s.ID {
		t.Error("session ids should be unique")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("empty context should carry no session")
	}

	s := New("tok", models.User{Role: models.RoleAdmin}, time.Hour)
	got, ok := FromContext(NewContext(context.Background(), s))
	if !ok || got != s {
		t.Fatal("session not recovered from context")
	}
	if !got.IsAdmin() {
		t.Error("admin role not recognised")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("tok", models.User{ID: 1}, time.Hour)
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Token != "tok" {
		t.Errorf("token = %q", got.Token)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreDropsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("tok", models.User{}, -time.Minute)
	store.Save(ctx, s)

	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expired session should be evicted, %d remain", store.Len())
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	store, err := NewRedisStore(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisStore() failed: %v", err)
	}
	defer store.Close()

	s := New("tok", models.User{ID: 3, Username: "redisuser"}, time.Minute)
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	defer store.Delete(ctx, s.ID)

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.User.Username != "redisuser" {
		t.Errorf("username = %q", got.User.Username)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
