package dal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Billy-Davies-2/spirit11-ui/internal/config"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

func init() {
	logger.Init()
}

func stores(t *testing.T) map[string]ChatDAL {
	t.Helper()

	sqlite, err := NewSQLiteDAL(filepath.Join(t.TempDir(), "chat.sqlite"))
	if err != nil {
		t.Fatalf("NewSQLiteDAL() failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	out := map[string]ChatDAL{
		"memory": NewMemoryDAL(),
		"sqlite": sqlite,
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := NewPostgresDAL(dsn)
		if err != nil {
			t.Fatalf("NewPostgresDAL() failed: %v", err)
		}
		t.Cleanup(func() { pg.Close() })
		out["postgres"] = pg
	}
	return out
}

func message(session, id, role, content string, at time.Time) *models.ChatMessage {
	return &models.ChatMessage{ID: id, SessionID: session, Role: role, Content: content, TS: at}
}

func TestChatHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 3, 8, 9, 30, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			session := "sess-" + name
			want := []models.ChatMessage{
				*message(session, name+"-1", models.ChatRoleUser, "Who is the best bowler?", base),
				{
					ID: name + "-2", SessionID: session, Role: models.ChatRoleAssistant,
					Content: "Here is the top wicket taker.", TS: base.Add(time.Second),
					Cards: []models.PlayerCard{{Name: "Chamika Bandara", University: "University of Colombo", Category: models.CategoryBowler, Value: 1_200_000, Wickets: 18}},
				},
				{
					ID: name + "-3", SessionID: session, Role: models.ChatRoleAssistant,
					Content: "Sorry, I couldn't process your request. Please try again.", Failed: true, TS: base.Add(2 * time.Second),
				},
			}

			for i := range want {
				if err := store.AppendMessage(ctx, &want[i]); err != nil {
					t.Fatalf("AppendMessage() failed: %v", err)
				}
			}
			if err := store.AppendMessage(ctx, message("other", name+"-x", models.ChatRoleUser, "hi", base)); err != nil {
				t.Fatal(err)
			}

			got, err := store.History(ctx, session, 0)
			if err != nil {
				t.Fatalf("History() failed: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("history mismatch (-want +got):\n%s", diff)
			}

			recent, err := store.History(ctx, session, 2)
			if err != nil {
				t.Fatal(err)
			}
			if len(recent) != 2 || recent[0].ID != name+"-2" {
				t.Errorf("limited history = %+v", recent)
			}

			if err := store.Clear(ctx, session); err != nil {
				t.Fatalf("Clear() failed: %v", err)
			}
			got, _ = store.History(ctx, session, 0)
			if len(got) != 0 {
				t.Errorf("expected empty history after clear, got %d", len(got))
			}
			other, _ := store.History(ctx, "other", 0)
			if len(other) != 1 {
				t.Error("clear removed another session's messages")
			}
		})
	}
}

func TestAppendRejectsInvalidMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  *models.ChatMessage
	}{
		{"nil", nil},
		{"missing id", &models.ChatMessage{SessionID: "s", Role: models.ChatRoleUser}},
		{"missing session", &models.ChatMessage{ID: "m", Role: models.ChatRoleUser}},
		{"unknown role", &models.ChatMessage{ID: "m", SessionID: "s", Role: "system"}},
	}

	store := NewMemoryDAL()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.AppendMessage(context.Background(), tt.msg); !errors.Is(err, ErrInvalidMessage) {
				t.Errorf("expected ErrInvalidMessage, got %v", err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	store, err := Open(config.DatabaseConfig{Driver: "memory"})
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := store.(*MemoryDAL); !ok {
		t.Errorf("expected *MemoryDAL, got %T", store)
	}

	store, err = Open(config.DatabaseConfig{Driver: "sqlite", SQLiteFile: filepath.Join(t.TempDir(), "open.sqlite")})
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	store.Close()

	if _, err := Open(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("unknown driver should fail")
	}
}
