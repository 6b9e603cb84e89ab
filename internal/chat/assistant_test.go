package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Billy-Davies-2/spirit11-ui/internal/backend"
	"github.com/Billy-Davies-2/spirit11-ui/internal/dal"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/mocks"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
	"github.com/Billy-Davies-2/spirit11-ui/internal/session"
)

func init() {
	logger.Init()
}

type scriptedBackend struct {
	turns   [][]backend.ChatTurn
	reply   *models.ChatReply
	err     error
	entered chan struct{}
	release chan struct{}
}

func (s *scriptedBackend) Chat(ctx context.Context, turns []backend.ChatTurn) (*models.ChatReply, error) {
	s.turns = append(s.turns, turns)
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func TestSendSendsFullHistory(t *testing.T) {
	ctx := context.Background()
	be := &scriptedBackend{reply: &models.ChatReply{Explanation: "Sure."}}
	a := NewAssistant("s1", dal.NewMemoryDAL())

	if _, err := a.Send(ctx, be, "Hello"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Send(ctx, be, "  Who is the top scorer?  "); err != nil {
		t.Fatal(err)
	}

	want := []backend.ChatTurn{
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Sure."},
		{Role: "user", Content: "Who is the top scorer?"},
	}
	if diff := cmp.Diff(want, be.turns[1]); diff != "" {
		t.Errorf("turns mismatch (-want +got):\n%s", diff)
	}

	history, _ := a.History(ctx)
	if len(history) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(history))
	}
}

func TestSendReplaysLongConversation(t *testing.T) {
	ctx := context.Background()
	be := &scriptedBackend{reply: &models.ChatReply{Explanation: "Noted."}}
	a := NewAssistant("s1", dal.NewMemoryDAL())

	const sends = 40
	for i := 0; i < sends; i++ {
		if _, err := a.Send(ctx, be, fmt.Sprintf("question %d", i)); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	last := be.turns[len(be.turns)-1]
	if want := 2*(sends-1) + 1; len(last) != want {
		t.Fatalf("last request carried %d turns, want %d", len(last), want)
	}
	if last[0].Content != "question 0" || last[len(last)-1].Content != fmt.Sprintf("question %d", sends-1) {
		t.Errorf("turns should span the whole conversation: first=%q last=%q", last[0].Content, last[len(last)-1].Content)
	}
}

func TestSendRejectsBlank(t *testing.T) {
	be := &scriptedBackend{}
	a := NewAssistant("s1", dal.NewMemoryDAL())
	if _, err := a.Send(context.Background(), be, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if len(be.turns) != 0 {
		t.Error("blank message should not reach the backend")
	}
}

func TestSendFailureAppendsFailedReply(t *testing.T) {
	ctx := context.Background()
	be := &scriptedBackend{err: errors.New("upstream timeout")}
	a := NewAssistant("s1", dal.NewMemoryDAL())

	msg, err := a.Send(ctx, be, "Best bowler?")
	if err == nil {
		t.Fatal("expected error")
	}
	if msg == nil || !msg.Failed || msg.Content != FailureText {
		t.Fatalf("unexpected reply: %+v", msg)
	}

	history, _ := a.History(ctx)
	if len(history) != 2 || history[0].Content != "Best bowler?" {
		t.Fatalf("user message should be kept: %+v", history)
	}

	be.err = nil
	be.reply = &models.ChatReply{Explanation: "ok"}
	if _, err := a.Send(ctx, be, "Try again"); err != nil {
		t.Fatal(err)
	}
	for _, turn := range be.turns[1] {
		if turn.Content == FailureText {
			t.Error("failed placeholder should not be sent to the backend")
		}
	}
}

func TestSecondSendWhileBusy(t *testing.T) {
	be := &scriptedBackend{
		reply:   &models.ChatReply{Explanation: "done"},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	a := NewAssistant("s1", dal.NewMemoryDAL())

	done := make(chan error, 1)
	go func() {
		_, err := a.Send(context.Background(), be, "first")
		done <- err
	}()
	<-be.entered

	if !a.Busy() {
		t.Error("assistant should report busy")
	}
	if _, err := a.Send(context.Background(), be, "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if err := a.Reset(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("Reset() while busy = %v", err)
	}

	close(be.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if a.Busy() {
		t.Error("busy flag should clear")
	}
}

func TestSendAgainstMockBackend(t *testing.T) {
	mb := mocks.NewBackend()
	srv := httptest.NewServer(mb)
	defer srv.Close()

	c := backend.New(srv.URL, 5*time.Second)
	resp, err := c.Login(context.Background(), mocks.UserUsername, mocks.UserPassword)
	if err != nil {
		t.Fatal(err)
	}
	ac, _ := c.WithSession(session.New(resp.Token, resp.User, time.Hour))

	a := NewAssistant("s2", dal.NewMemoryDAL())
	msg, err := a.Send(context.Background(), ac, "How about Kusal Herath?")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if len(msg.Cards) != 1 || msg.Cards[0].Name != "Kusal Herath" {
		t.Errorf("unexpected cards: %+v", msg.Cards)
	}

	mb.FailNext(http.MethodPost, "/v1/ai/chat", http.StatusBadGateway, "model unavailable")
	msg, err = a.Send(context.Background(), ac, "And again?")
	if backend.StatusOf(err) != http.StatusBadGateway || !msg.Failed {
		t.Errorf("expected failed reply with 502, got %v / %+v", err, msg)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	a := NewAssistant("s1", dal.NewMemoryDAL())
	_, _ = a.Send(ctx, &scriptedBackend{reply: &models.ChatReply{Explanation: "x"}}, "hi")

	if err := a.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	history, _ := a.History(ctx)
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d", len(history))
	}
}
