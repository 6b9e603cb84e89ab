package roster

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

func init() {
	logger.Init()
}

type fakeBackend struct {
	mu       sync.Mutex
	assigned [][]uint
	teams    []string
	err      error
	block    chan struct{}
	entered  chan struct{}
}

func (f *fakeBackend) CreateTeam(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.teams = append(f.teams, name)
	return nil
}

func (f *fakeBackend) AssignPlayers(ctx context.Context, ids []uint) error {
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.assigned = append(f.assigned, ids)
	return nil
}

func player(id uint, value int) models.Player {
	return models.Player{ID: id, Name: fmt.Sprintf("Player %d", id), Category: models.CategoryBatsman, Value: value}
}

func collecting(t *testing.T, fb *fakeBackend, ceiling int) *Builder {
	t.Helper()
	b := NewBuilder(fb, ceiling)
	if err := b.CreateTeam(context.Background(), "Colombo Kings"); err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	if b.State() != StateCollecting {
		t.Fatalf("expected collecting, got %s", b.State())
	}
	return b
}

func TestBudgetExample(t *testing.T) {
	b := collecting(t, &fakeBackend{}, 9_000_000)

	if err := b.Add(player(1, 4_000_000)); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if got := b.Status().Available; got != 5_000_000 {
		t.Fatalf("available = %d, want 5000000", got)
	}

	err := b.Add(player(2, 5_500_000))
	if !errors.Is(err, ErrOverBudget) {
		t.Fatalf("expected ErrOverBudget, got %v", err)
	}
	if got := b.Status().Available; got != 5_000_000 {
		t.Errorf("available after rejection = %d, want 5000000", got)
	}
	if b.Contains(2) {
		t.Error("rejected player should not be in roster")
	}
}

func TestTwelfthPlayerRejected(t *testing.T) {
	b := collecting(t, &fakeBackend{}, 9_000_000)
	for i := uint(1); i <= MaxPlayers; i++ {
		if err := b.Add(player(i, 100_000)); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}

	if err := b.Add(player(12, 1)); !errors.Is(err, ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull, got %v", err)
	}
	if s := b.Status(); s.Count != MaxPlayers || s.Remaining != 0 {
		t.Errorf("unexpected status: %+v", s)
	}
}

func TestDuplicateRejected(t *testing.T) {
	b := collecting(t, &fakeBackend{}, 9_000_000)
	if err := b.Add(player(7, 300_000)); err != nil {
		t.Fatal(err)
	}
	before := b.Snapshot()

	if err := b.Add(player(7, 300_000)); !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}
	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("roster changed after duplicate add (-before +after):\n%s", diff)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	b := collecting(t, &fakeBackend{}, 9_000_000)
	if err := b.Add(player(1, 100)); err != nil {
		t.Fatal(err)
	}
	if err := b.Remove(99); err != nil {
		t.Errorf("Remove(absent) = %v, want nil", err)
	}
	if b.Status().Count != 1 {
		t.Error("remove of absent id changed roster")
	}
}

func TestBudgetInvariantHoldsUnderRandomOps(t *testing.T) {
	const ceiling = 9_000_000
	rng := rand.New(rand.NewSource(42))
	b := collecting(t, &fakeBackend{}, ceiling)

	for step := 0; step < 500; step++ {
		id := uint(rng.Intn(20) + 1)
		if rng.Intn(3) == 0 {
			_ = b.Remove(id)
		} else {
			_ = b.Add(player(id, (rng.Intn(20)+1)*100_000))
		}

		v := b.Snapshot()
		sum := 0
		for _, p := range v.Players {
			sum += p.Value
		}
		if v.Budget.Available != ceiling-sum {
			t.Fatalf("step %d: available = %d, want %d", step, v.Budget.Available, ceiling-sum)
		}
		if v.Budget.Exceeded != (sum > ceiling) {
			t.Fatalf("step %d: exceeded = %v with sum %d", step, v.Budget.Exceeded, sum)
		}
		if len(v.Players) > MaxPlayers {
			t.Fatalf("step %d: roster has %d players", step, len(v.Players))
		}
	}
}

func TestSaveBlockedWhenExceeded(t *testing.T) {
	fb := &fakeBackend{}
	b := NewBuilder(fb, 9_000_000)
	team := &models.MyTeam{
		TeamName: "Over",
		IsFound:  true,
		Players:  []models.Player{player(1, 2_000_000), player(2, 2_000_000)},
	}
	// ceiling lowered below what the confirmed roster costs
	if err := b.Load(team, 3_000_000); err != nil {
		t.Fatal(err)
	}
	if err := b.Edit(); err != nil {
		t.Fatal(err)
	}
	if err := b.Review(); err != nil {
		t.Fatal(err)
	}
	if !b.Status().Exceeded {
		t.Fatal("expected exceeded status")
	}
	if err := b.Save(context.Background()); !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
	if len(fb.assigned) != 0 {
		t.Error("backend should not be called when over budget")
	}
	if b.State() != StateReviewing {
		t.Errorf("state = %s, want reviewing", b.State())
	}
}

func TestSaveSubmitsAllIds(t *testing.T) {
	fb := &fakeBackend{}
	b := collecting(t, fb, 9_000_000)
	for _, id := range []uint{3, 1, 2} {
		if err := b.Add(player(id, 1_000_000)); err != nil {
			t.Fatal(err)
		}
	}

	if err := b.Save(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("save from collecting should fail, got %v", err)
	}
	if err := b.Review(); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(context.Background()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if diff := cmp.Diff([][]uint{{3, 1, 2}}, fb.assigned); diff != "" {
		t.Errorf("assigned ids mismatch (-want +got):\n%s", diff)
	}
	if b.State() != StateSubmitted {
		t.Errorf("state = %s, want submitted", b.State())
	}
}

func TestSaveFailureKeepsRoster(t *testing.T) {
	fb := &fakeBackend{}
	b := collecting(t, fb, 9_000_000)
	_ = b.Add(player(1, 1_000_000))
	_ = b.Review()
	before := b.Snapshot()

	fb.err = errors.New("backend down")
	if err := b.Save(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("state changed after failed save (-before +after):\n%s", diff)
	}
}

func TestCancelRestoresConfirmed(t *testing.T) {
	fb := &fakeBackend{}
	b := NewBuilder(fb, 9_000_000)
	confirmed := []models.Player{player(1, 1_000_000), player(2, 2_000_000)}
	if err := b.Load(&models.MyTeam{TeamName: "Jaffna Tigers", IsFound: true, Players: confirmed}, 0); err != nil {
		t.Fatal(err)
	}
	if b.State() != StateSubmitted {
		t.Fatalf("state = %s, want submitted", b.State())
	}
	want := b.Snapshot()

	if err := b.Edit(); err != nil {
		t.Fatal(err)
	}
	_ = b.Remove(1)
	_ = b.Add(player(5, 3_000_000))
	_ = b.Add(player(6, 500_000))

	if err := b.Cancel(); err != nil {
		t.Fatalf("Cancel() failed: %v", err)
	}
	if diff := cmp.Diff(want, b.Snapshot()); diff != "" {
		t.Errorf("cancel did not restore confirmed roster (-want +got):\n%s", diff)
	}
}

func TestCreateTeamValidation(t *testing.T) {
	b := NewBuilder(&fakeBackend{}, 0)
	if err := b.CreateTeam(context.Background(), "   "); !errors.Is(err, ErrTeamNameRequired) {
		t.Errorf("expected ErrTeamNameRequired, got %v", err)
	}
	if err := b.Add(player(1, 1)); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("add without team should fail, got %v", err)
	}
	if b.Status().Ceiling != models.DefaultBudget {
		t.Errorf("ceiling = %d, want default", b.Status().Ceiling)
	}

	fail := &fakeBackend{err: errors.New("name taken")}
	b = NewBuilder(fail, 0)
	if err := b.CreateTeam(context.Background(), "Kandy"); err == nil {
		t.Fatal("expected backend error")
	}
	if b.State() != StateNoTeam {
		t.Errorf("state = %s after failed create", b.State())
	}
}

func TestMutationsRejectedWhileSaving(t *testing.T) {
	fb := &fakeBackend{block: make(chan struct{}), entered: make(chan struct{})}
	b := collecting(t, fb, 9_000_000)
	_ = b.Add(player(1, 1_000_000))
	_ = b.Review()

	done := make(chan error, 1)
	go func() { done <- b.Save(context.Background()) }()
	<-fb.entered

	if err := b.Back(); !errors.Is(err, ErrBusy) {
		t.Errorf("Back() during save = %v, want ErrBusy", err)
	}
	if err := b.Save(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Save() = %v, want ErrBusy", err)
	}
	if !b.Snapshot().Busy {
		t.Error("snapshot should report busy")
	}

	close(fb.block)
	if err := <-done; err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if b.Snapshot().Busy {
		t.Error("busy flag should clear after save")
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		op   func(*Builder) error
		ok   bool
	}{
		{"review from collecting", StateCollecting, (*Builder).Review, true},
		{"review from submitted", StateSubmitted, (*Builder).Review, false},
		{"back from reviewing", StateReviewing, (*Builder).Back, true},
		{"back from collecting", StateCollecting, (*Builder).Back, false},
		{"edit from submitted", StateSubmitted, (*Builder).Edit, true},
		{"edit from collecting", StateCollecting, (*Builder).Edit, false},
		{"cancel from submitted", StateSubmitted, (*Builder).Cancel, false},
		{"cancel from reviewing", StateReviewing, (*Builder).Cancel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(&fakeBackend{}, 0)
			b.state = tt.from
			err := tt.op(b)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}
