package roster

import "github.com/Billy-Davies-2/spirit11-ui/internal/models"

// MaxPlayers is the size of a full roster
const MaxPlayers = 11

// BudgetStatus summarises a roster against its budget ceiling
type BudgetStatus struct {
	Ceiling   int  `json:"ceiling"`
	Spent     int  `json:"spent"`
	Available int  `json:"available"`
	Exceeded  bool `json:"exceeded"`
	Count     int  `json:"count"`
	Remaining int  `json:"remaining_slots"`
}

// ComputeStatus is a pure function of the roster and the ceiling.
// Available may go negative when the roster is over budget.
func ComputeStatus(players []models.Player, ceiling int) BudgetStatus {
	spent := 0
	for _, p := range players {
		spent += p.Value
	}
	remaining := MaxPlayers - len(players)
	if remaining < 0 {
		remaining = 0
	}
	return BudgetStatus{
		Ceiling:   ceiling,
		Spent:     spent,
		Available: ceiling - spent,
		Exceeded:  spent > ceiling,
		Count:     len(players),
		Remaining: remaining,
	}
}

// CanSave reports whether the budget constraint allows submission
func (s BudgetStatus) CanSave() bool {
	return !s.Exceeded
}
