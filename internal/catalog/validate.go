package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// FieldErrors maps a form field to its validation message
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e[k])
	}
	return "invalid player: " + strings.Join(parts, "; ")
}

// ValidatePlayer checks an admin player form before submission
func ValidatePlayer(in models.PlayerInput) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Player name is required"
	}
	if strings.TrimSpace(in.University) == "" {
		errs["university"] = "University name is required"
	}
	if !in.Category.Valid() {
		errs["category"] = "Category must be either Batsman, Bowler or All-Rounder"
	}

	counts := []struct {
		field string
		label string
		value int
	}{
		{"total_runs", "Total runs", in.TotalRuns},
		{"balls_faced", "Balls faced", in.BallsFaced},
		{"innings_played", "Innings played", in.InningsPlayed},
		{"wickets", "Wickets", in.Wickets},
		{"runs_conceded", "Runs conceded", in.RunsConceded},
	}
	for _, c := range counts {
		if c.value < 0 {
			errs[c.field] = c.label + " cannot be negative"
		}
	}
	if in.OversBowled < 0 || math.IsNaN(in.OversBowled) || math.IsInf(in.OversBowled, 0) {
		errs["overs_bowled"] = "Overs bowled cannot be negative"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
