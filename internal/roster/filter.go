package roster

import (
	"strings"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// Filter projects players by a case-insensitive name or university substring
// and an optional category. It never modifies its input.
func Filter(players []models.Player, query string, category models.Category) []models.Player {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.University), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CountByCategory tallies players per category
func CountByCategory(players []models.Player) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		counts[c] = 0
	}
	for _, p := range players {
		counts[p.Category]++
	}
	return counts
}

// Universities returns the distinct universities in first-seen order
func Universities(players []models.Player) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range players {
		if !seen[p.University] {
			seen[p.University] = true
			out = append(out, p.University)
		}
	}
	return out
}
