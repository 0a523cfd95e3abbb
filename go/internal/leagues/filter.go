package leagues

import (
	"strings"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

// AllAttributes disables the attribute filter
const AllAttributes = "all"

// Filter keeps leagues with the given attribute whose name or attribute
// contains search, case-insensitively. Empty arguments match everything.
func Filter(leagues []models.League, attribute, search string) []models.League {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]models.League, 0, len(leagues))
	for _, league := range leagues {
		if attribute != "" && attribute != AllAttributes && league.Attribute != attribute {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(league.Name), search) &&
			!strings.Contains(strings.ToLower(league.Attribute), search) {
			continue
		}
		out = append(out, league)
	}
	return out
}
