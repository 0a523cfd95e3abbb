package roster

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

var (
	ErrNoDynastyRoster     = errors.New("team has no dynasty roster")
	ErrNotOnTaxi           = errors.New("player is not on the rookie taxi squad")
	ErrPromotionNotAllowed = errors.New("league does not allow mid-season taxi promotion")
	ErrTaxiFull            = errors.New("no rookie taxi slot available this season")
	ErrAlreadyRostered     = errors.New("player is already on this team's roster")
)

// TaxiCapacity is the number of taxi slots that can still be filled this
// season. Vacated slots count as used when they cannot be refilled.
func TaxiCapacity(r *models.DynastyRoster, rules models.TaxiRules) int {
	limit := rules.MaxRookies
	if limit <= 0 || limit > models.MaxRookieTaxi {
		limit = models.MaxRookieTaxi
	}
	if r == nil {
		return limit
	}
	used := len(r.RookieTaxi)
	if rules.VacatedCannotRefill {
		used += r.TaxiVacated
	}
	return max(0, limit-used)
}

// PromoteRookie moves playerID from the taxi squad to the bench. The input
// roster is not modified.
func PromoteRookie(r *models.DynastyRoster, rules models.TaxiRules, playerID string) (*models.DynastyRoster, error) {
	if r == nil {
		return nil, ErrNoDynastyRoster
	}
	if !rules.CanPromoteMidseason {
		return nil, ErrPromotionNotAllowed
	}

	idx := slices.Index(r.RookieTaxi, playerID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotOnTaxi, playerID)
	}

	next := r.Clone()
	next.RookieTaxi = slices.Delete(next.RookieTaxi, idx, idx+1)
	next.Bench = append(next.Bench, playerID)
	if rules.VacatedCannotRefill {
		next.TaxiVacated++
	}
	return next, nil
}

// AddRookie places playerID on the taxi squad if a slot remains.
func AddRookie(r *models.DynastyRoster, rules models.TaxiRules, playerID string) (*models.DynastyRoster, error) {
	if r == nil {
		return nil, ErrNoDynastyRoster
	}
	if onRoster(r, playerID) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRostered, playerID)
	}
	if TaxiCapacity(r, rules) == 0 {
		return nil, ErrTaxiFull
	}

	next := r.Clone()
	next.RookieTaxi = append(next.RookieTaxi, playerID)
	return next, nil
}

func onRoster(r *models.DynastyRoster, playerID string) bool {
	for _, players := range r.Starters {
		if slices.Contains(players, playerID) {
			return true
		}
	}
	return slices.Contains(r.Bench, playerID) ||
		slices.Contains(r.IR, playerID) ||
		slices.Contains(r.RookieTaxi, playerID)
}
