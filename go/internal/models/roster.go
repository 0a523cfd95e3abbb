package models

// Position is a starter slot code
type Position string

const (
	PositionQB        Position = "QB"
	PositionRB        Position = "RB"
	PositionWR        Position = "WR"
	PositionTE        Position = "TE"
	PositionFlex      Position = "FLEX"      // RB/WR/TE
	PositionSuperflex Position = "SUPERFLEX" // QB/RB/WR/TE
)

// StarterOrder is the display order of starter positions.
var StarterOrder = []Position{
	PositionQB,
	PositionRB,
	PositionWR,
	PositionTE,
	PositionFlex,
	PositionSuperflex,
}

const (
	FantasySlotBudget = 15
	DynastySlotBudget = 21
	MaxRookieTaxi     = 3
)

// Starters maps a position to its ordered player ids
type Starters map[Position][]string

// FormatRoster is the roster sub-document for one league format.
type FormatRoster interface {
	Format() LeagueFormat
	StarterSlots() Starters
	BenchPlayers() []string
	InjuredReserve() []string
}

// FantasyRoster is the redraft roster shape. It has no rookie taxi.
type FantasyRoster struct {
	Starters Starters `json:"starters"`
	Bench    []string `json:"bench"`
	IR       []string `json:"ir"`
}

func (r *FantasyRoster) Format() LeagueFormat     { return LeagueFormatFantasy }
func (r *FantasyRoster) StarterSlots() Starters   { return r.Starters }
func (r *FantasyRoster) BenchPlayers() []string   { return r.Bench }
func (r *FantasyRoster) InjuredReserve() []string { return r.IR }

// DynastyRoster adds the rookie taxi squad
type DynastyRoster struct {
	Starters   Starters `json:"starters"`
	Bench      []string `json:"bench"`
	IR         []string `json:"ir"`
	RookieTaxi []string `json:"rookie_taxi"`
	// TaxiVacated counts taxi slots emptied this season
	TaxiVacated int `json:"rookie_taxi_vacated,omitempty"`
}

func (r *DynastyRoster) Format() LeagueFormat     { return LeagueFormatDynasty }
func (r *DynastyRoster) StarterSlots() Starters   { return r.Starters }
func (r *DynastyRoster) BenchPlayers() []string   { return r.Bench }
func (r *DynastyRoster) InjuredReserve() []string { return r.IR }

// Clone returns a deep copy so rule functions never mutate a fetched team.
func (r *DynastyRoster) Clone() *DynastyRoster {
	if r == nil {
		return nil
	}
	starters := make(Starters, len(r.Starters))
	for pos, players := range r.Starters {
		starters[pos] = append([]string(nil), players...)
	}
	return &DynastyRoster{
		Starters:    starters,
		Bench:       append([]string(nil), r.Bench...),
		IR:          append([]string(nil), r.IR...),
		RookieTaxi:  append([]string(nil), r.RookieTaxi...),
		TaxiVacated: r.TaxiVacated,
	}
}

// RosterSlots holds one roster per format
type RosterSlots struct {
	Fantasy *FantasyRoster `json:"fantasy,omitempty"`
	Dynasty *DynastyRoster `json:"dynasty,omitempty"`
}

// ForFormat selects the sub-document for format. The returned value is nil
// when the team has no roster of that shape.
func (s RosterSlots) ForFormat(format LeagueFormat) FormatRoster {
	switch format {
	case LeagueFormatFantasy:
		if s.Fantasy != nil {
			return s.Fantasy
		}
	case LeagueFormatDynasty:
		if s.Dynasty != nil {
			return s.Dynasty
		}
	}
	return nil
}

// TaxiRules configures the dynasty rookie taxi squad
type TaxiRules struct {
	CanPromoteMidseason bool `json:"can_promote_midseason"`
	VacatedCannotRefill bool `json:"vacated_cannot_refill"`
	MaxRookies          int  `json:"max_rookies"`
}

// DefaultTaxiRules mirrors the platform's dynasty settings.
func DefaultTaxiRules() TaxiRules {
	return TaxiRules{
		CanPromoteMidseason: true,
		VacatedCannotRefill: true,
		MaxRookies:          MaxRookieTaxi,
	}
}

// RosterUpdateRequest is the partial body of PATCH /teams/{id}/roster
type RosterUpdateRequest struct {
	Fantasy *FantasyRoster `json:"fantasy,omitempty"`
	Dynasty *DynastyRoster `json:"dynasty,omitempty"`
}
