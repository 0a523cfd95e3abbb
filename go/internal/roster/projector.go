package roster

import (
	"iter"
	"slices"
	"sort"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

// RowKind classifies a display row
type RowKind string

const (
	KindStarter      RowKind = "starter"
	KindBench        RowKind = "bench"
	KindIR           RowKind = "ir"
	KindRookieTaxi   RowKind = "rookie_taxi"
	KindTaxiOverflow RowKind = "rookie_taxi_overflow"
)

const (
	LabelBench  = "BN"
	LabelIR     = "IR"
	LabelRookie = "ROOKIE"
)

// Slot is one displayable roster row
type Slot struct {
	Label    string  `json:"position"`
	PlayerID string  `json:"player"`
	Kind     RowKind `json:"type"`
}

// Projection is a roster flattened into display groups. Every group is a
// finite sequence that can be ranged over any number of times.
type Projection struct {
	Format         models.LeagueFormat
	Starters       iter.Seq[Slot]
	Bench          iter.Seq[Slot]
	InjuredReserve iter.Seq[Slot]
	RookieTaxi     iter.Seq[Slot]
	// Overflow holds taxi entries beyond MaxRookieTaxi in a malformed document.
	Overflow iter.Seq[Slot]
}

// FormatFor returns the league's format, or dynasty when it is unknown.
func FormatFor(league *models.League) models.LeagueFormat {
	if league == nil || !league.Format.Valid() {
		return models.LeagueFormatDynasty
	}
	return league.Format
}

// SlotBudget is the declared roster size of a fully populated team.
func SlotBudget(format models.LeagueFormat) int {
	if format == models.LeagueFormatFantasy {
		return models.FantasySlotBudget
	}
	return models.DynastySlotBudget
}

// Project flattens team's roster for the league's format. A nil team or a
// team without that roster shape yields empty groups.
func Project(team *models.Team, league *models.League) Projection {
	format := FormatFor(league)
	p := Projection{
		Format:         format,
		Starters:       emptySeq,
		Bench:          emptySeq,
		InjuredReserve: emptySeq,
		RookieTaxi:     emptySeq,
		Overflow:       emptySeq,
	}
	if team == nil {
		return p
	}

	r := team.RosterSlots.ForFormat(format)
	if r == nil {
		return p
	}

	p.Starters = starterRows(r.StarterSlots())
	p.Bench = labeledRows(r.BenchPlayers(), LabelBench, KindBench)
	p.InjuredReserve = labeledRows(r.InjuredReserve(), LabelIR, KindIR)

	if dynasty, ok := r.(*models.DynastyRoster); ok {
		taxi := dynasty.RookieTaxi
		var overflow []string
		if len(taxi) > models.MaxRookieTaxi {
			taxi, overflow = taxi[:models.MaxRookieTaxi], taxi[models.MaxRookieTaxi:]
		}
		p.RookieTaxi = labeledRows(taxi, LabelRookie, KindRookieTaxi)
		p.Overflow = labeledRows(overflow, LabelRookie, KindTaxiOverflow)
	}

	return p
}

func emptySeq(func(Slot) bool) {}

func labeledRows(players []string, label string, kind RowKind) iter.Seq[Slot] {
	players = slices.Clone(players)
	return func(yield func(Slot) bool) {
		for _, player := range players {
			if !yield(Slot{Label: label, PlayerID: player, Kind: kind}) {
				return
			}
		}
	}
}

type positionGroup struct {
	position models.Position
	players  []string
}

// starterRows walks the fixed position order first, then any other codes in
// lexical order so no entry is lost.
func starterRows(starters models.Starters) iter.Seq[Slot] {
	groups := make([]positionGroup, 0, len(starters))
	for _, pos := range models.StarterOrder {
		if players, ok := starters[pos]; ok {
			groups = append(groups, positionGroup{pos, slices.Clone(players)})
		}
	}

	var extra []models.Position
	for pos := range starters {
		if !slices.Contains(models.StarterOrder, pos) {
			extra = append(extra, pos)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, pos := range extra {
		groups = append(groups, positionGroup{pos, slices.Clone(starters[pos])})
	}

	return func(yield func(Slot) bool) {
		for _, g := range groups {
			for _, player := range g.players {
				if !yield(Slot{Label: string(g.position), PlayerID: player, Kind: KindStarter}) {
					return
				}
			}
		}
	}
}

// All yields every group in display order.
func (p Projection) All() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for _, group := range []iter.Seq[Slot]{p.Starters, p.Bench, p.InjuredReserve, p.RookieTaxi, p.Overflow} {
			for slot := range group {
				if !yield(slot) {
					return
				}
			}
		}
	}
}

// Len counts every row.
func (p Projection) Len() int {
	n := 0
	for range p.All() {
		n++
	}
	return n
}

// View is the collected, JSON friendly form of a Projection
type View struct {
	Format         models.LeagueFormat `json:"format"`
	SlotBudget     int                 `json:"slot_budget"`
	Starters       []Slot              `json:"starters"`
	Bench          []Slot              `json:"bench"`
	InjuredReserve []Slot              `json:"ir"`
	RookieTaxi     []Slot              `json:"rookie_taxi"`
	Overflow       []Slot              `json:"rookie_taxi_overflow,omitempty"`
}

func (p Projection) View() View {
	return View{
		Format:         p.Format,
		SlotBudget:     SlotBudget(p.Format),
		Starters:       collect(p.Starters),
		Bench:          collect(p.Bench),
		InjuredReserve: collect(p.InjuredReserve),
		RookieTaxi:     collect(p.RookieTaxi),
		Overflow:       slices.Collect(p.Overflow),
	}
}

// collect never returns nil so empty groups encode as [].
func collect(seq iter.Seq[Slot]) []Slot {
	out := slices.Collect(seq)
	if out == nil {
		out = []Slot{}
	}
	return out
}
