package engine

import (
	"context"
	"strings"
	"time"
)

// Preferences is the raw, sparse search intent as received from the client.
// Every field is optional; invalid values are defaulted or ignored rather
// than rejected.
type Preferences struct {
	SelectedCountries  []uint   `json:"selected_countries,omitempty" doc:"Country ids to search in"`
	SelectedContinents []string `json:"selected_continents,omitempty" doc:"Free-form continent names"`
	TripCategoryID     *uint    `json:"trip_category_id,omitempty" doc:"Exact trip category"`
	ThemeIDs           []uint   `json:"theme_ids,omitempty" doc:"Preferred theme tag ids"`
	MinDuration        *int     `json:"min_duration,omitempty" doc:"Minimum trip length in days"`
	MaxDuration        *int     `json:"max_duration,omitempty" doc:"Maximum trip length in days"`
	Budget             *float64 `json:"budget,omitempty" doc:"Budget per person"`
	Difficulty         *int     `json:"difficulty,omitempty" doc:"Preferred difficulty level"`
	Year               *int     `json:"year,omitempty" doc:"Departure year"`
	Month              *int     `json:"month,omitempty" doc:"Departure month (1-12)"`
	StartDate          string   `json:"start_date,omitempty" doc:"Legacy: exact departure date, YYYY-MM-DD"`
}

const (
	defaultMinDuration = 1
	defaultMaxDuration = 365
)

// normalized is the typed, defaulted view of Preferences used by the query
// builder and scorer.
type normalized struct {
	Countries  []uint
	Continents []string // canonical codes
	CategoryID uint     // 0 = any
	ThemeIDs   map[uint]struct{}

	MinDuration int
	MaxDuration int

	Budget        float64 // 0 = unset
	Difficulty    int
	HasDifficulty bool

	Year  int // 0 = unset
	Month int // 0 = unset
}

// searchContext is the per-request run-time context derived alongside the
// normalized preferences.
type searchContext struct {
	Now               time.Time
	PrivateCategoryID uint
	IsPrivate         bool
}

// continentAliases maps lower-cased free-form continent names to canonical
// codes. Anything not listed falls through to canonicalContinent's
// best-effort normalization.
var continentAliases = map[string]string{
	"africa":                    "AFRICA",
	"asia":                      "ASIA",
	"europe":                    "EUROPE",
	"north america":             "NORTH_AND_CENTRAL_AMERICA",
	"central america":           "NORTH_AND_CENTRAL_AMERICA",
	"north & central america":   "NORTH_AND_CENTRAL_AMERICA",
	"north and central america": "NORTH_AND_CENTRAL_AMERICA",
	"south america":             "SOUTH_AMERICA",
	"latin america":             "SOUTH_AMERICA",
	"oceania":                   "OCEANIA",
	"australia":                 "OCEANIA",
	"australia & oceania":       "OCEANIA",
	"antarctica":                "ANTARCTICA",
}

// canonicalContinent maps any free-form continent name to a canonical code.
// The mapping is total: unrecognized names are upper-cased with spaces and
// ampersands normalized, so equal inputs always yield equal codes.
func canonicalContinent(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if code, ok := continentAliases[key]; ok {
		return code
	}
	code := strings.ToUpper(key)
	code = strings.ReplaceAll(code, "&", "AND")
	code = strings.Join(strings.Fields(code), "_")
	return code
}

// normalize applies defaults, canonicalizes continents and derives the
// run-time context. The only side effect is the private-category lookup.
func (e *Engine) normalize(ctx context.Context, p *Preferences) (normalized, searchContext, error) {
	if p == nil {
		p = &Preferences{}
	}

	n := normalized{
		Countries:   p.SelectedCountries,
		MinDuration: defaultMinDuration,
		MaxDuration: defaultMaxDuration,
		ThemeIDs:    make(map[uint]struct{}, len(p.ThemeIDs)),
	}

	for _, name := range p.SelectedContinents {
		if strings.TrimSpace(name) == "" {
			continue
		}
		code := canonicalContinent(name)
		if !containsString(n.Continents, code) {
			n.Continents = append(n.Continents, code)
		}
	}
	for _, id := range p.ThemeIDs {
		if id != 0 {
			n.ThemeIDs[id] = struct{}{}
		}
	}

	if p.TripCategoryID != nil {
		n.CategoryID = *p.TripCategoryID
	}
	if p.MinDuration != nil && *p.MinDuration > 0 {
		n.MinDuration = *p.MinDuration
	}
	if p.MaxDuration != nil && *p.MaxDuration > 0 {
		n.MaxDuration = *p.MaxDuration
	}
	if n.MaxDuration < n.MinDuration {
		n.MaxDuration = n.MinDuration
	}
	if p.Budget != nil && *p.Budget > 0 {
		n.Budget = *p.Budget
	}
	if p.Difficulty != nil && *p.Difficulty > 0 {
		n.Difficulty = *p.Difficulty
		n.HasDifficulty = true
	}
	if p.Year != nil && *p.Year > 0 {
		n.Year = *p.Year
	}
	if p.Month != nil && *p.Month >= 1 && *p.Month <= 12 {
		n.Month = *p.Month
	}

	// Legacy clients send an exact start date instead of year/month; adopt
	// its window only when year and month are both absent.
	if n.Year == 0 && n.Month == 0 && p.StartDate != "" {
		if d, err := time.Parse("2006-01-02", p.StartDate); err == nil {
			n.Year = d.Year()
			n.Month = int(d.Month())
		}
	}

	sctx := searchContext{Now: e.now()}

	privateID, err := e.catalog.CategoryIDByName(ctx, e.cfg.PrivateCategoryName)
	if err != nil {
		return normalized{}, searchContext{}, err
	}
	if privateID == 0 {
		privateID = e.cfg.PrivateCategoryFallbackID
	}
	sctx.PrivateCategoryID = privateID
	sctx.IsPrivate = n.CategoryID != 0 && n.CategoryID == privateID

	return n, sctx, nil
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
