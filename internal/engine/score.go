package engine

import (
	"time"

	"github.com/tripforge/trip-match-api/internal/models"
)

// sortDateSentinel orders undated (on-demand) occurrences after every real
// departure when scores tie.
const sortDateSentinel = "9999-12-31"

// scored annotates one candidate occurrence with its match score and the
// bookkeeping the selector and assembler need. Transient per search.
type scored struct {
	occ      *models.TripOccurrence
	score    float64
	sortDate string
	relaxed  bool
	reasons  []string
}

// scoreCandidate computes the additive heuristic score for one candidate
// that already passed the pass's hard filters. Returns nil when the
// candidate is hard-excluded here (primary pass duration band only).
func (e *Engine) scoreCandidate(occ *models.TripOccurrence, n normalized, sctx searchContext, relaxed bool) *scored {
	w := e.cfg.Weights
	tmpl := &occ.Template
	candPrivate := tmpl.CategoryID == sctx.PrivateCategoryID

	score := w.Base
	var reasons []string
	add := func(delta float64, reason string) {
		score += delta
		reasons = append(reasons, reason)
	}

	if relaxed {
		add(w.RelaxedPenalty, "broader match")
		if n.CategoryID != 0 && tmpl.CategoryID != n.CategoryID {
			add(w.CategoryMismatch, "different trip type")
		}
	}

	if len(n.ThemeIDs) > 0 {
		matches := 0
		for _, tag := range tmpl.Tags {
			if _, ok := n.ThemeIDs[tag.ID]; ok {
				matches++
			}
		}
		switch {
		case matches >= 2:
			add(w.ThemeFull, "matches your themes")
		case matches == 1:
			add(w.ThemePartial, "matches one of your themes")
		default:
			add(w.ThemeMiss, "no matching themes")
		}
	}

	if n.HasDifficulty && tmpl.Difficulty == n.Difficulty {
		add(w.DifficultyExact, "exact difficulty match")
	}

	// Duration. Private trips have no fixed schedule, so length is moot and
	// they always earn the ideal bonus.
	if candPrivate {
		add(w.DurationIdeal, "flexible duration")
	} else {
		days := occ.EffectiveDuration()
		switch {
		case days >= n.MinDuration && days <= n.MaxDuration:
			add(w.DurationIdeal, "ideal duration")
		case durationDistance(days, n.MinDuration, n.MaxDuration) <= e.cfg.DurationHardFilterDays:
			add(w.DurationClose, "close to your duration")
		case !relaxed:
			return nil
		}
	}

	if n.Budget > 0 {
		price := occ.EffectivePrice()
		switch {
		case price <= n.Budget:
			add(w.BudgetUnder, "within budget")
		case price <= n.Budget*1.1:
			add(w.BudgetNear, "slightly over budget")
		case price <= n.Budget*1.2:
			add(w.BudgetStretch, "a stretch over budget")
		}
	}

	switch occ.Status {
	case models.StatusLastPlaces:
		add(w.StatusLastPlaces, "last places left")
	case models.StatusGuaranteed:
		add(w.StatusGuaranteed, "guaranteed departure")
	}

	if !candPrivate && occ.StartDate != nil {
		soon := sctx.Now.AddDate(0, 0, e.cfg.DepartingSoonDays)
		if !occ.StartDate.Before(sctx.Now) && !occ.StartDate.After(soon) {
			add(w.DepartingSoon, "departing soon")
		}
	}

	switch {
	case countryMatches(tmpl, n):
		add(w.CountryMatch, "in your selected country")
	case tmpl.Country != nil && containsString(n.Continents, tmpl.Country.Continent):
		add(w.ContinentMatch, "in your selected region")
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return &scored{
		occ:      occ,
		score:    score,
		sortDate: sortDate(occ),
		relaxed:  relaxed,
		reasons:  reasons,
	}
}

// countryMatches reports the exact-country geography hit, including the
// Antarctica case where the "country" on the template is the continent
// itself.
func countryMatches(tmpl *models.TripTemplate, n normalized) bool {
	if tmpl.CountryID != nil {
		for _, id := range n.Countries {
			if id == *tmpl.CountryID {
				return true
			}
		}
	}
	if tmpl.Country != nil && tmpl.Country.Name == "Antarctica" &&
		containsString(n.Continents, models.ContinentAntarctica) {
		return true
	}
	return false
}

// durationDistance is how many days outside [min, max] the length falls;
// zero inside the range.
func durationDistance(days, min, max int) int {
	if days < min {
		return min - days
	}
	if days > max {
		return days - max
	}
	return 0
}

func sortDate(occ *models.TripOccurrence) string {
	if occ.StartDate == nil {
		return sortDateSentinel
	}
	return occ.StartDate.Format(time.DateOnly)
}
