// Package engine implements the trip matching and ranking engine: it turns a
// sparse preference set into a bounded, score-ordered list of trip
// occurrences, with a single relaxed fallback pass when the strict search
// yields too few results.
package engine

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/tripforge/trip-match-api/internal/topk"
)

// Engine runs searches against a catalog. It holds no mutable state, so one
// instance serves concurrent requests.
type Engine struct {
	catalog Catalog
	cfg     Config
	logger  zerolog.Logger
	nowFn   func() time.Time
}

// New builds an engine over the given catalog. Pass zerolog.Nop() when no
// logging is wanted.
func New(catalog Catalog, cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		cfg:     cfg,
		logger:  logger,
		nowFn:   time.Now,
	}
}

func (e *Engine) now() time.Time {
	return e.nowFn()
}

// Result is the assembled search response: the strict primary list, the
// widened relaxed list, the number of candidates that passed the primary
// hard filters, the size of the schedulable catalog for context, and how
// many candidates were skipped because formatting failed.
type Result struct {
	Primary         []map[string]any
	Relaxed         []map[string]any
	TotalCandidates int
	TotalInCatalog  int64
	Skipped         int
}

// Search is the engine's single operation. The catalog error path is not
// retried and propagates; preference problems never fail the search.
func (e *Engine) Search(ctx context.Context, prefs *Preferences, format Formatter) (*Result, error) {
	n, sctx, err := e.normalize(ctx, prefs)
	if err != nil {
		return nil, err
	}

	candidates, err := e.catalog.FindOccurrences(ctx, e.primaryFilter(n, sctx))
	if err != nil {
		return nil, err
	}

	// Primary pass: score every candidate, keep the best MaxResults.
	qualifying := 0
	sel := topk.New[*scored](e.cfg.MaxResults)
	for i := range candidates {
		sc := e.scoreCandidate(&candidates[i], n, sctx, false)
		if sc == nil {
			continue
		}
		qualifying++
		sel.Offer(sc.score, sc.sortDate, sc)
	}
	primary := sel.Take()

	e.logger.Debug().
		Int("candidates", len(candidates)).
		Int("qualifying", qualifying).
		Int("selected", len(primary)).
		Msg("primary search pass")

	// Single-shot fallback: widen the search when the strict pass came up
	// short. Triggered on the pre-cutoff count.
	var relaxed []*scored
	if len(primary) <= e.cfg.MinResultsThreshold {
		relaxed, err = e.relaxedPass(ctx, n, sctx, primary)
		if err != nil {
			return nil, err
		}
	}

	total, err := e.catalog.CountSchedulable(ctx, sctx.Now)
	if err != nil {
		return nil, err
	}

	res := e.assemble(primary, relaxed, format)
	res.TotalCandidates = qualifying
	res.TotalInCatalog = total
	return res, nil
}

// relaxedPass reruns the query with widened predicates and penalized
// scoring, excluding occurrences the primary pass already selected. The
// relaxed list is cut off at the minimum score here; there is no second
// relaxation tier.
func (e *Engine) relaxedPass(ctx context.Context, n normalized, sctx searchContext, primary []*scored) ([]*scored, error) {
	need := e.cfg.MaxResults - len(primary)
	if need <= 0 {
		return nil, nil
	}

	exclude := make([]uint, 0, len(primary))
	for _, sc := range primary {
		exclude = append(exclude, sc.occ.ID)
	}

	f, err := e.relaxedFilter(ctx, n, sctx, exclude)
	if err != nil {
		return nil, err
	}
	candidates, err := e.catalog.FindOccurrences(ctx, f)
	if err != nil {
		return nil, err
	}

	// Overscan so the cutoff below cannot leave the list needlessly short.
	sel := topk.New[*scored](need + e.cfg.RelaxedOverscan)
	for i := range candidates {
		sc := e.scoreCandidate(&candidates[i], n, sctx, true)
		if sc == nil {
			continue
		}
		sel.Offer(sc.score, sc.sortDate, sc)
	}

	relaxed := make([]*scored, 0, need)
	for _, sc := range sel.Take() {
		if sc.score < e.cfg.MinScore {
			continue
		}
		relaxed = append(relaxed, sc)
		if len(relaxed) == need {
			break
		}
	}

	e.logger.Debug().
		Int("candidates", len(candidates)).
		Int("selected", len(relaxed)).
		Msg("relaxed search pass")

	return relaxed, nil
}

// primaryFilter translates the normalized preferences into the strict
// hard-filter predicate set.
func (e *Engine) primaryFilter(n normalized, sctx searchContext) OccurrenceFilter {
	f := OccurrenceFilter{
		CountryIDs: n.Countries,
		Continents: n.Continents,
		CategoryID: n.CategoryID,
	}
	if n.Budget > 0 {
		f.MaxPrice = n.Budget * e.cfg.BudgetMultiplier
	}
	if n.HasDifficulty {
		f.HasDifficulty = true
		f.DifficultyMin = n.Difficulty - e.cfg.DifficultyTolerance
		f.DifficultyMax = n.Difficulty + e.cfg.DifficultyTolerance
	}

	if sctx.IsPrivate {
		// On-demand trips have no fixed schedule: no date window, and
		// zero-capacity occurrences stay in.
		f.IncludeUnscheduled = true
		f.AllowZeroSpots = true
		return f
	}

	from, to := e.dateWindow(n, sctx, 0)
	f.DateFrom = &from
	f.DateTo = &to
	return f
}

// relaxedFilter widens the primary predicates: countries gain their whole
// continents, the category filter is lifted (penalized in scoring instead),
// the month window grows, and the budget and difficulty bands loosen.
func (e *Engine) relaxedFilter(ctx context.Context, n normalized, sctx searchContext, exclude []uint) (OccurrenceFilter, error) {
	f := OccurrenceFilter{
		CountryIDs: n.Countries,
		Continents: n.Continents,
		ExcludeIDs: exclude,
	}

	if len(n.Countries) > 0 {
		continents, err := e.catalog.ContinentsForCountries(ctx, n.Countries)
		if err != nil {
			return OccurrenceFilter{}, err
		}
		for _, c := range continents {
			if !containsString(f.Continents, c) {
				f.Continents = append(f.Continents, c)
			}
		}
	}

	if n.Budget > 0 {
		f.MaxPrice = n.Budget * e.cfg.RelaxedBudgetMultiplier
	}
	if n.HasDifficulty {
		f.HasDifficulty = true
		f.DifficultyMin = n.Difficulty - e.cfg.RelaxedDifficultyTolerance
		f.DifficultyMax = n.Difficulty + e.cfg.RelaxedDifficultyTolerance
	}

	if sctx.IsPrivate {
		f.IncludeUnscheduled = true
		f.AllowZeroSpots = true
		return f, nil
	}

	from, to := e.dateWindow(n, sctx, e.cfg.RelaxedMonthWindow)
	f.DateFrom = &from
	f.DateTo = &to
	return f, nil
}

// dateWindow computes the start-date bounds: never before today, never past
// the search horizon, narrowed to the requested year/month when given.
// widenMonths expands a requested month on both sides (relaxed pass).
func (e *Engine) dateWindow(n normalized, sctx searchContext, widenMonths int) (time.Time, time.Time) {
	from := sctx.Now
	to := time.Date(sctx.Now.Year()+e.cfg.YearsAhead, 12, 31, 23, 59, 59, 0, time.UTC)

	year, month := n.Year, n.Month
	if year == 0 && month != 0 {
		// Month without a year means the next occurrence of that month.
		year = sctx.Now.Year()
		if time.Month(month) < sctx.Now.Month() {
			year++
		}
	}
	if year == 0 {
		return from, to
	}

	var winFrom, winTo time.Time
	if month != 0 {
		winFrom = time.Date(year, time.Month(month-widenMonths), 1, 0, 0, 0, 0, time.UTC)
		winTo = time.Date(year, time.Month(month+widenMonths)+1, 0, 23, 59, 59, 0, time.UTC)
	} else {
		winFrom = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		winTo = time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)
	}
	if winFrom.After(from) {
		from = winFrom
	}
	if winTo.Before(to) {
		to = winTo
	}
	return from, to
}

// assemble applies the minimum-score cutoff to the primary list (the
// relaxed list is already filtered), formats every surviving candidate and
// attaches the score and match reasons. A formatter failure skips that
// candidate in either pass.
func (e *Engine) assemble(primary, relaxed []*scored, format Formatter) *Result {
	res := &Result{
		Primary: make([]map[string]any, 0, len(primary)),
		Relaxed: make([]map[string]any, 0, len(relaxed)),
	}

	for _, sc := range primary {
		if sc.score < e.cfg.MinScore {
			continue
		}
		if item, ok := e.formatCandidate(sc, format); ok {
			res.Primary = append(res.Primary, item)
		} else {
			res.Skipped++
		}
	}
	for _, sc := range relaxed {
		if item, ok := e.formatCandidate(sc, format); ok {
			res.Relaxed = append(res.Relaxed, item)
		} else {
			res.Skipped++
		}
	}
	return res
}

func (e *Engine) formatCandidate(sc *scored, format Formatter) (map[string]any, bool) {
	item, err := format(sc.occ)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Uint("occurrence_id", sc.occ.ID).
			Msg("skipping candidate: formatting failed")
		return nil, false
	}
	if item == nil {
		item = make(map[string]any, 2)
	}
	item["score"] = int(math.Round(sc.score))
	item["match_reasons"] = sc.reasons
	return item, true
}
