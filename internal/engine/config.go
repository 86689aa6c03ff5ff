package engine

// Weights is the additive scoring table. All contributions are applied on
// top of Base and the final score is clamped to [0, 100].
type Weights struct {
	Base float64

	ThemeFull    float64 // two or more matching theme tags
	ThemePartial float64 // exactly one matching tag
	ThemeMiss    float64 // themes requested, none matched (negative)

	DifficultyExact float64

	DurationIdeal float64 // within the requested range
	DurationClose float64 // within the hard-filter band around the range

	BudgetUnder   float64 // at or under budget
	BudgetNear    float64 // within 110% of budget
	BudgetStretch float64 // within 120% of budget

	StatusGuaranteed float64
	StatusLastPlaces float64
	DepartingSoon    float64

	CountryMatch   float64
	ContinentMatch float64

	RelaxedPenalty   float64 // subtracted up front in the relaxed pass
	CategoryMismatch float64 // relaxed pass only: category differs from requested
}

// Config tunes one engine instance. It is read-only after construction and
// shared across concurrent searches.
type Config struct {
	// MaxResults bounds the primary list; the relaxed pass tops results up
	// toward this bound.
	MaxResults int
	// MinResultsThreshold triggers the relaxed pass when the primary pass
	// selects this many results or fewer.
	MinResultsThreshold int
	// MinScore is the cutoff applied to both lists before assembly.
	MinScore float64
	// RelaxedOverscan is how many extra slots the relaxed selector keeps
	// beyond the needed count, absorbing the later cutoff filtering.
	RelaxedOverscan int

	// YearsAhead caps the search window at Dec 31 of (current year + N).
	YearsAhead int
	// DepartingSoonDays is the urgency window for the departing-soon bonus.
	DepartingSoonDays int
	// RelaxedMonthWindow widens a requested year/month by this many months
	// on each side in the relaxed pass.
	RelaxedMonthWindow int

	DifficultyTolerance        int
	RelaxedDifficultyTolerance int
	BudgetMultiplier           float64
	RelaxedBudgetMultiplier    float64
	// DurationHardFilterDays excludes primary candidates whose length is
	// further than this from the requested range. The relaxed pass has no
	// duration hard-exclusion.
	DurationHardFilterDays int

	// PrivateCategoryName resolves the on-demand category id from the
	// catalog; PrivateCategoryFallbackID is used when the lookup misses.
	PrivateCategoryName       string
	PrivateCategoryFallbackID uint

	Weights Weights
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		MaxResults:          10,
		MinResultsThreshold: 5,
		MinScore:            40,
		RelaxedOverscan:     5,

		YearsAhead:         2,
		DepartingSoonDays:  30,
		RelaxedMonthWindow: 2,

		DifficultyTolerance:        1,
		RelaxedDifficultyTolerance: 2,
		BudgetMultiplier:           1.3,
		RelaxedBudgetMultiplier:    1.5,
		DurationHardFilterDays:     7,

		PrivateCategoryName:       "Private tour",
		PrivateCategoryFallbackID: 4,

		Weights: Weights{
			Base:             40,
			ThemeFull:        15,
			ThemePartial:     8,
			ThemeMiss:        -10,
			DifficultyExact:  10,
			DurationIdeal:    10,
			DurationClose:    5,
			BudgetUnder:      15,
			BudgetNear:       8,
			BudgetStretch:    4,
			StatusGuaranteed: 5,
			StatusLastPlaces: 8,
			DepartingSoon:    3,
			CountryMatch:     12,
			ContinentMatch:   6,
			RelaxedPenalty:   -15,
			CategoryMismatch: -10,
		},
	}
}
