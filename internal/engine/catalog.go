package engine

import (
	"context"
	"time"

	"github.com/tripforge/trip-match-api/internal/models"
)

// OccurrenceFilter is the hard-filter predicate set one search pass runs
// against the catalog. Zero values mean "not filtered".
type OccurrenceFilter struct {
	// Geography: a candidate matches when its template's country id is in
	// CountryIDs or its country's continent code is in Continents. Both
	// empty means no geography filter.
	CountryIDs []uint
	Continents []string

	// CategoryID, when non-zero, requires an exact trip-category match.
	CategoryID uint

	// Date window over the occurrence start date. Nil bounds are open.
	// IncludeUnscheduled additionally admits occurrences with no start
	// date (on-demand trips).
	DateFrom           *time.Time
	DateTo             *time.Time
	IncludeUnscheduled bool

	// MaxPrice, when positive, caps the effective price.
	MaxPrice float64

	// Difficulty band, inclusive. Applied only when HasDifficulty.
	HasDifficulty bool
	DifficultyMin int
	DifficultyMax int

	// AllowZeroSpots keeps zero-capacity occurrences (private category).
	AllowZeroSpots bool

	// ExcludeIDs drops occurrence ids already surfaced by an earlier pass.
	ExcludeIDs []uint
}

// Catalog is the external catalog collaborator. Implementations must return
// occurrences ordered by start date ascending with template, country,
// category, tags, company and guide resolved.
type Catalog interface {
	FindOccurrences(ctx context.Context, f OccurrenceFilter) ([]models.TripOccurrence, error)

	// CountSchedulable counts every future bookable occurrence in the
	// catalog, ignoring preference filters.
	CountSchedulable(ctx context.Context, now time.Time) (int64, error)

	// CategoryIDByName resolves a trip category id; returns 0 when the
	// name is unknown.
	CategoryIDByName(ctx context.Context, name string) (uint, error)

	// ContinentsForCountries returns the distinct continent codes of the
	// given countries.
	ContinentsForCountries(ctx context.Context, countryIDs []uint) ([]string, error)
}

// Formatter converts one occurrence into the caller's public result shape.
// The engine adds the score and match-reason fields on top of what the
// formatter returns and never touches anything else in the map.
type Formatter func(occ *models.TripOccurrence) (map[string]any, error)
