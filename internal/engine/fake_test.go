package engine

import (
	"context"
	"sort"
	"time"

	"github.com/tripforge/trip-match-api/internal/models"
)

// fakeCatalog applies the same hard-filter semantics as the real catalog,
// in memory, and records every filter it was asked to run.
type fakeCatalog struct {
	occs       []models.TripOccurrence
	categories map[string]uint
	countries  map[uint]string // country id -> continent code
	filters    []OccurrenceFilter
	findErr    error
}

func (f *fakeCatalog) FindOccurrences(_ context.Context, flt OccurrenceFilter) ([]models.TripOccurrence, error) {
	f.filters = append(f.filters, flt)
	if f.findErr != nil {
		return nil, f.findErr
	}

	var out []models.TripOccurrence
	for _, o := range f.occs {
		if matchesFilter(&o, flt) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].StartDate, out[j].StartDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out, nil
}

func (f *fakeCatalog) CountSchedulable(context.Context, time.Time) (int64, error) {
	var n int64
	for _, o := range f.occs {
		if o.Status != models.StatusCancelled && o.Status != models.StatusFull && o.Template.Active {
			n++
		}
	}
	return n, nil
}

func (f *fakeCatalog) CategoryIDByName(_ context.Context, name string) (uint, error) {
	return f.categories[name], nil
}

func (f *fakeCatalog) ContinentsForCountries(_ context.Context, ids []uint) ([]string, error) {
	var out []string
	for _, id := range ids {
		if c, ok := f.countries[id]; ok && !containsString(out, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func matchesFilter(o *models.TripOccurrence, f OccurrenceFilter) bool {
	tmpl := &o.Template
	if !tmpl.Active {
		return false
	}
	if o.Status == models.StatusCancelled || o.Status == models.StatusFull {
		return false
	}
	if !f.AllowZeroSpots && o.SpotsLeft <= 0 {
		return false
	}

	if len(f.CountryIDs) > 0 || len(f.Continents) > 0 {
		match := false
		if tmpl.CountryID != nil {
			for _, id := range f.CountryIDs {
				if id == *tmpl.CountryID {
					match = true
				}
			}
		}
		if !match && tmpl.Country != nil && containsString(f.Continents, tmpl.Country.Continent) {
			match = true
		}
		if !match {
			return false
		}
	}

	if f.CategoryID != 0 && tmpl.CategoryID != f.CategoryID {
		return false
	}

	if o.StartDate == nil {
		if !f.IncludeUnscheduled {
			return false
		}
	} else {
		if f.DateFrom != nil && o.StartDate.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && o.StartDate.After(*f.DateTo) {
			return false
		}
	}

	if f.MaxPrice > 0 && o.EffectivePrice() > f.MaxPrice {
		return false
	}

	if f.HasDifficulty && (tmpl.Difficulty < f.DifficultyMin || tmpl.Difficulty > f.DifficultyMax) {
		return false
	}

	for _, id := range f.ExcludeIDs {
		if o.ID == id {
			return false
		}
	}
	return true
}
