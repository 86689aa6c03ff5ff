// Package catalog implements the engine's catalog interface over GORM.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/tripforge/trip-match-api/internal/engine"
	"github.com/tripforge/trip-match-api/internal/models"
	"gorm.io/gorm"
)

type Catalog struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// FindOccurrences runs one search pass's hard filters and returns the
// candidates ordered by start date ascending, with all associations the
// scorer and formatter need eagerly loaded.
func (c *Catalog) FindOccurrences(ctx context.Context, f engine.OccurrenceFilter) ([]models.TripOccurrence, error) {
	q := c.db.WithContext(ctx).
		Joins("JOIN trip_templates ON trip_templates.id = trip_occurrences.template_id AND trip_templates.deleted_at IS NULL").
		Where("trip_templates.active = ?", true).
		Where("trip_occurrences.status NOT IN ?", []string{models.StatusCancelled, models.StatusFull})

	if !f.AllowZeroSpots {
		q = q.Where("trip_occurrences.spots_left > 0")
	}

	if len(f.CountryIDs) > 0 || len(f.Continents) > 0 {
		q = q.Joins("LEFT JOIN countries ON countries.id = trip_templates.country_id")
		switch {
		case len(f.CountryIDs) > 0 && len(f.Continents) > 0:
			q = q.Where("trip_templates.country_id IN ? OR countries.continent IN ?", f.CountryIDs, f.Continents)
		case len(f.CountryIDs) > 0:
			q = q.Where("trip_templates.country_id IN ?", f.CountryIDs)
		default:
			q = q.Where("countries.continent IN ?", f.Continents)
		}
	}

	if f.CategoryID != 0 {
		q = q.Where("trip_templates.category_id = ?", f.CategoryID)
	}

	if f.DateFrom != nil {
		if f.IncludeUnscheduled {
			q = q.Where("(trip_occurrences.start_date IS NULL OR trip_occurrences.start_date >= ?)", *f.DateFrom)
		} else {
			q = q.Where("trip_occurrences.start_date >= ?", *f.DateFrom)
		}
	} else if !f.IncludeUnscheduled {
		q = q.Where("trip_occurrences.start_date IS NOT NULL")
	}
	if f.DateTo != nil {
		if f.IncludeUnscheduled {
			q = q.Where("(trip_occurrences.start_date IS NULL OR trip_occurrences.start_date <= ?)", *f.DateTo)
		} else {
			q = q.Where("trip_occurrences.start_date <= ?", *f.DateTo)
		}
	}

	if f.MaxPrice > 0 {
		q = q.Where("COALESCE(trip_occurrences.price_override, trip_templates.base_price) <= ?", f.MaxPrice)
	}

	if f.HasDifficulty {
		q = q.Where("trip_templates.difficulty BETWEEN ? AND ?", f.DifficultyMin, f.DifficultyMax)
	}

	if len(f.ExcludeIDs) > 0 {
		q = q.Where("trip_occurrences.id NOT IN ?", f.ExcludeIDs)
	}

	var occs []models.TripOccurrence
	err := q.
		Preload("Template").
		Preload("Template.Country").
		Preload("Template.Category").
		Preload("Template.Tags").
		Preload("Template.Company").
		Preload("Template.Guide").
		Order("trip_occurrences.start_date ASC").
		Find(&occs).Error
	if err != nil {
		return nil, err
	}
	return occs, nil
}

// CountSchedulable counts every future bookable occurrence, ignoring
// preference filters. Undated on-demand occurrences count as future.
func (c *Catalog) CountSchedulable(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := c.db.WithContext(ctx).
		Model(&models.TripOccurrence{}).
		Joins("JOIN trip_templates ON trip_templates.id = trip_occurrences.template_id AND trip_templates.deleted_at IS NULL").
		Where("trip_templates.active = ?", true).
		Where("trip_occurrences.status NOT IN ?", []string{models.StatusCancelled, models.StatusFull}).
		Where("(trip_occurrences.start_date IS NULL OR trip_occurrences.start_date >= ?)", now).
		Count(&n).Error
	return n, err
}

// CategoryIDByName resolves a trip category id by name; 0 when unknown.
func (c *Catalog) CategoryIDByName(ctx context.Context, name string) (uint, error) {
	var cat models.TripCategory
	err := c.db.WithContext(ctx).Where("name = ?", name).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cat.ID, nil
}

// ContinentsForCountries returns the distinct continent codes of the given
// countries.
func (c *Catalog) ContinentsForCountries(ctx context.Context, countryIDs []uint) ([]string, error) {
	if len(countryIDs) == 0 {
		return nil, nil
	}
	var continents []string
	err := c.db.WithContext(ctx).
		Model(&models.Country{}).
		Where("id IN ?", countryIDs).
		Distinct().
		Pluck("continent", &continents).Error
	if err != nil {
		return nil, err
	}
	return continents, nil
}
