package models

import (
	"time"

	"gorm.io/gorm"
)

// Occurrence lifecycle statuses. Cancelled and Full occurrences are never
// surfaced to searchers.
const (
	StatusOpen       = "Open"
	StatusGuaranteed = "Guaranteed"
	StatusLastPlaces = "Last Places"
	StatusFull       = "Full"
	StatusCancelled  = "Cancelled"
)

// TripTemplate is the reusable description of a trip offering. Occurrences
// reference a template for everything they do not override.
type TripTemplate struct {
	gorm.Model
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	BasePrice    float64      `json:"base_price"`
	DurationDays int          `json:"duration_days"`
	Capacity     int          `json:"capacity"`
	Difficulty   int          `json:"difficulty"`
	CountryID    *uint        `json:"country_id"`
	Country      *Country     `json:"country"`
	CategoryID   uint         `json:"category_id"`
	Category     TripCategory `json:"category"`
	CompanyID    uint         `json:"company_id"`
	Company      Company      `json:"company"`
	GuideID      *uint        `json:"guide_id"`
	Guide        *Guide       `json:"guide"`
	Tags         []ThemeTag   `json:"tags" gorm:"many2many:template_tags;"`
	Active       bool         `json:"active"`
}

// TripOccurrence is one schedulable instance of a template. Start and end
// dates are nil for on-demand trips that have no fixed schedule.
type TripOccurrence struct {
	gorm.Model
	TemplateID       uint         `json:"template_id"`
	Template         TripTemplate `json:"template"`
	StartDate        *time.Time   `json:"start_date"`
	EndDate          *time.Time   `json:"end_date"`
	Status           string       `json:"status"`
	SpotsLeft        int          `json:"spots_left"`
	PriceOverride    *float64     `json:"price_override"`
	CapacityOverride *int         `json:"capacity_override"`
	ImageOverride    *string      `json:"image_override"`
}

// EffectivePrice is the per-occurrence price override when present,
// otherwise the template's base price.
func (o *TripOccurrence) EffectivePrice() float64 {
	if o.PriceOverride != nil {
		return *o.PriceOverride
	}
	return o.Template.BasePrice
}

// EffectiveDuration is the scheduled length in days, falling back to the
// template's typical duration when the occurrence is undated.
func (o *TripOccurrence) EffectiveDuration() int {
	if o.StartDate != nil && o.EndDate != nil {
		return int(o.EndDate.Sub(*o.StartDate).Hours() / 24)
	}
	return o.Template.DurationDays
}
