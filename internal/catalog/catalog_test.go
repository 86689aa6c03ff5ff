package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/tripforge/trip-match-api/internal/engine"
	"github.com/tripforge/trip-match-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	catalog *Catalog
	now     time.Time

	france models.Country
	spain  models.Country
	kenya  models.Country

	safari  models.TripCategory
	trek    models.TripCategory
	private models.TripCategory

	wildlife models.ThemeTag
	culture  models.ThemeTag
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Country{}, &models.TripCategory{}, &models.ThemeTag{},
		&models.Company{}, &models.Guide{},
		&models.TripTemplate{}, &models.TripOccurrence{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	f := &fixture{db: db, catalog: New(db), now: time.Now()}

	f.france = models.Country{Name: "France", Continent: models.ContinentEurope}
	f.spain = models.Country{Name: "Spain", Continent: models.ContinentEurope}
	f.kenya = models.Country{Name: "Kenya", Continent: models.ContinentAfrica}
	db.Create(&f.france)
	db.Create(&f.spain)
	db.Create(&f.kenya)

	f.safari = models.TripCategory{Name: "Safari"}
	f.trek = models.TripCategory{Name: "Trek"}
	f.private = models.TripCategory{Name: "Private tour"}
	db.Create(&f.safari)
	db.Create(&f.trek)
	db.Create(&f.private)

	f.wildlife = models.ThemeTag{Name: "wildlife"}
	f.culture = models.ThemeTag{Name: "culture"}
	db.Create(&f.wildlife)
	db.Create(&f.culture)

	return f
}

func (f *fixture) template(t *testing.T, country *models.Country, category models.TripCategory, price float64, difficulty int, active bool, tags ...models.ThemeTag) models.TripTemplate {
	t.Helper()
	company := models.Company{Name: "Acme Travel"}
	f.db.Create(&company)
	tmpl := models.TripTemplate{
		Title:        "Test trip",
		BasePrice:    price,
		DurationDays: 10,
		Capacity:     12,
		Difficulty:   difficulty,
		CategoryID:   category.ID,
		CompanyID:    company.ID,
		Tags:         tags,
		Active:       active,
	}
	if country != nil {
		tmpl.CountryID = &country.ID
	}
	if err := f.db.Create(&tmpl).Error; err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	return tmpl
}

func (f *fixture) occurrence(t *testing.T, tmpl models.TripTemplate, startIn int, status string, spots int) models.TripOccurrence {
	t.Helper()
	start := f.now.AddDate(0, 0, startIn)
	end := start.AddDate(0, 0, 10)
	occ := models.TripOccurrence{
		TemplateID: tmpl.ID,
		StartDate:  &start,
		EndDate:    &end,
		Status:     status,
		SpotsLeft:  spots,
	}
	if err := f.db.Create(&occ).Error; err != nil {
		t.Fatalf("failed to create occurrence: %v", err)
	}
	return occ
}

func futureFilter(f *fixture) engine.OccurrenceFilter {
	from := f.now
	return engine.OccurrenceFilter{DateFrom: &from}
}

func occurrenceIDs(occs []models.TripOccurrence) map[uint]bool {
	ids := make(map[uint]bool, len(occs))
	for _, o := range occs {
		ids[o.ID] = true
	}
	return ids
}

func TestFindOccurrencesHardFilters(t *testing.T) {
	f := setup(t)
	tmpl := f.template(t, &f.france, f.safari, 2000, 2, true)
	inactive := f.template(t, &f.france, f.safari, 2000, 2, false)

	open := f.occurrence(t, tmpl, 30, models.StatusOpen, 5)
	f.occurrence(t, tmpl, 30, models.StatusCancelled, 5)
	f.occurrence(t, tmpl, 30, models.StatusFull, 5)
	f.occurrence(t, tmpl, 30, models.StatusOpen, 0)  // no spots
	f.occurrence(t, tmpl, -10, models.StatusOpen, 5) // departed
	f.occurrence(t, inactive, 30, models.StatusOpen, 5)

	got, err := f.catalog.FindOccurrences(context.Background(), futureFilter(f))
	if err != nil {
		t.Fatalf("FindOccurrences returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != open.ID {
		t.Fatalf("expected only the open future occurrence, got %d results", len(got))
	}
	if got[0].Template.ID != tmpl.ID {
		t.Error("template not eagerly loaded")
	}
	if got[0].Template.Country == nil || got[0].Template.Country.Name != "France" {
		t.Error("country not eagerly loaded")
	}
}

func TestFindOccurrencesBudgetUsesOverride(t *testing.T) {
	f := setup(t)
	tmpl := f.template(t, &f.france, f.safari, 2000, 2, true)

	discounted := f.occurrence(t, tmpl, 30, models.StatusOpen, 5)
	override := 900.0
	f.db.Model(&discounted).Update("price_override", override)
	fullPrice := f.occurrence(t, tmpl, 40, models.StatusOpen, 5)

	flt := futureFilter(f)
	flt.MaxPrice = 1000
	got, err := f.catalog.FindOccurrences(context.Background(), flt)
	if err != nil {
		t.Fatalf("FindOccurrences returned error: %v", err)
	}
	ids := occurrenceIDs(got)
	if !ids[discounted.ID] {
		t.Error("discounted occurrence should pass the budget cap")
	}
	if ids[fullPrice.ID] {
		t.Error("full-price occurrence should be excluded by the budget cap")
	}
}

func TestFindOccurrencesGeography(t *testing.T) {
	f := setup(t)
	franceOcc := f.occurrence(t, f.template(t, &f.france, f.safari, 2000, 2, true), 30, models.StatusOpen, 5)
	spainOcc := f.occurrence(t, f.template(t, &f.spain, f.safari, 2000, 2, true), 30, models.StatusOpen, 5)
	kenyaOcc := f.occurrence(t, f.template(t, &f.kenya, f.safari, 2000, 2, true), 30, models.StatusOpen, 5)

	t.Run("CountriesOnly", func(t *testing.T) {
		flt := futureFilter(f)
		flt.CountryIDs = []uint{f.france.ID}
		got, err := f.catalog.FindOccurrences(context.Background(), flt)
		if err != nil {
			t.Fatalf("FindOccurrences returned error: %v", err)
		}
		ids := occurrenceIDs(got)
		if !ids[franceOcc.ID] || ids[spainOcc.ID] || ids[kenyaOcc.ID] {
			t.Errorf("country filter wrong, got %v", ids)
		}
	})

	t.Run("ContinentsOnly", func(t *testing.T) {
		flt := futureFilter(f)
		flt.Continents = []string{models.ContinentEurope}
		got, err := f.catalog.FindOccurrences(context.Background(), flt)
		if err != nil {
			t.Fatalf("FindOccurrences returned error: %v", err)
		}
		ids := occurrenceIDs(got)
		if !ids[franceOcc.ID] || !ids[spainOcc.ID] || ids[kenyaOcc.ID] {
			t.Errorf("continent filter wrong, got %v", ids)
		}
	})

	t.Run("CountryOrContinent", func(t *testing.T) {
		flt := futureFilter(f)
		flt.CountryIDs = []uint{f.kenya.ID}
		flt.Continents = []string{models.ContinentEurope}
		got, err := f.catalog.FindOccurrences(context.Background(), flt)
		if err != nil {
			t.Fatalf("FindOccurrences returned error: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("expected the union of both predicates, got %d", len(got))
		}
	})
}

func TestFindOccurrencesCategoryDifficultyExclude(t *testing.T) {
	f := setup(t)
	easySafari := f.occurrence(t, f.template(t, &f.france, f.safari, 2000, 2, true), 30, models.StatusOpen, 5)
	hardSafari := f.occurrence(t, f.template(t, &f.france, f.safari, 2000, 5, true), 30, models.StatusOpen, 5)
	easyTrek := f.occurrence(t, f.template(t, &f.france, f.trek, 2000, 2, true), 30, models.StatusOpen, 5)

	flt := futureFilter(f)
	flt.CategoryID = f.safari.ID
	flt.HasDifficulty = true
	flt.DifficultyMin = 1
	flt.DifficultyMax = 3
	got, err := f.catalog.FindOccurrences(context.Background(), flt)
	if err != nil {
		t.Fatalf("FindOccurrences returned error: %v", err)
	}
	ids := occurrenceIDs(got)
	if !ids[easySafari.ID] || ids[hardSafari.ID] || ids[easyTrek.ID] {
		t.Errorf("category/difficulty filter wrong, got %v", ids)
	}

	flt.ExcludeIDs = []uint{easySafari.ID}
	got, err = f.catalog.FindOccurrences(context.Background(), flt)
	if err != nil {
		t.Fatalf("FindOccurrences returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("excluded id still returned: %v", occurrenceIDs(got))
	}
}

func TestFindOccurrencesDateWindowAndOrder(t *testing.T) {
	f := setup(t)
	tmpl := f.template(t, &f.france, f.safari, 2000, 2, true)
	late := f.occurrence(t, tmpl, 90, models.StatusOpen, 5)
	early := f.occurrence(t, tmpl, 20, models.StatusOpen, 5)
	f.occurrence(t, tmpl, 400, models.StatusOpen, 5) // past the window

	flt := futureFilter(f)
	to := f.now.AddDate(0, 0, 180)
	flt.DateTo = &to
	got, err := f.catalog.FindOccurrences(context.Background(), flt)
	if err != nil {
		t.Fatalf("FindOccurrences returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 occurrences inside the window, got %d", len(got))
	}
	if got[0].ID != early.ID || got[1].ID != late.ID {
		t.Error("occurrences not ordered by start date ascending")
	}
}

func TestFindOccurrencesUnscheduled(t *testing.T) {
	f := setup(t)
	tmpl := f.template(t, &f.kenya, f.private, 8000, 3, true)
	undated := models.TripOccurrence{TemplateID: tmpl.ID, Status: models.StatusOpen, SpotsLeft: 0}
	if err := f.db.Create(&undated).Error; err != nil {
		t.Fatalf("failed to create occurrence: %v", err)
	}

	// A regular search never sees undated or zero-spot occurrences.
	got, err := f.catalog.FindOccurrences(context.Background(), futureFilter(f))
	if err != nil {
		t.Fatalf("FindOccurrences returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("undated occurrence leaked into a scheduled search: %d", len(got))
	}

	flt := engine.OccurrenceFilter{IncludeUnscheduled: true, AllowZeroSpots: true}
	got, err = f.catalog.FindOccurrences(context.Background(), flt)
	if err != nil {
		t.Fatalf("FindOccurrences returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != undated.ID {
		t.Fatalf("expected the undated occurrence, got %d results", len(got))
	}
}

func TestFindOccurrencesPreloadsTags(t *testing.T) {
	f := setup(t)
	tmpl := f.template(t, &f.kenya, f.safari, 3000, 3, true, f.wildlife, f.culture)
	f.occurrence(t, tmpl, 30, models.StatusOpen, 5)

	got, err := f.catalog.FindOccurrences(context.Background(), futureFilter(f))
	if err != nil {
		t.Fatalf("FindOccurrences returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(got))
	}
	if len(got[0].Template.Tags) != 2 {
		t.Errorf("expected 2 tags eagerly loaded, got %d", len(got[0].Template.Tags))
	}
	if got[0].Template.Category.Name != "Safari" {
		t.Errorf("category not eagerly loaded: %+v", got[0].Template.Category)
	}
}

func TestCountSchedulable(t *testing.T) {
	f := setup(t)
	tmpl := f.template(t, &f.france, f.safari, 2000, 2, true)
	f.occurrence(t, tmpl, 30, models.StatusOpen, 5)
	f.occurrence(t, tmpl, 60, models.StatusGuaranteed, 2)
	f.occurrence(t, tmpl, 30, models.StatusCancelled, 5)
	f.occurrence(t, tmpl, -10, models.StatusOpen, 5)

	n, err := f.catalog.CountSchedulable(context.Background(), f.now)
	if err != nil {
		t.Fatalf("CountSchedulable returned error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 schedulable occurrences, got %d", n)
	}
}

func TestCategoryIDByName(t *testing.T) {
	f := setup(t)

	id, err := f.catalog.CategoryIDByName(context.Background(), "Private tour")
	if err != nil {
		t.Fatalf("CategoryIDByName returned error: %v", err)
	}
	if id != f.private.ID {
		t.Errorf("expected id %d, got %d", f.private.ID, id)
	}

	id, err = f.catalog.CategoryIDByName(context.Background(), "No such category")
	if err != nil {
		t.Fatalf("CategoryIDByName returned error for missing name: %v", err)
	}
	if id != 0 {
		t.Errorf("expected 0 for missing category, got %d", id)
	}
}

func TestContinentsForCountries(t *testing.T) {
	f := setup(t)

	continents, err := f.catalog.ContinentsForCountries(context.Background(),
		[]uint{f.france.ID, f.spain.ID, f.kenya.ID})
	if err != nil {
		t.Fatalf("ContinentsForCountries returned error: %v", err)
	}
	if len(continents) != 2 {
		t.Fatalf("expected 2 distinct continents, got %v", continents)
	}
	seen := map[string]bool{}
	for _, c := range continents {
		seen[c] = true
	}
	if !seen[models.ContinentEurope] || !seen[models.ContinentAfrica] {
		t.Errorf("unexpected continents: %v", continents)
	}
}
