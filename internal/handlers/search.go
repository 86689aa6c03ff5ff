package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
	"github.com/tripforge/trip-match-api/internal/engine"
	"github.com/tripforge/trip-match-api/internal/models"
)

type SearchHandler struct {
	engine *engine.Engine
	logger zerolog.Logger
}

func NewSearchHandler(eng *engine.Engine, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{engine: eng, logger: logger}
}

type SearchRequest struct {
	Body engine.Preferences
}

type SearchResponse struct {
	Body struct {
		Primary         []map[string]any `json:"primary" doc:"Best matches for the literal preferences"`
		Relaxed         []map[string]any `json:"relaxed" doc:"Widened fallback matches, present when the strict search came up short"`
		TotalCandidates int              `json:"total_candidates" doc:"Candidates that passed the hard filters"`
		TotalInCatalog  int64            `json:"total_in_catalog" doc:"All bookable future departures in the catalog"`
		Skipped         int              `json:"skipped,omitempty" doc:"Candidates dropped because formatting failed"`
	}
}

func (h *SearchHandler) HandleSearch(ctx context.Context, input *SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	result, err := h.engine.Search(ctx, &input.Body, FormatTrip)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to search trips: " + err.Error())
	}

	h.logger.Info().
		Int("results", len(result.Primary)).
		Int("relaxed", len(result.Relaxed)).
		Int("total_candidates", result.TotalCandidates).
		Int("skipped", result.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("trip search")

	res := &SearchResponse{}
	res.Body.Primary = result.Primary
	res.Body.Relaxed = result.Relaxed
	res.Body.TotalCandidates = result.TotalCandidates
	res.Body.TotalInCatalog = result.TotalInCatalog
	res.Body.Skipped = result.Skipped
	return res, nil
}

// FormatTrip converts one occurrence into the public result shape. The
// engine adds score and match_reasons on top.
func FormatTrip(occ *models.TripOccurrence) (map[string]any, error) {
	tmpl := &occ.Template

	themes := make([]string, 0, len(tmpl.Tags))
	for _, tag := range tmpl.Tags {
		themes = append(themes, tag.Name)
	}

	item := map[string]any{
		"occurrence_id": occ.ID,
		"template_id":   tmpl.ID,
		"title":         tmpl.Title,
		"description":   tmpl.Description,
		"price":         occ.EffectivePrice(),
		"duration_days": occ.EffectiveDuration(),
		"difficulty":    tmpl.Difficulty,
		"status":        occ.Status,
		"spots_left":    occ.SpotsLeft,
		"category":      tmpl.Category.Name,
		"company":       tmpl.Company.Name,
		"themes":        themes,
	}

	if occ.StartDate != nil {
		item["start_date"] = occ.StartDate.Format(time.DateOnly)
	}
	if occ.EndDate != nil {
		item["end_date"] = occ.EndDate.Format(time.DateOnly)
	}
	if tmpl.Country != nil {
		item["country"] = tmpl.Country.Name
		item["continent"] = tmpl.Country.Continent
	}
	if tmpl.Guide != nil {
		item["guide"] = tmpl.Guide.Name
	}
	if occ.ImageOverride != nil {
		item["image"] = *occ.ImageOverride
	}

	return item, nil
}
