package config

import (
	"log"

	"github.com/spf13/viper"
	"github.com/tripforge/trip-match-api/internal/engine"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	MaxResults                 int     `mapstructure:"MAX_RESULTS"`
	MinResultsThreshold        int     `mapstructure:"MIN_RESULTS_THRESHOLD"`
	MinScore                   float64 `mapstructure:"MIN_SCORE"`
	DepartingSoonDays          int     `mapstructure:"DEPARTING_SOON_DAYS"`
	YearsAhead                 int     `mapstructure:"YEARS_AHEAD"`
	DifficultyTolerance        int     `mapstructure:"DIFFICULTY_TOLERANCE"`
	RelaxedDifficultyTolerance int     `mapstructure:"RELAXED_DIFFICULTY_TOLERANCE"`
	BudgetMultiplier           float64 `mapstructure:"BUDGET_MULTIPLIER"`
	RelaxedBudgetMultiplier    float64 `mapstructure:"RELAXED_BUDGET_MULTIPLIER"`
	DurationHardFilterDays     int     `mapstructure:"DURATION_HARD_FILTER_DAYS"`
	PrivateCategoryName        string  `mapstructure:"PRIVATE_CATEGORY_NAME"`
	PrivateCategoryFallbackID  uint    `mapstructure:"PRIVATE_CATEGORY_FALLBACK_ID"`
}

func LoadConfig() *Config {
	defaults := engine.DefaultConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "tripmatch.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_RESULTS", defaults.MaxResults)
	viper.SetDefault("MIN_RESULTS_THRESHOLD", defaults.MinResultsThreshold)
	viper.SetDefault("MIN_SCORE", defaults.MinScore)
	viper.SetDefault("DEPARTING_SOON_DAYS", defaults.DepartingSoonDays)
	viper.SetDefault("YEARS_AHEAD", defaults.YearsAhead)
	viper.SetDefault("DIFFICULTY_TOLERANCE", defaults.DifficultyTolerance)
	viper.SetDefault("RELAXED_DIFFICULTY_TOLERANCE", defaults.RelaxedDifficultyTolerance)
	viper.SetDefault("BUDGET_MULTIPLIER", defaults.BudgetMultiplier)
	viper.SetDefault("RELAXED_BUDGET_MULTIPLIER", defaults.RelaxedBudgetMultiplier)
	viper.SetDefault("DURATION_HARD_FILTER_DAYS", defaults.DurationHardFilterDays)
	viper.SetDefault("PRIVATE_CATEGORY_NAME", defaults.PrivateCategoryName)
	viper.SetDefault("PRIVATE_CATEGORY_FALLBACK_ID", defaults.PrivateCategoryFallbackID)

	viper.BindEnv("PORT")
	viper.BindEnv("DATABASE_PATH")
	viper.BindEnv("LOG_LEVEL")
	viper.BindEnv("MAX_RESULTS")
	viper.BindEnv("MIN_RESULTS_THRESHOLD")
	viper.BindEnv("MIN_SCORE")
	viper.BindEnv("DEPARTING_SOON_DAYS")
	viper.BindEnv("YEARS_AHEAD")
	viper.BindEnv("DIFFICULTY_TOLERANCE")
	viper.BindEnv("RELAXED_DIFFICULTY_TOLERANCE")
	viper.BindEnv("BUDGET_MULTIPLIER")
	viper.BindEnv("RELAXED_BUDGET_MULTIPLIER")
	viper.BindEnv("DURATION_HARD_FILTER_DAYS")
	viper.BindEnv("PRIVATE_CATEGORY_NAME")
	viper.BindEnv("PRIVATE_CATEGORY_FALLBACK_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// EngineConfig maps the service configuration onto the engine's tuning,
// keeping the default weight table.
func (c *Config) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.MaxResults = c.MaxResults
	cfg.MinResultsThreshold = c.MinResultsThreshold
	cfg.MinScore = c.MinScore
	cfg.DepartingSoonDays = c.DepartingSoonDays
	cfg.YearsAhead = c.YearsAhead
	cfg.DifficultyTolerance = c.DifficultyTolerance
	cfg.RelaxedDifficultyTolerance = c.RelaxedDifficultyTolerance
	cfg.BudgetMultiplier = c.BudgetMultiplier
	cfg.RelaxedBudgetMultiplier = c.RelaxedBudgetMultiplier
	cfg.DurationHardFilterDays = c.DurationHardFilterDays
	cfg.PrivateCategoryName = c.PrivateCategoryName
	cfg.PrivateCategoryFallbackID = c.PrivateCategoryFallbackID
	return cfg
}
