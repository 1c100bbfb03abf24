package config

import (
	"testing"
	"time"

	"fridge-planner/internal/core/graph"
	"fridge-planner/internal/core/inventory"
	"fridge-planner/internal/core/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sum", cfg.Planner.Policy)
	assert.Equal(t, "sequential", cfg.Planner.Order)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Zero(t, cfg.DedupWindow)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)

	opts, err := cfg.Planner.Options(nil)
	require.NoError(t, err)
	assert.Equal(t, recipe.SumPolicy, opts.Policy)
	assert.Equal(t, graph.SequentialOrder{}, opts.Order)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PLANNER_POLICY", "min")
	t.Setenv("PLANNER_ORDER", "shuffled")
	t.Setenv("PLANNER_SEED", "17")
	t.Setenv("PLANNER_REFERENCE_DATE", "2024-03-10")
	t.Setenv("PLANNER_MISSING_POLICY", "skip")
	t.Setenv("APP_CACHE_TTL", "5m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)

	opts, err := cfg.Planner.Options([]string{"duck"})
	require.NoError(t, err)
	assert.Equal(t, recipe.MinPolicy, opts.Policy)
	assert.Equal(t, graph.ShuffledOrder{Seed: 17}, opts.Order)
	assert.Equal(t, []string{"duck"}, opts.Favorites)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.LogLevel)

	loader, err := cfg.Planner.Loader()
	require.NoError(t, err)
	assert.Equal(t, inventory.SkipMalformed, loader.Policy)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), loader.Today)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown policy", "PLANNER_POLICY", "max"},
		{"unknown order", "PLANNER_ORDER", "alphabetical"},
		{"bad reference date", "PLANNER_REFERENCE_DATE", "10/03/2024"},
		{"unknown missing policy", "PLANNER_MISSING_POLICY", "ignore"},
		{"unknown cache backend", "CACHE_BACKEND", "memcached"},
		{"bad port", "PORT", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestPlannerConfig_ReferenceTime(t *testing.T) {
	now, err := PlannerConfig{}.ReferenceTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Minute)

	fixed, err := PlannerConfig{ReferenceDate: " 2024-01-31 "}.ReferenceTime()
	require.NoError(t, err)
	assert.Equal(t, 31, fixed.Day())
}
