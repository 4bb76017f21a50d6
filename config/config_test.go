package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pawn-ledger/config"
)

func TestNew_EnvOverridesDefaults(t *testing.T) {
	// GIVEN: Environment variables set for every field
	// WHEN: Loading the configuration
	// THEN: Values come from the environment, not the envDefault tags
	//
	// New() registers flags on the global FlagSet, so it can only run once
	// per process; a single test covers it.

	t.Setenv("RUN_ADDRESS", ":9090")
	t.Setenv("DATABASE_PATH", ":memory:")
	t.Setenv("LOG_LVL", "debug")

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLvl)
}
