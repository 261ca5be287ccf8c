package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"economy": map[string]any{
			"taxRate": 0.13,
			"connectionBonus": map[string]any{
				"autoCollect": 0.05,
			},
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "ECONOMY_TAXRATE", want: "economy.taxRate"},
		{envKey: "ECONOMY_CONNECTIONBONUS_AUTOCOLLECT", want: "economy.connectionBonus.autoCollect"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, "postgres", cfg.Persistence.Driver)
	require.NotNil(t, cfg.Economy)
	assert.InDelta(t, 0.13, cfg.Economy.TaxRate, 1e-9)
	assert.Equal(t, 5, cfg.Economy.ConnectionRadius)
	assert.Equal(t, time.Hour, cfg.Economy.CollectDebounce)
	assert.Len(t, cfg.Economy.ProgressiveTax.Brackets, 3)
	assert.Equal(t, 24*time.Hour, cfg.Sweep.Interval)
	assert.Equal(t, 200, cfg.Sweep.BatchSize)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Persistence.Driver = "memory"
	cfg.Economy = &EconomyConfig{MapSize: 50}
	cfg.Sweep.Interval = time.Minute

	applyDefaults(cfg)

	assert.Equal(t, "memory", cfg.Persistence.Driver)
	assert.Equal(t, 50, cfg.Economy.MapSize)
	assert.Equal(t, time.Minute, cfg.Sweep.Interval)
}

func TestLoadWithEnv_OverridesEconomyFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yamlContent := []byte("economy:\n  mapSize: 100\n  taxRate: 0.13\n  collectDebounce: 1h\n")
	require.NoError(t, writeFile(dir+"/test.yaml", yamlContent))
	t.Setenv("ECONOMY_TAXRATE", "0.2")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)
	require.NotNil(t, cfg.Economy)
	assert.InDelta(t, 0.2, cfg.Economy.TaxRate, 1e-9)
	assert.Equal(t, 100, cfg.Economy.MapSize)
	assert.Equal(t, time.Hour, cfg.Economy.CollectDebounce)
}

func TestLoadWithEnv_PartialEconomyKeepsReferenceRates(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, writeFile(dir+"/partial.yaml", []byte("economy:\n  taxRate: 0.2\n")))

	cfg, err := LoadWithEnv[Config]("partial")
	require.NoError(t, err)
	applyDefaults(cfg)

	def := DefaultEconomyConfig()
	ec := cfg.Economy
	require.NotNil(t, ec)
	assert.InDelta(t, 0.2, ec.TaxRate, 1e-9)
	assert.Equal(t, def.MapSize, ec.MapSize)
	assert.InDelta(t, def.ResaleCommission, ec.ResaleCommission, 1e-9)
	assert.InDelta(t, def.DemolishFeeRate, ec.DemolishFeeRate, 1e-9)
	assert.InDelta(t, def.WithdrawalCommission, ec.WithdrawalCommission, 1e-9)
	assert.InDelta(t, def.ConnectionBonus.AutoCollect, ec.ConnectionBonus.AutoCollect, 1e-9)
	assert.InDelta(t, def.ResaleFloor.BaseFraction, ec.ResaleFloor.BaseFraction, 1e-9)
	assert.Equal(t, def.ConnectionRadius, ec.ConnectionRadius)
	assert.Equal(t, time.Hour, ec.CollectDebounce)
	assert.Len(t, ec.ProgressiveTax.Brackets, 3)
}

func writeFile(path string, content []byte) error {
	return os.WriteFile(path, content, 0o600)
}
