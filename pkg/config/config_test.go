package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "csv", c.Data.PricesSource)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.Equal(t, 5*time.Minute, c.Cache.TTL)
	assert.Equal(t, time.Minute, c.Cache.CleanupInterval)
	assert.Equal(t, 10, c.Redis.PoolSize)
	assert.Equal(t, 2, c.Redis.MinIdleConns)
	assert.Equal(t, 4*time.Second, c.Redis.PoolTimeout)
	assert.Equal(t, "rebar_uae_import", c.Dashboard.PrimarySymbol)
	assert.Equal(t, []string{"rebar_uae_import", "brent_crude_oil", "iron_ore_62fe_cfr_china"}, c.Dashboard.DefaultSymbols)
	assert.Equal(t, 0.78, c.Dashboard.About.StoredMAE)
	assert.Equal(t, "data/validation/walk_forward_results.csv", c.Data.Paths.WalkForward)
	assert.False(t, c.Events.Enabled)
}

func TestLoad_ShippedFile(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, map[int]float64{1: 1, 7: 2, 30: 5}, c.Dashboard.ForecastOffsets)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad source":       "data:\n  prices_source: parquet\n",
		"clickhouse host":  "data:\n  prices_source: clickhouse\n",
		"bad cache":        "cache:\n  backend: disk\n",
		"events no broker": "events:\n  enabled: true\n",
		"bad port":         "server:\n  port: 70000\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	t.Setenv("STEELDASH_DATA_ROOT", "/srv/steel")
	t.Setenv("STEELDASH_HTTP_PORT", "9090")
	t.Setenv("STEELDASH_KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/steel", c.Data.Root)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
}

func TestResolvePath(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	c.Data.Root = "/data"
	assert.Equal(t, filepath.Join("/data", "a.csv"), c.ResolvePath("a.csv"))
	assert.Equal(t, "/abs/b.csv", c.ResolvePath("/abs/b.csv"))
	assert.Equal(t, "", c.ResolvePath(""))
}
