package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/config"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, config.Load())

	assert.Equal(t, "sqlite", config.DatabaseDriver())
	assert.Equal(t, "canteen.events", config.KafkaTopic())
	assert.Equal(t, 30*24*time.Hour, config.OrderRetention())
}

func TestSetOverridesAndTypedGetters(t *testing.T) {
	config.Set("KAFKA_BROKERS", "a:9092, b:9092,,")
	config.Set("MENU_CACHE_TTL", "90s")
	config.Set("QUEUE_WORKERS", "not-a-number")
	t.Cleanup(func() {
		config.Set("KAFKA_BROKERS", "")
		config.Set("MENU_CACHE_TTL", "5m")
		config.Set("QUEUE_WORKERS", "2")
	})

	assert.Equal(t, []string{"a:9092", "b:9092"}, config.KafkaBrokers())
	assert.Equal(t, 90*time.Second, config.MenuCacheTTL())
	assert.Equal(t, 2, config.QueueWorkers())
}

func TestUnknownDriverFallsBackToSQLite(t *testing.T) {
	config.Set("DB_DRIVER", "oracle")
	t.Cleanup(func() { config.Set("DB_DRIVER", "sqlite") })

	assert.Equal(t, "sqlite", config.DatabaseDriver())
	assert.Equal(t, "canteen.db", config.DatabaseDSN())
}

func TestDotEnvParsing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nJWT_TTL=\"2h\"\nexport APP_PORT=9000\n"), 0o644))

	out := map[string]string{}
	require.NoError(t, config.MergeDotEnvForTest(path, out))
	assert.Equal(t, "2h", out["JWT_TTL"])
	assert.Equal(t, "9000", out["APP_PORT"])
}
