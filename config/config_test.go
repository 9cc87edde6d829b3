package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/config"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "segredo")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 2*time.Second, cfg.LockTimeout)
	assert.Equal(t, 3, cfg.TxMaxRetries)
	assert.Equal(t, 10, cfg.DefaultLowThreshold)
	assert.Equal(t, "stock-alerts", cfg.StockAlertTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoadConfig_ParsesOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/stock?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("STOCK_LOCK_TIMEOUT_MS", "250")
	t.Setenv("STOCK_DEFAULT_LOW_THRESHOLD", "abc")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("ADMIN_EMAILS", "Ops@Empresa.com")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, 10, cfg.DefaultLowThreshold)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"ops@empresa.com"}, cfg.AdminEmails)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadConfig_Fail_PostgresWithoutURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "segredo")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_Fail_MissingJWTSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
