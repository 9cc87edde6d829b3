package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Driver de armazenamento do ledger de estoque.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config armazena todas as configurações do serviço de estoque.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Armazenamento
	StorageDriver string
	DatabaseURL   string
	DBTimeout     time.Duration
	AutoMigrate   bool

	// Ledger de estoque
	LockTimeout         time.Duration
	TxMaxRetries        int
	DefaultLowThreshold int
	StockCacheTTL       time.Duration

	// Cache (Redis)
	RedisAddr string

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration
	AdminEmails  []string

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Alertas
	KafkaBrokers    []string
	StockAlertTopic string
	AlertQueueSize  int
}

// LoadConfig carrega as configurações das variáveis de ambiente via viper.
// O .env, quando existe, já foi carregado pelo godotenv em cmd/.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENV"),
		LogLevel:    strings.ToLower(v.GetString("LOG_LEVEL")),

		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		DBTimeout:     time.Duration(getInt(v, "DB_TIMEOUT_SEC", 5)) * time.Second,
		AutoMigrate:   v.GetBool("AUTO_MIGRATE"),

		LockTimeout:         time.Duration(getInt(v, "STOCK_LOCK_TIMEOUT_MS", 2000)) * time.Millisecond,
		TxMaxRetries:        getInt(v, "STOCK_TX_MAX_RETRIES", 3),
		DefaultLowThreshold: getInt(v, "STOCK_DEFAULT_LOW_THRESHOLD", 10),
		StockCacheTTL:       time.Duration(getInt(v, "STOCK_CACHE_TTL_SEC", 30)) * time.Second,

		RedisAddr: v.GetString("REDIS_ADDR"),

		JWTSecretKey: v.GetString("JWT_SECRET_KEY"),
		TokenExpiry:  time.Duration(getInt(v, "JWT_EXPIRY_MIN", 60)) * time.Minute,
		AdminEmails:  splitList(strings.ToLower(v.GetString("ADMIN_EMAILS"))),

		RateLimitMaxRequests: getInt(v, "RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      time.Duration(getInt(v, "RATE_LIMIT_PERIOD_MIN", 1)) * time.Minute,

		KafkaBrokers:    splitList(v.GetString("KAFKA_BROKERS")),
		StockAlertTopic: v.GetString("STOCK_ALERT_TOPIC"),
		AlertQueueSize:  getInt(v, "ALERT_QUEUE_SIZE", 256),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("STOCK_ALERT_TOPIC", "stock-alerts")
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("erro de configuração: DATABASE_URL deve ser definida com STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("erro de configuração: STORAGE_DRIVER inválido %q", c.StorageDriver)
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("erro de configuração: JWT_SECRET_KEY deve ser definida")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("erro de configuração: STOCK_LOCK_TIMEOUT_MS deve ser positivo")
	}
	if c.TxMaxRetries < 0 {
		return fmt.Errorf("erro de configuração: STOCK_TX_MAX_RETRIES não pode ser negativo")
	}
	return nil
}

// getInt lê um inteiro; valores inválidos caem no padrão.
func getInt(v *viper.Viper, key string, def int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
