// internal/common/config/config.go
package config

import (
	"fmt"

	"github.com/meirhagag/needme/internal/matching"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Match    MatchConfig    `mapstructure:"match"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// TracingConfig holds distributed tracing settings. Tracing is disabled
// when the Jaeger endpoint is empty.
type TracingConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MatchConfig holds the scoring/ranking/dispatch knobs. The weights and
// cap mirror observed product behavior; change them only with product
// input.
type MatchConfig struct {
	Weights          matching.Weights `mapstructure:"weights"`
	ShortlistCap     int              `mapstructure:"shortlist_cap"`
	MaxConcurrent    int              `mapstructure:"max_concurrent"`    // dispatch fan-out bound
	SnapshotCacheTTL int              `mapstructure:"snapshot_cache_ttl"` // milliseconds
}

// NotifierConfig holds outbound notification settings. Provider selects
// the mail transport: "resend" (default) or "ses".
type NotifierConfig struct {
	Provider  string `mapstructure:"provider"`
	FromEmail string `mapstructure:"from_email"`
	AWS       struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Resend struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"resend"`
	SNS struct {
		Enabled       bool   `mapstructure:"enabled"`
		AlertTopicARN string `mapstructure:"alert_topic_arn"`
	} `mapstructure:"sns"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
