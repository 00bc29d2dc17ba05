package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Database DatabaseConfig `mapstructure:"database"`
	Search   SearchConfig   `mapstructure:"search"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// AWSConfig holds settings for the managed AWS services the pipeline
// glues together: Lex runtime (dialog), SQS (queue), SES (email).
type AWSConfig struct {
	Region string    `mapstructure:"region"`
	Lex    LexConfig `mapstructure:"lex"`
	SQS    SQSConfig `mapstructure:"sqs"`
	SES    SESConfig `mapstructure:"ses"`
}

type LexConfig struct {
	BotName  string `mapstructure:"bot_name"`
	BotAlias string `mapstructure:"bot_alias"`
}

type SQSConfig struct {
	QueueURL          string `mapstructure:"queue_url"`
	MaxMessages       int    `mapstructure:"max_messages"`
	WaitSeconds       int    `mapstructure:"wait_seconds"`
	VisibilityTimeout int    `mapstructure:"visibility_timeout"` // seconds
	PollInterval      int    `mapstructure:"poll_interval"`      // milliseconds between empty polls
}

type SESConfig struct {
	FromEmail string `mapstructure:"from_email"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
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

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// SearchConfig holds settings for the recommendation fetcher.
type SearchConfig struct {
	Index         string `mapstructure:"index"`
	MaxCandidates int    `mapstructure:"max_candidates"`
	SampleSize    int    `mapstructure:"sample_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
