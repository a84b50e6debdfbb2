package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
}

type ServerConfig struct {
	Port       int        `mapstructure:"port"`
	Mode       string     `mapstructure:"mode"`
	AdminToken string     `mapstructure:"admin_token"`
	CORS       CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres
	Path            string        `mapstructure:"path"`
	URL             string        `mapstructure:"url"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.URL
	}
	return c.Path
}

type FetchConfig struct {
	Keyword   string        `mapstructure:"keyword"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
	UserAgent string        `mapstructure:"user_agent"`
}

type SourcesConfig struct {
	Enabled []string `mapstructure:"enabled"`
}

type IngestConfig struct {
	NewsTarget   int `mapstructure:"news_target"`
	TenderTarget int `mapstructure:"tender_target"`
	ParseLimit   int `mapstructure:"parse_limit"`
}

type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Spec     string `mapstructure:"spec"`
	Timezone string `mapstructure:"timezone"`
}

type NotifyConfig struct {
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

type WebhookConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	BaseURL  string `mapstructure:"base_url"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	StatsTTL time.Duration `mapstructure:"stats_ttl"`
}

type SnapshotConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// secrets and deployment overrides
	v.BindEnv("server.admin_token", "ADMIN_TOKEN")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("llm.api_key", "LLM_API_KEY")
	v.BindEnv("llm.base_url", "LLM_BASE_URL")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("notify.webhook.url", "NOTIFY_WEBHOOK_URL")
	v.BindEnv("notify.webhook.token", "NOTIFY_WEBHOOK_TOKEN")
	v.BindEnv("notify.telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("notify.telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("cache.redis_url", "REDIS_URL")
	v.BindEnv("snapshot.endpoint", "S3_ENDPOINT")
	v.BindEnv("snapshot.access_key", "S3_ACCESS_KEY")
	v.BindEnv("snapshot.secret_key", "S3_SECRET_KEY")
	v.BindEnv("snapshot.bucket", "S3_BUCKET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LLM.ResolveEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/pvhub.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("llm.provider", "openai-compatible")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("llm.timeout", 120*time.Second)
	v.SetDefault("llm.max_tokens", 4096)

	v.SetDefault("fetch.keyword", "钙钛矿")
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.retries", 2)
	v.SetDefault("fetch.user_agent", "")

	v.SetDefault("sources.enabled", []string{"bidcenter", "bjx_tender", "ggzy", "bjx_news", "solarbe"})

	v.SetDefault("ingest.news_target", 5)
	v.SetDefault("ingest.tender_target", 3)
	v.SetDefault("ingest.parse_limit", 10)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "0 0 * * *")
	v.SetDefault("scheduler.timezone", "UTC")

	v.SetDefault("notify.telegram.base_url", "https://api.telegram.org")
	v.SetDefault("notify.kafka.brokers", []string{})
	v.SetDefault("notify.kafka.topic", "pvhub.owner-notifications")

	v.SetDefault("cache.stats_ttl", 5*time.Minute)

	v.SetDefault("snapshot.enabled", false)
	v.SetDefault("snapshot.bucket", "pvhub-snapshots")
	v.SetDefault("snapshot.prefix", "snapshots")
}

// Validate checks cross-field constraints after unmarshalling.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database: unknown driver %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return fmt.Errorf("database: url is required for postgres")
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch: retries must not be negative")
	}
	if c.Ingest.ParseLimit <= 0 {
		return fmt.Errorf("ingest: parse_limit must be positive")
	}
	if len(c.Notify.Kafka.Brokers) > 0 && c.Notify.Kafka.Topic == "" {
		return fmt.Errorf("notify.kafka: topic is required when brokers are set")
	}
	return nil
}
