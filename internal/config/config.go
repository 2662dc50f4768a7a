package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Neo4j    Neo4jConfig    `mapstructure:"neo4j"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Neo4jConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		Actions string `mapstructure:"actions"`
	} `mapstructure:"topics"`
	GroupID string `mapstructure:"group_id"`
}

type AuthConfig struct {
	JWTSecret string          `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration   `mapstructure:"token_ttl"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Default int           `mapstructure:"default"`
	Premium int           `mapstructure:"premium"`
	Window  time.Duration `mapstructure:"window"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds the recommendation engine's tunables: defaults for
// RecommendationOptions, the maturity-tier thresholds the weight policy
// switches on, and the sequence/session constants the profile builder and
// sequence scorer use.
type EngineConfig struct {
	SequenceWindow      int           `mapstructure:"sequence_window"`
	SessionTimeout      time.Duration `mapstructure:"session_timeout"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	DefaultCount        int           `mapstructure:"default_count"`
	DefaultMinScore     float64       `mapstructure:"default_min_score"`
	DefaultDiversity    float64       `mapstructure:"default_diversity_factor"`
	RatingThreshold     float64       `mapstructure:"rating_threshold"`
	MaturityTierLow     int           `mapstructure:"maturity_tier_low"`
	MaturityTierMid     int           `mapstructure:"maturity_tier_mid"`
	OrchestratorTimeout time.Duration `mapstructure:"orchestrator_timeout"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	viper.SetDefault("postgres.max_connections", 25)
	viper.SetDefault("postgres.max_idle_time", "15m")
	viper.SetDefault("postgres.max_lifetime", "1h")
	viper.SetDefault("postgres.connect_timeout", "10s")

	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")

	viper.SetDefault("kafka.topics.actions", "user-actions")
	viper.SetDefault("kafka.group_id", "recommendation-engine")

	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("auth.rate_limit.default", 1000)
	viper.SetDefault("auth.rate_limit.premium", 10000)
	viper.SetDefault("auth.rate_limit.window", "1h")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Engine defaults, spec §4.1/§4.2/§4.6/§9
	viper.SetDefault("engine.sequence_window", 20)
	viper.SetDefault("engine.session_timeout", "30m")
	viper.SetDefault("engine.cache_ttl", "300s")
	viper.SetDefault("engine.default_count", 25)
	viper.SetDefault("engine.default_min_score", 0.5)
	viper.SetDefault("engine.default_diversity_factor", 0.25)
	viper.SetDefault("engine.rating_threshold", 6.5)
	viper.SetDefault("engine.maturity_tier_low", 5)
	viper.SetDefault("engine.maturity_tier_mid", 25)
	viper.SetDefault("engine.orchestrator_timeout", "5s")

	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
