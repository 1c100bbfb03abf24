package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fridge-planner/internal/core/graph"
	"fridge-planner/internal/core/inventory"
	"fridge-planner/internal/core/recipe"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Planner     PlannerConfig   `mapstructure:"planner"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFile     string          `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// PlannerConfig 菜單規劃預設值
type PlannerConfig struct {
	Policy        string `mapstructure:"policy"`
	Order         string `mapstructure:"order"`
	Seed          int64  `mapstructure:"seed"`
	ReferenceDate string `mapstructure:"reference_date"`
	MissingPolicy string `mapstructure:"missing_policy"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db"`
	MaxSize   int           `mapstructure:"max_size"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// 快取後端
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定：預設值 → .env → 環境變數
func LoadConfig() (*Config, error) {
	// .env 非必要
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定不帶前綴的常用環境變量
	_ = v.BindEnv("planner.policy", "APP_PLANNER_POLICY", "PLANNER_POLICY")
	_ = v.BindEnv("planner.order", "APP_PLANNER_ORDER", "PLANNER_ORDER")
	_ = v.BindEnv("planner.seed", "APP_PLANNER_SEED", "PLANNER_SEED")
	_ = v.BindEnv("planner.reference_date", "APP_PLANNER_REFERENCE_DATE", "PLANNER_REFERENCE_DATE")
	_ = v.BindEnv("planner.missing_policy", "APP_PLANNER_MISSING_POLICY", "PLANNER_MISSING_POLICY")
	_ = v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")
	_ = v.BindEnv("cache.enabled", "APP_CACHE_ENABLED", "CACHE_ENABLED")
	_ = v.BindEnv("cache.backend", "APP_CACHE_BACKEND", "CACHE_BACKEND")
	_ = v.BindEnv("cache.redis_addr", "APP_CACHE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("rate_limit.enabled", "APP_RATE_LIMIT_ENABLED", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "APP_RATE_LIMIT_REQUESTS", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "APP_RATE_LIMIT_WINDOW", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "APP_DEDUP_WINDOW", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "APP_LOG_FILE", "LOG_FILE")

	// 可選的設定檔
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "fridge-planner")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 規劃設定
	v.SetDefault("planner.policy", string(recipe.SumPolicy))
	v.SetDefault("planner.order", "sequential")
	v.SetDefault("planner.seed", 0)
	v.SetDefault("planner.reference_date", "")
	v.SetDefault("planner.missing_policy", "abort")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", BackendMemory)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "1h")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "0s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body bytes")
	}

	if _, err := config.Planner.Options(nil); err != nil {
		return err
	}
	if _, err := config.Planner.Loader(); err != nil {
		return err
	}

	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case BackendMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
		case BackendRedis:
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required for redis cache backend")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}

// ReferenceTime 剩餘天數的基準日；未設定時為今天
func (p PlannerConfig) ReferenceTime() (time.Time, error) {
	if strings.TrimSpace(p.ReferenceDate) == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(inventory.DateLayout, strings.TrimSpace(p.ReferenceDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference date %q: %w", p.ReferenceDate, err)
	}
	return t, nil
}

// Options 依設定建立單次規劃參數
func (p PlannerConfig) Options(favorites []string) (recipe.Options, error) {
	policy, err := recipe.ParseScorePolicy(p.Policy)
	if err != nil {
		return recipe.Options{}, err
	}
	order, err := graph.ParseOrder(p.Order, p.Seed)
	if err != nil {
		return recipe.Options{}, err
	}
	return recipe.Options{Policy: policy, Order: order, Favorites: favorites}, nil
}

// Loader 依設定建立的庫存載入器
func (p PlannerConfig) Loader() (*inventory.Loader, error) {
	today, err := p.ReferenceTime()
	if err != nil {
		return nil, err
	}
	policy, err := inventory.ParseMalformedPolicy(p.MissingPolicy)
	if err != nil {
		return nil, err
	}
	return &inventory.Loader{Today: today, Policy: policy}, nil
}
