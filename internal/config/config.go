package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, когда не удалось прочитать файл конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Redis         RedisConfig         `toml:"redis"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Wizard        WizardConfig        `toml:"wizard"`
	Calendar      CalendarConfig      `toml:"calendar"`
	Pricing       PricingConfig       `toml:"pricing"`
	Promotions    PromotionsConfig    `toml:"promotions"`
	Notifications NotificationsConfig `toml:"notifications"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Admin         AdminConfig         `toml:"admin"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
	RequestTimeout  int `toml:"request_timeout"`  // секунды, таймаут обращений к хранилищу на запрос
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type WizardConfig struct {
	SessionTTL int `toml:"session_ttl"` // секунды
}

// SessionTTLDuration время жизни сессии мастера
func (w WizardConfig) SessionTTLDuration() time.Duration {
	return time.Duration(w.SessionTTL) * time.Second
}

type CalendarConfig struct {
	// ZeroCapacityMeansUnset вместимость 0 трактуется как "не задано" (по умолчанию true)
	ZeroCapacityMeansUnset *bool `toml:"zero_capacity_means_unset"`
	FallbackCapacity       int   `toml:"fallback_capacity"`
	// Timezone часовой пояс бизнеса, в нем считаются границы суток
	Timezone string `toml:"timezone"`
}

// Location возвращает часовой пояс календаря
func (c CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type PricingConfig struct {
	BasePrices           map[string]float64 `toml:"base_prices"` // по типу уборки
	PerBedroom           float64            `toml:"per_bedroom"`
	PerBathroom          float64            `toml:"per_bathroom"`
	PerSquareFoot        float64            `toml:"per_square_foot"`
	PerUnit              float64            `toml:"per_unit"`
	IntensityMultipliers map[string]float64 `toml:"intensity_multipliers"`
	FrequencyDiscounts   map[string]float64 `toml:"frequency_discounts"` // доля, 0.1 = 10%
	Extras               map[string]float64 `toml:"extras"`
	MinimumPrice         float64            `toml:"minimum_price"`
}

type PromotionsConfig struct {
	Codes []PromoCodeConfig `toml:"codes"`
}

type PromoCodeConfig struct {
	Code      string  `toml:"code"`
	Percent   float64 `toml:"percent"`    // 10 = 10%
	Amount    float64 `toml:"amount"`     // фиксированная скидка
	ExpiresAt string  `toml:"expires_at"` // YYYY-MM-DD, пусто - бессрочно
}

type NotificationsConfig struct {
	Enabled  bool   `toml:"enabled"`
	Queue    string `toml:"queue"`
	MaxRetry int    `toml:"max_retry"`
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

type AdminConfig struct {
	Token string `toml:"token"`
}

// Load читает .env (если есть), затем TOML файл, применяет переменные окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv переопределяет секреты и адреса из окружения
func (c *Config) applyEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Admin.Token, "ADMIN_TOKEN")
	setString(&c.Logs.Level, "LOG_LEVEL")
	setInt(&c.Server.HTTPPort, "HTTP_PORT")
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 5
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "cleaning_booking"
	}
	if c.Wizard.SessionTTL == 0 {
		c.Wizard.SessionTTL = 7 * 24 * 3600
	}
	if c.Calendar.ZeroCapacityMeansUnset == nil {
		legacy := true
		c.Calendar.ZeroCapacityMeansUnset = &legacy
	}
	if c.Calendar.FallbackCapacity == 0 {
		c.Calendar.FallbackCapacity = 3
	}
	if c.Notifications.Queue == "" {
		c.Notifications.Queue = "notifications"
	}
	if c.Notifications.MaxRetry == 0 {
		c.Notifications.MaxRetry = 5
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis addr is required", ErrInvalidConfig)
	}
	if c.Admin.Token == "" {
		return fmt.Errorf("%w: admin token is required", ErrInvalidConfig)
	}
	if c.Calendar.FallbackCapacity < 0 {
		return fmt.Errorf("%w: calendar fallback_capacity must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Calendar.Location(); err != nil {
		return fmt.Errorf("%w: calendar timezone: %v", ErrInvalidConfig, err)
	}
	for _, p := range c.Promotions.Codes {
		if strings.TrimSpace(p.Code) == "" {
			return fmt.Errorf("%w: promo code must not be empty", ErrInvalidConfig)
		}
		if p.ExpiresAt != "" {
			if _, err := time.Parse("2006-01-02", p.ExpiresAt); err != nil {
				return fmt.Errorf("%w: promo %s expires_at: %v", ErrInvalidConfig, p.Code, err)
			}
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
