package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/consultation-booking/internal/domain"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

var (
	slotLabelRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	currencyRe  = regexp.MustCompile(`^[A-Z]{3}$`)
)

type Config struct {
	Server            ServerConfig            `toml:"server"`
	Database          DatabaseConfig          `toml:"database"`
	Logs              LogsConfig              `toml:"logs"`
	Metrics           MetricsConfig           `toml:"metrics"`
	Booking           BookingConfig           `toml:"booking"`
	ConsultantService ConsultantServiceConfig `toml:"consultant_service"`
	Redis             RedisConfig             `toml:"redis"`
	Notifications     NotificationsConfig     `toml:"notifications"`
	Auth              AuthConfig              `toml:"auth"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"` // секунды
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
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

// DSN строка подключения lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL строка подключения в формате postgres:// (для golang-migrate)
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
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

// BookingConfig шаблон слотов и тариф консультации
type BookingConfig struct {
	Slots           []string `toml:"slots"`
	DurationMinutes int      `toml:"duration_minutes"`
	Amount          string   `toml:"amount"`
	Currency        string   `toml:"currency"`
	Timezone        string   `toml:"timezone"`
}

// SlotTemplate собирает доменный шаблон слотов. Вызывать после Validate
func (c BookingConfig) SlotTemplate() (domain.SlotTemplate, error) {
	amount, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return domain.SlotTemplate{}, fmt.Errorf("%w: booking.amount: %v", ErrInvalidConfig, err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return domain.SlotTemplate{}, fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	slots := make([]string, len(c.Slots))
	copy(slots, c.Slots)

	return domain.SlotTemplate{
		Slots:           slots,
		DurationMinutes: c.DurationMinutes,
		Amount:          amount,
		Currency:        c.Currency,
		Location:        loc,
	}, nil
}

type ConsultantServiceConfig struct {
	URL      string `toml:"url"`
	Timeout  int    `toml:"timeout"`   // секунды
	CacheTTL int    `toml:"cache_ttl"` // секунды
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type NotificationsConfig struct {
	EmailEnabled   bool   `toml:"email_enabled"`
	SendGridAPIKey string `toml:"sendgrid_api_key"`
	FromEmail      string `toml:"from_email"`
	FromName       string `toml:"from_name"`
	AMQPEnabled    bool   `toml:"amqp_enabled"`
	AMQPURL        string `toml:"amqp_url"`
	Exchange       string `toml:"exchange"`
	Timeout        int    `toml:"timeout"` // секунды на доставку одного уведомления
}

type AuthConfig struct {
	OperatorToken string `toml:"operator_token"`
}

// Load читает TOML-файл, применяет значения по умолчанию и переменные окружения
// Секреты (пароли, токены) берутся из окружения; локально их можно положить в .env
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
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

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
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
		c.Metrics.ServiceName = "consultation-booking"
	}

	if len(c.Booking.Slots) == 0 {
		c.Booking.Slots = append([]string(nil), domain.DefaultSlots...)
	}
	if c.Booking.DurationMinutes == 0 {
		c.Booking.DurationMinutes = domain.DefaultDurationMinutes
	}
	if c.Booking.Amount == "" {
		c.Booking.Amount = domain.DefaultAmount
	}
	if c.Booking.Currency == "" {
		c.Booking.Currency = domain.DefaultCurrency
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = domain.DefaultTimezone
	}

	if c.ConsultantService.Timeout == 0 {
		c.ConsultantService.Timeout = 5
	}
	if c.ConsultantService.CacheTTL == 0 {
		c.ConsultantService.CacheTTL = 60
	}

	if c.Notifications.Exchange == "" {
		c.Notifications.Exchange = "bookings"
	}
	if c.Notifications.Timeout == 0 {
		c.Notifications.Timeout = 10
	}
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"DB_PASSWORD", &c.Database.Password},
		{"REDIS_PASSWORD", &c.Redis.Password},
		{"SENDGRID_API_KEY", &c.Notifications.SendGridAPIKey},
		{"RABBITMQ_URL", &c.Notifications.AMQPURL},
		{"OPERATOR_TOKEN", &c.Auth.OperatorToken},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && strings.TrimSpace(v) != "" {
			*o.target = strings.TrimSpace(v)
		}
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		return fmt.Errorf("%w: database.driver must be postgres or memory, got %q", ErrInvalidConfig, c.Database.Driver)
	}

	if err := c.Booking.validate(); err != nil {
		return err
	}

	if c.ConsultantService.URL == "" {
		return fmt.Errorf("%w: consultant_service.url is required", ErrInvalidConfig)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}

	if c.Notifications.AMQPEnabled && c.Notifications.AMQPURL == "" {
		return fmt.Errorf("%w: notifications.amqp_url is required when amqp is enabled", ErrInvalidConfig)
	}

	return nil
}

func (c BookingConfig) validate() error {
	if len(c.Slots) == 0 {
		return fmt.Errorf("%w: booking.slots must not be empty", ErrInvalidConfig)
	}

	// Метки уникальны и идут по возрастанию
	for i, s := range c.Slots {
		if !slotLabelRe.MatchString(s) {
			return fmt.Errorf("%w: booking.slots[%d] %q is not HH:MM", ErrInvalidConfig, i, s)
		}
		if i > 0 && s <= c.Slots[i-1] {
			return fmt.Errorf("%w: booking.slots must be unique and ascending", ErrInvalidConfig)
		}
	}

	if c.DurationMinutes <= 0 {
		return fmt.Errorf("%w: booking.duration_minutes must be positive", ErrInvalidConfig)
	}

	amount, err := decimal.NewFromString(c.Amount)
	if err != nil || !amount.IsPositive() {
		return fmt.Errorf("%w: booking.amount must be a positive decimal", ErrInvalidConfig)
	}

	if !currencyRe.MatchString(c.Currency) {
		return fmt.Errorf("%w: booking.currency must be a 3-letter ISO code", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}
