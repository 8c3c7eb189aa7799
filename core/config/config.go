package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	QueueDB  int    `mapstructure:"queue_db"`
}

type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	AccessTokenTTLMin  int    `mapstructure:"access_token_ttl_min"`
	RefreshTokenTTLMin int    `mapstructure:"refresh_token_ttl_min"`
	// AdminPasswordHash is a bcrypt hash of the passphrase admins exchange
	// for an admin-scoped token.
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
}

// TariffTier maps a maximum duration in hours to an hourly rate.
// Tiers are evaluated in ascending MaxHours order, first match wins.
type TariffTier struct {
	MaxHours float64 `mapstructure:"max_hours"`
	Rate     int     `mapstructure:"rate"`
}

type BookingConfig struct {
	Timezone           string       `mapstructure:"timezone"`
	WorkingHoursStart  string       `mapstructure:"working_hours_start"` // HH:MM
	WorkingHoursEnd    string       `mapstructure:"working_hours_end"`   // HH:MM
	TimeStepMinutes    int          `mapstructure:"time_step_minutes"`
	MinBookingMinutes  int          `mapstructure:"min_booking_minutes"`
	MaxActiveBookings  int          `mapstructure:"max_active_bookings"`
	MaxSpotsPerUser    int          `mapstructure:"max_spots_per_user"`
	LookaheadDays      int          `mapstructure:"lookahead_days"`
	Tariffs            []TariffTier `mapstructure:"tariffs"`
	DefaultTariffRate  int          `mapstructure:"default_tariff_rate"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Booking  BookingConfig  `mapstructure:"booking"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "spotshare")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.queue_db", 1)

	v.SetDefault("auth.access_token_ttl_min", 60)
	v.SetDefault("auth.refresh_token_ttl_min", 60*24*7)

	v.SetDefault("booking.timezone", "Europe/Moscow")
	v.SetDefault("booking.working_hours_start", "07:00")
	v.SetDefault("booking.working_hours_end", "23:00")
	v.SetDefault("booking.time_step_minutes", 30)
	v.SetDefault("booking.min_booking_minutes", 60)
	v.SetDefault("booking.max_active_bookings", 3)
	v.SetDefault("booking.max_spots_per_user", 5)
	v.SetDefault("booking.lookahead_days", 7)
	v.SetDefault("booking.default_tariff_rate", 60)
	v.SetDefault("booking.tariffs", []map[string]any{
		{"max_hours": 3, "rate": 150},
		{"max_hours": 6, "rate": 120},
		{"max_hours": 10, "rate": 90},
		{"max_hours": 24, "rate": 60},
	})
}

// Load reads config.yaml (optional) and environment variables into the singleton.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SPOTSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	mu.Lock()
	instance = &cfg
	mu.Unlock()
	return &cfg, nil
}

// Get returns the loaded config. Panics if Load was never called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config not initialized, call config.Load first")
	}
	return instance
}

// GetSafe returns the loaded config and whether it is initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

// Set overrides the singleton. Used by tests.
func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
