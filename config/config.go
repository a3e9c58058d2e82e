package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Chains      ChainsConfig      `mapstructure:"chains"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Relay       RelayConfig       `mapstructure:"relay"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	// Driver is one of memory, postgres, gorm_postgres, sqlite or redis.
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ChainsConfig names the four projection chains and the game chains hosted
// by this node.
type ChainsConfig struct {
	Leaderboard  string   `mapstructure:"leaderboard"`
	RoomStatus   string   `mapstructure:"room_status"`
	Analytics    string   `mapstructure:"analytics"`
	PlayerStatus string   `mapstructure:"player_status"`
	Games        []string `mapstructure:"games"`
}

type LeaderboardConfig struct {
	Secret string `mapstructure:"secret"`
}

type RelayConfig struct {
	DeliveryDelay time.Duration `mapstructure:"delivery_delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	DriverMemory       = "memory"
	DriverPostgres     = "postgres"
	DriverGormPostgres = "gorm_postgres"
	DriverSQLite       = "sqlite"
	DriverRedis        = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// LoadConfig reads config.yaml from path. Every key can be overridden from
// the environment, e.g. BLACKJACK_LEADERBOARD_SECRET.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("blackjack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.rpc_address", ":8081")
	v.SetDefault("server.metrics_address", ":9090")
	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.sqlite.path", "blackjack.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("chains.leaderboard", "leaderboard")
	v.SetDefault("chains.room_status", "room-status")
	v.SetDefault("chains.analytics", "analytics")
	v.SetDefault("chains.player_status", "player-status")
	v.SetDefault("relay.delivery_delay", time.Duration(0))
	v.SetDefault("log.level", "info")
}

// Validate checks that the projection chain ids are set and pairwise
// distinct, that no game chain reuses one of them, and that the
// leaderboard secret is set.
func (c *Config) Validate() error {
	roles := map[string]string{}
	for _, r := range []struct{ name, id string }{
		{"leaderboard", c.Chains.Leaderboard},
		{"room_status", c.Chains.RoomStatus},
		{"analytics", c.Chains.Analytics},
		{"player_status", c.Chains.PlayerStatus},
	} {
		if r.id == "" {
			return fmt.Errorf("%w: chains.%s is empty", ErrInvalidConfig, r.name)
		}
		if other, ok := roles[r.id]; ok {
			return fmt.Errorf("%w: chains.%s and chains.%s share id %q", ErrInvalidConfig, other, r.name, r.id)
		}
		roles[r.id] = r.name
	}

	games := map[string]bool{}
	for _, id := range c.Chains.Games {
		if id == "" {
			return fmt.Errorf("%w: empty game chain id", ErrInvalidConfig)
		}
		if role, ok := roles[id]; ok {
			return fmt.Errorf("%w: game chain %q is the %s chain", ErrInvalidConfig, id, role)
		}
		if games[id] {
			return fmt.Errorf("%w: game chain %q listed twice", ErrInvalidConfig, id)
		}
		games[id] = true
	}

	if c.Leaderboard.Secret == "" {
		return fmt.Errorf("%w: leaderboard.secret is empty", ErrInvalidConfig)
	}

	switch c.Database.Driver {
	case DriverMemory, DriverPostgres, DriverGormPostgres, DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	return nil
}
