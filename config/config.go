package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wfunc/mosaic/game"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Room   RoomConfig   `mapstructure:"room"`
	Game   GameConfig   `mapstructure:"game"`
	Client ClientConfig `mapstructure:"client"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddress string `mapstructure:"http_address"`
	RPCAddress  string `mapstructure:"rpc_address"`
	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode"`
}

type RoomConfig struct {
	MaxPlayers    int           `mapstructure:"max_players"`
	InboxSize     int           `mapstructure:"inbox_size"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type GameConfig struct {
	Variant string `mapstructure:"variant"`
	// Seed 0 means every game is shuffled from the clock.
	Seed            uint64 `mapstructure:"seed"`
	DebugInvariants bool   `mapstructure:"debug_invariants"`
}

// ClientConfig limits inbound messages per connection.
type ClientConfig struct {
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.rpc_address", ":9090")
	v.SetDefault("server.mode", "release")
	v.SetDefault("room.max_players", 4)
	v.SetDefault("room.inbox_size", 256)
	v.SetDefault("room.idle_timeout", 10*time.Minute)
	v.SetDefault("room.sweep_interval", 30*time.Second)
	v.SetDefault("game.variant", "standard")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.debug_invariants", false)
	v.SetDefault("client.rate_limit", 20)
	v.SetDefault("client.rate_burst", 40)
	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml from path, if there is one, over the built-in
// defaults. MOSAIC_ROOM_MAX_PLAYERS style variables override both.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MOSAIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

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

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if _, err := game.ParseVariant(c.Game.Variant); err != nil {
		return err
	}
	if c.Room.MaxPlayers < 2 || c.Room.MaxPlayers > 4 {
		return errors.New("room.max_players must be between 2 and 4")
	}
	if c.Room.IdleTimeout <= 0 || c.Room.SweepInterval <= 0 {
		return errors.New("room.idle_timeout and room.sweep_interval must be positive")
	}
	return nil
}

// Variant returns the parsed game.variant; Validate has already checked it.
func (c *Config) Variant() game.Variant {
	v, _ := game.ParseVariant(c.Game.Variant)
	return v
}
