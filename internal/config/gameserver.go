package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rates holds server rate multipliers for drop, XP, SP, Adena, etc.
type Rates struct {
	// XP/SP
	XP float64 `yaml:"xp"` // XP multiplier (default 1.0)
	SP float64 `yaml:"sp"` // SP multiplier (default 1.0)

	// Drop
	DeathDropChanceMultiplier float64 `yaml:"death_drop_chance_multiplier"`
	DeathDropAmountMultiplier float64 `yaml:"death_drop_amount_multiplier"`
	QuestDropChance           float64 `yaml:"quest_drop_chance"` // Quest item drop (default 1.0)
	QuestReward               float64 `yaml:"quest_reward"`      // Quest XP/Adena reward (default 1.0)
	Adena                     float64 `yaml:"adena"`             // Adena drop multiplier (default 1.0)

	// Items
	ItemAutoDestroyTime int `yaml:"item_auto_destroy_time"` // seconds
}

// DefaultRates returns Rates with x1 multipliers.
func DefaultRates() Rates {
	return Rates{
		XP:                       1.0,
		SP:                       1.0,
		DeathDropChanceMultiplier: 1.0,
		DeathDropAmountMultiplier: 1.0,
		QuestDropChance:           1.0,
		QuestReward:               1.0,
		Adena:                     1.0,
		ItemAutoDestroyTime:       60,
	}
}

// GameServer holds all configuration for the game server.
type GameServer struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Server identity
	ServerID int    `yaml:"server_id"`
	HexID    string `yaml:"hex_id"`

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error (default: info)

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Rates
	Rates Rates `yaml:"rates"`

	// Write queue / timeouts (Phase 7.0)
	WriteTimeout  time.Duration `yaml:"write_timeout"`   // per-write deadline (default: 5s)
	ReadTimeout   time.Duration `yaml:"read_timeout"`    // idle client disconnect (default: 120s)
	SendQueueSize int           `yaml:"send_queue_size"` // per-client outbox capacity (default: 4096)

	// TickMs is the fixed-step world/AI tick interval in milliseconds.
	TickMs int `yaml:"tick_ms"` // default: 1000

	// MetricsAddress serves Prometheus metrics (tick drift/duration, etc.)
	// over HTTP. Empty disables the metrics listener.
	MetricsAddress string `yaml:"metrics_address"` // default: :9090

	// Flood protection
	FloodProtection       bool `yaml:"flood_protection"`
	FastConnectionLimit   int  `yaml:"fast_connection_limit"`
	NormalConnectionTime  int  `yaml:"normal_connection_time"` // ms
	FastConnectionTime    int  `yaml:"fast_connection_time"`   // ms
	MaxConnectionPerIP    int  `yaml:"max_connection_per_ip"`
}

// DefaultGameServer returns GameServer config with sensible defaults.
func DefaultGameServer() GameServer {
	return GameServer{
		BindAddress:          "0.0.0.0",
		Port:                 8281,
		ServerID:             1,
		HexID:                "c0a80001", // 192.168.0.1
		LogLevel:             "info",
		WriteTimeout:         5 * time.Second,
		ReadTimeout:          120 * time.Second,
		SendQueueSize:        4096,
		TickMs:               1000,
		MetricsAddress:       ":9090",
		FloodProtection:      true,
		FastConnectionLimit:  15,
		NormalConnectionTime: 700,
		FastConnectionTime:   350,
		MaxConnectionPerIP:   50,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "la2go",
			Password: "la2go",
			DBName:   "la2go",
			SSLMode:  "disable",
		},
		Rates: DefaultRates(),
	}
}

// LoadGameServer loads game server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
