// Package config loads the floorforge YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/floorforge/internal/archive"
	"github.com/lawnchairsociety/floorforge/internal/floor"
	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// DefaultPath is where binaries look for configuration when no -config flag
// is given.
const DefaultPath = "data/floorforge.yaml"

// Config is the top-level configuration file. The logging block is read
// separately by the logger package.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Server    ServerConfig    `yaml:"server"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

// GeneratorConfig holds room-placement generator settings.
type GeneratorConfig struct {
	// CatalogPath is the room catalog JSON file.
	CatalogPath string `yaml:"catalog_path"`

	// MaxWidth and MaxHeight cap requested floor sizes. They never exceed
	// the level editor's limits.
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`

	ItemThreshold    float64 `yaml:"item_threshold"`
	TeleporterChance float64 `yaml:"teleporter_chance"`
	UniqueRooms      bool    `yaml:"unique_rooms"`

	// Order is "breadth-first" or "newest-first".
	Order string `yaml:"order"`

	MaxAttempts int `yaml:"max_attempts"`
	// Parallel is how many attempts run at once. 0 runs them one at a time.
	Parallel int `yaml:"parallel"`

	// StartRooms and BossRooms map a door direction name to a room id.
	StartRooms map[string]int `yaml:"start_rooms"`
	BossRooms  map[string]int `yaml:"boss_rooms"`
}

// ServerConfig holds generation service settings.
type ServerConfig struct {
	Address     string            `yaml:"address"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`

	// APIKeyHash is a bcrypt hash of the bearer token clients must send.
	// Empty disables authentication.
	APIKeyHash string `yaml:"api_key_hash"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// ArchiveConfig enables and configures floor archiving.
type ArchiveConfig struct {
	Enabled        bool `yaml:"enabled"`
	archive.Config `yaml:",inline"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			CatalogPath:      "data/rooms.json",
			MaxWidth:         floor.MaxWidth,
			MaxHeight:        floor.MaxHeight,
			ItemThreshold:    floor.DefaultItemThreshold,
			TeleporterChance: floor.DefaultTeleporterChance,
			Order:            floor.OrderBreadthFirst.String(),
			MaxAttempts:      floor.DefaultMaxAttempts,
			StartRooms:       directionNames(floor.DefaultStartRooms()),
			BossRooms:        directionNames(floor.DefaultBossRooms()),
		},
		Server: ServerConfig{
			Address: ":8080",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 4096,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 100,
			},
		},
		Archive: ArchiveConfig{
			Config: archive.DefaultConfig("data/floors.db"),
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values the generator cannot run with.
func (c *Config) Validate() error {
	g := c.Generator
	if g.MaxWidth < 2 || g.MaxWidth > floor.MaxWidth {
		return fmt.Errorf("generator.max_width must be in 2..%d", floor.MaxWidth)
	}
	if g.MaxHeight < 1 || g.MaxHeight > floor.MaxHeight {
		return fmt.Errorf("generator.max_height must be in 1..%d", floor.MaxHeight)
	}
	if g.ItemThreshold < 0 || g.ItemThreshold > 1 {
		return fmt.Errorf("generator.item_threshold must be in 0..1")
	}
	if g.TeleporterChance < 0 || g.TeleporterChance > 1 {
		return fmt.Errorf("generator.teleporter_chance must be in 0..1")
	}
	if _, err := floor.ParseOrder(g.Order); err != nil {
		return fmt.Errorf("generator.order: %w", err)
	}
	if _, err := parseRooms(g.StartRooms); err != nil {
		return fmt.Errorf("generator.start_rooms: %w", err)
	}
	if _, err := parseRooms(g.BossRooms); err != nil {
		return fmt.Errorf("generator.boss_rooms: %w", err)
	}
	return nil
}

// ClampSize limits a requested floor size to the configured maximum.
func (g GeneratorConfig) ClampSize(width, height int) (int, int) {
	return min(width, g.MaxWidth), min(height, g.MaxHeight)
}

// Options converts the generator settings to floor options for one size.
func (g GeneratorConfig) Options(width, height int, seed int64) (floor.Options, error) {
	opts := floor.DefaultOptions(width, height)
	opts.Seed = seed
	opts.ItemThreshold = g.ItemThreshold
	opts.TeleporterChance = g.TeleporterChance
	opts.UniqueRooms = g.UniqueRooms

	order, err := floor.ParseOrder(g.Order)
	if err != nil {
		return opts, err
	}
	opts.Order = order

	if opts.StartRooms, err = parseRooms(g.StartRooms); err != nil {
		return opts, err
	}
	if opts.BossRooms, err = parseRooms(g.BossRooms); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseRooms(rooms map[string]int) (map[geom.Direction]int, error) {
	out := make(map[geom.Direction]int, len(rooms))
	for name, id := range rooms {
		dir, err := geom.ParseDirection(strings.ToLower(name))
		if err != nil || !dir.Valid() {
			return nil, fmt.Errorf("bad direction %q", name)
		}
		out[dir] = id
	}
	return out, nil
}

func directionNames(rooms map[geom.Direction]int) map[string]int {
	out := make(map[string]int, len(rooms))
	for dir, id := range rooms {
		out[dir.String()] = id
	}
	return out
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
