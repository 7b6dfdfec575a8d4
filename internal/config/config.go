// Package config loads runtime settings from an optional YAML file and
// WARCHESS_* environment variables.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/warchess/warchess-go/internal/game/pieces"
)

// Config is the root configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	// Pieces is keyed by canonical kind name and always holds every kind.
	Pieces map[string]PieceConfig `mapstructure:"-"`
	UI     UIConfig               `mapstructure:"ui"`
	Web    WebConfig              `mapstructure:"web"`
}

// LoggingConfig selects the zap level, encoding and destination.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives log output instead of stderr when set. The terminal
	// front-end needs this because it owns the screen.
	File string `mapstructure:"file"`
}

// PieceConfig overrides the base statistics of one piece kind.
type PieceConfig struct {
	HP  int `mapstructure:"hp"`
	Dmg int `mapstructure:"dmg"`
}

// pieceOverride is one pieces.<name> entry as written by the user. Nil
// fields keep the default.
type pieceOverride struct {
	HP  *int `mapstructure:"hp"`
	Dmg *int `mapstructure:"dmg"`
}

// UIConfig tunes the terminal front-end.
type UIConfig struct {
	ShowLegend bool `mapstructure:"show_legend"`
	Mouse      bool `mapstructure:"mouse"`
}

// WebConfig tunes the browser front-end.
type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads path (if non-empty), applies environment overrides and returns
// a validated configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WARCHESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	var raw struct {
		Pieces map[string]pieceOverride `mapstructure:"pieces"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode pieces: %w", err)
	}

	var result *multierror.Error
	pieceCfg, err := resolvePieces(raw.Pieces)
	if err != nil {
		result = multierror.Append(result, err)
	}
	cfg.Pieces = pieceCfg
	if err := cfg.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or environment is given.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	cfg.Pieces = defaultPieces()
	return &cfg
}

func defaultPieces() map[string]PieceConfig {
	out := make(map[string]PieceConfig, len(pieces.AllKinds))
	for kind, stats := range pieces.DefaultStats() {
		out[kind.String()] = PieceConfig{HP: stats.HP, Dmg: stats.Dmg}
	}
	return out
}

// resolvePieces merges user entries, which may use aliases such as "rook",
// over the defaults field by field. Setting the same field of one kind under
// two names is an error.
func resolvePieces(raw map[string]pieceOverride) (map[string]PieceConfig, error) {
	out := defaultPieces()
	hpFrom := make(map[pieces.Kind]string)
	dmgFrom := make(map[pieces.Kind]string)

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var result *multierror.Error
	for _, name := range names {
		kind, ok := pieces.ParseKind(name)
		if !ok {
			result = multierror.Append(result, fmt.Errorf("pieces.%s: %w", name, pieces.ErrUnknownKind))
			continue
		}
		o := raw[name]
		pc := out[kind.String()]
		if o.HP != nil {
			if prev, dup := hpFrom[kind]; dup {
				result = multierror.Append(result, fmt.Errorf("pieces.%s.hp and pieces.%s.hp both set %s", prev, name, kind))
			} else {
				hpFrom[kind] = name
				pc.HP = *o.HP
			}
		}
		if o.Dmg != nil {
			if prev, dup := dmgFrom[kind]; dup {
				result = multierror.Append(result, fmt.Errorf("pieces.%s.dmg and pieces.%s.dmg both set %s", prev, name, kind))
			} else {
				dmgFrom[kind] = name
				pc.Dmg = *o.Dmg
			}
		}
		out[kind.String()] = pc
	}
	return out, result.ErrorOrNil()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	// Piece stats have no viper defaults so that an omitted field stays
	// distinguishable from zero; binding makes WARCHESS_PIECES_<KIND>_<FIELD>
	// visible to Unmarshal.
	for _, kind := range pieces.AllKinds {
		for _, field := range []string{"hp", "dmg"} {
			key := fmt.Sprintf("pieces.%s.%s", kind, field)
			_ = v.BindEnv(key, "WARCHESS_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
		}
	}

	v.SetDefault("ui.show_legend", true)
	v.SetDefault("ui.mouse", true)
	v.SetDefault("web.addr", "127.0.0.1:8080")
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("logging.level %q: want debug, info, warn or error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		result = multierror.Append(result, fmt.Errorf("logging.format %q: want json or console", c.Logging.Format))
	}

	for name, pc := range c.Pieces {
		if _, ok := pieces.ParseKind(name); !ok {
			result = multierror.Append(result, fmt.Errorf("pieces.%s: %w", name, pieces.ErrUnknownKind))
			continue
		}
		if pc.HP <= 0 {
			result = multierror.Append(result, fmt.Errorf("pieces.%s.hp must be positive, got %d", name, pc.HP))
		}
		if pc.Dmg < 0 {
			result = multierror.Append(result, fmt.Errorf("pieces.%s.dmg must not be negative, got %d", name, pc.Dmg))
		}
	}

	if strings.TrimSpace(c.Web.Addr) == "" {
		result = multierror.Append(result, fmt.Errorf("web.addr must not be empty"))
	}

	return result.ErrorOrNil()
}

// PieceStats overlays the configured statistics on the default table.
func (c *Config) PieceStats() map[pieces.Kind]pieces.Stats {
	stats := pieces.DefaultStats()
	for name, pc := range c.Pieces {
		kind, ok := pieces.ParseKind(name)
		if !ok {
			continue
		}
		stats[kind] = pieces.Stats{HP: pc.HP, Dmg: pc.Dmg}
	}
	return stats
}
