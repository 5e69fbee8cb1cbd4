package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	General  GeneralConfig  `toml:"general"`
	Source   SourceConfig   `toml:"source"`
	Schedule ScheduleConfig `toml:"schedule"`
	Log      LogConfig      `toml:"log"`
	Sheet    SheetConfig    `toml:"sheet"`
}

type GeneralConfig struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

// SourceConfig selects where market data comes from. Mode is "api" (Gamma/CLOB
// REST) or "scrape" (HTML page extraction).
type SourceConfig struct {
	Mode         string `toml:"mode"`
	EventSlug    string `toml:"event_slug"`
	MarketSlug   string `toml:"market_slug"`
	PageURL      string `toml:"page_url"`
	GammaBaseURL string `toml:"gamma_base_url"`
	CLOBBaseURL  string `toml:"clob_base_url"`
}

type ScheduleConfig struct {
	UpdateInterval Duration `toml:"update_interval"`
	StatusInterval Duration `toml:"status_interval"`
}

// LogConfig controls the markdown log sink. MaxEntries of 0 disables the
// retention cap.
type LogConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	MaxEntries  int    `toml:"max_entries"`
}

// SheetConfig controls the CSV row sink.
type SheetConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Duration wraps time.Duration for TOML unmarshaling.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func Load(path string) (*Config, error) {
	// .env overrides are optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values, matching the
// surface the deployment scripts already export.
func applyEnv(cfg *Config) {
	if v := os.Getenv("POLYMARKET_EVENT_SLUG"); v != "" {
		cfg.Source.EventSlug = v
	}
	if v := os.Getenv("POLYMARKET_MARKET_SLUG"); v != "" {
		cfg.Source.MarketSlug = v
	}
	if v := os.Getenv("POLYMARKET_URL"); v != "" {
		cfg.Source.PageURL = v
	}
	if v := os.Getenv("UPDATE_INTERVAL_MINUTES"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			cfg.Schedule.UpdateInterval = Duration{time.Duration(mins) * time.Minute}
		}
	}
	if v := os.Getenv("MARKDOWN_FILE_PATH"); v != "" {
		cfg.Log.Path = v
	}
	if v := os.Getenv("MAX_MARKDOWN_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Log.MaxEntries = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
}

// Validate checks that the selected mode has the inputs it needs.
func (c *Config) Validate() error {
	switch c.Source.Mode {
	case "api":
		if c.Source.EventSlug == "" && c.Source.MarketSlug == "" {
			return fmt.Errorf("config: api mode requires source.event_slug or source.market_slug")
		}
	case "scrape":
		if c.Source.PageURL == "" {
			return fmt.Errorf("config: scrape mode requires source.page_url")
		}
	default:
		return fmt.Errorf("config: unknown source.mode %q (want \"api\" or \"scrape\")", c.Source.Mode)
	}

	if !c.Log.Enabled && !c.Sheet.Enabled {
		return fmt.Errorf("config: at least one sink must be enabled")
	}
	if c.Log.MaxEntries < 0 {
		return fmt.Errorf("config: log.max_entries must be >= 0")
	}
	return nil
}

// UpdateIntervalMinutes is the interval expressed in whole minutes, used only
// for the markdown header text.
func (c *Config) UpdateIntervalMinutes() int {
	return int(c.Schedule.UpdateInterval.Duration / time.Minute)
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DBPath:   "./data/polywatch.db",
			LogLevel: "info",
		},
		Source: SourceConfig{
			Mode:         "scrape",
			GammaBaseURL: "https://gamma-api.polymarket.com",
			CLOBBaseURL:  "https://clob.polymarket.com",
		},
		Schedule: ScheduleConfig{
			UpdateInterval: Duration{10 * time.Minute},
			StatusInterval: Duration{1 * time.Hour},
		},
		Log: LogConfig{
			Enabled:     true,
			Path:        "./data/polymarket_prices.md",
			Title:       "🔥 Polymarket Price Monitor",
			Description: "*Automated monitoring of Polymarket prediction markets*",
			MaxEntries:  50,
		},
		Sheet: SheetConfig{
			Enabled: false,
			Path:    "./data/polymarket_prices.csv",
		},
	}
}
