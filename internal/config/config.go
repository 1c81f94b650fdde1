package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// TokenEnv names the environment variable that overrides llm.token.
const TokenEnv = "OPENROUTER_API_TOKEN"

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" toml:"paths"`
	Feeds   FeedsConfig   `yaml:"feeds" toml:"feeds"`
	TTL     TTLConfig     `yaml:"ttl" toml:"ttl"`
	LLM     LLMConfig     `yaml:"llm" toml:"llm"`
	Weather WeatherConfig `yaml:"weather" toml:"weather"`
	Build   BuildConfig   `yaml:"build" toml:"build"`
}

// PathsConfig holds file locations. Relative paths resolve against the
// working directory.
type PathsConfig struct {
	CacheDir  string `yaml:"cache_dir" toml:"cache_dir"`
	BuildDir  string `yaml:"build_dir" toml:"build_dir"`
	ImagesDir string `yaml:"images_dir" toml:"images_dir"`
	DataJSON  string `yaml:"data_json" toml:"data_json"`
	SileMain  string `yaml:"sile_main" toml:"sile_main"`
	Output    string `yaml:"output" toml:"output"`
	Sile      string `yaml:"sile" toml:"sile"` // explicit binary, empty to search PATH
}

// FeedsConfig lists the subscribed feeds.
type FeedsConfig struct {
	RSS    []string `yaml:"rss" toml:"rss"`
	Comics []string `yaml:"comics" toml:"comics"`
	File   string   `yaml:"file" toml:"file"` // extra RSS feeds, one URL per line
}

// TTLConfig holds cache lifetimes in ParseDuration format.
type TTLConfig struct {
	RSSFeed          string `yaml:"rss_feed" toml:"rss_feed"`
	ComicsFeed       string `yaml:"comics_feed" toml:"comics_feed"`
	ComicsExtraction string `yaml:"comics_extraction" toml:"comics_extraction"`
	Image            string `yaml:"image" toml:"image"`
	Weather          string `yaml:"weather" toml:"weather"`
}

// LLMConfig configures the OpenAI-compatible endpoint used for comics.
type LLMConfig struct {
	Model   string `yaml:"model" toml:"model"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
	Token   string `yaml:"token" toml:"token"`
}

// WeatherConfig selects the forecast location.
type WeatherConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled"`
	Latitude  float64 `yaml:"latitude" toml:"latitude"`
	Longitude float64 `yaml:"longitude" toml:"longitude"`
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	CutoffWindow  string `yaml:"cutoff_window" toml:"cutoff_window"`
	Concurrency   int    `yaml:"concurrency" toml:"concurrency"`
	ComicsPerFeed int    `yaml:"comics_per_feed" toml:"comics_per_feed"`
	ComicsTotal   int    `yaml:"comics_total" toml:"comics_total"`
}

// Durations holds the parsed TTL and window values.
type Durations struct {
	RSSFeed          time.Duration
	ComicsFeed       time.Duration
	ComicsExtraction time.Duration
	Image            time.Duration
	Weather          time.Duration
	CutoffWindow     time.Duration
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			CacheDir:  filepath.Join("data", "cache"),
			BuildDir:  "build",
			ImagesDir: filepath.Join("build", "images"),
			DataJSON:  filepath.Join("data", "data.json"),
			SileMain:  filepath.Join("sile", "main.sil"),
			Output:    filepath.Join("output", "brief.pdf"),
		},
		TTL: TTLConfig{
			RSSFeed:          "30m",
			ComicsFeed:       "30m",
			ComicsExtraction: "1d",
			Image:            "1d",
			Weather:          "1h",
		},
		LLM: LLMConfig{
			Model:   "qwen/qwen3-8b",
			BaseURL: "https://openrouter.ai/api/v1",
		},
		Weather: WeatherConfig{
			Enabled:   true,
			Latitude:  37.7749,
			Longitude: -122.4194,
		},
		Build: BuildConfig{
			CutoffWindow:  "48h",
			Concurrency:   8,
			ComicsPerFeed: 5,
			ComicsTotal:   20,
		},
	}
}

// AppDir returns the application directory (~/.daybrief)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daybrief"
	}
	return filepath.Join(home, ".daybrief")
}

// BinDir returns the directory searched for a bundled sile binary
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// EnsureDirs creates the cache, build and image directories
func (c *Config) EnsureDirs() error {
	dirs := []string{c.Paths.CacheDir, c.Paths.BuildDir, c.Paths.ImagesDir}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads config from file, returns default if not exists.
// Files ending in .toml are parsed as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDefault loads config from default path
func LoadDefault() (*Config, error) {
	return Load(ConfigPath())
}

func (c *Config) applyEnv() {
	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		c.LLM.Token = token
	}
}

// Save writes config to file in the format implied by its extension
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isTOML(path) {
		var buf strings.Builder
		err = toml.NewEncoder(&buf).Encode(c)
		data = []byte(buf.String())
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Durations parses every duration setting.
func (c *Config) Durations() (*Durations, error) {
	d := &Durations{}
	fields := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"ttl.rss_feed", c.TTL.RSSFeed, &d.RSSFeed},
		{"ttl.comics_feed", c.TTL.ComicsFeed, &d.ComicsFeed},
		{"ttl.comics_extraction", c.TTL.ComicsExtraction, &d.ComicsExtraction},
		{"ttl.image", c.TTL.Image, &d.Image},
		{"ttl.weather", c.TTL.Weather, &d.Weather},
		{"build.cutoff_window", c.Build.CutoffWindow, &d.CutoffWindow},
	}

	for _, f := range fields {
		v, err := ParseDuration(f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return d, nil
}

var durationPattern = regexp.MustCompile(`^(\d+)(s|m|h|d)$`)

// ParseDuration parses duration strings like "30s", "30m", "24h", "7d".
// A bare "0" means no caching.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "0" {
		return 0, nil
	}

	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 30m, 24h, 7d)", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %s", s)
	}

	switch matches[2] {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", matches[2])
	}
}
