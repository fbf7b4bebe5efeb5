package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend      BackendConfig
	Schools      SchoolsConfig
	Geocoder     GeocoderConfig
	Emulator     EmulatorConfig
	GeocodeCache string
	LogPath      string
	LogLevel     string
}

type BackendConfig struct {
	URL          string        `yaml:"url"`
	WatchTimeout time.Duration `yaml:"-"`
}

type SchoolsConfig struct {
	URL string `yaml:"url"`
}

type GeocoderConfig struct {
	URL         string        `yaml:"url"`
	UserAgent   string        `yaml:"user_agent"`
	MinInterval time.Duration `yaml:"-"`
}

type EmulatorConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"-"`
	Schools   string `yaml:"schools"` // path to directory JSON served at /v1/schools
}

// fileConfig mirrors the optional eaglepark.yaml overlay. Env vars win.
type fileConfig struct {
	Backend  BackendConfig  `yaml:"backend"`
	Schools  SchoolsConfig  `yaml:"schools"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Emulator EmulatorConfig `yaml:"emulator"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Backend: BackendConfig{
			URL:          getEnv("BACKEND_URL", "http://localhost:8787"),
			WatchTimeout: getEnvDuration("BACKEND_WATCH_TIMEOUT", 25*time.Second),
		},
		Schools: SchoolsConfig{
			URL: os.Getenv("SCHOOLS_URL"),
		},
		Geocoder: GeocoderConfig{
			URL:         getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:   getEnv("GEOCODER_USER_AGENT", "eaglepark/0.1"),
			MinInterval: getEnvDuration("GEOCODER_MIN_INTERVAL", time.Second),
		},
		Emulator: EmulatorConfig{
			Addr:      getEnv("EMULATOR_ADDR", ":8787"),
			JWTSecret: getEnv("JWT_SECRET", "dev-only-secret"),
			Schools:   os.Getenv("EMULATOR_SCHOOLS_FILE"),
		},
		GeocodeCache: getEnv("GEOCODE_CACHE", "geocode.db"),
		LogPath:      getEnv("LOG_PATH", "eaglepark.log"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.loadFile(getEnv("CONFIG_FILE", "eaglepark.yaml")); err != nil {
		return nil, err
	}

	if cfg.Schools.URL == "" {
		// Emulator serves the directory when no hosted endpoint is set.
		cfg.Schools.URL = cfg.Backend.URL + "/v1/schools"
	}

	return cfg, nil
}

// loadFile overlays values from an optional YAML file. Only fields the
// environment left unset are taken from the file.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if os.Getenv("BACKEND_URL") == "" && fc.Backend.URL != "" {
		c.Backend.URL = fc.Backend.URL
	}
	if os.Getenv("SCHOOLS_URL") == "" && fc.Schools.URL != "" {
		c.Schools.URL = fc.Schools.URL
	}
	if os.Getenv("GEOCODER_URL") == "" && fc.Geocoder.URL != "" {
		c.Geocoder.URL = fc.Geocoder.URL
	}
	if os.Getenv("GEOCODER_USER_AGENT") == "" && fc.Geocoder.UserAgent != "" {
		c.Geocoder.UserAgent = fc.Geocoder.UserAgent
	}
	if os.Getenv("EMULATOR_ADDR") == "" && fc.Emulator.Addr != "" {
		c.Emulator.Addr = fc.Emulator.Addr
	}
	if os.Getenv("EMULATOR_SCHOOLS_FILE") == "" && fc.Emulator.Schools != "" {
		c.Emulator.Schools = fc.Emulator.Schools
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
