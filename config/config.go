package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
		PortRetries int           `mapstructure:"portRetries"`
		RateLimit   int           `mapstructure:"rateLimit"`
	} `mapstructure:"server"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Places PlacesConfig `mapstructure:"places"`
	OSM    OSMConfig    `mapstructure:"osm"`
	Cache  CacheConfig  `mapstructure:"cache"`
	LLM    LLMConfig    `mapstructure:"llm"`
}

// PlacesConfig configures the Google Places upstream.
type PlacesConfig struct {
	BaseURL           string        `mapstructure:"baseURL"`
	APIKey            string        `mapstructure:"apiKey"`
	Timeout           time.Duration `mapstructure:"timeout"`
	DetailsTimeout    time.Duration `mapstructure:"detailsTimeout"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	Burst             int           `mapstructure:"burst"`
	MaxRadius         int           `mapstructure:"maxRadius"`
	DefaultMaxResults int           `mapstructure:"defaultMaxResults"`
	PhotoMaxWidth     int           `mapstructure:"photoMaxWidth"`
}

type OSMConfig struct {
	BaseURL   string        `mapstructure:"baseURL"`
	UserAgent string        `mapstructure:"userAgent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Limit     int           `mapstructure:"limit"`
}

type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
}

type LLMConfig struct {
	APIKey      string        `mapstructure:"apiKey"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// WANDERLUST_PLACES_TIMEOUT -> places.timeout
	v.SetEnvPrefix("WANDERLUST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain names used by existing deployments and the front-end's .env.
	_ = v.BindEnv("places.apiKey", "GOOGLE_PLACES_API_KEY", "VITE_GOOGLE_PLACES_API_KEY")
	_ = v.BindEnv("llm.apiKey", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("server.HTTPPort", "PORT")
	_ = v.BindEnv("mode", "APP_ENV")

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate checks that the fields needed to boot are present and sane.
// Missing API keys are not fatal here; the affected endpoints report them.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.HTTPPort == "" {
		errs = append(errs, "server.HTTPPort is required")
	}
	if c.Server.PortRetries < 0 {
		errs = append(errs, fmt.Sprintf("server.portRetries must be >= 0, got %d", c.Server.PortRetries))
	}
	if c.Places.BaseURL == "" {
		errs = append(errs, "places.baseURL is required")
	}
	if c.Places.MaxRadius <= 0 {
		errs = append(errs, "places.maxRadius must be positive")
	}
	if c.Places.DefaultMaxResults <= 0 {
		errs = append(errs, "places.defaultMaxResults must be positive")
	}
	if c.Places.Timeout <= 0 {
		errs = append(errs, "places.timeout must be positive")
	}
	if c.Places.RequestsPerSecond <= 0 {
		errs = append(errs, "places.requestsPerSecond must be positive")
	}
	if c.OSM.BaseURL == "" {
		errs = append(errs, "osm.baseURL is required")
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, "cache.ttl must be positive")
	}
	if c.LLM.Model == "" {
		errs = append(errs, "llm.model is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
