package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode          string              `mapstructure:"mode"`
	Dotenv        string              `mapstructure:"dotenv"`
	Server        ServerConfig        `mapstructure:"server"`
	Images        ImagesConfig        `mapstructure:"images"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Places        PlacesConfig        `mapstructure:"places"`
	Repositories  RepositoriesConfig  `mapstructure:"repositories"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	HTTPPort string        `mapstructure:"HTTPPort"`
	Timeout  time.Duration `mapstructure:"HTTPTimeout"`
}

type RepositoriesConfig struct {
	Postgres struct {
		Host              string `mapstructure:"host"`
		Password          string `mapstructure:"password"`
		Port              string `mapstructure:"port"`
		Username          string `mapstructure:"username"`
		DB                string `mapstructure:"db"`
		SSLMODE           string `mapstructure:"SSLMODE"`
		MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
	} `mapstructure:"postgres"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"serviceName"`
	MetricsEnabled bool   `mapstructure:"metricsEnabled"`
}

// ImagesConfig selects and configures the upstream image search provider.
type ImagesConfig struct {
	Provider           string        `mapstructure:"provider"`
	BaseURL            string        `mapstructure:"baseURL"`
	APIKey             string        `mapstructure:"apiKey"`
	HTTPTimeout        time.Duration `mapstructure:"httpTimeout"`
	PlaceholderBaseURL string        `mapstructure:"placeholderBaseURL"`
}

// PipelineConfig holds the retry and batching knobs of the image pipeline.
type PipelineConfig struct {
	RetryBudget     int           `mapstructure:"retryBudget"`
	BackoffBase     time.Duration `mapstructure:"backoffBase"`
	GroupSize       int           `mapstructure:"groupSize"`
	InterGroupDelay time.Duration `mapstructure:"interGroupDelay"`
	Retention       time.Duration `mapstructure:"retention"`
}

// CacheConfig chooses where the image cache blob is persisted.
type CacheConfig struct {
	Backend    string `mapstructure:"backend"`
	Dir        string `mapstructure:"dir"`
	StorageKey string `mapstructure:"storageKey"`
}

// PlacesConfig configures the Nominatim place search client.
type PlacesConfig struct {
	BaseURL   string        `mapstructure:"baseURL"`
	UserAgent string        `mapstructure:"userAgent"`
	CacheTTL  time.Duration `mapstructure:"cacheTTL"`
}

// DefaultPipelineConfig mirrors the values the browser app shipped with.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		RetryBudget:     2,
		BackoffBase:     time.Second,
		GroupSize:       3,
		InterGroupDelay: 500 * time.Millisecond,
		Retention:       7 * 24 * time.Hour,
	}
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("TRIPIMAGES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// applyDefaults fills zero values and resolves provider keys from the environment.
func (c *Config) applyDefaults() {
	def := DefaultPipelineConfig()
	if c.Pipeline.RetryBudget < 0 {
		c.Pipeline.RetryBudget = 0
	}
	if c.Pipeline.BackoffBase <= 0 {
		c.Pipeline.BackoffBase = def.BackoffBase
	}
	if c.Pipeline.GroupSize <= 0 {
		c.Pipeline.GroupSize = def.GroupSize
	}
	if c.Pipeline.InterGroupDelay < 0 {
		c.Pipeline.InterGroupDelay = def.InterGroupDelay
	}
	if c.Pipeline.Retention <= 0 {
		c.Pipeline.Retention = def.Retention
	}

	if c.Images.Provider == "" {
		c.Images.Provider = "pexels"
	}
	if c.Images.HTTPTimeout <= 0 {
		c.Images.HTTPTimeout = 15 * time.Second
	}
	if c.Images.APIKey == "" {
		switch c.Images.Provider {
		case "unsplash":
			c.Images.APIKey = os.Getenv("UNSPLASH_ACCESS_KEY")
		default:
			c.Images.APIKey = os.Getenv("PEXELS_API_KEY")
		}
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Cache.StorageKey == "" {
		c.Cache.StorageKey = "yatrazen_pexels_cache"
	}
	if c.Places.CacheTTL <= 0 {
		c.Places.CacheTTL = time.Hour
	}
	if c.Server.HTTPPort == "" {
		c.Server.HTTPPort = "8000"
	}
}
