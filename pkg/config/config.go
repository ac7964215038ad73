// Package config loads neochain run settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/neochain/pkg/community"
	"github.com/dd0wney/neochain/pkg/logging"
	"github.com/dd0wney/neochain/pkg/overlap"
	"github.com/dd0wney/neochain/pkg/validation"
)

// Config is the full set of run settings.
type Config struct {
	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=text console json"`

	Input     InputConfig     `yaml:"input"`
	Detection DetectionConfig `yaml:"detection"`
	Selection SelectionConfig `yaml:"selection"`
	Overlap   OverlapConfig   `yaml:"overlap"`
	Output    OutputConfig    `yaml:"output"`
	Cache     CacheConfig     `yaml:"cache"`
	Publish   PublishConfig   `yaml:"publish"`
}

// InputConfig describes the edge list files.
type InputConfig struct {
	// Delimiter between columns; empty means sniffed per file
	Delimiter string `yaml:"delimiter" validate:"delimiter"`
	// Weighted is a yes/no flag
	Weighted string `yaml:"weighted" validate:"weighted"`
}

// DetectionConfig selects and tunes the community detection algorithm.
type DetectionConfig struct {
	Algorithm         string  `yaml:"algorithm" validate:"required,oneof=infomap louvain"`
	InfomapBinary     string  `yaml:"infomap_binary"`
	InfomapOptions    string  `yaml:"infomap_options"`
	LouvainResolution float64 `yaml:"louvain_resolution" validate:"gt=0"`
	Seed              int64   `yaml:"seed"`
	// Workers bounds concurrent detections; 0 means one per CPU
	Workers int `yaml:"workers" validate:"gte=0"`
}

// SelectionConfig controls how many communities are carried forward.
type SelectionConfig struct {
	TopN int `yaml:"top_n" validate:"gt=0"`
}

// OverlapConfig selects the similarity measure.
type OverlapConfig struct {
	Measure string `yaml:"measure" validate:"required"`
}

// OutputConfig controls the artifacts written by a run.
type OutputConfig struct {
	// Dir receives matches and community files; empty means next to the inputs
	Dir         string `yaml:"dir"`
	WriteGroups bool   `yaml:"write_groups"`
	MetricsFile string `yaml:"metrics_file"`
}

// CacheConfig points at the Redis partition cache. An empty address
// disables caching.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
	TTL           time.Duration `yaml:"ttl" validate:"gte=0"`
}

// Enabled reports whether a cache address is set.
func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// PublishConfig uploads run artifacts to S3 compatible storage. An empty
// bucket disables publishing.
type PublishConfig struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PathStyle bool   `yaml:"path_style"`
}

// Enabled reports whether a bucket is set.
func (p PublishConfig) Enabled() bool {
	return p.Bucket != ""
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Input: InputConfig{
			Delimiter: "",
			Weighted:  "no",
		},
		Detection: DetectionConfig{
			Algorithm:         community.DefaultAlgorithm,
			InfomapBinary:     community.DefaultInfomapBinary,
			LouvainResolution: 1,
		},
		Selection: SelectionConfig{
			TopN: 10,
		},
		Overlap: OverlapConfig{
			Measure: string(overlap.DefaultMeasure),
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Publish: PublishConfig{
			Prefix: "neochain",
			Region: "us-east-1",
		},
	}
}

// LoadEnvFile reads KEY=value pairs from path into the environment without
// replacing variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads path over the defaults. Environment variables override the file:
// LOG_LEVEL, LOG_FORMAT, REDIS_ADDR, REDIS_PASSWORD, S3_BUCKET, S3_ENDPOINT,
// S3_ACCESS_KEY and S3_SECRET_KEY.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		c.Publish.Bucket = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		c.Publish.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.Publish.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.Publish.SecretKey = v
	}
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Detection.Algorithm = strings.ToLower(strings.TrimSpace(c.Detection.Algorithm))
	c.Overlap.Measure = strings.ToLower(strings.TrimSpace(c.Overlap.Measure))
}

// Validate checks field tags and the rules spanning several fields.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	return validation.NewConfigValidator("config").
		When(c.Detection.Algorithm == community.AlgorithmInfomap, func(cv *validation.ConfigValidator) {
			cv.Required("detection.infomap_binary", c.Detection.InfomapBinary)
		}).
		Custom("overlap.measure", func() error {
			_, err := overlap.ParseMeasure(c.Overlap.Measure)
			return err
		}).
		Paired("publish.access_key", c.Publish.AccessKey, "publish.secret_key", c.Publish.SecretKey).
		When(c.Publish.Enabled(), func(cv *validation.ConfigValidator) {
			cv.Required("publish.region", c.Publish.Region)
		}).
		Validate()
}

// Weighted returns the parsed input weighted flag.
func (c *Config) Weighted() bool {
	w, _ := validation.ParseWeighted(c.Input.Weighted)
	return w
}

// Measure returns the parsed overlap measure.
func (c *Config) Measure() overlap.Measure {
	m, err := overlap.ParseMeasure(c.Overlap.Measure)
	if err != nil {
		return overlap.DefaultMeasure
	}
	return m
}

// Logger builds a logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) logging.Logger {
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		format = logging.FormatText
	}
	return logging.New(w, format, logging.ParseLevel(c.LogLevel))
}
