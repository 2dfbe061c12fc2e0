package config

import (
	"time"

	"github.com/dmitrijs2005/imarqd/internal/common"
)

// Config holds runtime settings for the imarqd CLI.
//
// HTTPTimeout of zero means backend calls have no local deadline.
// MaxResponseBytes caps every reply body, downloaded tweet images included.
// The S3* fields are only consulted when S3Bucket is set.
type Config struct {
	APIBase            string
	DBPath             string
	DownloadDir        string
	LogLevel           string
	HTTPTimeout        time.Duration
	ScannerBearerToken string
	ScanMaxResults     int
	MaxResponseBytes   int64

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBase = common.DefaultAPIBase
	c.DBPath = "imarqd.db"
	c.DownloadDir = "."
	c.LogLevel = "warn"
	c.HTTPTimeout = 0
	c.ScanMaxResults = 20
	c.MaxResponseBytes = common.DefaultMaxResponseBytes
}

// LoadConfig applies defaults, then the JSON file, then flags, then the
// environment. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}
