package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/imarqd/internal/flagx"
	"github.com/dmitrijs2005/imarqd/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from an explicit zero.
type JsonConfig struct {
	APIBase            *string         `json:"api_base"`
	DBPath             *string         `json:"db_path"`
	DownloadDir        *string         `json:"download_dir"`
	LogLevel           *string         `json:"log_level"`
	HTTPTimeout        *timex.Duration `json:"http_timeout"`
	ScannerBearerToken *string         `json:"scanner_bearer_token"`
	ScanMaxResults     *int            `json:"scan_max_results"`
	MaxResponseBytes   *int64          `json:"max_response_bytes"`

	S3Bucket       *string `json:"s3_bucket"`
	S3Region       *string `json:"s3_region"`
	S3BaseEndpoint *string `json:"s3_base_endpoint"`
	S3AccessKey    *string `json:"s3_access_key"`
	S3SecretKey    *string `json:"s3_secret_key"`
	S3Prefix       *string `json:"s3_prefix"`
}

// parseJson overlays cfg with the JSON file named in args (-c/-config) or
// by $IMARQD_CONFIG. No file means no change.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBase, jc.APIBase)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	setString(&cfg.ScannerBearerToken, jc.ScannerBearerToken)
	if jc.ScanMaxResults != nil {
		cfg.ScanMaxResults = *jc.ScanMaxResults
	}
	if jc.MaxResponseBytes != nil {
		cfg.MaxResponseBytes = *jc.MaxResponseBytes
	}

	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Prefix, jc.S3Prefix)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
