package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/imarqd/internal/flagx"
)

// Environment variable names.
const (
	EnvAPIBase            = "IMARQD_API_BASE"
	EnvScannerBearerToken = "IMARQD_SCANNER_BEARER_TOKEN"
)

// parseFlags overlays cfg with -a, -d, -o and -l. Other arguments are
// filtered out with flagx.FilterArgs so they do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-o", "-l"})

	fs := flag.NewFlagSet("imarqd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBase, "a", cfg.APIBase, "backend API base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database file")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

// parseEnv overlays cfg with non-empty environment variables.
func parseEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIBase); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv(EnvScannerBearerToken); v != "" {
		cfg.ScannerBearerToken = v
	}
}
