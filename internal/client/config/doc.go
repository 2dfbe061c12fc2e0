// Package config loads runtime configuration for the imarqd CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by -c/-config or $IMARQD_CONFIG.
//  3. Command-line flags.
//  4. Environment variables.
//
// Supported flags
//
//	-a string   backend API base URL
//	-d string   local database file
//	-o string   download directory
//	-l string   log level (debug, info, warn, error)
//
// Environment
//
//	IMARQD_API_BASE               backend API base URL
//	IMARQD_SCANNER_BEARER_TOKEN   Twitter bearer token forwarded to the scanner
//
// # JSON schema
//
// http_timeout is a timex.Duration, so "30s" and integer nanoseconds both work.
// Absent keys keep the value from the previous stage.
//
//	{
//	  "api_base": "https://imarqd-backend-app.azurewebsites.net",
//	  "db_path": "imarqd.db",
//	  "download_dir": "./protected",
//	  "log_level": "info",
//	  "http_timeout": "60s",
//	  "scanner_bearer_token": "...",
//	  "scan_max_results": 20,
//	  "max_response_bytes": 33554432,
//	  "s3_bucket": "protected-media",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123",
//	  "s3_prefix": "imarqd"
//	}
package config
