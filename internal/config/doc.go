// Package config loads settings for the heatmap server and processor.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_* for namespacing:
//
//	SALES_SERVER_PORT=8000
//	SALES_PATHS_RESULT_FILE=processed_sales_data.json
//	SALES_PROCESSING_MEASURE=quantity
//	SALES_PROCESSING_COLUMNS_TOTAL=Amount
//	SALES_CONFIG_FILE=/etc/sales/config.yaml
//
// # Path Management
//
// Relative paths are resolved against paths.base_dir, which defaults to the
// working directory:
//
//	cfg, err := config.Load()
//	paths, err := cfg.ResolvePaths()
//	resultFile := paths.ResultFile
//
// # Validation
//
// Every section carries validator tags; Load rejects out-of-range ports,
// unknown measures and encodings, and negative windows.
package config
