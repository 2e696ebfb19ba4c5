// Package config provides centralized configuration management for the
// futures series toolchain. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for
// accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FUTURES_* for
// namespacing:
//
//	FUTURES_DATA_REFERENCE_CSV=data/future_ref.csv
//	FUTURES_DATA_PRICE_CSV=data/future_daily.csv
//	FUTURES_OUTPUT_DIR=data/series
//	FUTURES_BUILD_FROM=20210104
//	FUTURES_LOGGING_LEVEL=debug
//
// # Families
//
// The families section cannot be expressed as flat environment
// variables, so it is file-only. Each entry names a family code, the
// slot label suffix, the ranking criterion, and the slot count:
//
//	families:
//	  - code: IF
//	    suffix: c
//	    criterion: calendar
//	    slots: 3
//	  - code: P
//	    suffix: v
//	    criterion: open_interest
//	    slots: 3
//
// # Path Management
//
// The package provides centralized path management through the Paths
// type, which anchors the standard data layout at the working
// directory:
//
//	paths, err := config.GetPaths()
//	seriesPath := paths.GetSeriesPath("IF_series.csv")
//	reportPath := paths.GetReportPath("future_daily_check.txt")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	specs := cfg.FamilySpecs()
package config
