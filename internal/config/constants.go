package config

import "time"

// Application constants for the futures series toolchain
const (
	// Application Info
	AppName = "genseries"

	// Date encodings accepted in inputs and configuration
	DayFormat    = "20060102"
	DayFormatISO = "2006-01-02"

	// Generic slot bounds per family
	MinSlots = 1
	MaxSlots = 9

	// File locations (relative to the working directory)
	DefaultDataDir      = "data"
	DefaultSeriesDir    = "data/series"
	DefaultReportsDir   = "data/reports"
	DefaultLogsDir      = "logs"
	DefaultReferenceCSV = "data/future_ref.csv"
	DefaultPriceCSV     = "data/future_daily.csv"

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogPath   = "logs/genseries.log"

	// Operation timeouts
	DefaultBuildTimeout = 5 * time.Minute
)
