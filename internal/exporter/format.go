package exporter

import (
	"fmt"
	"time"
)

// formatClose formats a price for CSV output with exactly 1 decimal
// place. Rounding happens only here at the export boundary; the engine
// carries closes at full precision.
func formatClose(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// formatOptionalClose renders a price that may be absent. Roll events
// recorded without a usable close carry zero, which exports as an empty
// field rather than a misleading 0.0.
func formatOptionalClose(f float64) string {
	if f <= 0 {
		return ""
	}
	return formatClose(f)
}

// formatFactor formats an adjustment factor with 6 decimal places
func formatFactor(f float64) string {
	return fmt.Sprintf("%.6f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatDay formats a trading day for CSV output. The zero time means
// the row carries no day and exports empty.
func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
