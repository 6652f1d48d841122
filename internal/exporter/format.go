package exporter

import (
	"fmt"
	"strconv"
)

// formatFloat renders a value with a fixed number of decimal places so
// reruns produce byte-identical files and 13.4 appears as 13.40.
func formatFloat(f float64, decimals int) string {
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}
