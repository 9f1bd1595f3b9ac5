// Package stats is the reporting core: pure functions that filter a task
// snapshot, aggregate summary counters, and reshape the results into
// chart-ready label/series structures. Nothing in here mutates its inputs,
// performs I/O, or panics on malformed records, so every function is safe
// to call concurrently from any number of call sites.
package stats

import (
	"fmt"
	"math"
)

// FormatDuration renders a fractional hour count as "Xd Yh Zm". The day
// segment is omitted when zero; once a larger unit appears the smaller
// ones are always printed ("1h 0m", never "1h"). Zero, NaN, and negative
// inputs all render as "0m".
func FormatDuration(hours float64) string {
	if math.IsNaN(hours) || hours <= 0 {
		return "0m"
	}

	minutes := int(math.Round(hours * 60))
	if minutes == 0 {
		return "0m"
	}

	d := minutes / (24 * 60)
	h := (minutes % (24 * 60)) / 60
	m := minutes % 60

	switch {
	case d > 0:
		return fmt.Sprintf("%dd %dh %dm", d, h, m)
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
