// Package format renders byte sizes and large counts for table output.
package format

import (
	"fmt"
	"math"
)

const (
	kiloByte = 1000
	megaByte = kiloByte * 1000
	gigaByte = megaByte * 1000
	teraByte = gigaByte * 1000
)

// HumanBytes renders a byte count with decimal units, e.g. "1.3 GB".
func HumanBytes(b int64) string {
	var value float64
	var unit string

	switch {
	case b >= teraByte:
		value = float64(b) / teraByte
		unit = "TB"
	case b >= gigaByte:
		value = float64(b) / gigaByte
		unit = "GB"
	case b >= megaByte:
		value = float64(b) / megaByte
		unit = "MB"
	case b >= kiloByte:
		value = float64(b) / kiloByte
		unit = "KB"
	default:
		return fmt.Sprintf("%d B", b)
	}

	switch {
	case value >= 100:
		return fmt.Sprintf("%d %s", int(value), unit)
	case value >= 10:
		return fmt.Sprintf("%.1f %s", value, unit)
	default:
		return fmt.Sprintf("%.2f %s", value, unit)
	}
}

// HumanNumber renders a count with a magnitude suffix, e.g. "51.2M" for
// parameter counts.
func HumanNumber(n uint64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.1fB", math.Round(float64(n)/1e8)/10)
	case n >= 1e6:
		return fmt.Sprintf("%.1fM", math.Round(float64(n)/1e5)/10)
	case n >= 1e3:
		return fmt.Sprintf("%.1fK", math.Round(float64(n)/100)/10)
	default:
		return fmt.Sprintf("%d", n)
	}
}
