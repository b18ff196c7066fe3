package utils

import (
	"fmt"
	"math"
)

var fileSizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize converts a byte length into a human-readable string such as "500 B" or "2.0 KB".
// Values below one kilobyte are shown as whole bytes; larger values use the largest unit up to GB
// whose value, rounded to a single decimal, is at least one. GB is never exceeded, so a terabyte
// renders as "1024.0 GB".
func FormatFileSize(bytes int64) string {
	if bytes < 1024 {
		if bytes < 0 {
			bytes = 0
		}
		return fmt.Sprintf("%d %s", bytes, fileSizeUnits[0])
	}
	value := float64(bytes) / 1024
	unitIndex := 1
	for roundToTenth(value) >= 1024 && unitIndex < len(fileSizeUnits)-1 {
		value /= 1024
		unitIndex++
	}
	return fmt.Sprintf("%.1f %s", value, fileSizeUnits[unitIndex])
}

func roundToTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
