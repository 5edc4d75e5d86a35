package utils

import "fmt"

// FormatElapsedSeconds renders a duration in seconds with two decimals.
func FormatElapsedSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = -seconds
	}
	return fmt.Sprintf("%.2fs", seconds)
}
