package cli

import "fmt"

// FormatDuration formats a millisecond count as a human-readable
// string, used by halocctl watch to report how long it has been
// tailing a scratch directory.
func FormatDuration(ms int) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	default:
		return fmt.Sprintf("%dm%.1fs", ms/60_000, float64(ms%60_000)/1000)
	}
}

// FormatBytes formats a byte count as a human-readable string, used
// by halocctl inspect to report the approximate on-disk size of each
// node record.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	unit := "KB"
	for _, next := range []string{"MB", "GB"} {
		if v < 1024*1024 {
			break
		}
		v /= 1024
		unit = next
	}
	return fmt.Sprintf("%.2f %s", v/1024, unit)
}
