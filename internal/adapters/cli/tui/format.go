package tui

import (
	"fmt"
	"time"
)

// FormatSize formats a byte count with a binary unit
// Examples: 512 -> "512 B", 2048 -> "2 KB", 5242880 -> "5.0 MB"
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatAge formats a duration in the largest whole unit
// Examples: 45s -> "45s", 90m -> "1h", 50h -> "2d"
func FormatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	}
}

// FormatTime formats a timestamp as "Jan 2 15:04" in local time
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "---"
	}
	return t.Local().Format("Jan 2 15:04")
}

// Truncate shortens s to max runes, marking the cut with "..."
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
