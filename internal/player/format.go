package player

import "fmt"

// FormatClock formats seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Remaining formats the time left on a timed step as -mm:ss.
func Remaining(elapsed, total int) string {
	return "-" + FormatClock(total-elapsed)
}

// Progress returns elapsed/total clamped to [0, 1]. Untimed steps report 0.
func Progress(elapsed, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
