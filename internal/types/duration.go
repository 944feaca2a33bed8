package types

import "fmt"

// FormatDuration renders whole seconds as H:MM:SS. Hours are not
// zero padded, so 120 seconds is "0:02:00" and 3725 is "1:02:05".
// Negative durations keep the same shape with a leading "-", not the
// day-borrowing rendering some datetime libraries use.
func FormatDuration(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}

	return fmt.Sprintf(
		"%s%d:%02d:%02d",
		sign,
		seconds/3600,
		(seconds%3600)/60,
		seconds%60,
	)
}
