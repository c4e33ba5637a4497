package game

import (
	"fmt"
	"time"
)

// formatDuration renders d as MM:SS, or H:MM:SS once it reaches an hour.
// Negative durations show as zero.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
