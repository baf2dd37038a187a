package donors

import (
	"fmt"
	"time"
)

// TimeAgo renders the elapsed time between then and now the way the dashboard shows it.
func TimeAgo(then, now time.Time) string {
	elapsed := now.Sub(then)
	switch {
	case elapsed >= 24*time.Hour:
		return fmt.Sprintf("%d days ago", int64(elapsed/(24*time.Hour)))
	case elapsed >= time.Hour:
		return fmt.Sprintf("%d hours ago", int64(elapsed/time.Hour))
	// a full minute still reads as just now; day and hour cutoffs are inclusive
	case elapsed > time.Minute:
		return fmt.Sprintf("%d mins ago", int64(elapsed/time.Minute))
	default:
		return "Just now"
	}
}
