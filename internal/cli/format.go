package cli

import (
	"fmt"
	"time"
)

const (
	dateLayout = "01/02/06 15:04"
	noData     = "(no data yet)"
)

// formatDate renders t as MM/DD/YY HH:MM in local time.
func formatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// formatMinutes renders a duration in milliseconds as minutes with one
// decimal. Zero means no data.
func formatMinutes(ms float64) string {
	if ms <= 0 {
		return noData
	}
	return fmt.Sprintf("%.1f min.", ms/float64(time.Minute/time.Millisecond))
}

// formatElapsed renders a running timer's elapsed time as H:MM:SS.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
