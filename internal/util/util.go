package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

func TimeSince(t time.Time) string {
	return FormatDuration(time.Since(t))
}

func FormatDuration(duration time.Duration) string {
	seconds := int(duration.Seconds())
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	months := days / 30
	years := months / 12

	if years > 0 {
		if years < 10 {
			return fmt.Sprintf("%dy%dmo", years, months%12)
		}
		return fmt.Sprintf("%dy", years)
	} else if months > 0 {
		if months < 10 {
			return fmt.Sprintf("%dmo%dd", months, days%30)
		}
		return fmt.Sprintf("%dmo", months)
	} else if days > 0 {
		if days < 10 {
			return fmt.Sprintf("%dd%dh", days, hours%24)
		}
		return fmt.Sprintf("%dd", days)
	} else if hours > 0 {
		if hours < 10 {
			return fmt.Sprintf("%dh%dm", hours, minutes%60)
		}
		return fmt.Sprintf("%dh", hours)
	} else if minutes > 0 {
		if minutes < 10 {
			return fmt.Sprintf("%dm%ds", minutes, seconds%60)
		}
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", seconds)
}

// Truncate cuts s to maxWidth terminal cells, appending ".." when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 2 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "..")
}

// JoinWithEqualSpacing spreads items across width terminal cells with equal
// gaps, e.g. for the top bar's left/right halves.
func JoinWithEqualSpacing(width int, items ...string) string {
	if len(items) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(items) == 1 {
		return padRight(items[0], width)
	}
	totalItemWidth := 0
	for _, item := range items {
		totalItemWidth += runewidth.StringWidth(item)
	}
	gaps := len(items) - 1
	spacing := (width - totalItemWidth) / gaps
	if spacing < 1 {
		spacing = 1
	}
	var sb strings.Builder
	for i, item := range items {
		sb.WriteString(item)
		if i < gaps {
			sb.WriteString(strings.Repeat(" ", spacing))
		}
	}
	return padRight(sb.String(), width)
}

// FormatCount renders large record counts with underscore separators the
// way the topic details panel shows them, e.g. 1_234_567.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, "_")
}

func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
