package output

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/term"
)

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatSpeed reports bytes over elapsed as a rate.
func FormatSpeed(bytes int64, elapsed time.Duration) string {
	if elapsed <= 0 || bytes <= 0 {
		return "0 B/s"
	}
	return FormatBytes(uint64(float64(bytes)/elapsed.Seconds())) + "/s"
}

func progressBar(current, total int64, width int) string {
	if width <= 0 {
		width = 30
	}
	if total <= 0 {
		total = 1
	}
	current = max(0, min(current, total))
	percent := float64(current) / float64(total)
	filled := min(int(percent*float64(width)), width)
	bar := symbols["bullet"] + strings.Repeat(symbols["hline"], filled) + strings.Repeat(" ", width-filled) + symbols["bullet"]
	return fmt.Sprintf("%s %5.1f%%", bar, percent*100)
}

func terminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// truncate keeps a status line on one terminal row so the redraw line count stays exact.
func truncate(text string, width int) string {
	if width <= 3 || utf8.RuneCountInString(text) <= width {
		return text
	}
	runes := []rune(text)
	return string(runes[:width-3]) + "..."
}
