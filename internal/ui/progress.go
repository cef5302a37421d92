package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ProgressBar renders transfer progress. It is an io.Writer so it can sit
// behind an io.MultiWriter while a download is copied.
type ProgressBar struct {
	total   int64
	current int64
	width   int
	out     io.Writer
}

// NewProgressBar creates a new progress bar writing to stderr
func NewProgressBar(total int64) *ProgressBar {
	return &ProgressBar{
		total: total,
		width: 40,
		out:   os.Stderr,
	}
}

// SetOutput redirects rendering, io.Discard silences it
func (pb *ProgressBar) SetOutput(w io.Writer) {
	pb.out = w
}

// SetTotal sets the expected size once it is known
func (pb *ProgressBar) SetTotal(total int64) {
	pb.total = total
}

// Current returns the number of bytes seen so far
func (pb *ProgressBar) Current() int64 {
	return pb.current
}

// Write counts p towards progress
func (pb *ProgressBar) Write(p []byte) (int, error) {
	pb.Update(pb.current + int64(len(p)))
	return len(p), nil
}

// Update updates the progress bar
func (pb *ProgressBar) Update(current int64) {
	pb.current = current
	pb.Render()
}

// Render renders the progress bar. An unknown total shows a byte count only.
func (pb *ProgressBar) Render() {
	if pb.total <= 0 {
		fmt.Fprintf(pb.out, "\r%s", formatBytes(pb.current))
		return
	}

	current := pb.current
	if current > pb.total {
		current = pb.total
	}
	percent := float64(current) / float64(pb.total) * 100
	filled := int(float64(pb.width) * float64(current) / float64(pb.total))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.width-filled)

	fmt.Fprintf(pb.out, "\r[%s] %.1f%% (%s / %s)",
		bar,
		percent,
		formatBytes(current),
		formatBytes(pb.total))
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() {
	if pb.total > 0 {
		pb.current = pb.total
	}
	pb.Render()
	fmt.Fprintln(pb.out)
}

// formatBytes formats bytes to human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
