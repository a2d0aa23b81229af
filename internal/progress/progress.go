// Package progress draws a single-line progress indicator for the issue fetch loop.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/montanaflynn/stats"
)

const defaultWidth = 28

// Bar is a terminal progress bar. It implements usecase.Progress.
//
// The estimate is the mean duration of the finished steps times the total
// number of steps.
type Bar struct {
	out    io.Writer
	width  int
	now    func() time.Time
	filled lipgloss.Style
	empty  lipgloss.Style

	started   time.Time
	last      time.Time
	durations stats.Float64Data
	lineLen   int
}

// New creates a Bar drawing to out.
func New(out io.Writer) *Bar {
	r := lipgloss.NewRenderer(out)
	return &Bar{
		out:    out,
		width:  defaultWidth,
		now:    time.Now,
		filled: r.NewStyle().Foreground(lipgloss.Color("2")),
		empty:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (b *Bar) Start(total int) {
	b.started = b.now()
	b.last = b.started
	b.durations = nil
	b.lineLen = 0
	b.draw(0, total, "")
}

func (b *Bar) Advance(current, total int, key string) {
	t := b.now()
	b.durations = append(b.durations, t.Sub(b.last).Seconds())
	b.last = t
	b.draw(current, total, key)
}

// Finish moves the cursor away from the bar so following output starts on a clean line.
func (b *Bar) Finish() {
	fmt.Fprint(b.out, "\n\n")
}

func (b *Bar) draw(current, total int, key string) {
	line := b.line(current, total, key)
	// Overwrite leftovers of a longer previous line.
	pad := ""
	n := lipgloss.Width(line)
	if n < b.lineLen {
		pad = strings.Repeat(" ", b.lineLen-n)
	}
	b.lineLen = n
	fmt.Fprint(b.out, "\r"+line+pad)
}

func (b *Bar) line(current, total int, key string) string {
	percent := 0
	filled := 0
	if total > 0 {
		percent = current * 100 / total
		filled = current * b.width / total
	}
	if filled > b.width {
		filled = b.width
	}
	bar := b.filled.Render(strings.Repeat("█", filled)) + b.empty.Render(strings.Repeat("░", b.width-filled))

	elapsed := b.last.Sub(b.started)
	return fmt.Sprintf(" %d/%d [%s] %s %3d%% elapsed/estimated: %6s/%-6s",
		current, total, bar, key, percent, formatDuration(elapsed), formatDuration(b.estimate(total)))
}

func (b *Bar) estimate(total int) time.Duration {
	mean, err := stats.Mean(b.durations)
	if err != nil {
		return 0
	}
	return time.Duration(mean * float64(total) * float64(time.Second))
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
