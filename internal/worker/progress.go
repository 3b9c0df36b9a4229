package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// setCount is the progress of one photo set.
type setCount struct {
	completed int
	total     int
	failed    int
}

// Progress tracks room renders across photo sets and draws one status line
// naming the set currently rendering.
type Progress struct {
	startTime time.Time
	output    io.Writer
	total     int
	current   string
	order     []string
	sets      map[string]*setCount
	mu        sync.RWMutex
	enabled   bool
}

// NewProgress creates a tracker expecting total photos over all sets.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		total:     total,
		startTime: time.Now(),
		output:    os.Stderr,
		sets:      make(map[string]*setCount),
		enabled:   enabled,
	}
}

// NewTerminalProgress creates a tracker that only draws when stderr is a
// terminal, so logs piped to a file stay clean.
func NewTerminalProgress(total int) *Progress {
	fd := os.Stderr.Fd()
	return NewProgress(total, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func (p *Progress) setLocked(key string) *setCount {
	c, ok := p.sets[key]
	if !ok {
		c = &setCount{}
		p.sets[key] = c
		p.order = append(p.order, key)
	}
	p.current = key
	return c
}

// Update records the counts of one photo set.
func (p *Progress) Update(key string, completed, total, failed int) {
	p.mu.Lock()
	c := p.setLocked(key)
	c.completed, c.total, c.failed = completed, total, failed
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// Fail marks every photo of a set as failed, for sets that could not be
// rendered at all.
func (p *Progress) Fail(key string, photos int) {
	p.Update(key, photos, photos, photos)
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

type progressTotals struct {
	completed int
	failed    int
	failedSet []string
}

func (p *Progress) totalsLocked() progressTotals {
	var t progressTotals
	for _, key := range p.order {
		c := p.sets[key]
		t.completed += c.completed
		t.failed += c.failed
		if c.failed > 0 {
			t.failedSet = append(t.failedSet, key)
		}
	}
	return t
}

// Print displays the current progress to output.
func (p *Progress) Print() {
	p.mu.RLock()
	t := p.totalsLocked()
	total := p.total
	key := p.current
	var set setCount
	if c, ok := p.sets[key]; ok {
		set = *c
	}
	startTime := p.startTime
	p.mu.RUnlock()

	elapsed := time.Since(startTime)

	var rate float64
	var eta time.Duration
	if t.completed > 0 {
		rate = float64(t.completed) / elapsed.Seconds()
		if rate > 0 {
			eta = time.Duration(float64(total-t.completed)/rate) * time.Second
		}
	}

	barWidth := 30
	filledWidth := 0
	if total > 0 {
		filledWidth = min(barWidth, t.completed*barWidth/total)
	}
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)

	line := fmt.Sprintf("\r[%s] %s %d/%d | %d/%d photos", bar, key, set.completed, set.total, t.completed, total)
	if t.failed > 0 {
		line += fmt.Sprintf(" (%d failed)", t.failed)
	}
	line += fmt.Sprintf(" - %.1f photos/sec", rate)
	if eta > 0 && t.completed < total {
		line += fmt.Sprintf(" - ETA: %s", formatDuration(eta))
	}
	if t.completed >= total {
		line += fmt.Sprintf(" - Done in %s", formatDuration(elapsed))
	}

	// Pad to clear previous line content
	line += "          "

	fmt.Fprint(p.output, line)
}

// Done prints the final progress and a newline.
func (p *Progress) Done() {
	if p.enabled {
		p.Print()
		fmt.Fprintln(p.output)
	}
}

// Summary returns a summary string of the completed work, naming the photo
// sets that had failures.
func (p *Progress) Summary() string {
	p.mu.RLock()
	t := p.totalsLocked()
	total := p.total
	sets := len(p.order)
	startTime := p.startTime
	p.mu.RUnlock()

	elapsed := time.Since(startTime)

	var rate float64
	if elapsed.Seconds() > 0 {
		rate = float64(t.completed) / elapsed.Seconds()
	}

	summary := fmt.Sprintf("Rendered %d/%d photos across %d sets", t.completed-t.failed, total, sets)
	if t.failed > 0 {
		summary += fmt.Sprintf(" (%d failed in %s)", t.failed, strings.Join(t.failedSet, ", "))
	}
	return summary + fmt.Sprintf(" in %s (%.1f photos/sec)", formatDuration(elapsed), rate)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, mins)
}
