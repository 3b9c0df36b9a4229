package worker

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestProgress_TracksSetsSeparately(t *testing.T) {
	p := NewProgress(10, false)

	p.Update("13x19 Portrait", 5, 5, 0)
	p.Update("13x10 Vertical", 2, 5, 1)

	if got := p.sets["13x19 Portrait"].completed; got != 5 {
		t.Errorf("Expected 5 completed for 13x19 Portrait, got %d", got)
	}
	if got := p.sets["13x10 Vertical"].failed; got != 1 {
		t.Errorf("Expected 1 failed for 13x10 Vertical, got %d", got)
	}
	if p.current != "13x10 Vertical" {
		t.Errorf("Expected current set 13x10 Vertical, got %q", p.current)
	}
	if len(p.order) != 2 {
		t.Errorf("Expected 2 sets, got %d", len(p.order))
	}
}

func TestProgress_Print(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(10, true)
	p.output = &buf
	p.startTime = time.Now().Add(-10 * time.Second)

	p.Update("13x19 Portrait", 5, 5, 0)
	buf.Reset()
	p.Update("13x10 Vertical", 1, 5, 1)

	output := buf.String()

	if !strings.Contains(output, "█") {
		t.Error("Expected progress bar in output")
	}
	if !strings.Contains(output, "13x10 Vertical 1/5") {
		t.Errorf("Expected current set counts in output, got: %s", output)
	}
	if !strings.Contains(output, "6/10 photos") {
		t.Errorf("Expected overall '6/10 photos' in output, got: %s", output)
	}
	if !strings.Contains(output, "(1 failed)") {
		t.Errorf("Expected '(1 failed)' in output, got: %s", output)
	}
	if !strings.Contains(output, "ETA:") {
		t.Errorf("Expected 'ETA:' in output, got: %s", output)
	}
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(5, true)
	p.output = &buf
	p.startTime = time.Now().Add(-3 * time.Second)

	p.Update("13x19 Landscape", 5, 5, 0)
	buf.Reset()

	p.Done()

	output := buf.String()
	if !strings.Contains(output, "Done in") {
		t.Errorf("Expected 'Done in' in output, got: %s", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Expected output to end with newline")
	}
}

func TestProgress_SummaryNamesFailedSets(t *testing.T) {
	p := NewProgress(15, false)
	p.startTime = time.Now().Add(-10 * time.Second)

	p.Update("13x19 Portrait", 5, 5, 0)
	p.Update("13x10 Vertical", 5, 5, 2)
	p.Fail("13x10 Landscape", 5)

	summary := p.Summary()

	if !strings.Contains(summary, "8/15 photos across 3 sets") {
		t.Errorf("Expected '8/15 photos across 3 sets' in summary, got: %s", summary)
	}
	if !strings.Contains(summary, "7 failed in 13x10 Vertical, 13x10 Landscape") {
		t.Errorf("Expected failed sets in summary, got: %s", summary)
	}
}

func TestProgress_Disabled(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(10, false)
	p.output = &buf

	p.Update("13x19 Portrait", 5, 5, 0)

	if buf.Len() != 0 {
		t.Errorf("Expected no output when disabled, got: %s", buf.String())
	}
}

func TestProgress_CallbackFromPool(t *testing.T) {
	p := NewProgress(4, false)
	pool := New(Config{
		Workers:    2,
		Renderer:   &mockRenderer{fail: map[int]bool{1: true}},
		OnProgress: p.Callback(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	pool.Run(ctx, roomTasks("13x19 Portrait", 4))

	c := p.sets["13x19 Portrait"]
	if c == nil {
		t.Fatal("Expected counts for 13x19 Portrait")
	}
	if c.completed != 4 || c.total != 4 || c.failed != 1 {
		t.Errorf("Expected 4/4 with 1 failed, got %d/%d with %d failed", c.completed, c.total, c.failed)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		expected string
		duration time.Duration
	}{
		{duration: 30 * time.Second, expected: "30s"},
		{duration: 90 * time.Second, expected: "1m30s"},
		{duration: 5 * time.Minute, expected: "5m0s"},
		{duration: 65 * time.Minute, expected: "1h5m"},
		{duration: 2*time.Hour + 30*time.Minute, expected: "2h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatDuration(tt.duration)
			if result != tt.expected {
				t.Errorf("formatDuration(%v) = %s, want %s", tt.duration, result, tt.expected)
			}
		})
	}
}
