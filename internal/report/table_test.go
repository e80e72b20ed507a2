package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Config", "Score", "Lines"}
	rows := [][]string{
		{"a", "250000", "12"},
		{"fast", "9", "130"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Config  Score Lines" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a      250000    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "fast        9   130" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestDisplayWidthCountsWideRunes(t *testing.T) {
	if got := displayWidth("Score"); got != 5 {
		t.Fatalf("expected width 5, got %d", got)
	}
	if got := displayWidth("速度"); got != 4 {
		t.Fatalf("expected width 4, got %d", got)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTable(&buf, sampleRecords()); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "±Score") {
		t.Fatalf("expected spread header, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "250000") || !strings.Contains(lines[1], "0.005") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}

	buf.Reset()
	if err := RenderTable(&buf, nil); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	if buf.String() != "No results found.\n" {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}
