package emit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nestris-org/botfit/internal/model"
)

func sampleBots() []model.BotEntry {
	return []model.BotEntry{
		{Score: 2512, Trophies: 34, Speed: 10, Inaccuracy: 0.3, Mistake: 0.05, Misdrop: 0.005, BotIDs: []string{"a1"}},
		{Score: 9000, Trophies: 70, Speed: 25, Inaccuracy: 0.1, Mistake: 0.005, Misdrop: 0.0005, BotIDs: []string{"b2", "c3"}},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleBots()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	expected := "const bots: BotType[] = [\n" +
		"    { highscore: 2512, trophies: 34, speed: InputSpeed.HZ_10, inaccuracy: 0.3, mistake: 0.05, misdrop: 0.005, botIDs: ['a1'] },\n" +
		"    { highscore: 9000, trophies: 70, speed: InputSpeed.HZ_25, inaccuracy: 0.1, mistake: 0.005, misdrop: 0.0005, botIDs: ['b2', 'c3'] },\n" +
		"];\n"
	if buf.String() != expected {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.String() != "const bots: BotType[] = [\n];\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		0.9:    "0.9",
		1:      "1.0",
		0.0005: "0.0005",
		0.001:  "0.001",
	}
	for in, want := range cases {
		if got := formatFloat(in); got != want {
			t.Fatalf("formatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultPath)
	if err := WriteFile(path, sampleBots()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, sampleBots()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if string(data) != buf.String() {
		t.Fatalf("file content differs from Write output")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o644 {
		t.Fatalf("expected output mode 0644, got %o", mode)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the output file, got %d entries", len(entries))
	}
}

func TestWriteFileReplacesReadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	if err := os.WriteFile(path, []byte("stale"), 0o600); err != nil {
		t.Fatalf("write stale output: %v", err)
	}
	if err := WriteFile(path, sampleBots()[:1]); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o644 {
		t.Fatalf("expected output mode 0644, got %o", mode)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if bytes.Contains(data, []byte("stale")) {
		t.Fatalf("expected stale content to be replaced")
	}
}
