// Package emit writes bot definitions as a TypeScript array literal.
package emit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nestris-org/botfit/internal/model"
)

// DefaultPath is the output file written when no path is configured.
const DefaultPath = "generated_bots.txt"

// Write renders bots one per line inside a `const bots: BotType[]` declaration.
func Write(w io.Writer, bots []model.BotEntry) error {
	if _, err := fmt.Fprintln(w, "const bots: BotType[] = ["); err != nil {
		return err
	}
	for _, bot := range bots {
		if _, err := fmt.Fprintln(w, Line(bot)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "];")
	return err
}

// Line renders a single bot entry, indented, with a trailing comma.
func Line(bot model.BotEntry) string {
	return fmt.Sprintf("    { highscore: %d, trophies: %d, speed: %s, inaccuracy: %s, mistake: %s, misdrop: %s, botIDs: %s },",
		bot.Score,
		bot.Trophies,
		bot.Speed.Label(),
		formatFloat(bot.Inaccuracy),
		formatFloat(bot.Mistake),
		formatFloat(bot.Misdrop),
		formatIDs(bot.BotIDs),
	)
}

// outputMode is applied to the temp file before rename; CreateTemp uses 0600.
const outputMode os.FileMode = 0o644

// WriteFile replaces path with the rendered bots.
func WriteFile(path string, bots []model.BotEntry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "bots-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := Write(writer, bots); err != nil {
		return fmt.Errorf("failed to write bots: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush bots: %w", err)
	}
	if err := tmpFile.Chmod(outputMode); err != nil {
		return fmt.Errorf("failed to set output mode: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write bots: %w", err)
	}
	return nil
}

// formatFloat uses the shortest round-trip form and keeps a decimal point on
// integral values, so 1 renders as 1.0 and 0.0005 as 0.0005.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func formatIDs(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + id + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
