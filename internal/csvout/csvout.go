// Package csvout writes the day's datasets to CSV files.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spellgrid/gridder/internal/grid"
)

// Dataset names substituted for the _ITEM_ placeholder.
const (
	ItemLengths = "lengths"
	ItemPairs   = "pairs"
)

// PreparePath resolves the output path for one dataset: substitutes _ITEM_,
// formats the date through the file name (a Go time layout), creates missing
// parent directories, and refuses a target that exists as a directory.
// Only the final path element is date-formatted; directory names with digits
// in them pass through untouched.
func PreparePath(date time.Time, template, item string) (string, error) {
	if strings.HasSuffix(template, "/") {
		return "", fmt.Errorf("filename template must not end in a slash (%s)", template)
	}

	substituted := strings.ReplaceAll(template, "_ITEM_", item)
	name := filepath.Join(filepath.Dir(substituted), date.Format(filepath.Base(substituted)))

	dir := filepath.Dir(name)
	info, err := os.Stat(name)
	if err == nil && info.IsDir() {
		return "", fmt.Errorf("%s already exists as a directory", name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to mkdir %s: %w", dir, err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	return filepath.Join(absDir, filepath.Base(name)), nil
}

// WriteLengths writes the letter/length/count rows to path.
func WriteLengths(path string, lengths grid.Lengths) error {
	records := grid.SortedLengths(lengths)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Letter, strconv.Itoa(r.Length), strconv.Itoa(r.Count)})
	}
	return writeRows(path, rows)
}

// WritePairs writes the prefix/count rows to path.
func WritePairs(path string, pairs grid.Pairs) error {
	records := grid.SortedPairs(pairs)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Prefix, strconv.Itoa(r.Count)})
	}
	return writeRows(path, rows)
}

func writeRows(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing output line: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing output file: %w", err)
	}
	return nil
}
