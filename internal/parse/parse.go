// Package parse extracts the two hint datasets from the forum page HTML.
//
// The page layout: a table (class "table") holds the letter-by-length grid,
// one row per puzzle letter plus a header row of word lengths and a sum row.
// The fifth paragraph (class "content") under the table's container lists
// the two-letter prefix counts as "xy-N" tokens.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wasilibs/go-re2"
	"golang.org/x/text/unicode/norm"

	"github.com/spellgrid/gridder/internal/grid"
)

const (
	tableSelector   = "table.table"
	rowSelector     = "tr.row"
	cellSelector    = "td.cell"
	contentSelector = "p.content"

	// The two-letter list is the fifth content paragraph.
	pairParagraphIndex = 4
)

// The page is remote, untrusted input; the pair tokens are matched with the
// linear-time engine rather than the backtracking stdlib one.
var pairPattern = re2.MustCompile(`\b([a-zA-Z]{2})-(\d+)\b`)

// sumMarker labels the totals row and column of the grid.
const sumMarker = 'Σ'

// Document extracts the pair and length datasets from a hints page body.
func Document(body string) (grid.Pairs, grid.Lengths, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse page html: %w", err)
	}

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, nil, fmt.Errorf("missing hints table on page")
	}

	lengths, err := extractLengths(table)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract length grid: %w", err)
	}

	paragraph := table.Parent().Find(contentSelector).Eq(pairParagraphIndex)
	if paragraph.Length() == 0 {
		return nil, nil, fmt.Errorf("missing two-letter list paragraph on page")
	}

	pairs := extractPairs(paragraph)
	if len(pairs) == 0 {
		return nil, nil, fmt.Errorf("two-letter list paragraph contained no pair counts")
	}

	return pairs, lengths, nil
}

// extractPairs collects "xy-N" tokens from the two-letter list paragraph.
// Text is NFKC-normalized first so odd spacing and lookalike digits on the
// page don't break the match.
func extractPairs(paragraph *goquery.Selection) grid.Pairs {
	text := norm.NFKC.String(paragraph.Text())

	pairs := make(grid.Pairs)
	for _, m := range pairPattern.FindAllStringSubmatch(text, -1) {
		prefix, count := m[1], m[2]
		n, err := strconv.Atoi(count)
		if err != nil {
			// \d+ guarantees digits; only overflow can land here.
			continue
		}
		runes := []rune(strings.ToLower(prefix))
		pairs[grid.Pair{A: runes[0], B: runes[1]}] = n
	}
	return pairs
}

// extractLengths walks the grid table. The header row gives the word
// lengths, each following row a letter; the Σ row and the trailing Σ column
// are dropped.
func extractLengths(table *goquery.Selection) (grid.Lengths, error) {
	rows := table.Find(rowSelector)
	if rows.Length() < 2 {
		return nil, fmt.Errorf("expected header and letter rows, got %d rows", rows.Length())
	}

	header, _, err := rowValues(rows.Eq(0))
	if err != nil {
		return nil, fmt.Errorf("bad header row: %w", err)
	}

	lengths := make(grid.Lengths)
	for i := 1; i < rows.Length(); i++ {
		values, letter, err := rowValues(rows.Eq(i))
		if err != nil {
			return nil, fmt.Errorf("bad grid row %d: %w", i, err)
		}
		if letter == 0 {
			return nil, fmt.Errorf("grid row %d has no letter cell", i)
		}
		if letter == sumMarker {
			continue
		}
		if len(values) != len(header) {
			return nil, fmt.Errorf("grid row %d has %d cells, header has %d", i, len(values), len(header))
		}

		for j, count := range values {
			lengths[grid.LengthKey{Letter: letter, Length: header[j]}] = count
		}
	}

	return lengths, nil
}

// rowValues returns the numeric cells of a grid row (sum column dropped) and
// the first rune of its leading cell.
func rowValues(row *goquery.Selection) ([]int, rune, error) {
	cells := row.Find(cellSelector)
	if cells.Length() < 2 {
		return nil, 0, fmt.Errorf("expected at least 2 cells, got %d", cells.Length())
	}

	var leading rune
	head := strings.TrimSpace(cells.Eq(0).Text())
	for _, r := range head {
		leading = r
		break
	}

	var values []int
	var parseErr error
	cells.Slice(1, cells.Length()).Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		switch text {
		case string(sumMarker), "-":
			// Dash cells are empty grid positions; the sum cell is dropped
			// with the rest of its column below.
			values = append(values, 0)
		default:
			n, err := strconv.Atoi(text)
			if err != nil && parseErr == nil {
				parseErr = fmt.Errorf("unexpected cell content %q", text)
				return
			}
			values = append(values, n)
		}
	})
	if parseErr != nil {
		return nil, 0, parseErr
	}

	// Drop the trailing sum column.
	return values[:len(values)-1], leading, nil
}
