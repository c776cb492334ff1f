// Package grid holds the two datasets extracted from the daily hints page:
// the letter-by-length word counts and the two-letter prefix counts.
package grid

import (
	"fmt"
	"sort"
	"time"
)

// Pair is a two-letter answer prefix.
type Pair struct {
	A, B rune
}

// String returns the prefix as written on the page, e.g. "ch".
func (p Pair) String() string {
	return string(p.A) + string(p.B)
}

// LengthKey identifies one cell of the hints grid: answers starting with
// Letter that are Length characters long.
type LengthKey struct {
	Letter rune
	Length int
}

// Pairs maps each two-letter prefix to its answer count.
type Pairs map[Pair]int

// Lengths maps each letter/length cell to its answer count.
type Lengths map[LengthKey]int

// PairRecord is one row of the pairs dataset in publish order.
type PairRecord struct {
	Prefix string
	Count  int
}

// LengthRecord is one row of the lengths dataset in publish order.
type LengthRecord struct {
	Letter string
	Length int
	Count  int
}

// SortedPairs flattens the pair counts into lexicographic row order.
// Publishers share this ordering so repeated runs produce identical output.
func SortedPairs(p Pairs) []PairRecord {
	records := make([]PairRecord, 0, len(p))
	for pair, count := range p {
		records = append(records, PairRecord{Prefix: pair.String(), Count: count})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Prefix < records[j].Prefix
	})
	return records
}

// SortedLengths flattens the grid counts into letter-then-length row order.
func SortedLengths(l Lengths) []LengthRecord {
	records := make([]LengthRecord, 0, len(l))
	for key, count := range l {
		records = append(records, LengthRecord{
			Letter: string(key.Letter),
			Length: key.Length,
			Count:  count,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Letter != records[j].Letter {
			return records[i].Letter < records[j].Letter
		}
		return records[i].Length < records[j].Length
	})
	return records
}

// New puzzles appear at midnight US-West.
const releaseZone = "America/Los_Angeles"

// ReleaseDate returns the puzzle date for the given instant: the calendar
// day in the release time zone.
func ReleaseDate(now time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(releaseZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load release time zone: %w", err)
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseDate parses a YYYY-MM-DD puzzle date argument.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %q into a date: %w", s, err)
	}
	return d, nil
}
