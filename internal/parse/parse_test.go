package parse

import (
	"strings"
	"testing"

	"github.com/spellgrid/gridder/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hintsPage = `<html><body>
<div class="interactive-body">
<p class="content">WORDS: 45, POINTS: 180, PANGRAMS: 1</p>
<table class="table">
<tr class="row"><td class="cell"></td><td class="cell">4</td><td class="cell">5</td><td class="cell">6</td><td class="cell">Σ</td></tr>
<tr class="row"><td class="cell">C:</td><td class="cell">3</td><td class="cell">-</td><td class="cell">2</td><td class="cell">5</td></tr>
<tr class="row"><td class="cell">H:</td><td class="cell">1</td><td class="cell">4</td><td class="cell">-</td><td class="cell">5</td></tr>
<tr class="row"><td class="cell">Σ:</td><td class="cell">4</td><td class="cell">4</td><td class="cell">2</td><td class="cell">10</td></tr>
</table>
<p class="content">first</p>
<p class="content">second</p>
<p class="content">third</p>
<p class="content">CH-7 CO-2
HA-4 HO-1</p>
</div>
</body></html>`

func TestDocument(t *testing.T) {
	t.Run("extracts grid and pairs", func(t *testing.T) {
		pairs, lengths, err := Document(hintsPage)
		require.NoError(t, err)

		assert.Equal(t, grid.Pairs{
			{A: 'c', B: 'h'}: 7,
			{A: 'c', B: 'o'}: 2,
			{A: 'h', B: 'a'}: 4,
			{A: 'h', B: 'o'}: 1,
		}, pairs)

		assert.Equal(t, grid.Lengths{
			{Letter: 'C', Length: 4}: 3,
			{Letter: 'C', Length: 5}: 0,
			{Letter: 'C', Length: 6}: 2,
			{Letter: 'H', Length: 4}: 1,
			{Letter: 'H', Length: 5}: 4,
			{Letter: 'H', Length: 6}: 0,
		}, lengths)
	})

	t.Run("drops the sum row and column", func(t *testing.T) {
		_, lengths, err := Document(hintsPage)
		require.NoError(t, err)

		for key := range lengths {
			assert.NotEqual(t, 'Σ', key.Letter)
		}
		assert.Len(t, lengths, 6)
	})

	t.Run("missing table is an error", func(t *testing.T) {
		_, _, err := Document("<html><body><p>nothing here</p></body></html>")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing hints table")
	})

	t.Run("missing pair paragraph is an error", func(t *testing.T) {
		page := strings.Replace(hintsPage, `<p class="content">CH-7 CO-2
HA-4 HO-1</p>`, "", 1)
		_, _, err := Document(page)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "two-letter list")
	})

	t.Run("paragraph without pair tokens is an error", func(t *testing.T) {
		page := strings.Replace(hintsPage, "CH-7 CO-2\nHA-4 HO-1", "no tokens here", 1)
		_, _, err := Document(page)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no pair counts")
	})

	t.Run("garbage in a grid cell is an error", func(t *testing.T) {
		page := strings.Replace(hintsPage, `<td class="cell">3</td>`, `<td class="cell">three</td>`, 1)
		_, _, err := Document(page)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected cell content")
	})

	t.Run("pair tokens survive odd whitespace", func(t *testing.T) {
		page := strings.Replace(hintsPage, "CH-7 CO-2", "CH-7\u00a0CO-2", 1)
		pairs, _, err := Document(page)
		require.NoError(t, err)
		assert.Equal(t, 7, pairs[grid.Pair{A: 'c', B: 'h'}])
		assert.Equal(t, 2, pairs[grid.Pair{A: 'c', B: 'o'}])
	})
}
