package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInlineEmphasisPrecedence(t *testing.T) {
	runs := ParseInline("***bold-italic*** and **bold** and *italic* and normal", baseFontSize)
	require.Len(t, runs, 6)

	assert.Equal(t, TextRun{Text: "bold-italic", Bold: true, Italic: true, Size: baseFontSize}, runs[0])
	assert.Equal(t, TextRun{Text: " and ", Size: baseFontSize}, runs[1])
	assert.Equal(t, TextRun{Text: "bold", Bold: true, Size: baseFontSize}, runs[2])
	assert.Equal(t, TextRun{Text: " and ", Size: baseFontSize}, runs[3])
	assert.Equal(t, TextRun{Text: "italic", Italic: true, Size: baseFontSize}, runs[4])
	assert.Equal(t, TextRun{Text: " and normal", Size: baseFontSize}, runs[5])

	assert.Equal(t, "bold-italic and bold and italic and normal", PlainText(runs))
}

func TestParseInlineCode(t *testing.T) {
	runs := ParseInline("run `go test` now", 20)
	require.Len(t, runs, 3)
	assert.Equal(t, "run ", runs[0].Text)
	assert.Equal(t, TextRun{Text: "go test", Code: true, Size: 20}, runs[1])
	assert.Equal(t, " now", runs[2].Text)
}

func TestParseInlineCodeDoesNotNestEmphasis(t *testing.T) {
	runs := ParseInline("`**raw**`", baseFontSize)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Code)
	assert.False(t, runs[0].Bold)
	assert.Equal(t, "**raw**", runs[0].Text)
}

func TestParseInlineLinks(t *testing.T) {
	runs := ParseInline("[Docs](https://x.test)", baseFontSize)
	require.Len(t, runs, 1)
	assert.Equal(t, "Docs (https://x.test)", runs[0].Text)

	assert.Equal(t, "see a (b) and c (d)", RewriteLinks("see [a](b) and [c](d)"))
}

func TestParseInlineUnclosedDelimiters(t *testing.T) {
	for _, s := range []string{"2 * 3 = 6", "**open", "tick ` only"} {
		runs := ParseInline(s, baseFontSize)
		require.Len(t, runs, 1, s)
		assert.Equal(t, s, runs[0].Text)
	}
}

func TestParseInlineSpanDoesNotCrossLines(t *testing.T) {
	runs := ParseInline("*a\nb*", baseFontSize)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Italic)
}

func TestParseInlineEmptyContentIsLiteral(t *testing.T) {
	runs := ParseInline("a ** b", baseFontSize)
	require.Len(t, runs, 1)
	assert.Equal(t, "a ** b", runs[0].Text)
}

func TestParseInlineNeverEmpty(t *testing.T) {
	runs := ParseInline("", baseFontSize)
	require.Len(t, runs, 1)
	assert.Equal(t, "", runs[0].Text)
	assert.Equal(t, baseFontSize, runs[0].Size)
}

func TestParseInlineAdjacentSpans(t *testing.T) {
	runs := ParseInline("**a***b*", baseFontSize)
	require.Len(t, runs, 2)
	assert.Equal(t, TextRun{Text: "a", Bold: true, Size: baseFontSize}, runs[0])
	assert.Equal(t, TextRun{Text: "b", Italic: true, Size: baseFontSize}, runs[1])
}
