package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/DachengChen/liturgiAI/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *dataset.Dataset {
	return dataset.New(
		[]string{"liturgy_date", "opening_song"},
		[][]string{
			{"2024-01-07", "KJ 1"},
			{"2024-01-14", "NKB 12, bait 1-2"},
			{"2024-02-04", "PKJ 3"},
		},
	)
}

func TestSerializeCSV(t *testing.T) {
	got := SerializeCSV(sample())
	want := "liturgy_date,opening_song\n" +
		"2024-01-07,KJ 1\n" +
		"2024-01-14,\"NKB 12, bait 1-2\"\n" +
		"2024-02-04,PKJ 3\n"
	assert.Equal(t, want, got)
}

func TestBuildWithinBudgetEmbedsFullCSV(t *testing.T) {
	b := NewBuilder(0)
	req := b.Build(sample(), "Ringkas pola lagu.", "liturgi.csv", 0)

	full := SerializeCSV(sample())
	assert.False(t, req.Truncated)
	assert.Equal(t, full, req.Excerpt)
	assert.Equal(t, utf8.RuneCountInString(full), req.OriginalChars)
	assert.Empty(t, req.Notice())
	assert.Contains(t, req.Prompt, "```csv\n"+full+"\n```")
	assert.True(t, strings.HasPrefix(req.Prompt, "Berikut adalah data liturgi dari tabel liturgi.csv\n"))
	assert.Contains(t, req.Prompt, "INSTRUKSI SAYA:\nRingkas pola lagu.\n")
}

func TestBuildTruncatesToBudget(t *testing.T) {
	// Header "c\n", 17 999 rows of "xxxx\n" and a last "xx\n": 90 000 characters.
	rows := make([][]string, 0, 17999)
	for i := 0; i < 17999; i++ {
		rows = append(rows, []string{"xxxx"})
	}
	rows = append(rows, []string{"xx"})
	ds := dataset.New([]string{"c"}, rows)
	full := SerializeCSV(ds)
	require.Equal(t, 90000, len(full))

	b := NewBuilder(MaxCSVChars)
	req := b.Build(ds, "x", "t", 0)

	assert.True(t, req.Truncated)
	assert.Equal(t, 80000, utf8.RuneCountInString(req.Excerpt))
	assert.Equal(t, full[:80000], req.Excerpt)
	assert.Equal(t, 90000, req.OriginalChars)
	assert.Equal(t, 80000, req.ExcerptChars)
	assert.Contains(t, req.Notice(), "90000")
	assert.Contains(t, req.Notice(), "80000")
}

func TestBuildSingleLongHeader(t *testing.T) {
	ds := dataset.New([]string{strings.Repeat("a", 89999)}, nil)
	req := NewBuilder(80000).Build(ds, "x", "t", 0)
	assert.Equal(t, 90000, req.OriginalChars)
	assert.Equal(t, 80000, len(req.Excerpt))
	assert.NotEmpty(t, req.Notice())
}

func TestBuildRowLimit(t *testing.T) {
	req := NewBuilder(0).Build(sample(), "x", "t", 2)
	assert.Equal(t, "liturgy_date,opening_song\n2024-01-07,KJ 1\n2024-01-14,\"NKB 12, bait 1-2\"\n", req.Excerpt)
	assert.Equal(t, 2, req.RowLimit)
}

func TestTruncateCountsRunes(t *testing.T) {
	s := "ééééé"
	got, cut := Truncate(s, 3)
	assert.True(t, cut)
	assert.Equal(t, "ééé", got)

	got, cut = Truncate(s, 5)
	assert.False(t, cut)
	assert.Equal(t, s, got)

	got, cut = Truncate(s, 0)
	assert.True(t, cut)
	assert.Equal(t, "", got)
}

func TestTruncateIsPrefix(t *testing.T) {
	full := SerializeCSV(sample())
	for max := 0; max <= len(full)+2; max++ {
		got, _ := Truncate(full, max)
		assert.True(t, strings.HasPrefix(full, got))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), max)
	}
}

func TestComposeTrims(t *testing.T) {
	p := Compose("t", "  \n", "")
	assert.False(t, strings.HasSuffix(p, "\n"))
	assert.True(t, strings.HasSuffix(p, "```"))
}
