// Package prompt turns a liturgy dataset and a user instruction into the
// single text prompt sent to the assistant.
//
// The dataset is rendered as CSV and cut to a fixed character budget
// before it is embedded. The cut is a strict prefix: it may end in the
// middle of a row or field.
package prompt

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DachengChen/liturgiAI/dataset"
)

// MaxCSVChars is the default excerpt budget in characters.
const MaxCSVChars = 80000

// DefaultInstruction is the analysis request prefilled in the Ask view.
const DefaultInstruction = `Tolong analisis dataset liturgi ini:
- Ringkas pola umum urutan liturgi dan elemen-elemen pentingnya (misalnya: pembukaan, aanvangstekst, bacaan Alkitab, genadeverkondiging, prediking, dankofferande, slotlied).
- Identifikasi pola dan variasi: misalnya lagu pembukaan yang sering dipakai, kitab/ayat yang sering muncul, tema-tema yang tampak dari bacaan dan judul khotbah.
- Berikan 5–10 insight praktis yang dapat membantu tim liturgi dalam merencanakan ibadah ke depan (misalnya keseimbangan tema, variasi lagu, keterlibatan jemaat dalam nyanyian).
- Jelaskan dengan bahasa yang mudah dimengerti oleh tim liturgi dan majelis.`

const template = "Berikut adalah data liturgi dari tabel %s\n" +
	"dalam format CSV (dipotong bila terlalu panjang).\n" +
	"\n" +
	"INSTRUKSI SAYA:\n" +
	"%s\n" +
	"\n" +
	"DATA CSV:\n" +
	"```csv\n" +
	"%s\n" +
	"```"

// Request is one composed prompt plus the numbers the caller needs to
// warn about truncation. It is built per ask and never persisted.
type Request struct {
	Instruction   string
	SourceLabel   string
	RowLimit      int
	Excerpt       string
	OriginalChars int
	ExcerptChars  int
	Truncated     bool
	Prompt        string
}

// Notice returns the user-facing truncation warning, or "" when the
// whole CSV fit in the budget.
func (r *Request) Notice() string {
	if !r.Truncated {
		return ""
	}
	return fmt.Sprintf("CSV panjangnya %d karakter. Hanya %d karakter pertama yang dikirim ke model.",
		r.OriginalChars, r.ExcerptChars)
}

// Builder composes prompts under a character budget.
type Builder struct {
	MaxChars int
}

// NewBuilder returns a Builder; maxChars <= 0 uses MaxCSVChars.
func NewBuilder(maxChars int) *Builder {
	if maxChars <= 0 {
		maxChars = MaxCSVChars
	}
	return &Builder{MaxChars: maxChars}
}

// Build serializes ds (first rowLimit rows when rowLimit > 0), truncates
// the CSV to the budget, and renders the fixed template.
func (b *Builder) Build(ds *dataset.Dataset, instruction, sourceLabel string, rowLimit int) *Request {
	if rowLimit > 0 {
		ds = ds.Head(rowLimit)
	}
	full := SerializeCSV(ds)
	excerpt, truncated := Truncate(full, b.MaxChars)

	return &Request{
		Instruction:   instruction,
		SourceLabel:   sourceLabel,
		RowLimit:      rowLimit,
		Excerpt:       excerpt,
		OriginalChars: utf8.RuneCountInString(full),
		ExcerptChars:  utf8.RuneCountInString(excerpt),
		Truncated:     truncated,
		Prompt:        Compose(sourceLabel, instruction, excerpt),
	}
}

// Compose renders the template. The result is whitespace-trimmed.
func Compose(sourceLabel, instruction, excerpt string) string {
	return strings.TrimSpace(fmt.Sprintf(template, sourceLabel, instruction, excerpt))
}

// SerializeCSV renders header plus rows, comma-separated, quoting fields
// that need it, with \n line endings.
func SerializeCSV(ds *dataset.Dataset) string {
	if ds == nil {
		return ""
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(ds.Columns)
	for _, row := range ds.Rows {
		_ = w.Write(row)
	}
	w.Flush()
	return buf.String()
}

// Truncate keeps the first max characters (runes) of s verbatim.
func Truncate(s string, max int) (string, bool) {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(s) <= max {
		return s, false
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i], true
		}
		n++
	}
	return s, false
}
