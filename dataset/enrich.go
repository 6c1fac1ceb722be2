package dataset

import (
	"sort"
	"strings"
	"time"
)

const (
	// DateColumn is the column month buckets are derived from.
	DateColumn = "liturgy_date"
	// MonthColumn is the derived column added by Enrich.
	MonthColumn = "liturgy_month"
	// UnknownMonth buckets rows whose date is missing or unparseable.
	UnknownMonth = "Unknown"
)

// dateLayouts are tried in order; day-first forms follow the Dutch and
// Indonesian convention used in the weekly liturgy PDFs.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

// ParseDate parses a liturgy date; ok is false for empty or unknown formats.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthOf returns the YYYY-MM bucket for a raw date value.
func MonthOf(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return UnknownMonth
	}
	return t.Format("2006-01")
}

// Enrich returns a copy of d with MonthColumn derived from DateColumn.
// Without a date column the copy is returned as is. An existing
// MonthColumn is recomputed in place in the copy.
func Enrich(d *Dataset) *Dataset {
	out := d.Clone()
	dateIdx := out.ColumnIndex(DateColumn)
	if dateIdx < 0 {
		return out
	}

	monthIdx := out.ColumnIndex(MonthColumn)
	if monthIdx < 0 {
		out.Columns = append(out.Columns, MonthColumn)
		for i := range out.Rows {
			out.Rows[i] = append(out.Rows[i], "")
		}
		monthIdx = len(out.Columns) - 1
	}

	for _, row := range out.Rows {
		row[monthIdx] = MonthOf(row[dateIdx])
	}
	return out
}

// MonthCount is one bar of the count-by-month view.
type MonthCount struct {
	Month string
	Count int
}

// MonthCounts aggregates rows by month, oldest first with UnknownMonth
// last. Datasets that have not been enriched are bucketed on the fly.
// An empty dataset yields an empty slice.
func MonthCounts(d *Dataset) []MonthCount {
	if d.Len() == 0 {
		return []MonthCount{}
	}

	monthIdx := d.ColumnIndex(MonthColumn)
	dateIdx := d.ColumnIndex(DateColumn)
	if monthIdx < 0 && dateIdx < 0 {
		return []MonthCount{}
	}

	counts := make(map[string]int)
	for _, row := range d.Rows {
		var m string
		if monthIdx >= 0 {
			m = row[monthIdx]
		} else {
			m = MonthOf(row[dateIdx])
		}
		if m == "" {
			m = UnknownMonth
		}
		counts[m]++
	}

	out := make([]MonthCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, MonthCount{Month: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month == UnknownMonth {
			return false
		}
		if out[j].Month == UnknownMonth {
			return true
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// MonthCountMap is MonthCounts as a map, handy for lookups.
func MonthCountMap(d *Dataset) map[string]int {
	m := make(map[string]int)
	for _, mc := range MonthCounts(d) {
		m[mc.Month] = mc.Count
	}
	return m
}
