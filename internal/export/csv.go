// Package export renders entry lists as CSV text. It is a pure formatting
// layer: it takes already-resolved rows and produces text, nothing else.
package export

import (
	"strconv"
	"strings"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

// Header is the fixed column order of an entry export.
var Header = []string{"id", "box", "category", "description", "type", "amount", "date", "status"}

// EntriesCSV formats entries as CSV: one header row plus one row per entry.
// Every value is double-quoted and internal quotes are doubled, so a
// re-split on the same rule recovers the fields exactly. Box and category
// ids are resolved through the provided name maps; unknown ids fall back to
// the empty string.
func EntriesCSV(entries []core.Entry, boxNames, categoryNames map[int64]string) string {
	var b strings.Builder
	writeRow(&b, Header)
	for _, e := range entries {
		writeRow(&b, []string{
			strconv.FormatInt(e.ID, 10),
			boxNames[e.BoxID],
			categoryNames[e.CategoryID],
			e.Description,
			string(e.Type),
			e.Amount.String(),
			e.Date.String(),
			string(e.Status),
		})
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
