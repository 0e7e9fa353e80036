package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackson973/projeto-indicadores-sub001/internal/sheets"
)

// Period identifies one month bucket.
type Period struct {
	Year  int
	Month int
}

func (p Period) String() string { return fmt.Sprintf("%04d-%02d", p.Year, p.Month) }

// PeriodCount is the number of existing entries found for a period.
type PeriodCount struct {
	Period Period
	Count  int64
}

// ReconciliationWarning is a structured advisory, not an error. Imports are
// strictly additive, so the warning exists to prevent accidental
// double-entry, never to block a deliberate re-import.
type ReconciliationWarning struct {
	// Existing lists the detected periods that already contain entries for
	// the target box, with their counts.
	Existing []PeriodCount
	// UnknownPeriod is set when no sheet yielded a period at all, meaning
	// the duplicate check could not run.
	UnknownPeriod bool
}

// Empty reports whether there is nothing to warn about.
func (w ReconciliationWarning) Empty() bool {
	return len(w.Existing) == 0 && !w.UnknownPeriod
}

// EntryCounter is the slice of the repository the reconciler needs.
type EntryCounter interface {
	CountEntriesForMonth(ctx context.Context, boxID int64, year, month int) (int64, error)
}

// Portuguese month names, folded to lowercase ASCII. Accented spellings in
// titles are folded before lookup, so "Março" and "marco" both resolve.
var monthsByName = map[string]int{
	"janeiro": 1, "fevereiro": 2, "marco": 3, "abril": 4,
	"maio": 5, "junho": 6, "julho": 7, "agosto": 8,
	"setembro": 9, "outubro": 10, "novembro": 11, "dezembro": 12,
	"jan": 1, "fev": 2, "mar": 3, "abr": 4, "mai": 5, "jun": 6,
	"jul": 7, "ago": 8, "set": 9, "out": 10, "nov": 11, "dez": 12,
}

var (
	// Full or abbreviated month name followed by a 4-digit year, the two
	// optionally separated by "/".
	titlePeriodRe = regexp.MustCompile(`\b(janeiro|fevereiro|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro|jan|fev|mar|abr|mai|jun|jul|ago|set|out|nov|dez)\b\s*/?\s*([0-9]{4})`)
	// Compact form: abbreviation glued to a 2- or 4-digit year, e.g. jan26.
	compactPeriodRe = regexp.MustCompile(`\b(jan|fev|mar|abr|mai|jun|jul|ago|set|out|nov|dez)([0-9]{2}|[0-9]{4})\b`)
	// Bare month name, used as a last resort against the sheet's own name.
	bareMonthRe = regexp.MustCompile(`\b(janeiro|fevereiro|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro|jan|fev|mar|abr|mai|jun|jul|ago|set|out|nov|dez)\b`)
)

// DetectSheetPeriod extracts the (year, month) a sheet covers.
//
// Precedence: the title row's cells are scanned left to right for a month
// name plus 4-digit year, then for the compact "jan26" form; failing both,
// a bare month name in the sheet's own name is accepted with defaultYear.
func DetectSheetPeriod(s sheets.Sheet, defaultYear int) (Period, bool) {
	for _, cell := range s.TitleRow() {
		folded := foldLower(cell)
		if m := titlePeriodRe.FindStringSubmatch(folded); m != nil {
			month := monthsByName[m[1]]
			year, _ := strconv.Atoi(m[2])
			return Period{Year: year, Month: month}, true
		}
	}
	for _, cell := range s.TitleRow() {
		folded := foldLower(cell)
		if m := compactPeriodRe.FindStringSubmatch(folded); m != nil {
			month := monthsByName[m[1]]
			year, _ := strconv.Atoi(m[2])
			if year < 100 {
				year += 2000
			}
			return Period{Year: year, Month: month}, true
		}
	}
	if m := bareMonthRe.FindStringSubmatch(foldLower(s.Name)); m != nil {
		return Period{Year: defaultYear, Month: monthsByName[m[1]]}, true
	}
	return Period{}, false
}

// DetectPeriods runs period detection over every sheet and dedupes the
// result into a sorted set.
func DetectPeriods(ss sheets.Spreadsheet, defaultYear int) []Period {
	seen := map[Period]bool{}
	var out []Period
	for _, s := range ss.Sheets {
		p, ok := DetectSheetPeriod(s, defaultYear)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// CheckImportPeriods flags the detected periods that already contain
// entries for the target box. When no sheet yields a period the check is
// skipped and reported as an unknown-period advisory instead of an error.
func CheckImportPeriods(ctx context.Context, counter EntryCounter, boxID int64, ss sheets.Spreadsheet, defaultYear int) (ReconciliationWarning, []Period, error) {
	periods := DetectPeriods(ss, defaultYear)
	if len(periods) == 0 {
		slog.WarnContext(ctx, "No period detected in any sheet, skipping duplicate check",
			"box_id", boxID,
			"sheets", len(ss.Sheets))
		return ReconciliationWarning{UnknownPeriod: true}, nil, nil
	}

	var warning ReconciliationWarning
	for _, p := range periods {
		count, err := counter.CountEntriesForMonth(ctx, boxID, p.Year, p.Month)
		if err != nil {
			return ReconciliationWarning{}, nil, fmt.Errorf("count entries for %s: %w", p, err)
		}
		if count > 0 {
			warning.Existing = append(warning.Existing, PeriodCount{Period: p, Count: count})
		}
	}
	if len(warning.Existing) > 0 {
		slog.InfoContext(ctx, "Import periods already contain entries",
			"box_id", boxID,
			"flagged", len(warning.Existing),
			"checked", len(periods))
	}
	return warning, periods, nil
}

// foldLower lowercases s and strips the accents that occur in Portuguese
// month names and spreadsheet titles.
func foldLower(s string) string {
	s = strings.ToLower(s)
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u",
		"ç", "c",
	)
	return replacer.Replace(s)
}
