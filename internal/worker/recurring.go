// Package worker runs the periodic materialization of recurring entries.
package worker

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jackson973/projeto-indicadores-sub001/internal/services"
)

// Materializer expands recurrences for every box, for the current month and
// a configurable number of months ahead. One worker run is idempotent:
// occurrences that already exist are skipped by the service.
type Materializer struct {
	svc         *services.LedgerService
	monthsAhead int
}

func NewMaterializer(svc *services.LedgerService, monthsAhead int) *Materializer {
	if monthsAhead < 0 {
		monthsAhead = 0
	}
	return &Materializer{svc: svc, monthsAhead: monthsAhead}
}

// Run materializes entries for all boxes and returns the number of entries
// created. Boxes are processed concurrently; the first box error aborts
// the remaining ones.
func (m *Materializer) Run(ctx context.Context) (int, error) {
	boxes, err := m.svc.ListBoxes(ctx)
	if err != nil {
		return 0, err
	}
	today := m.svc.Today()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	counts := make([]int, len(boxes))

	for i, box := range boxes {
		g.Go(func() error {
			total := 0
			year, month := today.Year(), int(today.Month())
			for step := 0; step <= m.monthsAhead; step++ {
				n, err := m.svc.MaterializeMonth(gctx, box.ID, year, month)
				if err != nil {
					return err
				}
				total += n
				month++
				if month > 12 {
					month = 1
					year++
				}
			}
			counts[i] = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	created := 0
	for _, n := range counts {
		created += n
	}
	slog.Info("Materialization run complete", "boxes", len(boxes), "entries_created", created)
	return created, nil
}
