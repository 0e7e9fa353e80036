package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackson973/projeto-indicadores-sub001/internal/amqp"
	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
	"github.com/jackson973/projeto-indicadores-sub001/internal/sheets"
	"github.com/jackson973/projeto-indicadores-sub001/internal/storage"
)

// LedgerService orchestrates the engine over SQLite storage and publishes
// change notifications over AMQP. All engine computations stay pure; this
// layer owns fetching snapshots and applying mutations.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	loc        *time.Location
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, loc *time.Location) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
		loc:        loc,
	}
}

// Today returns the current civil date in the service's reference zone.
func (s *LedgerService) Today() core.Date {
	return core.Today(time.Now(), s.loc)
}

// ---- boxes ----

func (s *LedgerService) CreateBox(ctx context.Context, name string) (core.Box, error) {
	b := core.Box{Name: name}
	if err := b.Validate(); err != nil {
		return core.Box{}, err
	}
	created, err := s.storage.CreateBox(ctx, b)
	if err != nil {
		return core.Box{}, err
	}
	s.notify(ctx, created.ID, amqp.BoxChanged)
	return created, nil
}

func (s *LedgerService) RenameBox(ctx context.Context, id int64, name string) error {
	if err := (core.Box{ID: id, Name: name}).Validate(); err != nil {
		return err
	}
	if err := s.storage.RenameBox(ctx, id, name); err != nil {
		return err
	}
	s.notify(ctx, id, amqp.BoxChanged)
	return nil
}

func (s *LedgerService) ListBoxes(ctx context.Context) ([]core.Box, error) {
	return s.storage.ListBoxes(ctx)
}

// DeleteBox refuses to delete a box that still owns entries or recurrences
// unless cascade is set, in which case everything it owns goes with it.
func (s *LedgerService) DeleteBox(ctx context.Context, id int64, cascade bool) error {
	if _, err := s.storage.GetBox(ctx, id); err != nil {
		return err
	}
	if cascade {
		if err := s.storage.DeleteBoxCascade(ctx, id); err != nil {
			return err
		}
		s.notify(ctx, id, amqp.BoxChanged)
		return nil
	}
	entries, recurrences, err := s.storage.CountBoxDependents(ctx, id)
	if err != nil {
		return err
	}
	if entries > 0 || recurrences > 0 {
		return &core.ConflictError{
			Resource: "box",
			ID:       id,
			Msg:      fmt.Sprintf("still has %d entries and %d recurrences", entries, recurrences),
		}
	}
	if err := s.storage.DeleteBox(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, id, amqp.BoxChanged)
	return nil
}

// ---- categories ----

func (s *LedgerService) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	c := core.Category{Name: name}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if existing, found, err := s.storage.FindCategoryByName(ctx, name); err != nil {
		return core.Category{}, err
	} else if found {
		return core.Category{}, &core.ConflictError{Resource: "category", ID: existing.ID, Msg: "name already exists"}
	}
	return s.storage.CreateCategory(ctx, c)
}

func (s *LedgerService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.storage.ListCategories(ctx)
}

func (s *LedgerService) RenameCategory(ctx context.Context, id int64, name string) error {
	existing, err := s.storage.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if existing.Preset {
		return &core.ConflictError{Resource: "category", ID: id, Msg: "preset categories cannot be renamed"}
	}
	if err := (core.Category{ID: id, Name: name}).Validate(); err != nil {
		return err
	}
	return s.storage.RenameCategory(ctx, id, name)
}

func (s *LedgerService) DeleteCategory(ctx context.Context, id int64) error {
	existing, err := s.storage.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if existing.Preset {
		return &core.ConflictError{Resource: "category", ID: id, Msg: "preset categories cannot be deleted"}
	}
	entries, recurrences, err := s.storage.CountCategoryDependents(ctx, id)
	if err != nil {
		return err
	}
	if entries > 0 || recurrences > 0 {
		return &core.ConflictError{
			Resource: "category",
			ID:       id,
			Msg:      fmt.Sprintf("still referenced by %d entries and %d recurrences", entries, recurrences),
		}
	}
	return s.storage.DeleteCategory(ctx, id)
}

// ---- entries ----

func (s *LedgerService) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	if _, err := s.storage.GetBox(ctx, e.BoxID); err != nil {
		return core.Entry{}, err
	}
	if _, err := s.storage.GetCategory(ctx, e.CategoryID); err != nil {
		return core.Entry{}, err
	}
	created, err := s.storage.CreateEntry(ctx, e)
	if err != nil {
		return core.Entry{}, err
	}
	s.notify(ctx, created.BoxID, amqp.EntryCreated)
	return created, nil
}

func (s *LedgerService) UpdateEntry(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.storage.GetCategory(ctx, e.CategoryID); err != nil {
		return err
	}
	if err := s.storage.UpdateEntry(ctx, e); err != nil {
		return err
	}
	s.notify(ctx, e.BoxID, amqp.EntryUpdated)
	return nil
}

func (s *LedgerService) DeleteEntry(ctx context.Context, id int64) error {
	existing, err := s.storage.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, existing.BoxID, amqp.EntryDeleted)
	return nil
}

func (s *LedgerService) ListEntriesForMonth(ctx context.Context, boxID int64, year, month int) ([]core.Entry, error) {
	if _, err := s.storage.GetBox(ctx, boxID); err != nil {
		return nil, err
	}
	return s.storage.ListEntriesForMonth(ctx, boxID, year, month)
}

// ---- recurrences ----

func (s *LedgerService) CreateRecurrence(ctx context.Context, rec core.Recurrence) (core.Recurrence, error) {
	if err := rec.Validate(); err != nil {
		return core.Recurrence{}, err
	}
	if _, err := s.storage.GetBox(ctx, rec.BoxID); err != nil {
		return core.Recurrence{}, err
	}
	if _, err := s.storage.GetCategory(ctx, rec.CategoryID); err != nil {
		return core.Recurrence{}, err
	}
	created, err := s.storage.CreateRecurrence(ctx, rec)
	if err != nil {
		return core.Recurrence{}, err
	}
	s.notify(ctx, created.BoxID, amqp.RecurrenceChanged)
	return created, nil
}

func (s *LedgerService) UpdateRecurrence(ctx context.Context, rec core.Recurrence) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateRecurrence(ctx, rec); err != nil {
		return err
	}
	s.notify(ctx, rec.BoxID, amqp.RecurrenceChanged)
	return nil
}

func (s *LedgerService) DeleteRecurrence(ctx context.Context, id int64) error {
	existing, err := s.storage.GetRecurrence(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteRecurrence(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, existing.BoxID, amqp.RecurrenceChanged)
	return nil
}

func (s *LedgerService) ListRecurrences(ctx context.Context, boxID int64) ([]core.Recurrence, error) {
	return s.storage.ListRecurrences(ctx, boxID)
}

// MaterializeMonth expands every recurrence of a box (all boxes when boxID
// is zero) for the given month and inserts the occurrences that do not
// exist yet. Re-running for the same month creates nothing new; existing
// rows are matched by (recurrence id, date), never by content.
func (s *LedgerService) MaterializeMonth(ctx context.Context, boxID int64, year, month int) (int, error) {
	recurrences, err := s.storage.ListRecurrences(ctx, boxID)
	if err != nil {
		return 0, fmt.Errorf("list recurrences: %w", err)
	}

	created := 0
	touched := map[int64]bool{}
	for _, rec := range recurrences {
		entries, err := ExpandMonth(rec, year, month)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to expand recurrence",
				"recurrence_id", rec.ID,
				"error", err)
			continue
		}
		for _, e := range entries {
			exists, err := s.storage.HasOccurrence(ctx, rec.ID, e.Date)
			if err != nil {
				return created, err
			}
			if exists {
				continue
			}
			if _, err := s.storage.CreateEntry(ctx, e); err != nil {
				return created, fmt.Errorf("materialize recurrence %d: %w", rec.ID, err)
			}
			created++
			touched[e.BoxID] = true
		}
	}
	for box := range touched {
		s.notify(ctx, box, amqp.EntryCreated)
	}
	slog.InfoContext(ctx, "Recurrence materialization complete",
		"year", year,
		"month", month,
		"templates", len(recurrences),
		"created", created)
	return created, nil
}

// ---- balances ----

func (s *LedgerService) SetOpeningBalance(ctx context.Context, ob core.OpeningBalance) error {
	if ob.Month < 1 || ob.Month > 12 {
		return &core.ValidationError{Field: "month", Msg: "must be between 1 and 12"}
	}
	if _, err := s.storage.GetBox(ctx, ob.BoxID); err != nil {
		return err
	}
	if err := s.storage.UpsertOpeningBalance(ctx, ob); err != nil {
		return err
	}
	s.notify(ctx, ob.BoxID, amqp.BalanceChanged)
	return nil
}

// ResolveOpeningBalance returns the opening balance for a box and month:
// the explicit stored value when present, otherwise the previous month's
// closing balance rolled forward from the nearest anchor, otherwise zero.
func (s *LedgerService) ResolveOpeningBalance(ctx context.Context, boxID int64, year, month int) (core.Money, error) {
	if explicit, found, err := s.storage.GetOpeningBalance(ctx, boxID, year, month); err != nil {
		return core.Money{}, err
	} else if found {
		return explicit, nil
	}

	// Anchor at the most recent explicit value before the target month,
	// else at zero in the month of the earliest entry.
	anchorYear, anchorMonth := year, month
	var balance core.Money
	if ob, found, err := s.storage.LatestOpeningBalanceBefore(ctx, boxID, year, month); err != nil {
		return core.Money{}, err
	} else if found {
		anchorYear, anchorMonth = ob.Year, ob.Month
		balance = ob.Amount
	} else {
		y, m, hasEntries, err := s.storage.EarliestEntryMonth(ctx, boxID)
		if err != nil {
			return core.Money{}, err
		}
		if !hasEntries || !monthBefore(y, m, year, month) {
			return core.Money{}, nil
		}
		anchorYear, anchorMonth = y, m
	}

	// Roll closing balances forward month by month up to the target.
	for y, m := anchorYear, anchorMonth; monthBefore(y, m, year, month); y, m = nextMonth(y, m) {
		net, err := s.storage.MonthNet(ctx, boxID, y, m)
		if err != nil {
			return core.Money{}, err
		}
		balance = core.Money{Cents: balance.Cents + net}
	}
	return balance, nil
}

// MonthStatement builds the reconciled monthly view for a box.
func (s *LedgerService) MonthStatement(ctx context.Context, boxID int64, year, month int) (Statement, error) {
	if _, err := s.storage.GetBox(ctx, boxID); err != nil {
		return Statement{}, err
	}
	opening, err := s.ResolveOpeningBalance(ctx, boxID, year, month)
	if err != nil {
		return Statement{}, err
	}
	entries, err := s.storage.ListEntriesForMonth(ctx, boxID, year, month)
	if err != nil {
		return Statement{}, err
	}
	return BuildStatement(opening, entries), nil
}

// ---- alerts ----

// Alerts evaluates due-date alerts for a box against the service's
// reference zone's current date.
func (s *LedgerService) Alerts(ctx context.Context, boxID int64) (AlertSnapshot, error) {
	return s.AlertsAt(ctx, boxID, s.Today())
}

// AlertsAt evaluates alerts against an explicit today, which keeps the
// evaluation testable and reproducible.
func (s *LedgerService) AlertsAt(ctx context.Context, boxID int64, today core.Date) (AlertSnapshot, error) {
	if _, err := s.storage.GetBox(ctx, boxID); err != nil {
		return AlertSnapshot{}, err
	}
	pending, err := s.storage.ListPendingEntries(ctx, boxID)
	if err != nil {
		return AlertSnapshot{}, err
	}
	return EvaluateAlerts(today, pending), nil
}

// ---- import ----

// CheckImport runs period detection and duplicate flagging for a
// spreadsheet against a box, without mutating anything.
func (s *LedgerService) CheckImport(ctx context.Context, boxID int64, ss sheets.Spreadsheet) (ReconciliationWarning, []Period, error) {
	if _, err := s.storage.GetBox(ctx, boxID); err != nil {
		return ReconciliationWarning{}, nil, err
	}
	return CheckImportPeriods(ctx, s.storage, boxID, ss, s.Today().Year())
}

// ImportEntries bulk-creates pre-parsed entries for a box. The whole batch
// is validated before any row is written; imports are strictly additive.
func (s *LedgerService) ImportEntries(ctx context.Context, boxID int64, entries []core.Entry) (int64, error) {
	if _, err := s.storage.GetBox(ctx, boxID); err != nil {
		return 0, err
	}
	for i := range entries {
		entries[i].BoxID = boxID
		if err := entries[i].Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	created, err := s.storage.CreateEntries(ctx, entries)
	if err != nil {
		return 0, err
	}
	s.notify(ctx, boxID, amqp.EntriesImported)
	return created, nil
}

// ---- dashboard ----

// Dashboard aggregates a date range by month bucket and category. A
// positive boxID restricts the report to one box.
func (s *LedgerService) Dashboard(ctx context.Context, boxID int64, from, to core.Date) (DashboardReport, error) {
	if to.Before(from) {
		return DashboardReport{}, &core.ValidationError{Field: "to", Msg: "must not be before from"}
	}
	entries, err := s.storage.ListEntriesInRange(ctx, boxID, from, to)
	if err != nil {
		return DashboardReport{}, err
	}
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		return DashboardReport{}, err
	}
	return BuildDashboard(entries, categories, from, to, boxID), nil
}

// ---- plumbing ----

func (s *LedgerService) notify(ctx context.Context, boxID int64, change amqp.ChangeKind) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishLedgerChanged(ctx, boxID, change); err != nil {
		// Notifications are best-effort; the mutation already succeeded.
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"box_id", boxID,
			"change", string(change),
			"error", err)
	}
}

func (s *LedgerService) Close() error {
	var errs []error
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}

func monthBefore(y1, m1, y2, m2 int) bool {
	return y1 < y2 || (y1 == y2 && m1 < m2)
}

func nextMonth(y, m int) (int, int) {
	m++
	if m > 12 {
		return y + 1, 1
	}
	return y, m
}
