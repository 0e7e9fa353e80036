package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
	"github.com/jackson973/projeto-indicadores-sub001/internal/storage"
)

func newTestService(t *testing.T) *LedgerService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	svc := NewLedgerService(repo, nil, time.UTC)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func setupBoxAndCategory(t *testing.T, svc *LedgerService) (core.Box, int64) {
	t.Helper()
	ctx := context.Background()
	box, err := svc.CreateBox(ctx, "Caixa")
	if err != nil {
		t.Fatal(err)
	}
	categories, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return box, categories[0].ID
}

func mustCreateEntry(t *testing.T, svc *LedgerService, boxID, catID int64, typ core.EntryType, cents int64, date core.Date) {
	t.Helper()
	_, err := svc.CreateEntry(context.Background(), core.Entry{
		BoxID:       boxID,
		CategoryID:  catID,
		Description: "mov",
		Type:        typ,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Status:      core.Settled,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestResolveOpeningBalanceExplicitWins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	box, catID := setupBoxAndCategory(t, svc)

	mustCreateEntry(t, svc, box.ID, catID, core.Income, 99999, core.NewDate(2025, 1, 10))
	if err := svc.SetOpeningBalance(ctx, core.OpeningBalance{
		BoxID: box.ID, Year: 2025, Month: 2, Amount: core.Money{Cents: 4200},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.ResolveOpeningBalance(ctx, box.ID, 2025, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cents != 4200 {
		t.Errorf("opening = %d, want explicit 4200", got.Cents)
	}
}

func TestResolveOpeningBalanceRollsForwardFromAnchor(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	box, catID := setupBoxAndCategory(t, svc)

	if err := svc.SetOpeningBalance(ctx, core.OpeningBalance{
		BoxID: box.ID, Year: 2025, Month: 1, Amount: core.Money{Cents: 10000},
	}); err != nil {
		t.Fatal(err)
	}
	mustCreateEntry(t, svc, box.ID, catID, core.Income, 5000, core.NewDate(2025, 1, 10))
	mustCreateEntry(t, svc, box.ID, catID, core.Expense, 2000, core.NewDate(2025, 2, 10))

	// March = 10000 + (jan net 5000) + (feb net -2000).
	got, err := svc.ResolveOpeningBalance(ctx, box.ID, 2025, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cents != 13000 {
		t.Errorf("opening = %d, want 13000", got.Cents)
	}
}

func TestResolveOpeningBalanceWithoutAnchorStartsAtZero(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	box, catID := setupBoxAndCategory(t, svc)

	mustCreateEntry(t, svc, box.ID, catID, core.Income, 7000, core.NewDate(2025, 4, 10))

	got, err := svc.ResolveOpeningBalance(ctx, box.ID, 2025, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cents != 7000 {
		t.Errorf("opening = %d, want 7000 rolled from first entry month", got.Cents)
	}

	// Months at or before the first entry open at zero.
	got, err = svc.ResolveOpeningBalance(ctx, box.ID, 2025, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cents != 0 {
		t.Errorf("opening = %d, want 0", got.Cents)
	}
}

func TestMonthStatementClosingMatchesNextOpening(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	box, catID := setupBoxAndCategory(t, svc)

	if err := svc.SetOpeningBalance(ctx, core.OpeningBalance{
		BoxID: box.ID, Year: 2025, Month: 1, Amount: core.Money{Cents: 1000},
	}); err != nil {
		t.Fatal(err)
	}
	mustCreateEntry(t, svc, box.ID, catID, core.Income, 500, core.NewDate(2025, 1, 15))

	st, err := svc.MonthStatement(ctx, box.ID, 2025, 1)
	if err != nil {
		t.Fatal(err)
	}
	nextOpening, err := svc.ResolveOpeningBalance(ctx, box.ID, 2025, 2)
	if err != nil {
		t.Fatal(err)
	}
	if st.Closing.Cents != nextOpening.Cents {
		t.Errorf("january closing %d != february opening %d", st.Closing.Cents, nextOpening.Cents)
	}
}

func TestMaterializeMonthIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	box, catID := setupBoxAndCategory(t, svc)

	if _, err := svc.CreateRecurrence(ctx, core.Recurrence{
		BoxID:       box.ID,
		CategoryID:  catID,
		Description: "Aluguel",
		Type:        core.Expense,
		Amount:      core.Money{Cents: 150000},
		Frequency:   core.Monthly,
		DayOfMonth:  31,
		StartDate:   core.NewDate(2025, 1, 1),
	}); err != nil {
		t.Fatal(err)
	}

	created, err := svc.MaterializeMonth(ctx, box.ID, 2025, 2)
	if err != nil {
		t.Fatal(err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	entries, err := svc.ListEntriesForMonth(ctx, box.ID, 2025, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Date.String() != "2025-02-28" {
		t.Errorf("entries = %+v, want one clamped to 2025-02-28", entries)
	}

	again, err := svc.MaterializeMonth(ctx, box.ID, 2025, 2)
	if err != nil {
		t.Fatal(err)
	}
	if again != 0 {
		t.Errorf("second run created %d, want 0", again)
	}
}

func TestDeleteBoxPolicies(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	box, catID := setupBoxAndCategory(t, svc)
	mustCreateEntry(t, svc, box.ID, catID, core.Income, 100, core.NewDate(2025, 1, 5))

	err := svc.DeleteBox(ctx, box.ID, false)
	var conflict *core.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("delete with dependents error = %v, want conflict", err)
	}

	if err := svc.DeleteBox(ctx, box.ID, true); err != nil {
		t.Fatalf("cascade delete error = %v", err)
	}
	if _, err := svc.ListEntriesForMonth(ctx, box.ID, 2025, 1); err == nil {
		t.Error("box should be gone after cascade delete")
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "Marketing"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreateCategory(ctx, "Marketing")
	var conflict *core.ConflictError
	if !errors.As(err, &conflict) {
		t.Errorf("duplicate name error = %v, want conflict", err)
	}
}

func TestImportEntriesValidatesWholeBatchFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	box, catID := setupBoxAndCategory(t, svc)

	batch := []core.Entry{
		{CategoryID: catID, Description: "ok", Type: core.Income, Amount: core.Money{Cents: 100}, Date: core.NewDate(2026, 1, 5), Status: core.Pending},
		{CategoryID: catID, Description: "", Type: core.Income, Amount: core.Money{Cents: 100}, Date: core.NewDate(2026, 1, 6), Status: core.Pending},
	}
	if _, err := svc.ImportEntries(ctx, box.ID, batch); err == nil {
		t.Fatal("expected validation error for the bad row")
	}

	// Nothing was written.
	entries, err := svc.ListEntriesForMonth(ctx, box.ID, 2026, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0 after failed batch", len(entries))
	}
}
