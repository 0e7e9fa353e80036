package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedBox(t *testing.T, repo *SQLiteRepository, name string) core.Box {
	t.Helper()
	box, err := repo.CreateBox(context.Background(), core.Box{Name: name})
	require.NoError(t, err)
	return box
}

func seedEntry(t *testing.T, repo *SQLiteRepository, boxID, catID int64, typ core.EntryType, cents int64, date core.Date) core.Entry {
	t.Helper()
	e, err := repo.CreateEntry(context.Background(), core.Entry{
		BoxID:       boxID,
		CategoryID:  catID,
		Description: "seed",
		Type:        typ,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Status:      core.Settled,
	})
	require.NoError(t, err)
	return e
}

func firstCategoryID(t *testing.T, repo *SQLiteRepository) int64 {
	t.Helper()
	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, categories)
	return categories[0].ID
}

func TestMigrationsSeedPresetCategories(t *testing.T) {
	repo := newTestRepo(t)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 6)
	for _, c := range categories {
		assert.True(t, c.Preset, "seeded category %s must be preset", c.Name)
	}
}

func TestBoxCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa Principal")
	assert.NotZero(t, box.ID)

	got, err := repo.GetBox(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caixa Principal", got.Name)

	require.NoError(t, repo.RenameBox(ctx, box.ID, "Caixa Loja"))
	got, err = repo.GetBox(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caixa Loja", got.Name)

	require.NoError(t, repo.DeleteBox(ctx, box.ID))
	_, err = repo.GetBox(ctx, box.ID)
	var notFound *core.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "box", notFound.Resource)
}

func TestDeleteBoxCascade(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Temporaria")
	catID := firstCategoryID(t, repo)
	seedEntry(t, repo, box.ID, catID, core.Income, 1000, core.NewDate(2025, 1, 10))
	require.NoError(t, repo.UpsertOpeningBalance(ctx, core.OpeningBalance{
		BoxID: box.ID, Year: 2025, Month: 1, Amount: core.Money{Cents: 500},
	}))

	require.NoError(t, repo.DeleteBoxCascade(ctx, box.ID))

	_, err := repo.GetBox(ctx, box.ID)
	assert.Error(t, err)
	entries, recurrences, err := repo.CountBoxDependents(ctx, box.ID)
	require.NoError(t, err)
	assert.Zero(t, entries)
	assert.Zero(t, recurrences)
}

func TestPresetCategoryCannotBeDeleted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	catID := firstCategoryID(t, repo)
	err := repo.DeleteCategory(ctx, catID)
	var notFound *core.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// Still there.
	_, err = repo.GetCategory(ctx, catID)
	assert.NoError(t, err)
}

func TestCustomCategoryLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateCategory(ctx, core.Category{Name: "Marketing"})
	require.NoError(t, err)
	assert.False(t, created.Preset)

	found, ok, err := repo.FindCategoryByName(ctx, "Marketing")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, found.ID)

	require.NoError(t, repo.RenameCategory(ctx, created.ID, "Publicidade"))
	require.NoError(t, repo.DeleteCategory(ctx, created.ID))

	_, ok, err = repo.FindCategoryByName(ctx, "Publicidade")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListEntriesForMonthOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa")
	catID := firstCategoryID(t, repo)

	// Inserted out of date order; same-day rows must come back in insert order.
	e1 := seedEntry(t, repo, box.ID, catID, core.Income, 100, core.NewDate(2025, 3, 20))
	e2 := seedEntry(t, repo, box.ID, catID, core.Income, 200, core.NewDate(2025, 3, 5))
	e3 := seedEntry(t, repo, box.ID, catID, core.Expense, 300, core.NewDate(2025, 3, 5))
	seedEntry(t, repo, box.ID, catID, core.Income, 400, core.NewDate(2025, 4, 1)) // next month

	entries, err := repo.ListEntriesForMonth(ctx, box.ID, 2025, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int64{e2.ID, e3.ID, e1.ID}, []int64{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestListEntriesInRangeBoxFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box1 := seedBox(t, repo, "A")
	box2 := seedBox(t, repo, "B")
	catID := firstCategoryID(t, repo)
	seedEntry(t, repo, box1.ID, catID, core.Income, 100, core.NewDate(2025, 1, 10))
	seedEntry(t, repo, box2.ID, catID, core.Income, 200, core.NewDate(2025, 1, 11))

	all, err := repo.ListEntriesInRange(ctx, 0, core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyBox1, err := repo.ListEntriesInRange(ctx, box1.ID, core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31))
	require.NoError(t, err)
	require.Len(t, onlyBox1, 1)
	assert.Equal(t, box1.ID, onlyBox1[0].BoxID)
}

func TestHasOccurrence(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa")
	catID := firstCategoryID(t, repo)
	rec, err := repo.CreateRecurrence(ctx, core.Recurrence{
		BoxID:       box.ID,
		CategoryID:  catID,
		Description: "Aluguel",
		Type:        core.Expense,
		Amount:      core.Money{Cents: 150000},
		Frequency:   core.Monthly,
		DayOfMonth:  10,
		StartDate:   core.NewDate(2025, 1, 10),
	})
	require.NoError(t, err)

	date := core.NewDate(2025, 2, 10)
	exists, err := repo.HasOccurrence(ctx, rec.ID, date)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.CreateEntry(ctx, core.Entry{
		BoxID:        box.ID,
		CategoryID:   catID,
		Description:  "Aluguel",
		Type:         core.Expense,
		Amount:       core.Money{Cents: 150000},
		Date:         date,
		Status:       core.Pending,
		RecurrenceID: rec.ID,
	})
	require.NoError(t, err)

	exists, err = repo.HasOccurrence(ctx, rec.ID, date)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRecurrenceRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa")
	catID := firstCategoryID(t, repo)

	openEnded, err := repo.CreateRecurrence(ctx, core.Recurrence{
		BoxID:       box.ID,
		CategoryID:  catID,
		Description: "Mensalidade",
		Type:        core.Income,
		Amount:      core.Money{Cents: 9900},
		Frequency:   core.Monthly,
		DayOfMonth:  1,
		StartDate:   core.NewDate(2025, 1, 1),
	})
	require.NoError(t, err)

	got, err := repo.GetRecurrence(ctx, openEnded.ID)
	require.NoError(t, err)
	assert.True(t, got.EndDate.IsZero(), "open-ended recurrence must come back with zero end date")

	installment, err := repo.CreateRecurrence(ctx, core.Recurrence{
		BoxID:       box.ID,
		CategoryID:  catID,
		Description: "Notebook",
		Type:        core.Expense,
		Amount:      core.Money{Cents: 50000},
		Frequency:   core.Monthly,
		DayOfMonth:  15,
		StartDate:   core.NewDate(2025, 1, 15),
		EndDate:     core.NewDate(2025, 6, 15),
		Installment: true,
	})
	require.NoError(t, err)

	got, err = repo.GetRecurrence(ctx, installment.ID)
	require.NoError(t, err)
	assert.True(t, got.Installment)
	assert.Equal(t, "2025-06-15", got.EndDate.String())

	list, err := repo.ListRecurrences(ctx, box.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMonthNet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa")
	catID := firstCategoryID(t, repo)
	seedEntry(t, repo, box.ID, catID, core.Income, 100000, core.NewDate(2025, 2, 5))
	seedEntry(t, repo, box.ID, catID, core.Expense, 30000, core.NewDate(2025, 2, 20))
	seedEntry(t, repo, box.ID, catID, core.Expense, 99999, core.NewDate(2025, 3, 1)) // other month

	net, err := repo.MonthNet(ctx, box.ID, 2025, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), net)

	empty, err := repo.MonthNet(ctx, box.ID, 2025, 1)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestEarliestEntryMonth(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa")
	catID := firstCategoryID(t, repo)

	_, _, found, err := repo.EarliestEntryMonth(ctx, box.ID)
	require.NoError(t, err)
	assert.False(t, found)

	seedEntry(t, repo, box.ID, catID, core.Income, 100, core.NewDate(2025, 6, 15))
	seedEntry(t, repo, box.ID, catID, core.Income, 100, core.NewDate(2025, 2, 28))

	year, month, found, err := repo.EarliestEntryMonth(ctx, box.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 2, month)
}

func TestOpeningBalanceUpsertAndAnchor(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa")
	require.NoError(t, repo.UpsertOpeningBalance(ctx, core.OpeningBalance{
		BoxID: box.ID, Year: 2025, Month: 1, Amount: core.Money{Cents: 1000},
	}))
	// Upsert overwrites.
	require.NoError(t, repo.UpsertOpeningBalance(ctx, core.OpeningBalance{
		BoxID: box.ID, Year: 2025, Month: 1, Amount: core.Money{Cents: 2000},
	}))
	require.NoError(t, repo.UpsertOpeningBalance(ctx, core.OpeningBalance{
		BoxID: box.ID, Year: 2024, Month: 11, Amount: core.Money{Cents: -500},
	}))

	amount, found, err := repo.GetOpeningBalance(ctx, box.ID, 2025, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2000), amount.Cents)

	_, found, err = repo.GetOpeningBalance(ctx, box.ID, 2025, 6)
	require.NoError(t, err)
	assert.False(t, found)

	anchor, found, err := repo.LatestOpeningBalanceBefore(ctx, box.ID, 2025, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2024, anchor.Year)
	assert.Equal(t, 11, anchor.Month)
	assert.Equal(t, int64(-500), anchor.Amount.Cents)

	anchor, found, err = repo.LatestOpeningBalanceBefore(ctx, box.ID, 2025, 6)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2025, anchor.Year)
	assert.Equal(t, 1, anchor.Month)
}

func TestCreateEntriesBatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa")
	catID := firstCategoryID(t, repo)

	batch := []core.Entry{
		{BoxID: box.ID, CategoryID: catID, Description: "a", Type: core.Income, Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 1, 1), Status: core.Pending},
		{BoxID: box.ID, CategoryID: catID, Description: "b", Type: core.Expense, Amount: core.Money{Cents: 200}, Date: core.NewDate(2025, 1, 2), Status: core.Pending},
	}
	created, err := repo.CreateEntries(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), created)

	count, err := repo.CountEntriesForMonth(ctx, box.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListPendingEntries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	box := seedBox(t, repo, "Caixa")
	catID := firstCategoryID(t, repo)
	seedEntry(t, repo, box.ID, catID, core.Income, 100, core.NewDate(2025, 1, 5)) // settled

	pending, err := repo.CreateEntry(ctx, core.Entry{
		BoxID:       box.ID,
		CategoryID:  catID,
		Description: "boleto",
		Type:        core.Expense,
		Amount:      core.Money{Cents: 5000},
		Date:        core.NewDate(2025, 1, 10),
		Status:      core.Pending,
	})
	require.NoError(t, err)

	got, err := repo.ListPendingEntries(ctx, box.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
}
