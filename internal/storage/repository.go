package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists boxes, categories, entries, recurrences and
// opening balances. Entry dates are stored as ISO YYYY-MM-DD text so
// lexicographic range scans match chronological order.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ---- boxes ----

func (r *SQLiteRepository) CreateBox(ctx context.Context, b core.Box) (core.Box, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO boxes (name) VALUES (?)`, b.Name)
	if err != nil {
		return core.Box{}, fmt.Errorf("create box: %w", err)
	}
	b.ID, _ = res.LastInsertId()
	slog.InfoContext(ctx, "Box created", "id", b.ID, "name", b.Name)
	return b, nil
}

func (r *SQLiteRepository) GetBox(ctx context.Context, id int64) (core.Box, error) {
	var b core.Box
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM boxes WHERE id = ?`, id).
		Scan(&b.ID, &b.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Box{}, &core.NotFoundError{Resource: "box", ID: id}
	}
	if err != nil {
		return core.Box{}, fmt.Errorf("get box: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBoxes(ctx context.Context) ([]core.Box, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM boxes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list boxes: %w", err)
	}
	defer rows.Close()
	var out []core.Box
	for rows.Next() {
		var b core.Box
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scan box: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) RenameBox(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE boxes SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename box: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "box", ID: id}
	}
	return nil
}

// CountBoxDependents returns how many entries and recurrences still
// reference the box. The service uses this to enforce the delete policy.
func (r *SQLiteRepository) CountBoxDependents(ctx context.Context, id int64) (entries, recurrences int64, err error) {
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE box_id = ?`, id).Scan(&entries)
	if err != nil {
		return 0, 0, fmt.Errorf("count box entries: %w", err)
	}
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recurrences WHERE box_id = ?`, id).Scan(&recurrences)
	if err != nil {
		return 0, 0, fmt.Errorf("count box recurrences: %w", err)
	}
	return entries, recurrences, nil
}

func (r *SQLiteRepository) DeleteBox(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boxes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete box: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "box", ID: id}
	}
	slog.InfoContext(ctx, "Box deleted", "id", id)
	return nil
}

// DeleteBoxCascade removes the box together with everything it owns, in one
// transaction.
func (r *SQLiteRepository) DeleteBoxCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM entries WHERE box_id = ?`,
		`DELETE FROM recurrences WHERE box_id = ?`,
		`DELETE FROM opening_balances WHERE box_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("cascade delete box %d: %w", id, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM boxes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("cascade delete box %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "box", ID: id}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cascade delete: %w", err)
	}
	slog.InfoContext(ctx, "Box deleted with dependents", "id", id)
	return nil
}

// ---- categories ----

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO categories (name, preset) VALUES (?, 0)`, c.Name)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID, _ = res.LastInsertId()
	c.Preset = false
	slog.InfoContext(ctx, "Category created", "id", c.ID, "name", c.Name)
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name, preset FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Preset)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, &core.NotFoundError{Resource: "category", ID: id}
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, preset FROM categories ORDER BY preset DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Preset); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) FindCategoryByName(ctx context.Context, name string) (core.Category, bool, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name, preset FROM categories WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &c.Preset)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, false, nil
	}
	if err != nil {
		return core.Category{}, false, fmt.Errorf("find category by name: %w", err)
	}
	return c, true, nil
}

func (r *SQLiteRepository) RenameCategory(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "category", ID: id}
	}
	return nil
}

func (r *SQLiteRepository) CountCategoryDependents(ctx context.Context, id int64) (entries, recurrences int64, err error) {
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE category_id = ?`, id).Scan(&entries)
	if err != nil {
		return 0, 0, fmt.Errorf("count category entries: %w", err)
	}
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recurrences WHERE category_id = ?`, id).Scan(&recurrences)
	if err != nil {
		return 0, 0, fmt.Errorf("count category recurrences: %w", err)
	}
	return entries, recurrences, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND preset = 0`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "category", ID: id}
	}
	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

// ---- entries ----

const entryColumns = `id, box_id, category_id, description, type, amount_cents, entry_date, status, COALESCE(recurrence_id, 0)`

func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	var recurrenceID any
	if e.RecurrenceID > 0 {
		recurrenceID = e.RecurrenceID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (box_id, category_id, description, type, amount_cents, entry_date, status, recurrence_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.BoxID, e.CategoryID, e.Description, string(e.Type), e.Amount.Cents, e.Date.String(), string(e.Status), recurrenceID)
	if err != nil {
		return core.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"box_id", e.BoxID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())
	return e, nil
}

// CreateEntries inserts a batch of entries in one transaction, so a bulk
// import is never partially applied.
func (r *SQLiteRepository) CreateEntries(ctx context.Context, entries []core.Entry) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (box_id, category_id, description, type, amount_cents, entry_date, status, recurrence_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	var created int64
	for _, e := range entries {
		var recurrenceID any
		if e.RecurrenceID > 0 {
			recurrenceID = e.RecurrenceID
		}
		if _, err := stmt.ExecContext(ctx,
			e.BoxID, e.CategoryID, e.Description, string(e.Type), e.Amount.Cents,
			e.Date.String(), string(e.Status), recurrenceID); err != nil {
			return 0, fmt.Errorf("import entry %q: %w", e.Description, err)
		}
		created++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	slog.InfoContext(ctx, "Entries imported", "count", created)
	return created, nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, &core.NotFoundError{Resource: "entry", ID: id}
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateEntry(ctx context.Context, e core.Entry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET category_id = ?, description = ?, type = ?, amount_cents = ?, entry_date = ?, status = ?
		 WHERE id = ?`,
		e.CategoryID, e.Description, string(e.Type), e.Amount.Cents, e.Date.String(), string(e.Status), e.ID)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "entry", ID: e.ID}
	}
	return nil
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "entry", ID: id}
	}
	slog.InfoContext(ctx, "Entry deleted", "id", id)
	return nil
}

// ListEntriesForMonth returns a box's entries for one month ordered by date
// with insertion order breaking ties, the order the balance calculator
// relies on.
func (r *SQLiteRepository) ListEntriesForMonth(ctx context.Context, boxID int64, year, month int) ([]core.Entry, error) {
	lo, hi := monthBounds(year, month)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE box_id = ? AND entry_date >= ? AND entry_date < ?
		 ORDER BY entry_date, id`,
		boxID, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("list entries for month: %w", err)
	}
	return collectEntries(rows)
}

// ListEntriesInRange returns entries dated within [from, to]. A positive
// boxID restricts the result to one box.
func (r *SQLiteRepository) ListEntriesInRange(ctx context.Context, boxID int64, from, to core.Date) ([]core.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE entry_date >= ? AND entry_date <= ?`
	args := []any{from.String(), to.String()}
	if boxID > 0 {
		query += ` AND box_id = ?`
		args = append(args, boxID)
	}
	query += ` ORDER BY entry_date, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries in range: %w", err)
	}
	return collectEntries(rows)
}

func (r *SQLiteRepository) CountEntriesForMonth(ctx context.Context, boxID int64, year, month int) (int64, error) {
	lo, hi := monthBounds(year, month)
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE box_id = ? AND entry_date >= ? AND entry_date < ?`,
		boxID, lo, hi).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count entries for month: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) ListPendingEntries(ctx context.Context, boxID int64) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE box_id = ? AND status = 'pending'
		 ORDER BY entry_date, id`,
		boxID)
	if err != nil {
		return nil, fmt.Errorf("list pending entries: %w", err)
	}
	return collectEntries(rows)
}

// HasOccurrence reports whether an entry materialized from the recurrence
// already exists on the given date. This is the expansion idempotency key.
func (r *SQLiteRepository) HasOccurrence(ctx context.Context, recurrenceID int64, date core.Date) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM entries WHERE recurrence_id = ? AND entry_date = ? LIMIT 1`,
		recurrenceID, date.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check occurrence: %w", err)
	}
	return true, nil
}

// MonthNet returns income minus expense for a box and month, in cents.
func (r *SQLiteRepository) MonthNet(ctx context.Context, boxID int64, year, month int) (int64, error) {
	lo, hi := monthBounds(year, month)
	var net int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE -amount_cents END), 0)
		 FROM entries WHERE box_id = ? AND entry_date >= ? AND entry_date < ?`,
		boxID, lo, hi).Scan(&net)
	if err != nil {
		return 0, fmt.Errorf("month net: %w", err)
	}
	return net, nil
}

// EarliestEntryMonth returns the first month with any entry for the box.
func (r *SQLiteRepository) EarliestEntryMonth(ctx context.Context, boxID int64) (year, month int, found bool, err error) {
	var date sql.NullString
	err = r.db.QueryRowContext(ctx,
		`SELECT MIN(entry_date) FROM entries WHERE box_id = ?`, boxID).Scan(&date)
	if err != nil {
		return 0, 0, false, fmt.Errorf("earliest entry month: %w", err)
	}
	if !date.Valid || date.String == "" {
		return 0, 0, false, nil
	}
	d, perr := core.ParseDate(date.String)
	if perr != nil {
		return 0, 0, false, fmt.Errorf("earliest entry month: bad date %q", date.String)
	}
	return d.Year(), d.Month(), true, nil
}

// ---- recurrences ----

const recurrenceColumns = `id, box_id, category_id, description, type, amount_cents, frequency, day_of_month, start_date, COALESCE(end_date, ''), installment`

func (r *SQLiteRepository) CreateRecurrence(ctx context.Context, rec core.Recurrence) (core.Recurrence, error) {
	var endDate any
	if !rec.EndDate.IsZero() {
		endDate = rec.EndDate.String()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurrences (box_id, category_id, description, type, amount_cents, frequency, day_of_month, start_date, end_date, installment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.BoxID, rec.CategoryID, rec.Description, string(rec.Type), rec.Amount.Cents,
		string(rec.Frequency), rec.DayOfMonth, rec.StartDate.String(), endDate, rec.Installment)
	if err != nil {
		return core.Recurrence{}, fmt.Errorf("create recurrence: %w", err)
	}
	rec.ID, _ = res.LastInsertId()
	slog.InfoContext(ctx, "Recurrence created",
		"id", rec.ID,
		"box_id", rec.BoxID,
		"description", rec.Description,
		"frequency", string(rec.Frequency))
	return rec, nil
}

func (r *SQLiteRepository) GetRecurrence(ctx context.Context, id int64) (core.Recurrence, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recurrenceColumns+` FROM recurrences WHERE id = ?`, id)
	rec, err := scanRecurrence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Recurrence{}, &core.NotFoundError{Resource: "recurrence", ID: id}
	}
	if err != nil {
		return core.Recurrence{}, fmt.Errorf("get recurrence: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) UpdateRecurrence(ctx context.Context, rec core.Recurrence) error {
	var endDate any
	if !rec.EndDate.IsZero() {
		endDate = rec.EndDate.String()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurrences SET category_id = ?, description = ?, type = ?, amount_cents = ?, frequency = ?, day_of_month = ?, start_date = ?, end_date = ?, installment = ?
		 WHERE id = ?`,
		rec.CategoryID, rec.Description, string(rec.Type), rec.Amount.Cents,
		string(rec.Frequency), rec.DayOfMonth, rec.StartDate.String(), endDate, rec.Installment, rec.ID)
	if err != nil {
		return fmt.Errorf("update recurrence: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "recurrence", ID: rec.ID}
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurrence(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurrences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurrence: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "recurrence", ID: id}
	}
	slog.InfoContext(ctx, "Recurrence deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListRecurrences(ctx context.Context, boxID int64) ([]core.Recurrence, error) {
	query := `SELECT ` + recurrenceColumns + ` FROM recurrences`
	var args []any
	if boxID > 0 {
		query += ` WHERE box_id = ?`
		args = append(args, boxID)
	}
	query += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurrences: %w", err)
	}
	defer rows.Close()
	var out []core.Recurrence
	for rows.Next() {
		rec, err := scanRecurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurrence: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ---- opening balances ----

func (r *SQLiteRepository) UpsertOpeningBalance(ctx context.Context, ob core.OpeningBalance) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO opening_balances (box_id, year, month, amount_cents) VALUES (?, ?, ?, ?)
		 ON CONFLICT (box_id, year, month) DO UPDATE SET amount_cents = excluded.amount_cents`,
		ob.BoxID, ob.Year, ob.Month, ob.Amount.Cents)
	if err != nil {
		return fmt.Errorf("upsert opening balance: %w", err)
	}
	slog.InfoContext(ctx, "Opening balance set",
		"box_id", ob.BoxID,
		"year", ob.Year,
		"month", ob.Month,
		"amount_cents", ob.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) GetOpeningBalance(ctx context.Context, boxID int64, year, month int) (core.Money, bool, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT amount_cents FROM opening_balances WHERE box_id = ? AND year = ? AND month = ?`,
		boxID, year, month).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, false, nil
	}
	if err != nil {
		return core.Money{}, false, fmt.Errorf("get opening balance: %w", err)
	}
	return core.Money{Cents: cents}, true, nil
}

// LatestOpeningBalanceBefore returns the most recent explicit opening
// balance strictly before (year, month), the rollover anchor.
func (r *SQLiteRepository) LatestOpeningBalanceBefore(ctx context.Context, boxID int64, year, month int) (core.OpeningBalance, bool, error) {
	var ob core.OpeningBalance
	err := r.db.QueryRowContext(ctx,
		`SELECT box_id, year, month, amount_cents FROM opening_balances
		 WHERE box_id = ? AND (year < ? OR (year = ? AND month < ?))
		 ORDER BY year DESC, month DESC LIMIT 1`,
		boxID, year, year, month).Scan(&ob.BoxID, &ob.Year, &ob.Month, &ob.Amount.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.OpeningBalance{}, false, nil
	}
	if err != nil {
		return core.OpeningBalance{}, false, fmt.Errorf("latest opening balance: %w", err)
	}
	return ob, true, nil
}

// ---- helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e    core.Entry
		typ  string
		date string
		st   string
	)
	err := row.Scan(&e.ID, &e.BoxID, &e.CategoryID, &e.Description, &typ, &e.Amount.Cents, &date, &st, &e.RecurrenceID)
	if err != nil {
		return core.Entry{}, err
	}
	e.Type = core.EntryType(typ)
	e.Status = core.EntryStatus(st)
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry %d: bad date %q", e.ID, date)
	}
	e.Date = d
	return e, nil
}

func scanRecurrence(row rowScanner) (core.Recurrence, error) {
	var (
		rec   core.Recurrence
		typ   string
		freq  string
		start string
		end   string
	)
	err := row.Scan(&rec.ID, &rec.BoxID, &rec.CategoryID, &rec.Description, &typ, &rec.Amount.Cents,
		&freq, &rec.DayOfMonth, &start, &end, &rec.Installment)
	if err != nil {
		return core.Recurrence{}, err
	}
	rec.Type = core.EntryType(typ)
	rec.Frequency = core.Frequency(freq)
	d, err := core.ParseDate(start)
	if err != nil {
		return core.Recurrence{}, fmt.Errorf("recurrence %d: bad start date %q", rec.ID, start)
	}
	rec.StartDate = d
	if end != "" {
		d, err := core.ParseDate(end)
		if err != nil {
			return core.Recurrence{}, fmt.Errorf("recurrence %d: bad end date %q", rec.ID, end)
		}
		rec.EndDate = d
	}
	return rec, nil
}

func collectEntries(rows *sql.Rows) ([]core.Entry, error) {
	defer rows.Close()
	var out []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// monthBounds returns the ISO date range [first of month, first of next).
func monthBounds(year, month int) (lo, hi string) {
	lo = core.NewDate(year, month, 1).String()
	hi = core.NewDate(year, month, 1).AddDays(core.LastDayOfMonth(year, month)).String()
	return lo, hi
}
