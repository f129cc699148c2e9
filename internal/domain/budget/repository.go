package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a fund, item or movement does not exist.
var ErrNotFound = errors.New("budget: not found")

// DB is the subset of pgxpool.Pool the repository needs. pgx.Tx and
// pgxmock pools satisfy it too, which is what lets InTx reuse every
// query method inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository persists funds, budget items and movements.
type Repository struct {
	db DB
}

// NewRepository creates a new budget repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// InTx runs fn against a store bound to a single transaction, committing
// on success and rolling back on error. All writes for one voice command
// go through here so a fund is never left half-updated, and two commands
// racing to provision the same category serialize on the fund row.
func (r *Repository) InTx(ctx context.Context, fn func(tx Store) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Repository{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetFund loads a shared fund by id.
func (r *Repository) GetFund(ctx context.Context, fundID uuid.UUID) (*SharedFund, error) {
	query := `
		SELECT id, name, balance, monthly_burn_rate, total_savings,
		       partner_name, partner_contribution, currency, created_at
		FROM shared_funds
		WHERE id = $1`

	var f SharedFund
	err := r.db.QueryRow(ctx, query, fundID).Scan(
		&f.ID, &f.Name, &f.Balance, &f.MonthlyBurnRate, &f.TotalSavings,
		&f.PartnerName, &f.PartnerContribution, &f.Currency, &f.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get fund: %w", err)
	}
	return &f, nil
}

// ListFundIDs returns every fund id, used by the nightly refresh job.
func (r *Repository) ListFundIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM shared_funds ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list fund ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan fund id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AdjustBalance applies a signed delta to the fund balance. Savings are
// setup data and never move with transactions.
func (r *Repository) AdjustBalance(ctx context.Context, fundID uuid.UUID, delta int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shared_funds SET balance = balance + $2 WHERE id = $1`, fundID, delta)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBalance overwrites the fund balance, used by the calibration command.
func (r *Repository) SetBalance(ctx context.Context, fundID uuid.UUID, balance int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shared_funds SET balance = $2 WHERE id = $1`, fundID, balance)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPartnerInfo stores the partner's name and monthly contribution.
func (r *Repository) SetPartnerInfo(ctx context.Context, fundID uuid.UUID, name string, contribution int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shared_funds SET partner_name = $2, partner_contribution = $3 WHERE id = $1`,
		fundID, name, contribution)
	if err != nil {
		return fmt.Errorf("set partner info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBurnRate stores the recomputed monthly burn rate on the fund.
func (r *Repository) SetBurnRate(ctx context.Context, fundID uuid.UUID, rate int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE shared_funds SET monthly_burn_rate = $2 WHERE id = $1`, fundID, rate)
	if err != nil {
		return fmt.Errorf("set burn rate: %w", err)
	}
	return nil
}

// ListItems loads every budget item for a fund in creation order.
func (r *Repository) ListItems(ctx context.Context, fundID uuid.UUID) ([]BudgetItem, error) {
	query := `
		SELECT id, fund_id, name, amount, type, is_automated,
		       installments, current_installment, installment_start, created_at
		FROM budget_items
		WHERE fund_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []BudgetItem
	for rows.Next() {
		var it BudgetItem
		if err := rows.Scan(
			&it.ID, &it.FundID, &it.Name, &it.Amount, &it.Type, &it.IsAutomated,
			&it.Installments, &it.CurrentInstallment, &it.InstallmentStart, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateItem inserts a budget item and fills in its generated id.
func (r *Repository) CreateItem(ctx context.Context, item *BudgetItem) error {
	query := `
		INSERT INTO budget_items
			(fund_id, name, amount, type, is_automated,
			 installments, current_installment, installment_start)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		item.FundID, item.Name, item.Amount, item.Type, item.IsAutomated,
		item.Installments, item.CurrentInstallment, item.InstallmentStart,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// UpdateItemAmount overwrites a budget item's monthly amount.
func (r *Repository) UpdateItemAmount(ctx context.Context, itemID uuid.UUID, amount int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE budget_items SET amount = $2 WHERE id = $1`, itemID, amount)
	if err != nil {
		return fmt.Errorf("update item amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateItem overwrites a budget item's mutable fields, used by the
// voice budget-upsert flow.
func (r *Repository) UpdateItem(ctx context.Context, itemID uuid.UUID, name string, amount int64, itemType ItemType, installments int, start *time.Time) error {
	query := `
		UPDATE budget_items
		SET name = $2, amount = $3, type = $4, installments = $5, installment_start = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, itemID, name, amount, itemType, installments, start)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCurrentInstallment advances an installment plan's counter.
func (r *Repository) SetCurrentInstallment(ctx context.Context, itemID uuid.UUID, current int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE budget_items SET current_installment = $2 WHERE id = $1`, itemID, current)
	if err != nil {
		return fmt.Errorf("set current installment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMovement inserts a movement and fills in its generated id.
func (r *Repository) CreateMovement(ctx context.Context, m *Movement) error {
	query := `
		INSERT INTO movements
			(fund_id, type, description, amount, installments, category, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		m.FundID, m.Type, m.Description, m.Amount, m.Installments, m.Category, m.Date,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetMovement loads a single movement by id.
func (r *Repository) GetMovement(ctx context.Context, movementID uuid.UUID) (*Movement, error) {
	query := `
		SELECT id, fund_id, type, description, amount, installments, category, date
		FROM movements
		WHERE id = $1`

	var m Movement
	err := r.db.QueryRow(ctx, query, movementID).Scan(
		&m.ID, &m.FundID, &m.Type, &m.Description, &m.Amount,
		&m.Installments, &m.Category, &m.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// LastMovement returns the most recent movement on a fund, if any.
func (r *Repository) LastMovement(ctx context.Context, fundID uuid.UUID) (*Movement, error) {
	query := `
		SELECT id, fund_id, type, description, amount, installments, category, date
		FROM movements
		WHERE fund_id = $1
		ORDER BY date DESC, id DESC
		LIMIT 1`

	var m Movement
	err := r.db.QueryRow(ctx, query, fundID).Scan(
		&m.ID, &m.FundID, &m.Type, &m.Description, &m.Amount,
		&m.Installments, &m.Category, &m.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("last movement: %w", err)
	}
	return &m, nil
}

// ListMovementsSince returns a fund's movements dated on or after the
// cutoff, oldest first.
func (r *Repository) ListMovementsSince(ctx context.Context, fundID uuid.UUID, since time.Time) ([]Movement, error) {
	query := `
		SELECT id, fund_id, type, description, amount, installments, category, date
		FROM movements
		WHERE fund_id = $1 AND date >= $2
		ORDER BY date`

	rows, err := r.db.Query(ctx, query, fundID, since)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(
			&m.ID, &m.FundID, &m.Type, &m.Description, &m.Amount,
			&m.Installments, &m.Category, &m.Date,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMovement removes a movement record.
func (r *Repository) DeleteMovement(ctx context.Context, movementID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM movements WHERE id = $1`, movementID)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
