package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gestiong/apiserver/types"
)

// ExpenseRepository handles persistence for ledger expenses. Every statement
// is scoped by usuario_id; no query can cross user boundaries.
type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense types.Expense) (types.Expense, error) {
	expense.CreatedAt = time.Now()

	const query = `
		INSERT INTO gastos (usuario_id, nombre, valor, prioridad, fecha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		expense.UserID,
		expense.Name,
		expense.Amount,
		expense.Priority,
		expense.Date,
		expense.CreatedAt,
	).Scan(&expense.ID); err != nil {
		return types.Expense{}, err
	}
	return expense, nil
}

// ListByUser returns the user's expenses, newest date first, ties broken by
// descending id.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int) ([]types.Expense, error) {
	const query = `
		SELECT id, usuario_id, nombre, valor, prioridad, fecha, created_at
		FROM gastos
		WHERE usuario_id = $1
		ORDER BY fecha DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]types.Expense, 0)
	for rows.Next() {
		var expense types.Expense
		if err := rows.Scan(
			&expense.ID,
			&expense.UserID,
			&expense.Name,
			&expense.Amount,
			&expense.Priority,
			&expense.Date,
			&expense.CreatedAt,
		); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Delete removes one expense if it belongs to the user. A miss is not an
// error: the bool reports whether a row was removed.
func (r *ExpenseRepository) Delete(ctx context.Context, userID, expenseID int) (bool, error) {
	const query = `DELETE FROM gastos WHERE id = $1 AND usuario_id = $2`
	result, err := r.db.ExecContext(ctx, query, expenseID, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteAll removes every expense owned by the user and reports the count.
func (r *ExpenseRepository) DeleteAll(ctx context.Context, userID int) (int, error) {
	const query = `DELETE FROM gastos WHERE usuario_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// SumByUser totals the user's expense amounts. Zero when the ledger is empty.
func (r *ExpenseRepository) SumByUser(ctx context.Context, userID int) (types.Money, error) {
	const query = `SELECT COALESCE(SUM(valor), 0) FROM gastos WHERE usuario_id = $1`
	var total types.Money
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return types.Money{}, err
	}
	return total, nil
}

// CountByUser returns the number of expense rows for the user.
func (r *ExpenseRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	const query = `SELECT COUNT(1) FROM gastos WHERE usuario_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SumByPriority totals the user's expenses grouped by priority tier.
func (r *ExpenseRepository) SumByPriority(ctx context.Context, userID int) ([]types.PrioritySum, error) {
	const query = `
		SELECT prioridad, SUM(valor)
		FROM gastos
		WHERE usuario_id = $1
		GROUP BY prioridad
		ORDER BY prioridad`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make([]types.PrioritySum, 0)
	for rows.Next() {
		var sum types.PrioritySum
		if err := rows.Scan(&sum.Priority, &sum.Total); err != nil {
			return nil, err
		}
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

// ListDueBy returns the user's expenses with a due date up to and including
// the given day, oldest first. Used by the reminder job, read-only.
func (r *ExpenseRepository) ListDueBy(ctx context.Context, userID int, due types.Date) ([]types.Expense, error) {
	const query = `
		SELECT id, usuario_id, nombre, valor, prioridad, fecha, created_at
		FROM gastos
		WHERE usuario_id = $1 AND fecha <= $2
		ORDER BY fecha, id`
	rows, err := r.db.QueryContext(ctx, query, userID, due)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]types.Expense, 0)
	for rows.Next() {
		var expense types.Expense
		if err := rows.Scan(
			&expense.ID,
			&expense.UserID,
			&expense.Name,
			&expense.Amount,
			&expense.Priority,
			&expense.Date,
			&expense.CreatedAt,
		); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}
