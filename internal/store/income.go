package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gestiong/apiserver/types"
)

// IncomeRepository handles persistence for ledger incomes. Incomes are
// append-only: there is deliberately no delete statement here.
type IncomeRepository struct {
	db *sql.DB
}

func NewIncomeRepository(db *sql.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) Create(ctx context.Context, income types.Income) (types.Income, error) {
	income.CreatedAt = time.Now()

	const query = `
		INSERT INTO ingresos (usuario_id, monto, clases, descripcion, fecha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		income.UserID,
		income.Amount,
		income.Units,
		income.Description,
		income.Date,
		income.CreatedAt,
	).Scan(&income.ID); err != nil {
		return types.Income{}, err
	}
	return income, nil
}

// ListByUser returns the user's incomes, newest date first, ties broken by
// descending id.
func (r *IncomeRepository) ListByUser(ctx context.Context, userID int) ([]types.Income, error) {
	const query = `
		SELECT id, usuario_id, monto, clases, descripcion, fecha, created_at
		FROM ingresos
		WHERE usuario_id = $1
		ORDER BY fecha DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := make([]types.Income, 0)
	for rows.Next() {
		var income types.Income
		if err := rows.Scan(
			&income.ID,
			&income.UserID,
			&income.Amount,
			&income.Units,
			&income.Description,
			&income.Date,
			&income.CreatedAt,
		); err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// SumByUser totals the user's income amounts. Zero when the ledger is empty.
func (r *IncomeRepository) SumByUser(ctx context.Context, userID int) (types.Money, error) {
	const query = `SELECT COALESCE(SUM(monto), 0) FROM ingresos WHERE usuario_id = $1`
	var total types.Money
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return types.Money{}, err
	}
	return total, nil
}

// CountByUser returns the number of income rows for the user.
func (r *IncomeRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	const query = `SELECT COUNT(1) FROM ingresos WHERE usuario_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
