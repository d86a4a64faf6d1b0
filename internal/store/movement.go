package store

import (
	"context"
	"database/sql"

	"github.com/gestiong/apiserver/types"
)

// MovementRepository reads the combined activity view over both ledger
// tables. It owns the only query that crosses gastos and ingresos.
type MovementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// ListRecent returns the user's most recent ledger activity, expenses and
// incomes combined, limited to the given number of rows.
func (r *MovementRepository) ListRecent(ctx context.Context, userID, limit int) ([]types.Movement, error) {
	const query = `
		SELECT tipo, valor, descripcion, fecha FROM (
			SELECT 'Ingreso' AS tipo, monto AS valor, descripcion, fecha, created_at
			FROM ingresos
			WHERE usuario_id = $1
			UNION ALL
			SELECT 'Gasto' AS tipo, valor, nombre AS descripcion, fecha, created_at
			FROM gastos
			WHERE usuario_id = $1
		) movimientos
		ORDER BY fecha DESC, created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := make([]types.Movement, 0, limit)
	for rows.Next() {
		var movement types.Movement
		if err := rows.Scan(
			&movement.Kind,
			&movement.Amount,
			&movement.Description,
			&movement.Date,
		); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, rows.Err()
}
