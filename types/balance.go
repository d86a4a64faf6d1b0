package types

// Balance is the derived net of a user's ledger. It is computed on demand
// and never stored.
type Balance struct {
	// TotalIncome is the sum of all income amounts for the scope.
	TotalIncome Money `json:"total_ingresos"`

	// TotalExpense is the sum of all expense amounts for the scope.
	TotalExpense Money `json:"total_gastos"`

	// Net is TotalIncome minus TotalExpense.
	Net Money `json:"saldo"`
}

// PrioritySum is an aggregated expense total for one priority tier.
type PrioritySum struct {
	Priority Priority `json:"prioridad"`
	Total    Money    `json:"total"`
}

// Movement is one row of the combined recent-activity feed, covering both
// expenses and incomes.
type Movement struct {
	Kind        string `json:"tipo"`
	Amount      Money  `json:"valor"`
	Description string `json:"descripcion"`
	Date        Date   `json:"fecha"`
}

// Statistics is the detailed aggregate view over one user's ledger.
type Statistics struct {
	IncomeTotal   Money         `json:"-"`
	IncomeCount   int           `json:"-"`
	ExpenseTotal  Money         `json:"-"`
	ExpenseCount  int           `json:"-"`
	ByPriority    []PrioritySum `json:"gastos_por_prioridad"`
	LastMovements []Movement    `json:"ultimos_movimientos"`
}
