package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gestiong/apiserver/types"
)

const movementLimit = 5

// ErrEmptyName is returned when an expense is created without a label.
var ErrEmptyName = errors.New("empty name")

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense types.Expense) (types.Expense, error)
	ListByUser(ctx context.Context, userID int) ([]types.Expense, error)
	Delete(ctx context.Context, userID, expenseID int) (bool, error)
	DeleteAll(ctx context.Context, userID int) (int, error)
	SumByUser(ctx context.Context, userID int) (types.Money, error)
	CountByUser(ctx context.Context, userID int) (int, error)
	SumByPriority(ctx context.Context, userID int) ([]types.PrioritySum, error)
	ListDueBy(ctx context.Context, userID int, due types.Date) ([]types.Expense, error)
}

// IncomeRepository defines persistence operations for incomes.
type IncomeRepository interface {
	Create(ctx context.Context, income types.Income) (types.Income, error)
	ListByUser(ctx context.Context, userID int) ([]types.Income, error)
	SumByUser(ctx context.Context, userID int) (types.Money, error)
	CountByUser(ctx context.Context, userID int) (int, error)
}

// MovementRepository reads the combined recent-activity view.
type MovementRepository interface {
	ListRecent(ctx context.Context, userID, limit int) ([]types.Movement, error)
}

// LedgerService encapsulates the user-scoped ledger use-cases: validated
// writes, scoped reads and deletes, and on-demand balance aggregation.
type LedgerService struct {
	expenses  ExpenseRepository
	incomes   IncomeRepository
	movements MovementRepository
}

func NewLedgerService(expenses ExpenseRepository, incomes IncomeRepository, movements MovementRepository) *LedgerService {
	return &LedgerService{expenses: expenses, incomes: incomes, movements: movements}
}

// AddExpense validates and records an expense for the user. The priority
// defaults to Media; the amount must be present and non-negative.
func (s *LedgerService) AddExpense(ctx context.Context, userID int, name string, amount types.Money, priority types.Priority, date types.Date) (types.Expense, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Expense{}, ErrEmptyName
	}
	if amount.IsNegative() {
		return types.Expense{}, types.ErrInvalidAmount
	}
	if priority == "" {
		priority = types.PriorityMedium
	}
	if date.IsZero() {
		return types.Expense{}, types.ErrInvalidDate
	}

	return s.expenses.Create(ctx, types.Expense{
		UserID:   userID,
		Name:     name,
		Amount:   amount,
		Priority: priority,
		Date:     date,
	})
}

// AddIncome validates and records an income for the user. Description is
// optional; a zero date defaults to today.
func (s *LedgerService) AddIncome(ctx context.Context, userID int, amount types.Money, units int, description string, date types.Date) (types.Income, error) {
	if amount.IsNegative() {
		return types.Income{}, types.ErrInvalidAmount
	}
	if units < 0 {
		units = 0
	}
	if date.IsZero() {
		date = types.Today()
	}

	return s.incomes.Create(ctx, types.Income{
		UserID:      userID,
		Amount:      amount,
		Units:       units,
		Description: strings.TrimSpace(description),
		Date:        date,
	})
}

// ListExpenses returns the user's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, userID int) ([]types.Expense, error) {
	return s.expenses.ListByUser(ctx, userID)
}

// ListIncomes returns the user's incomes, newest first.
func (s *LedgerService) ListIncomes(ctx context.Context, userID int) ([]types.Income, error) {
	return s.incomes.ListByUser(ctx, userID)
}

// DeleteExpense removes one expense if it belongs to the user. The bool
// reports whether anything was removed; a miss is not an error.
func (s *LedgerService) DeleteExpense(ctx context.Context, userID, expenseID int) (bool, error) {
	return s.expenses.Delete(ctx, userID, expenseID)
}

// DeleteAllExpenses clears the user's expense history and reports the count.
func (s *LedgerService) DeleteAllExpenses(ctx context.Context, userID int) (int, error) {
	return s.expenses.DeleteAll(ctx, userID)
}

// Balance computes the user's net position from the ledger as stored.
// Totals are summed in the database and kept as exact cents.
func (s *LedgerService) Balance(ctx context.Context, userID int) (types.Balance, error) {
	totalIncome, err := s.incomes.SumByUser(ctx, userID)
	if err != nil {
		return types.Balance{}, err
	}
	totalExpense, err := s.expenses.SumByUser(ctx, userID)
	if err != nil {
		return types.Balance{}, err
	}
	return types.Balance{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Net:          totalIncome.Sub(totalExpense),
	}, nil
}

// Statistics assembles the detailed aggregate view: totals and counts per
// kind, expense totals per priority, and the latest movements of both kinds.
func (s *LedgerService) Statistics(ctx context.Context, userID int) (types.Statistics, error) {
	var stats types.Statistics
	var err error

	if stats.IncomeTotal, err = s.incomes.SumByUser(ctx, userID); err != nil {
		return types.Statistics{}, err
	}
	if stats.IncomeCount, err = s.incomes.CountByUser(ctx, userID); err != nil {
		return types.Statistics{}, err
	}
	if stats.ExpenseTotal, err = s.expenses.SumByUser(ctx, userID); err != nil {
		return types.Statistics{}, err
	}
	if stats.ExpenseCount, err = s.expenses.CountByUser(ctx, userID); err != nil {
		return types.Statistics{}, err
	}
	if stats.ByPriority, err = s.expenses.SumByPriority(ctx, userID); err != nil {
		return types.Statistics{}, err
	}
	if stats.LastMovements, err = s.movements.ListRecent(ctx, userID, movementLimit); err != nil {
		return types.Statistics{}, err
	}
	return stats, nil
}

// DueExpenses returns the user's expenses due within the look-ahead window.
func (s *LedgerService) DueExpenses(ctx context.Context, userID int, due types.Date) ([]types.Expense, error) {
	return s.expenses.ListDueBy(ctx, userID, due)
}
