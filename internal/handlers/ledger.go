package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gestiong/apiserver/internal/services"
	"github.com/gestiong/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// LedgerHandler exposes the user-scoped ledger over HTTP. Every route runs
// behind the auth middleware; the user id always comes from the request
// context, never from the payload.
type LedgerHandler struct {
	ledgerService *services.LedgerService
}

// NewLedgerHandler constructs a handler with the provided service.
func NewLedgerHandler(ledgerService *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// LedgerRouter registers ledger routes on the given router.
func LedgerRouter(r chi.Router, ledgerService *services.LedgerService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewLedgerHandler(ledgerService)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/guardar-gasto", handler.SaveExpense)
		r.Get("/obtener-gastos", handler.ListExpenses)
		r.Delete("/eliminar-gasto/{id}", handler.DeleteExpense)
		r.Delete("/eliminar-historial", handler.DeleteHistory)
		r.Post("/guardar-ingreso", handler.SaveIncome)
		r.Get("/obtener-ingresos", handler.ListIncomes)
		r.Get("/calcular-saldo", handler.Balance)
		r.Get("/estadisticas", handler.Statistics)
	})
}

type SaveExpenseRequest struct {
	Name     string       `json:"nombre"`
	Amount   *types.Money `json:"valor"`
	Priority string       `json:"prioridad"`
	Date     *types.Date  `json:"fecha"`
}

func (h *LedgerHandler) SaveExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	var req SaveExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "falta el valor")
		return
	}
	if req.Date == nil {
		writeError(w, http.StatusBadRequest, "falta la fecha")
		return
	}

	priority, err := types.ParsePriority(req.Priority)
	if err != nil {
		writeError(w, http.StatusBadRequest, "prioridad inválida")
		return
	}

	if _, err := h.ledgerService.AddExpense(r.Context(), userID, req.Name, *req.Amount, priority, *req.Date); err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, StatusResponse{Status: "success", Message: "Gasto guardado"})
}

func (h *LedgerHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	expenses, err := h.ledgerService.ListExpenses(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudieron obtener los gastos")
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

type DeleteExpenseResponse struct {
	Status  string `json:"status"`
	Removed bool   `json:"eliminado"`
}

// DeleteExpense removes one owned expense. A miss (absent or foreign-owned
// id) is still success-shaped with eliminado=false, distinguishable from a
// store failure.
func (h *LedgerHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	expenseID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || expenseID < 1 {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	removed, err := h.ledgerService.DeleteExpense(r.Context(), userID, expenseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo eliminar el gasto")
		return
	}

	writeJSON(w, http.StatusOK, DeleteExpenseResponse{Status: "success", Removed: removed})
}

type DeleteHistoryResponse struct {
	Status  string `json:"status"`
	Removed int    `json:"eliminados"`
}

func (h *LedgerHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	removed, err := h.ledgerService.DeleteAllExpenses(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo eliminar el historial")
		return
	}

	writeJSON(w, http.StatusOK, DeleteHistoryResponse{Status: "success", Removed: removed})
}

type SaveIncomeRequest struct {
	Amount      *types.Money `json:"monto"`
	Units       int          `json:"clases"`
	Description string       `json:"descripcion"`
	Date        *types.Date  `json:"fecha"`
}

func (h *LedgerHandler) SaveIncome(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	var req SaveIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "falta el monto")
		return
	}

	var date types.Date
	if req.Date != nil {
		date = *req.Date
	}

	if _, err := h.ledgerService.AddIncome(r.Context(), userID, *req.Amount, req.Units, req.Description, date); err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, StatusResponse{Status: "success", Message: "Ingreso guardado"})
}

func (h *LedgerHandler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	incomes, err := h.ledgerService.ListIncomes(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudieron obtener los ingresos")
		return
	}

	writeJSON(w, http.StatusOK, incomes)
}

type BalanceResponse struct {
	Status       string      `json:"status"`
	Net          types.Money `json:"saldo"`
	TotalIncome  types.Money `json:"total_ingresos"`
	TotalExpense types.Money `json:"total_gastos"`
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	balance, err := h.ledgerService.Balance(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo calcular el saldo")
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{
		Status:       "success",
		Net:          balance.Net,
		TotalIncome:  balance.TotalIncome,
		TotalExpense: balance.TotalExpense,
	})
}

type KindSummary struct {
	Total types.Money `json:"total"`
	Count int         `json:"cantidad"`
}

type StatisticsResponse struct {
	Status        string              `json:"status"`
	Incomes       KindSummary         `json:"ingresos"`
	Expenses      KindSummary         `json:"gastos"`
	Net           types.Money         `json:"saldo"`
	ByPriority    []types.PrioritySum `json:"gastos_por_prioridad"`
	LastMovements []types.Movement    `json:"ultimos_movimientos"`
}

func (h *LedgerHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	stats, err := h.ledgerService.Statistics(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudieron obtener las estadísticas")
		return
	}

	writeJSON(w, http.StatusOK, StatisticsResponse{
		Status:        "success",
		Incomes:       KindSummary{Total: stats.IncomeTotal, Count: stats.IncomeCount},
		Expenses:      KindSummary{Total: stats.ExpenseTotal, Count: stats.ExpenseCount},
		Net:           stats.IncomeTotal.Sub(stats.ExpenseTotal),
		ByPriority:    stats.ByPriority,
		LastMovements: stats.LastMovements,
	})
}

func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "falta el nombre")
	case errors.Is(err, types.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "valor inválido")
	case errors.Is(err, types.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "fecha inválida")
	case errors.Is(err, types.ErrInvalidPriority):
		writeError(w, http.StatusBadRequest, "prioridad inválida")
	default:
		writeError(w, http.StatusInternalServerError, "error de base de datos")
	}
}
