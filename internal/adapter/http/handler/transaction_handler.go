package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerdash/internal/adapter/http/dto"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.TransactionView, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]domain.TransactionView, error)
	UpdateTransaction(ctx context.Context, id string, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	txnUC TransactionService
	loc   *time.Location
}

// NewTransactionHandler creates a new TransactionHandler. Calendar dates in
// requests are read in loc; nil means time.Local.
func NewTransactionHandler(txnUC TransactionService, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TransactionHandler{txnUC: txnUC, loc: loc}
}

// Create records a transaction and applies its balance effect.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	txn, err := h.txnUC.CreateTransaction(r.Context(), input)
	if err != nil {
		handleError(w, r, err, "failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction joined with its account and category.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.txnUC.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionViewFromDomain(*view))
}

// List lists transactions. Supported filters: account_id, category_id, type,
// from and to. A calendar-date "to" includes the whole day.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := usecase.ListTransactionsInput{
		AccountID:  q.Get("account_id"),
		CategoryID: q.Get("category_id"),
		Type:       domain.TransactionType(q.Get("type")),
	}

	if input.Type != "" && !input.Type.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid transaction type", string(input.Type))
		return
	}

	if from := q.Get("from"); from != "" {
		t, err := dto.ParseDate(from, h.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
			return
		}
		input.From = t
	}

	if to := q.Get("to"); to != "" {
		t, err := dto.ParseDate(to, h.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
			return
		}
		if len(to) == len(dto.DateLayout) {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		input.To = t
	}

	views, err := h.txnUC.ListTransactions(r.Context(), input)
	if err != nil {
		handleError(w, r, err, "failed to list transactions")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionViewsFromDomain(views))
}

// Update reverses the old balance effect, merges the changes and applies the new one.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	txn, err := h.txnUC.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		handleError(w, r, err, "failed to update transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a transaction and reverses its balance effect.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.txnUC.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
