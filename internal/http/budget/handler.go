package budget

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kantong/internal/budget"
)

type Handler struct {
	svc *budget.Service

	// now supplies the reference time for progress evaluation.
	now func() time.Time
}

func NewHandler(svc *budget.Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Put("/", h.put)
	r.Get("/", h.list)
	r.Get("/progress", h.progress)
	r.Delete("/{id}", h.delete)
}

type putBudgetRequest struct {
	Category string `json:"category"`
	Limit    int64  `json:"limit"`
}

type budgetResponse struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Limit    int64     `json:"limit"`
}

type progressResponse struct {
	Category string        `json:"category"`
	Limit    int64         `json:"limit"`
	Spent    int64         `json:"spent"`
	Ratio    float64       `json:"ratio"`
	Status   budget.Status `json:"status"`
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	var req putBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.Put(r.Context(), req.Category, req.Limit)
	if err != nil {
		if errors.Is(err, budget.ErrInvalidLimit) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toBudgetResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	responses := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		responses = append(responses, toBudgetResponse(b))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(responses); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// progress evaluates every budget for a month. The month query parameter
// (YYYY-MM) defaults to the current month.
func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	ref := h.now()

	if s := r.URL.Query().Get("month"); s != "" {
		t, err := time.Parse("2006-01", s)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}

		ref = t
	}

	progress, err := h.svc.Progress(r.Context(), ref)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	responses := make([]progressResponse, 0, len(progress))
	for _, p := range progress {
		responses = append(responses, progressResponse{
			Category: p.Category,
			Limit:    p.Limit,
			Spent:    p.Spent,
			Ratio:    p.Ratio,
			Status:   p.Status,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(responses); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toBudgetResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:       b.ID,
		Category: b.Category,
		Limit:    b.Limit,
	}
}
