package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kantong/internal/advisor"
	"kantong/internal/chat"
)

type Handler struct {
	svc *advisor.Service
}

func NewHandler(svc *advisor.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.send)
	r.Get("/", h.history)
	r.Delete("/", h.clear)
}

type sendRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	ID        uuid.UUID `json:"id"`
	Role      chat.Role `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// send runs one advisory turn and streams the reply to the client as plain
// text, flushed delta by delta. A client abandoning the response cancels the
// completion call via the request context; the user's message stays
// persisted regardless.
func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		http.Error(w, "advisor is not configured", http.StatusServiceUnavailable)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message must not be empty", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	flusher, _ := w.(http.Flusher)

	onDelta := func(delta string) {
		if _, err := w.Write([]byte(delta)); err != nil {
			return
		}

		if flusher != nil {
			flusher.Flush()
		}
	}

	if _, err := h.svc.Advise(r.Context(), req.Message, onDelta); err != nil {
		slog.Error("advisory turn failed", "error", err)
		// Headers are already sent once streaming begins; the truncated body
		// is the failure signal in that case.
		http.Error(w, "advisory call failed", http.StatusBadGateway)

		return
	}
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		http.Error(w, "advisor is not configured", http.StatusServiceUnavailable)
		return
	}

	msgs, err := h.svc.History(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	responses := make([]messageResponse, 0, len(msgs))
	for _, msg := range msgs {
		responses = append(responses, messageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(responses); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		http.Error(w, "advisor is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := h.svc.Reset(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
