package backup

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kantong/internal/backup"
)

type Handler struct {
	svc *backup.Service
	now func() time.Time
}

func NewHandler(svc *backup.Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.export)
	r.Post("/import", h.importBackup)
}

// export serves the full backup document as a file download under the
// conventional dated filename.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	doc, err := h.svc.Export(r.Context(), now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", backup.Filename(now)))

	if _, err := w.Write(doc); err != nil {
		slog.Error("failed to write backup export", "error", err)
	}
}

// importBackup restores from an uploaded backup file, replacing the current
// transaction collection. An invalid document rejects before any mutation.
func (h *Handler) importBackup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := h.svc.Import(r.Context(), file); err != nil {
		if errors.Is(err, backup.ErrInvalidFormat) {
			http.Error(w, "invalid backup file", http.StatusBadRequest)
			return
		}

		http.Error(w, "restore failed", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
