package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"kantong/internal/http/backup"
	"kantong/internal/http/budget"
	"kantong/internal/http/chat"
	"kantong/internal/http/stats"
	"kantong/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	budgetsV1 *budget.Handler,
	chatV1 *chat.Handler,
	backupV1 *backup.Handler,
	statsV1 *stats.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			budgetsV1.Routes(r)
		})

		r.Route("/chat", chatV1.Routes)

		r.Route("/backup", backupV1.Routes)

		r.Route("/stats", statsV1.Routes)
	})

	return router
}
