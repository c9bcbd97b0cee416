package http

import (
	"net/http"

	"github.com/atinyakov/dirac/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter constructs and returns an HTTP handler that serves the
// account and history API.
//
// Routes:
//
//	POST /users/signup   -> accountHandler.SignUp (aliases: /users/register, /users)
//	GET  /users/signin   -> accountHandler.SignIn (alias: /users/login)
//	POST /users/checkout -> historyHandler.Checkout
//	GET  /users/history  -> historyHandler.History
//
// Middleware chain (applied in order):
//  1. cors.Handler: any origin may call the API
//  2. WithRequestLogging(logger): request id and access log
//  3. Recoverer: turns panics into 500
//  4. AllowContentType("application/json"): rejects non-JSON bodies
func NewRouter(
	accountHandler *AccountHandler,
	historyHandler *HistoryHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	}))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", accountHandler.SignUp)
		r.Post("/signup", accountHandler.SignUp)
		r.Post("/register", accountHandler.SignUp)
		r.Get("/signin", accountHandler.SignIn)
		r.Get("/login", accountHandler.SignIn)

		r.Post("/checkout", historyHandler.Checkout)
		r.Get("/history", historyHandler.History)
	})

	return r
}
