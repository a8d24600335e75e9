package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/payroll-onboarding/internal/config"
	"github.com/cmlabs-hris/payroll-onboarding/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-onboarding/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const appVersion = "v1.0.0"

// NewLogger builds the process logger: JSON in ECS field names, tagged with
// the app, version and environment.
func NewLogger(app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-onboarding"),
		slog.String("version", appVersion),
		slog.String("env", app.Env),
	)
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func allowedOrigins(frontendURL string) []string {
	var origins []string
	for _, origin := range strings.Split(frontendURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func NewRouter(
	cfg config.AppConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	compensationHandler CompensationHandler,
	onboardingHandler OnboardingHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.FrontendURL),
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
		r.Use(middleware.RequireCompany)

		r.Route("/component-types", func(r chi.Router) {
			r.Get("/", compensationHandler.ListComponentTypes)
			r.Post("/compute", compensationHandler.Compute)
		})

		r.Post("/employees/{employeeId}/components/{category}", compensationHandler.AssignToEmployee)

		r.Route("/onboarding/sessions", func(r chi.Router) {
			r.Post("/", onboardingHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", onboardingHandler.Get)
				r.Delete("/", onboardingHandler.Abandon)

				r.Patch("/fields", onboardingHandler.UpdateFields)
				r.Post("/continue", onboardingHandler.Continue)
				r.Post("/back", onboardingHandler.Back)
				r.Post("/jump", onboardingHandler.Jump)
				r.Post("/submit", onboardingHandler.Submit)
				r.Post("/reconcile", onboardingHandler.Reconcile)

				r.Put("/payment-method", onboardingHandler.SelectPaymentMethod)
				r.Route("/payment-modal", func(r chi.Router) {
					r.Patch("/", onboardingHandler.UpdatePaymentModal)
					r.Post("/save", onboardingHandler.SavePaymentModal)
					r.Post("/cancel", onboardingHandler.CancelPaymentModal)
				})

				r.Route("/ledgers/{category}", func(r chi.Router) {
					r.Get("/", onboardingHandler.GetLedger)
					r.Route("/pending", func(r chi.Router) {
						r.Post("/", onboardingHandler.BeginAdd)
						r.Patch("/", onboardingHandler.UpdatePending)
						r.Delete("/", onboardingHandler.DiscardPending)
						r.Post("/commit", onboardingHandler.CommitPending)
					})
					r.Route("/entries/{entryId}", func(r chi.Router) {
						r.Post("/pending", onboardingHandler.BeginEdit)
						r.Delete("/", onboardingHandler.RemoveEntry)
					})
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
