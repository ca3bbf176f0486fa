package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/gradecalc/internal/api"
	apiMiddleware "github.com/phrazzld/gradecalc/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	calculatorHandler := api.NewCalculatorHandler(app.calculator, app.tokenService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.Get("/health", calculatorHandler.Health)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Get("/grade-scale", calculatorHandler.GradeScale)
		r.Post("/gpa", calculatorHandler.EvaluateGPA)
		r.Post("/cgpa", calculatorHandler.EvaluateCGPA)
		r.Post("/sessions", calculatorHandler.CreateSession)

		// Session endpoints; the token must name the session in the path
		r.Route("/sessions/{"+apiMiddleware.SessionParam+"}", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/", calculatorHandler.GetSession)
			r.Delete("/", calculatorHandler.DeleteSession)

			r.Post("/subjects", calculatorHandler.AddSubject)
			r.Put("/subjects", calculatorHandler.ReplaceSubjects)
			r.Patch("/subjects/{"+api.RowParam+"}", calculatorHandler.UpdateSubject)
			r.Delete("/subjects/{"+api.RowParam+"}", calculatorHandler.RemoveSubject)

			r.Post("/terms", calculatorHandler.AddTerm)
			r.Put("/terms", calculatorHandler.ReplaceTerms)
			r.Patch("/terms/{"+api.RowParam+"}", calculatorHandler.UpdateTerm)
			r.Delete("/terms/{"+api.RowParam+"}", calculatorHandler.RemoveTerm)

			r.Post("/gpa/calculate", calculatorHandler.CalculateGPA)
			r.Post("/gpa/reset", calculatorHandler.ResetGPA)
			r.Post("/cgpa/calculate", calculatorHandler.CalculateCGPA)
			r.Post("/cgpa/reset", calculatorHandler.ResetCGPA)

			r.Get("/export", calculatorHandler.Export)
		})
	})

	return r
}
