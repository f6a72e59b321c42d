// ============================================================================
// internal/api/routes.go
// Chi router wiring: middleware, CORS, route table
// ============================================================================

package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/akashverma712/shiksha-setu-backend/internal/academics"
	"github.com/akashverma712/shiksha-setu-backend/internal/api/handlers"
	"github.com/akashverma712/shiksha-setu-backend/internal/auth"
	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
	"github.com/akashverma712/shiksha-setu-backend/internal/students"
)

// Services bundles the service layer for route wiring.
type Services struct {
	Auth      *auth.Service
	Academics *academics.Service
	Students  *students.Service
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(cfg *shared.Config, services *Services) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS Configuration (Allow React Frontend)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Service: services.Auth}
	marksHandler := &handlers.MarksHandler{Service: services.Academics}
	studentHandler := &handlers.StudentHandler{Service: services.Students}

	requireAuth := handlers.AuthMiddleware(services.Auth)
	staffOnly := handlers.RequireStaff()
	adminOnly := handlers.RequireRoles(shared.RoleAdmin)

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---

		// Auth: bootstrap and logins
		r.Post("/auth/admin/register", authHandler.RegisterAdmin)
		r.Post("/auth/admin/login", authHandler.AdminLogin)
		r.Post("/auth/teacher/login", authHandler.TeacherLogin)
		r.Post("/auth/student/send-otp", authHandler.SendOTP)
		r.Post("/auth/student/verify-otp", authHandler.VerifyOTP)
		r.Post("/auth/logout", authHandler.Logout)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/validate", authHandler.ValidateToken)

			// Registration (Admin Only)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/auth/teacher/register", authHandler.RegisterTeacher)
				r.Post("/auth/student/register", authHandler.RegisterStudent)
			})

			// Academic Records (Staff Only)
			r.Group(func(r chi.Router) {
				r.Use(staffOnly)
				r.Post("/marks/upload", marksHandler.UploadMarks)
				r.Patch("/students/{id}/attendance", marksHandler.UpdateAttendance)
				r.Patch("/students/{id}/warning", marksHandler.SetWarning)

				r.Get("/students", studentHandler.ListStudents)
				r.Get("/students/risk", studentHandler.ListAtRisk)
				r.Get("/students/risk/summary", studentHandler.RiskSummary)
			})

			// Student Directory
			r.With(handlers.RequireRoles(shared.RoleStudent)).Get("/students/me", studentHandler.GetMe)
			r.Get("/students/{id}", studentHandler.GetStudent)
		})
	})

	return r
}
