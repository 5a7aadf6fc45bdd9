package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/qaunion/portal/database"
	"github.com/qaunion/portal/handlers"
	auth_handlers "github.com/qaunion/portal/handlers/auth"
	dashboard_handlers "github.com/qaunion/portal/handlers/dashboard"
	public_handlers "github.com/qaunion/portal/handlers/public"
	university_handlers "github.com/qaunion/portal/handlers/university"
	"github.com/qaunion/portal/services"
	"github.com/qaunion/portal/services/backend"
	"github.com/qaunion/portal/services/cron"
	"github.com/qaunion/portal/utils"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/response"
	"github.com/qaunion/portal/utils/sessions"
	"github.com/qaunion/portal/views"
)

// Dependencies are the services the routes are built from
type Dependencies struct {
	Store                database.KeyValue
	Backend              *backend.Client
	Sessions             *sessions.Manager
	Auth                 *middleware.AuthMiddleware
	BruteForceProtection *middleware.BruteForceProtection
	Universities         *services.UniversityService
	Logos                *services.LogoService
	Lookups              *services.LookupService
	Dashboards           *services.DashboardService
	Mailer               *services.EmailService
	// Cron may be nil when scheduled jobs are disabled
	Cron *cron.CronManager
}

// SetupRoutes registers static assets, the JSON API and the localized pages.
// The locale group matches any first segment, so it goes last.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	authHandler := auth_handlers.NewAuthHandler(deps.Backend, deps.Lookups, deps.Sessions, deps.BruteForceProtection, deps.Dashboards)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(deps.Dashboards)
	universityHandler := university_handlers.NewUniversityHandler(deps.Universities, deps.Logos)
	publicHandler := public_handlers.NewPublicHandler(deps.Mailer)

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   views.Static(),
		MaxAge: 86400,
	}))

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, deps.Store))

	// API v1 group (session cookie required)
	api := app.Group("/api/v1", deps.Auth.RequireSession())

	universities := api.Group("/universities")
	universities.Get("/", universityHandler.ListUniversities)
	universities.Post("/", universityHandler.CreateUniversity)
	universities.Get("/export", universityHandler.ExportUniversities)
	universities.Post("/import", universityHandler.ImportUniversities)
	universities.Get("/:id", universityHandler.GetUniversity)
	universities.Put("/:id", universityHandler.UpdateUniversity)
	universities.Delete("/:id", universityHandler.DeleteUniversity)

	api.Get("/jobs", func(c *fiber.Ctx) error {
		if deps.Cron == nil {
			return response.Success(c, []interface{}{})
		}
		logs, err := deps.Cron.JobLogs(c.UserContext())
		if err != nil {
			return response.InternalServerError(c, "Failed to load job history")
		}
		return response.Success(c, logs)
	})

	app.Get("/", publicHandler.RedirectRoot)

	loc := app.Group("/:locale", middleware.Locale())
	loc.Get("/", publicHandler.Home)
	loc.Post("/contact", publicHandler.Contact)

	loc.Get("/login", authHandler.LoginPage)
	loc.Post("/login", authHandler.Login)
	loc.Post("/logout", authHandler.Logout)
	loc.Get("/signup", authHandler.SignupPage)
	loc.Post("/signup", authHandler.Signup)
	loc.Get("/signup/options/:kind", authHandler.Options)

	dash := loc.Group("/dashboard", deps.Auth.RequireSession())
	dash.Get("/", dashboardHandler.Home)

	uni := dash.Group("/universities")
	uni.Get("/", universityHandler.Index)
	uni.Get("/create", universityHandler.New)
	uni.Post("/create", universityHandler.Create)
	uni.Get("/edit/:id", universityHandler.Edit)
	uni.Post("/edit/:id", universityHandler.Update)
	uni.Get("/delete/:id", universityHandler.ConfirmDelete)
	uni.Post("/delete/:id", universityHandler.Delete)
	uni.Get("/print", universityHandler.Print)
	uni.Get("/export", universityHandler.Export)
	uni.Get("/template", universityHandler.Template)
	uni.Post("/import", universityHandler.Import)

	// every other sidebar link
	dash.Get("/*", dashboardHandler.Placeholder)
}
