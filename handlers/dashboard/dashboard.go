package dashboard

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/handlers"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/services"
	"github.com/qaunion/portal/utils/middleware"
)

// Loader serves the per-session dashboard snapshot
type Loader interface {
	Load(ctx context.Context, sessionID, token string) (*services.DashboardSnapshot, error)
	Invalidate(ctx context.Context, sessionID string) error
}

// DashboardHandler renders the dashboard home and the screens still to come
type DashboardHandler struct {
	dashboards Loader
	now        func() time.Time
}

func NewDashboardHandler(dashboards Loader) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, now: time.Now}
}

// Home handles GET /:locale/dashboard. ?refresh=1 drops the cached snapshot first.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)
	page := handlers.DashboardPage(c, "dashboard.title")
	now := h.now()
	page["Now"] = now

	sessionID := ""
	if s := middleware.CurrentSession(c); s != nil {
		sessionID = s.ID()
	}
	ctx := c.UserContext()

	if c.Query("refresh") != "" && sessionID != "" {
		if err := h.dashboards.Invalidate(ctx, sessionID); err != nil {
			log.Printf("Dashboard invalidate failed: %v", err)
		}
	}

	snap, err := h.dashboards.Load(ctx, sessionID, middleware.CurrentToken(c))
	if err != nil {
		log.Printf("Dashboard load failed: %v", err)
		page["LoadError"] = i18n.T(l, "dashboard.loadError")
		page["Chart"] = services.BuildQualityChart(l, nil, now)
		return c.Render("dashboard/home", page, handlers.LayoutDashboard)
	}

	page["Snapshot"] = snap
	page["Chart"] = services.BuildQualityChart(l, snap.Quality, now)
	return c.Render("dashboard/home", page, handlers.LayoutDashboard)
}

// Placeholder handles the sidebar links that have no screen yet
func (h *DashboardHandler) Placeholder(c *fiber.Ctx) error {
	key, ok := handlers.PlaceholderTarget(c.Params("*"))
	if !ok {
		return fiber.ErrNotFound
	}
	page := handlers.DashboardPage(c, "sidebar."+key)
	return c.Render("dashboard/placeholder", page, handlers.LayoutDashboard)
}
