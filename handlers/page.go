package handlers

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/sessions"
)

// Template layouts
const (
	LayoutMain      = "layouts/main"
	LayoutDashboard = "layouts/dashboard"
)

// NewPage returns the data every template expects: locale, direction, title,
// language switch target and the signed-in user when there is one
func NewPage(c *fiber.Ctx, titleKey string) fiber.Map {
	l := middleware.CurrentLocale(c)
	return fiber.Map{
		"Locale":    l,
		"Dir":       l.Direction(),
		"Other":     l.Other(),
		"Title":     i18n.T(l, titleKey),
		"Path":      c.Path(),
		"SwitchURL": SwitchLocaleURL(c.Path(), string(c.Request().URI().QueryString()), l.Other()),
		"User":      middleware.CurrentUser(c),
		"Year":      time.Now().Year(),
	}
}

// DashboardPage is NewPage plus the sidebar and the pending flash message
func DashboardPage(c *fiber.Ctx, titleKey string) fiber.Map {
	page := NewPage(c, titleKey)
	l := middleware.CurrentLocale(c)

	page["Sidebar"] = BuildSidebar(l, c.Path(), c.Query("open"))
	page["Collapsed"] = sidebarCollapsed(c)

	name := i18n.T(l, "dashboard.defaultUser")
	if u := middleware.CurrentUser(c); u != nil && u.Name != "" {
		name = u.Name
	}
	page["UserName"] = name

	if s := middleware.CurrentSession(c); s != nil {
		if f := sessions.PopFlash(s); f != nil {
			page["Flash"] = f
			if err := s.Save(); err != nil {
				log.Printf("session save failed: %v", err)
			}
		}
	}
	return page
}

// SetFlash stores a flash message for the next dashboard page
func SetFlash(c *fiber.Ctx, kind, message string) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return
	}
	sessions.SetFlash(s, kind, message)
	if err := s.Save(); err != nil {
		log.Printf("session save failed: %v", err)
	}
}

const collapsedCookie = "sidebar_collapsed"

// sidebarCollapsed follows ?collapsed= when given and remembers it in a cookie
func sidebarCollapsed(c *fiber.Ctx) bool {
	if q := c.Query("collapsed"); q != "" {
		collapsed := q == "1" || q == "true"
		value := "0"
		if collapsed {
			value = "1"
		}
		c.Cookie(&fiber.Cookie{Name: collapsedCookie, Value: value, Path: "/", HTTPOnly: true, SameSite: "Lax"})
		return collapsed
	}
	return c.Cookies(collapsedCookie) == "1"
}

// SwitchLocaleURL swaps the leading locale segment of path for target
func SwitchLocaleURL(path, rawQuery string, target i18n.Locale) string {
	rest := ""
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		if _, ok := i18n.Parse(trimmed[:i]); ok {
			rest = trimmed[i:]
		} else {
			rest = "/" + trimmed
		}
	} else if _, ok := i18n.Parse(trimmed); !ok && trimmed != "" {
		rest = "/" + trimmed
	}

	out := "/" + target.String() + rest
	if rawQuery != "" {
		out += "?" + rawQuery
	}
	return out
}

// SafeRedirect accepts only local absolute paths, falling back otherwise
func SafeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
