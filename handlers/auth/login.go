package auth

import (
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/handlers"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/services/backend"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/sessions"
)

// MinPasswordLength is the shortest password the login form accepts
const MinPasswordLength = 6

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Redirect string `json:"redirect" form:"redirect"`
}

// validate applies the login form rules: an address containing @ and a
// password of at least six characters
func (r LoginRequest) validate(l i18n.Locale) map[string]string {
	fields := map[string]string{}
	if !strings.Contains(r.Email, "@") {
		fields["email"] = i18n.T(l, "login.errors.invalidEmail")
	}
	if len([]rune(r.Password)) < MinPasswordLength {
		fields["password"] = i18n.T(l, "login.errors.shortPassword")
	}
	return fields
}

type loginView struct {
	email, redirect string
	fields          map[string]string
	err, details    string
	locked          bool
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, v loginView) error {
	page := handlers.NewPage(c, "login.title")
	page["Email"] = v.email
	page["Redirect"] = v.redirect
	page["Fields"] = v.fields
	page["Error"] = v.err
	page["Details"] = v.details
	page["Locked"] = v.locked
	return c.Render("auth/login", page, handlers.LayoutMain)
}

// LoginPage handles GET /:locale/login
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)
	v := loginView{redirect: c.Query("redirect")}
	if wait := h.lockRemaining(c); wait > 0 {
		v.locked = true
		v.err = i18n.T(l, "login.errors.blocked", "seconds", i18n.Digits(l, strconv.Itoa(wait)))
	}
	return h.renderLogin(c, v)
}

// Login handles POST /:locale/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		c.Status(fiber.StatusBadRequest)
		return h.renderLogin(c, loginView{err: i18n.T(l, "errors.badRequest")})
	}
	req.Email = strings.TrimSpace(req.Email)
	v := loginView{email: req.Email, redirect: req.Redirect}

	if wait := h.lockRemaining(c); wait > 0 {
		v.locked = true
		v.err = i18n.T(l, "login.errors.blocked", "seconds", i18n.Digits(l, strconv.Itoa(wait)))
		c.Status(fiber.StatusTooManyRequests)
		return h.renderLogin(c, v)
	}

	if fields := req.validate(l); len(fields) > 0 {
		v.fields = fields
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderLogin(c, v)
	}

	res, err := h.backend.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		v.err, v.details, v.locked = h.loginFailure(c, l, err)
		c.Status(fiber.StatusUnauthorized)
		return h.renderLogin(c, v)
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c.UserContext(), c.IP())
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		log.Printf("Session load failed: %v", err)
		v.err = i18n.T(l, "errors.generic")
		c.Status(fiber.StatusInternalServerError)
		return h.renderLogin(c, v)
	}
	if err := sess.Regenerate(); err != nil {
		log.Printf("Session regenerate failed: %v", err)
	}
	if err := sessions.SetAuth(sess, res.Token, res.User); err != nil {
		log.Printf("Session write failed: %v", err)
	}
	if err := sess.Save(); err != nil {
		log.Printf("Session save failed: %v", err)
		v.err = i18n.T(l, "errors.generic")
		c.Status(fiber.StatusInternalServerError)
		return h.renderLogin(c, v)
	}

	return c.Redirect(handlers.SafeRedirect(req.Redirect, "/"+l.String()+"/dashboard"), fiber.StatusSeeOther)
}

// loginFailure counts the failed attempt and picks the message shown for err
func (h *AuthHandler) loginFailure(c *fiber.Ctx, l i18n.Locale, err error) (msg, details string, locked bool) {
	attempt := 0
	if h.bruteForceProtection != nil {
		var blocked bool
		attempt, blocked = h.bruteForceProtection.RecordFailedAttempt(c.UserContext(), c.IP())
		if blocked {
			return i18n.T(l, "login.errors.maxAttempts"), "", true
		}
	}

	f := backend.Classify(err)
	switch {
	case f.Key == "login.errors.unauthorized" && attempt > 0:
		msg = i18n.T(l, f.Key, "attempt", i18n.Digits(l, strconv.Itoa(attempt)))
	case f.Key == "login.errors.unauthorized":
		msg = i18n.T(l, "login.errors.invalidCredentials")
	case f.Key != "":
		msg = i18n.T(l, f.Key)
	case f.Message != "":
		msg = f.Message
	default:
		msg = i18n.T(l, "login.errors.invalidCredentials")
	}
	return msg, f.Details, false
}

// lockRemaining is the client's remaining block in whole seconds
func (h *AuthHandler) lockRemaining(c *fiber.Ctx) int {
	if h.bruteForceProtection == nil {
		return 0
	}
	d := h.bruteForceProtection.RemainingLock(c.UserContext(), c.IP())
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// Logout handles POST /:locale/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)
	sess, err := h.sessions.Get(c)
	if err == nil {
		if h.sessionCache != nil {
			if err := h.sessionCache.Invalidate(c.UserContext(), sess.ID()); err != nil {
				log.Printf("Session cache invalidate failed: %v", err)
			}
		}
		if err := sess.Destroy(); err != nil {
			log.Printf("Session destroy failed: %v", err)
		}
	}
	return c.Redirect("/"+l.String()+"/login", fiber.StatusSeeOther)
}
