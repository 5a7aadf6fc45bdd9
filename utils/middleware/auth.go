package middleware

import (
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/model"
	"github.com/qaunion/portal/utils/auth"
	"github.com/qaunion/portal/utils/response"
	"github.com/qaunion/portal/utils/sessions"
)

// Locals keys set by RequireSession
const (
	LocalSession = "session"
	LocalToken   = "token"
	LocalUser    = "user"
)

// AuthMiddleware guards routes that need a backend token in the session
type AuthMiddleware struct {
	sessions   *sessions.Manager
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(sm *sessions.Manager, jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sm, jwtManager: jwtManager}
}

// RequireSession redirects HTML requests to the login page, with a redirect
// back, and answers 401 on /api routes
func (m *AuthMiddleware) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.sessions.Get(c)
		if err != nil {
			log.Printf("session load failed: %v", err)
			return m.deny(c)
		}

		token := sessions.Token(sess)
		if token == "" {
			return m.deny(c)
		}

		user := sessions.User(sess)
		claims, err := m.jwtManager.Claims(token)
		switch {
		case errors.Is(err, auth.ErrExpiredToken),
			err != nil && m.jwtManager.Verifies():
			sessions.ClearAuth(sess)
			sess.Save()
			return m.deny(c)
		case err != nil:
			// opaque backend tokens are accepted as is when nothing can verify them
		default:
			user = mergeClaims(user, claims)
		}

		c.Locals(LocalSession, sess)
		c.Locals(LocalToken, token)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

func (m *AuthMiddleware) deny(c *fiber.Ctx) error {
	if isAPI(c) {
		return response.Unauthorized(c, i18n.T(CurrentLocale(c), "errors.sessionRequired"))
	}
	l := CurrentLocale(c)
	target := "/" + l.String() + "/login?redirect=" + url.QueryEscape(string(c.Request().URI().RequestURI()))
	return c.Redirect(target, fiber.StatusSeeOther)
}

// CurrentUser returns the user stored by RequireSession, possibly nil
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(LocalUser).(*model.User)
	return u
}

// CurrentToken returns the bearer token stored by RequireSession
func CurrentToken(c *fiber.Ctx) string {
	t, _ := c.Locals(LocalToken).(string)
	return t
}

// CurrentSession returns the session loaded by RequireSession
func CurrentSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(LocalSession).(*session.Session)
	return s
}

func mergeClaims(user *model.User, claims *auth.Claims) *model.User {
	if user == nil {
		user = &model.User{}
	}
	if user.Name == "" {
		user.Name = claims.Name
	}
	if user.Email == "" {
		user.Email = claims.Email
	}
	if user.Role == "" {
		user.Role = claims.Role
	}
	return user
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}
