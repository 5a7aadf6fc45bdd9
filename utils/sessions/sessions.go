package sessions

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/qaunion/portal/model"
)

const (
	CookieName = "qa_session"

	keyToken  = "auth_token"
	keyUser   = "auth_user"
	keyWizard = "signup_wizard"
	keyFlash  = "flash"
)

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot status message shown on the next rendered page
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Manager owns the cookie session store
type Manager struct {
	store *session.Store
}

// NewManager builds the store. storage may be nil for fiber's in-memory default.
func NewManager(storage fiber.Storage, expiry time.Duration, secure bool) *Manager {
	cfg := session.Config{
		Expiration:     expiry,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	}
	if storage != nil {
		cfg.Storage = storage
	}
	return &Manager{store: session.New(cfg)}
}

func (m *Manager) Get(c *fiber.Ctx) (*session.Session, error) {
	return m.store.Get(c)
}

// Token returns the backend bearer token, empty when logged out
func Token(s *session.Session) string {
	v, _ := s.Get(keyToken).(string)
	return v
}

// SetAuth stores the backend token and the user returned with it
func SetAuth(s *session.Session, token string, user *model.User) error {
	s.Set(keyToken, token)
	if user == nil {
		s.Delete(keyUser)
		return nil
	}
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.Set(keyUser, string(b))
	return nil
}

// User decodes the stored user; nil when absent or unreadable
func User(s *session.Session) *model.User {
	raw, _ := s.Get(keyUser).(string)
	if raw == "" {
		return nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

func ClearAuth(s *session.Session) {
	s.Delete(keyToken)
	s.Delete(keyUser)
}

// Wizard returns the encoded signup wizard state
func Wizard(s *session.Session) string {
	v, _ := s.Get(keyWizard).(string)
	return v
}

func SetWizard(s *session.Session, raw string) {
	s.Set(keyWizard, raw)
}

func ClearWizard(s *session.Session) {
	s.Delete(keyWizard)
}

func SetFlash(s *session.Session, kind, message string) {
	b, _ := json.Marshal(Flash{Kind: kind, Message: message})
	s.Set(keyFlash, string(b))
}

// PopFlash returns and removes the pending flash
func PopFlash(s *session.Session) *Flash {
	raw, _ := s.Get(keyFlash).(string)
	if raw == "" {
		return nil
	}
	s.Delete(keyFlash)
	var f Flash
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil
	}
	return &f
}
