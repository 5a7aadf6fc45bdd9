package auth

import (
	"context"

	"github.com/qaunion/portal/model"
	"github.com/qaunion/portal/services/backend"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/sessions"
	"github.com/qaunion/portal/utils/validation"
)

// Backend is the part of the backend client the auth pages call
type Backend interface {
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*backend.RegisterResponse, error)
}

// Lookups serves the signup reference data
type Lookups interface {
	UserTypes(ctx context.Context) ([]model.UserType, error)
	Universities(ctx context.Context) ([]model.University, error)
	Faculties(ctx context.Context, universityID int) ([]model.Faculty, error)
	Programs(ctx context.Context, facultyID, programType int) ([]model.Program, error)
}

// SessionCache is told when a session logs out so cached data can go with it
type SessionCache interface {
	Invalidate(ctx context.Context, sessionID string) error
}

// AuthHandler serves login, logout and the signup wizard
type AuthHandler struct {
	backend              Backend
	lookups              Lookups
	sessions             *sessions.Manager
	bruteForceProtection *middleware.BruteForceProtection
	sessionCache         SessionCache
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler. sessionCache may be nil.
func NewAuthHandler(b Backend, lookups Lookups, sm *sessions.Manager, bruteForceProtection *middleware.BruteForceProtection, sessionCache SessionCache) *AuthHandler {
	return &AuthHandler{
		backend:              b,
		lookups:              lookups,
		sessions:             sm,
		bruteForceProtection: bruteForceProtection,
		sessionCache:         sessionCache,
		validator:            validation.NewValidator(),
	}
}
