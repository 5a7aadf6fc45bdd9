package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// claim names the quality backend may use, first match wins
var (
	nameClaims  = []string{"name", "unique_name", "given_name", "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"}
	emailClaims = []string{"email", "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"}
	roleClaims  = []string{"role", "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"}
	idClaims    = []string{"nameid", "user_id", "sub", "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"}
)

// JWTConfig holds JWT configuration. An empty Secret means tokens are read
// without signature verification.
type JWTConfig struct {
	Secret string
	Issuer string
}

// Claims is the subset of the backend token the portal reads
type Claims struct {
	UserID    string
	Name      string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// JWTManager reads bearer tokens issued by the quality backend
type JWTManager struct {
	config JWTConfig
}

func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{config: config}
}

// Verifies reports whether tokens are checked against a shared secret
func (j *JWTManager) Verifies() bool {
	return j.config.Secret != ""
}

// Claims verifies the token when a secret is configured and otherwise only
// decodes it, still rejecting expired tokens
func (j *JWTManager) Claims(tokenString string) (*Claims, error) {
	if j.Verifies() {
		return j.ValidateToken(tokenString)
	}
	claims, err := ExtractClaims(tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.ExpiresAt.IsZero() && time.Now().After(claims.ExpiresAt) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if j.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.config.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return fromMap(mc), nil
}

// ExtractClaims extracts claims from token without validation
func ExtractClaims(tokenString string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return fromMap(mc), nil
}

// GenerateToken signs claims with the configured secret. The portal never
// issues tokens to users; this exists for local tooling and tests.
func (j *JWTManager) GenerateToken(c Claims, expiry time.Duration) (string, error) {
	if !j.Verifies() {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now()
	mc := jwt.MapClaims{
		"jti":    uuid.NewString(),
		"iat":    now.Unix(),
		"exp":    now.Add(expiry).Unix(),
		"nameid": c.UserID,
		"name":   c.Name,
		"email":  c.Email,
		"role":   c.Role,
	}
	if j.config.Issuer != "" {
		mc["iss"] = j.config.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(j.config.Secret))
}

func fromMap(mc jwt.MapClaims) *Claims {
	c := &Claims{
		UserID: first(mc, idClaims),
		Name:   first(mc, nameClaims),
		Email:  first(mc, emailClaims),
		Role:   first(mc, roleClaims),
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}

func first(mc jwt.MapClaims, names []string) string {
	for _, n := range names {
		v, ok := mc[n]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return fmt.Sprintf("%.0f", t)
		case []interface{}:
			if len(t) > 0 {
				return fmt.Sprint(t[0])
			}
		}
	}
	return ""
}
