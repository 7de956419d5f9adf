// Package service holds the authentication logic: credential verification
// against the admin table and issuance/validation of signed session tokens.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hallboard/hallboard/internal/model"
	"github.com/hallboard/hallboard/internal/store"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords, so callers cannot distinguish the two and enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session token lifetimes. The extended window applies when the client asks
// to be remembered.
const (
	SessionTTL    = 12 * time.Hour
	RememberMeTTL = 30 * 24 * time.Hour
)

// Identity is the decoded claim attached to authenticated requests.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type sessionClaims struct {
	AdminID  int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService verifies admin credentials and manages session tokens. Tokens
// are self-contained HS256 JWTs signed with a single server-held secret;
// nothing is persisted per session.
type AuthService struct {
	store  *store.Store
	secret []byte
}

// NewAuthService creates an AuthService backed by the given store.
func NewAuthService(st *store.Store, secret string) *AuthService {
	return &AuthService{store: st, secret: []byte(secret)}
}

// Login verifies a username/password pair and issues a session token. The
// token lifetime is SessionTTL, or RememberMeTTL when rememberMe is set.
// Unknown usernames and failed password comparisons both yield
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string, rememberMe bool) (string, time.Duration, *model.Admin, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", 0, nil, ErrInvalidCredentials
		}
		return "", 0, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", 0, nil, ErrInvalidCredentials
	}

	ttl := SessionTTL
	if rememberMe {
		ttl = RememberMeTTL
	}

	token, err := s.IssueToken(admin.ID, admin.Username, admin.Role, ttl)
	if err != nil {
		return "", 0, nil, err
	}
	return token, ttl, admin, nil
}

// IssueToken creates a signed session token for the given admin identity.
func (s *AuthService) IssueToken(adminID int64, username, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		AdminID:  adminID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "hallboard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies a session token's signature and expiry and returns
// the embedded identity. Expired or improperly signed tokens are never
// accepted.
func (s *AuthService) ValidateToken(tokenStr string) (*Identity, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !token.Valid {
		return nil, ErrInvalidCredentials
	}

	return &Identity{
		ID:       claims.AdminID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
