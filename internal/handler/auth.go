package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hallboard/hallboard/internal/model"
	"github.com/hallboard/hallboard/internal/server/middleware"
	"github.com/hallboard/hallboard/internal/service"
)

// AuthHandler serves the login/logout/me endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
	logger  *slog.Logger

	// secureCookies marks the session cookie Secure and SameSite=None for
	// cross-site production deployments; development uses SameSite=Lax.
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authSvc:       authSvc,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type loginResponse struct {
	Message    string            `json:"message"`
	Admin      model.AdminPublic `json:"admin"`
	RememberMe bool              `json:"rememberMe"`
}

// Login authenticates an admin and issues a session token, delivered both as
// an HTTP-only cookie and implicitly through the admin payload for clients
// that prefer the bearer header. Missing fields are a client error, not an
// authentication failure.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, ttl, admin, err := h.authSvc.Login(r.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during login, please try again")
		return
	}

	sameSite := http.SameSiteLaxMode
	if h.secureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: sameSite,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Message:    "Logged in",
		Admin:      admin.Public(),
		RememberMe: req.RememberMe,
	})
}

// Logout clears the session cookie. Tokens are stateless, so there is
// nothing to invalidate server-side; clients should also discard any bearer
// copy of the token.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sameSite := http.SameSiteLaxMode
	if h.secureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: sameSite,
	})
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Logged out"})
}

// Me returns the identity decoded from the caller's session token. Runs
// behind the Authenticate middleware.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"admin": identity})
}
