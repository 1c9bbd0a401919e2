package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/explooosion/catalog-console/internal/devserver/repositories"
	"github.com/explooosion/catalog-console/internal/devserver/token"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	users  repositories.UserRepository
	issuer *token.Issuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users repositories.UserRepository, issuer *token.Issuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		users:       users,
		issuer:      issuer,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/refresh", h.Refresh)
}

// loginRequest is the login request payload
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the login response payload
type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role,omitempty"`
}

// Login handles POST /api/login
// @Summary Authenticate a user
// @Description Validates username and password and returns a bearer token with the account role
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Login credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} map[string]string "Malformed request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		h.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := repositories.Authenticate(r.Context(), h.users, req.Username, req.Password)
	if err != nil {
		h.Logger.Info("login rejected", zap.String("username", req.Username))
		h.RespondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	tokenString, err := h.issuer.Issue(user.Username, user.Role)
	if err != nil {
		h.Logger.Error("failed to issue token", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.Logger.Info("user logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	h.RespondJSON(w, http.StatusOK, loginResponse{
		Message: "login successful",
		Token:   tokenString,
		Role:    string(user.Role),
	})
}

// Logout handles POST /api/logout
//
// Tokens are stateless, so there is nothing to revoke; the endpoint exists
// for wire-contract parity and always succeeds.
// @Summary Log out
// @Description Acknowledges the logout; the client discards its credentials locally
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Refresh handles POST /api/refresh
// @Summary Refresh the bearer token
// @Description Validates the presented bearer token and reissues it with a fresh expiry
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer {token}"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Missing, invalid or expired token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	username, role, err := h.issuer.Validate(tokenString)
	if err != nil {
		h.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	fresh, err := h.issuer.Issue(username, role)
	if err != nil {
		h.Logger.Error("failed to reissue token", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.Logger.Info("token refreshed", zap.String("username", username))
	h.RespondJSON(w, http.StatusOK, map[string]string{"token": fresh})
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
