package http

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/dropkit/storefront/pkg/auth"
	"github.com/dropkit/storefront/pkg/logger"
)

// Login handles POST /api/auth/login. The storefront has a single admin
// credential configured through the environment; the issued token guards the
// catalog management routes.
func (h *CatalogHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	adminUser := os.Getenv("ADMIN_USERNAME")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminUser == "" || adminHash == "" {
		logger.Warn(r.Context()).Msg("Admin credentials not configured")
		respondError(w, http.StatusServiceUnavailable, "Admin login not configured")
		return
	}

	if req.Username != adminUser || !auth.CheckPassword(adminHash, req.Password) {
		logger.Warn(r.Context()).Str("username", req.Username).Msg("Login failed")
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(req.Username, "admin")
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to generate token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"token": token},
	})
}
