package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"amora_server/services"
)

// AuthController struct
type AuthController struct {
	AuthService *services.AuthService
}

// NewAuthController initializes the auth controller
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// HandleExchange - Exchange a provider ID token for a backend credential
func (c *AuthController) HandleExchange(w http.ResponseWriter, r *http.Request) {
	var request struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.IDToken == "" {
		http.Error(w, `{"error": "idToken is required"}`, http.StatusBadRequest)
		return
	}

	result, err := c.AuthService.Exchange(r.Context(), request.IDToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			http.Error(w, `{"error": "Invalid identity token"}`, http.StatusUnauthorized)
			return
		}
		log.Printf("❌ Identity exchange failed: %v", err)
		http.Error(w, `{"error": "Sign-in failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleRestore - Load the persisted session for a signed-in user
func (c *AuthController) HandleRestore(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.AuthService.Restore(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			http.Error(w, `{"error": "No session"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Session restore failed: %v", err)
		http.Error(w, `{"error": "Failed to restore session"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// HandleLogout - Clear the persisted session
func (c *AuthController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.AuthService.Logout(r.Context(), request.UserID); err != nil {
		log.Printf("❌ Logout failed: %v", err)
		http.Error(w, `{"error": "Failed to log out"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}
