package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"amora_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController struct
type UserProfileController struct {
	ProfileService *services.UserProfileService
	SessionService services.SessionStore
}

// NewUserProfileController initializes the user profile controller
func NewUserProfileController(profileService *services.UserProfileService, sessionService services.SessionStore) *UserProfileController {
	return &UserProfileController{ProfileService: profileService, SessionService: sessionService}
}

// HandleGetProfile - Fetch a profile by user id
func (c *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			http.Error(w, `{"error": "Profile not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching profile: %v", err)
		http.Error(w, `{"error": "Failed to fetch profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// HandleCompleteOnboarding - Submit the onboarding questionnaire
func (c *UserProfileController) HandleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID       string  `json:"userId"`
		Gender       string  `json:"gender"`
		InterestedIn string  `json:"interestedIn"`
		DOB          string  `json:"dob"`
		Latitude     float64 `json:"latitude"`
		Longitude    float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.ProfileService.CompleteOnboarding(r.Context(), request.UserID, request.Gender, request.InterestedIn, request.DOB, request.Latitude, request.Longitude)
	if err != nil {
		if errors.Is(err, services.ErrMissingOnboardingFields) || errors.Is(err, services.ErrUnderage) {
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		log.Printf("❌ Onboarding failed: %v", err)
		http.Error(w, `{"error": "Failed to complete onboarding"}`, http.StatusInternalServerError)
		return
	}

	// Refresh the persisted session blob with the onboarded profile
	if err := c.SessionService.Save(r.Context(), profile); err != nil {
		log.Printf("⚠️ Onboarding saved but session refresh failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// HandleUpdateProfile - Apply caller-supplied field updates to a profile.
// Identity and ledger fields are managed by their own flows and rejected here.
func (c *UserProfileController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if len(updates) == 0 {
		http.Error(w, `{"error": "No fields to update"}`, http.StatusBadRequest)
		return
	}
	for _, field := range []string{"userId", "coins", "onboardingCompleted"} {
		if _, ok := updates[field]; ok {
			http.Error(w, `{"error": "Field cannot be updated here: `+field+`"}`, http.StatusBadRequest)
			return
		}
	}

	profile, err := c.ProfileService.UpdateProfile(r.Context(), userID, updates)
	if err != nil {
		log.Printf("❌ Failed to update profile: %v", err)
		http.Error(w, `{"error": "Failed to update profile"}`, http.StatusInternalServerError)
		return
	}

	if err := c.SessionService.Save(r.Context(), profile); err != nil {
		log.Printf("⚠️ Profile updated but session refresh failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// HandleDiscover - The user-discovery feed
func (c *UserProfileController) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	profiles, err := c.ProfileService.GetDiscoveryFeed(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			http.Error(w, `{"error": "Profile not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching discovery feed: %v", err)
		http.Error(w, `{"error": "Failed to fetch discovery feed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

// HandleAddPhoto - Append an uploaded photo URL to the gallery
func (c *UserProfileController) HandleAddPhoto(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string `json:"userId"`
		PhotoURL string `json:"photoURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.PhotoURL == "" {
		http.Error(w, `{"error": "Missing required fields: userId, photoURL"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.ProfileService.AddPhoto(r.Context(), request.UserID, request.PhotoURL)
	if err != nil {
		log.Printf("❌ Failed to add photo: %v", err)
		http.Error(w, `{"error": "Failed to add photo"}`, http.StatusInternalServerError)
		return
	}

	if err := c.SessionService.Save(r.Context(), profile); err != nil {
		log.Printf("⚠️ Photo saved but session refresh failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// HandleRemovePhoto - Remove a photo URL from the gallery
func (c *UserProfileController) HandleRemovePhoto(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string `json:"userId"`
		PhotoURL string `json:"photoURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.PhotoURL == "" {
		http.Error(w, `{"error": "Missing required fields: userId, photoURL"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.ProfileService.RemovePhoto(r.Context(), request.UserID, request.PhotoURL)
	if err != nil {
		log.Printf("❌ Failed to remove photo: %v", err)
		http.Error(w, `{"error": "Failed to remove photo"}`, http.StatusInternalServerError)
		return
	}

	if err := c.SessionService.Save(r.Context(), profile); err != nil {
		log.Printf("⚠️ Photo removed but session refresh failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
