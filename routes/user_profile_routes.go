package routes

import (
	"amora_server/controllers"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profile operations under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, profileService *services.UserProfileService, sessionService services.SessionStore, authService *services.AuthService) {
	controller := controllers.NewUserProfileController(profileService, sessionService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.Use(RequireAuth(authService))

	profileRouter.HandleFunc("/discover", controller.HandleDiscover).Methods("GET")
	profileRouter.HandleFunc("/onboarding", controller.HandleCompleteOnboarding).Methods("POST")
	profileRouter.HandleFunc("/photos", controller.HandleAddPhoto).Methods("POST")
	profileRouter.HandleFunc("/photos", controller.HandleRemovePhoto).Methods("DELETE")
	profileRouter.HandleFunc("/{userId}", controller.HandleGetProfile).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.HandleUpdateProfile).Methods("PUT")
}
