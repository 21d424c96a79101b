package routes

import (
	"amora_server/controllers"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up routes for the identity exchange and session
// lifecycle under /api/auth
func RegisterAuthRoutes(r *mux.Router, authService *services.AuthService) {
	controller := controllers.NewAuthController(authService)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/exchange", controller.HandleExchange).Methods("POST")
	authRouter.HandleFunc("/restore", controller.HandleRestore).Methods("GET")
	authRouter.HandleFunc("/logout", controller.HandleLogout).Methods("POST")
}
