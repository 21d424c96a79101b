package routes

import (
	"amora_server/controllers"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterCoinRoutes sets up routes for the coin ledger under /api/coins
func RegisterCoinRoutes(r *mux.Router, coinService *services.CoinService, paymentService *services.PaymentService, authService *services.AuthService) {
	controller := controllers.NewCoinController(coinService, paymentService)

	coinRouter := r.PathPrefix("/api/coins").Subrouter()
	coinRouter.Use(RequireAuth(authService))

	coinRouter.HandleFunc("/balance", controller.HandleGetBalance).Methods("GET")
	coinRouter.HandleFunc("/reward", controller.HandleGrantReward).Methods("POST")
	coinRouter.HandleFunc("/packages", controller.HandleGetPackages).Methods("GET")
	coinRouter.HandleFunc("/purchase", controller.HandleInitiatePurchase).Methods("POST")
	coinRouter.HandleFunc("/purchase/confirm", controller.HandleConfirmPurchase).Methods("POST")
}
