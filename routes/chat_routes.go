package routes

import (
	"amora_server/controllers"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, coinService *services.CoinService, authService *services.AuthService, messageFee int) {
	controller := controllers.NewChatController(chatService, coinService, messageFee)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(RequireAuth(authService))

	chatRouter.HandleFunc("/create", controller.HandleCreateChat).Methods("POST")
	chatRouter.HandleFunc("/list", controller.HandleGetChats).Methods("GET")
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/send", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/read", controller.HandleMarkChatAsRead).Methods("POST")
}
