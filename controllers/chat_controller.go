package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"amora_server/services"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
	CoinService *services.CoinService
	MessageFee  int
}

// NewChatController initializes the chat controller
func NewChatController(chatService *services.ChatService, coinService *services.CoinService, messageFee int) *ChatController {
	return &ChatController{ChatService: chatService, CoinService: coinService, MessageFee: messageFee}
}

// HandleCreateChat - Find or create the chat between two users
func (c *ChatController) HandleCreateChat(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SelfID  string `json:"selfId"`
		OtherID string `json:"otherId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.SelfID == "" || request.OtherID == "" {
		http.Error(w, `{"error": "Missing required fields: selfId, otherId"}`, http.StatusBadRequest)
		return
	}

	chatID, err := c.ChatService.FindOrCreateChat(r.Context(), request.SelfID, request.OtherID)
	if err != nil {
		if errors.Is(err, services.ErrSameUser) {
			http.Error(w, `{"error": "Cannot open a chat with yourself"}`, http.StatusBadRequest)
			return
		}
		log.Printf("❌ Failed to create chat: %v", err)
		http.Error(w, `{"error": "Failed to create chat"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"chatId": chatID})
}

// HandleGetChats - Fetch all chats for a user, newest activity first
func (c *ChatController) HandleGetChats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	chats, err := c.ChatService.GetChatsForUser(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Error fetching chats: %v", err)
		http.Error(w, `{"error": "Failed to fetch chats"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chats)
}

// HandleGetMessages - Fetch messages of a chat in ascending creation order
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chatId")
	limitStr := r.URL.Query().Get("limit")

	if chatID == "" {
		http.Error(w, `{"error": "chatId is required"}`, http.StatusBadRequest)
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 0 // No limit, full history
	}

	messages, err := c.ChatService.GetMessages(r.Context(), chatID, limit)
	if err != nil {
		log.Printf("❌ Error fetching messages: %v", err)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// HandleSendMessage - Debit the message fee, then append the message. The fee
// is not refunded when the send itself fails afterwards.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChatID   string `json:"chatId"`
		SenderID string `json:"senderId"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.ChatID == "" || request.SenderID == "" || request.Text == "" {
		http.Error(w, `{"error": "Missing required fields: chatId, senderId, or text"}`, http.StatusBadRequest)
		return
	}

	if c.MessageFee > 0 {
		if _, err := c.CoinService.ApplyDelta(r.Context(), request.SenderID, -c.MessageFee); err != nil {
			if errors.Is(err, services.ErrInsufficientCoins) {
				http.Error(w, `{"error": "Insufficient coins"}`, http.StatusPaymentRequired)
				return
			}
			log.Printf("❌ Failed to debit message fee: %v", err)
			http.Error(w, `{"error": "Failed to debit message fee"}`, http.StatusInternalServerError)
			return
		}
	}

	message, err := c.ChatService.SendMessage(r.Context(), request.ChatID, request.Text, request.SenderID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) || errors.Is(err, services.ErrNotParticipant) {
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		log.Printf("❌ Failed to send message: %v", err)
		http.Error(w, `{"error": "Failed to send message"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(message)
}

// HandleMarkChatAsRead - Zero one participant's unread count
func (c *ChatController) HandleMarkChatAsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChatID string `json:"chatId"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.ChatID == "" || request.UserID == "" {
		http.Error(w, `{"error": "Missing required fields: chatId, userId"}`, http.StatusBadRequest)
		return
	}

	if err := c.ChatService.MarkChatAsRead(r.Context(), request.ChatID, request.UserID); err != nil {
		log.Printf("❌ Failed to mark chat as read: %v", err)
		http.Error(w, `{"error": "Failed to mark chat as read"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}
