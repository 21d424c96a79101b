package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"amora_server/services"
)

// CoinController struct
type CoinController struct {
	CoinService    *services.CoinService
	PaymentService *services.PaymentService
}

// NewCoinController initializes the coin controller
func NewCoinController(coinService *services.CoinService, paymentService *services.PaymentService) *CoinController {
	return &CoinController{CoinService: coinService, PaymentService: paymentService}
}

// HandleGetBalance - Fetch a user's current coin balance
func (c *CoinController) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	balance, err := c.CoinService.GetBalance(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Error fetching balance: %v", err)
		http.Error(w, `{"error": "Failed to fetch balance"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"coins": balance})
}

// HandleGrantReward - Credit a rewarded-ad amount. The amount is trusted as
// reported by the ad provider.
func (c *CoinController) HandleGrantReward(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
		Amount int    `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.Amount <= 0 {
		http.Error(w, `{"error": "userId and a positive amount are required"}`, http.StatusBadRequest)
		return
	}

	balance, err := c.CoinService.GrantReward(r.Context(), request.UserID, request.Amount)
	if err != nil {
		log.Printf("❌ Failed to grant reward: %v", err)
		http.Error(w, `{"error": "Failed to grant reward"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"coins": balance})
}

// HandleGetPackages - List the coin purchase catalogue
func (c *CoinController) HandleGetPackages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c.PaymentService.Packages())
}

// HandleInitiatePurchase - Record a pending coin purchase (placeholder gateway)
func (c *CoinController) HandleInitiatePurchase(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID      string `json:"userId"`
		PackageID   int    `json:"packageId"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.PackageID == 0 {
		http.Error(w, `{"error": "Missing required fields: userId, packageId"}`, http.StatusBadRequest)
		return
	}

	payment, err := c.PaymentService.InitiatePurchase(r.Context(), request.UserID, request.PackageID, request.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPackage) {
			http.Error(w, `{"error": "Unknown coin package"}`, http.StatusBadRequest)
			return
		}
		log.Printf("❌ Failed to initiate purchase: %v", err)
		http.Error(w, `{"error": "Failed to initiate purchase"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

// HandleConfirmPurchase - Confirmation callback crediting the purchased coins
func (c *CoinController) HandleConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PaymentID string `json:"paymentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.PaymentID == "" {
		http.Error(w, `{"error": "paymentId is required"}`, http.StatusBadRequest)
		return
	}

	payment, err := c.PaymentService.ConfirmPayment(r.Context(), request.PaymentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			http.Error(w, `{"error": "Payment not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Failed to confirm payment: %v", err)
		http.Error(w, `{"error": "Failed to confirm payment"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}
