package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"amora_server/models"
	"amora_server/routes"
	"amora_server/services"
	"amora_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Redis for the session store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	sessionService := services.NewSessionService(redisClient, 30*24*time.Hour)

	// Initialize S3 for profile photos
	s3Client, err := services.InitializeS3Client(context.Background(), os.Getenv("AWS_REGION"))
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}
	s3Service := &services.S3Service{Client: s3Client, Bucket: os.Getenv("S3_BUCKET_NAME")}

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	chatService := services.NewChatService(dynamoService)
	coinService := services.NewCoinService(dynamoService)
	paymentService := &services.PaymentService{Dynamo: dynamoService, Coins: coinService}
	authService := &services.AuthService{
		Verifier:  &services.GoogleVerifier{ClientID: os.Getenv("GOOGLE_CLIENT_ID")},
		Profiles:  userProfileService,
		Sessions:  sessionService,
		JWTSecret: []byte(envOrDefault("JWT_SECRET", "dev-secret-change-me")),
		TokenTTL:  7 * 24 * time.Hour,
	}

	messageFee := models.DefaultMessageCoinFee
	if feeStr := os.Getenv("MESSAGE_COIN_FEE"); feeStr != "" {
		if fee, err := strconv.Atoi(feeStr); err == nil && fee >= 0 {
			messageFee = fee
		}
	}
	log.Printf("Message fee set to %d coins", messageFee)

	// Initialize the Socket.IO server and bridge service broadcasts into it
	ioServer := socket.NewSocketServer()
	broadcast := func(room, event string, payload interface{}) {
		ioServer.BroadcastToRoom("/", room, event, payload)
	}
	chatService.Notify = broadcast
	coinService.Notify = broadcast

	go func() {
		if err := ioServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()
	defer ioServer.Close()

	// Set up the server port
	port := envOrDefault("PORT", "8080")
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Amora")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	r.Handle("/socket.io/", ioServer)

	// Register routes
	routes.RegisterAuthRoutes(r, authService)
	routes.RegisterUserProfileRoutes(r, userProfileService, sessionService, authService)
	routes.RegisterChatRoutes(r, chatService, coinService, authService, messageFee)
	routes.RegisterCoinRoutes(r, coinService, paymentService, authService)
	routes.RegisterS3Routes(r, s3Service, authService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
