package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"amora_server/services"
)

// S3Controller struct
type S3Controller struct {
	S3Service *services.S3Service
}

// NewS3Controller initializes the S3 controller
func NewS3Controller(s3Service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: s3Service}
}

// HandleGenerateUploadURL - Presign a photo upload
func (c *S3Controller) HandleGenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string `json:"userId"`
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.FileName == "" || request.FileType == "" {
		http.Error(w, `{"error": "Missing required fields: userId, fileName, fileType"}`, http.StatusBadRequest)
		return
	}

	uploadURL, key, err := c.S3Service.GenerateUploadURL(r.Context(), request.UserID, request.FileName, request.FileType)
	if err != nil {
		log.Printf("❌ Failed to presign upload: %v", err)
		http.Error(w, `{"error": "Failed to generate upload URL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"uploadUrl": uploadURL, "key": key})
}

// HandleGenerateReadURL - Presign a photo read
func (c *S3Controller) HandleGenerateReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	readURL, err := c.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		log.Printf("❌ Failed to presign read: %v", err)
		http.Error(w, `{"error": "Failed to generate read URL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": readURL})
}
