package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestHandleCompleteOnboardingValidation(t *testing.T) {
	c := NewUserProfileController(nil, nil)

	rec := postJSON(c.HandleCompleteOnboarding, "/api/profiles/onboarding", "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(c.HandleCompleteOnboarding, "/api/profiles/onboarding", `{"gender": "female"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "userId")
}

func TestHandleUpdateProfileValidation(t *testing.T) {
	c := NewUserProfileController(nil, nil)

	send := func(userID, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/profiles/"+userID, strings.NewReader(body))
		if userID != "" {
			req = mux.SetURLVars(req, map[string]string{"userId": userID})
		}
		rec := httptest.NewRecorder()
		c.HandleUpdateProfile(rec, req)
		return rec
	}

	rec := send("", `{"name": "Alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "userId")

	rec = send("alice", "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send("alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No fields")

	// The wallet and identity are not writable through this endpoint
	rec = send("alice", `{"coins": 9999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "coins")

	rec = send("alice", `{"userId": "mallory"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send("alice", `{"onboardingCompleted": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDiscoverValidation(t *testing.T) {
	c := NewUserProfileController(nil, nil)
	rec := getRequest(c.HandleDiscover, "/api/profiles/discover")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "userId")
}

func TestHandleAddPhotoValidation(t *testing.T) {
	c := NewUserProfileController(nil, nil)

	rec := postJSON(c.HandleAddPhoto, "/api/profiles/photos", `{"userId": "alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "photoURL")
}

func TestHandleRemovePhotoValidation(t *testing.T) {
	c := NewUserProfileController(nil, nil)

	rec := postJSON(c.HandleRemovePhoto, "/api/profiles/photos", `{"photoURL": "https://pics/1.jpg"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "userId")
}
