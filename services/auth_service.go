package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"amora_server/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for expired, malformed or rejected tokens
var ErrInvalidToken = errors.New("invalid token")

// IdentityClaims is what the identity provider asserts about a signed-in user
type IdentityClaims struct {
	UserID   string
	Email    string
	Name     string
	PhotoURL string
}

// IdentityVerifier validates a provider-issued ID token obtained out of band
// by the client and returns the asserted identity
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*IdentityClaims, error)
}

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint
type GoogleVerifier struct {
	HTTPClient *http.Client
	ClientID   string // audience check is skipped when empty
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Verify calls the tokeninfo endpoint and checks the audience
func (gv *GoogleVerifier) Verify(ctx context.Context, idToken string) (*IdentityClaims, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}

	endpoint := googleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	client := gv.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var payload struct {
		Sub     string `json:"sub"`
		Aud     string `json:"aud"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse tokeninfo response: %w", err)
	}
	if payload.Sub == "" {
		return nil, ErrInvalidToken
	}
	if gv.ClientID != "" && payload.Aud != gv.ClientID {
		return nil, ErrInvalidToken
	}

	return &IdentityClaims{
		UserID:   payload.Sub,
		Email:    payload.Email,
		Name:     payload.Name,
		PhotoURL: payload.Picture,
	}, nil
}

// SessionStore is the persisted-session contract implemented by SessionService
type SessionStore interface {
	Save(ctx context.Context, profile *models.UserProfile) error
	Load(ctx context.Context, uid string) (*models.UserProfile, error)
	Clear(ctx context.Context, uid string) error
}

// AuthService exchanges provider identity tokens for backend credentials and
// manages the session lifecycle (restore on start, clear on logout).
type AuthService struct {
	Verifier IdentityVerifier
	Profiles *UserProfileService
	Sessions SessionStore

	JWTSecret []byte
	TokenTTL  time.Duration
}

// ExchangeResult is returned from a successful identity exchange
type ExchangeResult struct {
	Token   string              `json:"token"`
	Profile *models.UserProfile `json:"profile"`
	NewUser bool                `json:"newUser"`
}

// Exchange verifies the provider ID token, creates the profile on first
// sign-in, persists the session blob and issues a signed session token
func (as *AuthService) Exchange(ctx context.Context, providerIDToken string) (*ExchangeResult, error) {
	claims, err := as.Verifier.Verify(ctx, providerIDToken)
	if err != nil {
		return nil, err
	}

	profile, created, err := as.Profiles.EnsureProfile(ctx, claims.UserID, claims.Name, claims.Email, claims.PhotoURL)
	if err != nil {
		return nil, err
	}

	token, err := as.issueToken(profile.UserID)
	if err != nil {
		return nil, err
	}

	if err := as.Sessions.Save(ctx, profile); err != nil {
		return nil, err
	}

	return &ExchangeResult{Token: token, Profile: profile, NewUser: created}, nil
}

// Restore loads the persisted session blob for a signed-in user
func (as *AuthService) Restore(ctx context.Context, uid string) (*models.UserProfile, error) {
	return as.Sessions.Load(ctx, uid)
}

// Logout clears the persisted session blob
func (as *AuthService) Logout(ctx context.Context, uid string) error {
	return as.Sessions.Clear(ctx, uid)
}

func (as *AuthService) issueToken(uid string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.TokenTTL)),
	})
	signed, err := token.SignedString(as.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the user id it names
func (as *AuthService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
