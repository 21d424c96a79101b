package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"amora_server/models"
	"amora_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	// ErrProfileNotFound is returned when no profile exists for a user id
	ErrProfileNotFound = errors.New("profile not found")
	// ErrMissingOnboardingFields is returned when the questionnaire is incomplete
	ErrMissingOnboardingFields = errors.New("gender, interestedIn and dob are required")
	// ErrUnderage is returned when the derived age is below the minimum
	ErrUnderage = errors.New("applicant is below the minimum age")
)

type UserProfileService struct {
	Dynamo *DynamoService
}

// EnsureProfile returns the existing profile for uid or creates one on first
// sign-in with a zero coin balance and onboarding pending.
func (ups *UserProfileService) EnsureProfile(ctx context.Context, uid, name, email, photoURL string) (*models.UserProfile, bool, error) {
	existing, err := ups.GetProfile(ctx, uid)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	profile := models.UserProfile{
		UserID:              uid,
		Name:                name,
		Email:               email,
		PhotoURL:            photoURL,
		Coins:               0,
		OnboardingCompleted: false,
		CreatedAt:           serverTimestamp(),
	}
	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, false, fmt.Errorf("failed to create profile: %w", err)
	}

	log.Printf("✅ Created profile for new user %s", uid)
	return &profile, true, nil
}

// GetProfile retrieves a user profile by ID
func (ups *UserProfileService) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: uid},
	}
	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// CompleteOnboarding validates the questionnaire, derives the age from the
// date of birth and marks the profile as onboarded. Underage applicants and
// incomplete submissions are rejected before any write.
func (ups *UserProfileService) CompleteOnboarding(ctx context.Context, uid, gender, interestedIn, dob string, latitude, longitude float64) (*models.UserProfile, error) {
	if gender == "" || interestedIn == "" || dob == "" {
		return nil, ErrMissingOnboardingFields
	}
	if (gender != models.GenderMale && gender != models.GenderFemale) ||
		(interestedIn != models.GenderMale && interestedIn != models.GenderFemale) {
		return nil, fmt.Errorf("unknown gender option: %s/%s", gender, interestedIn)
	}

	birthDate, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return nil, fmt.Errorf("invalid date of birth %q: %w", dob, err)
	}
	age := deriveAge(birthDate, time.Now())
	if age < models.MinOnboardingAge {
		return nil, ErrUnderage
	}

	updates := map[string]interface{}{
		"gender":              gender,
		"interestedIn":        interestedIn,
		"dob":                 dob,
		"age":                 age,
		"latitude":            latitude,
		"longitude":           longitude,
		"onboardingCompleted": true,
	}
	return ups.UpdateProfile(ctx, uid, updates)
}

// UpdateProfile applies a set of field updates to an existing profile and
// returns the new state
func (ups *UserProfileService) UpdateProfile(ctx context.Context, uid string, updates map[string]interface{}) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: uid},
	}

	updateExpression := "SET"
	expressionValues := make(map[string]types.AttributeValue)
	expressionNames := make(map[string]string)
	for field, value := range updates {
		attr, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", field, err)
		}
		updateExpression += " #" + field + " = :" + field + ","
		expressionNames["#"+field] = field
		expressionValues[":"+field] = attr
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &profile, nil
}

// GetDiscoveryFeed returns onboarded profiles matching the requester's
// interest preference, excluding the requester themselves
func (ups *UserProfileService) GetDiscoveryFeed(ctx context.Context, uid string) ([]models.UserProfile, error) {
	self, err := ups.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	excludeFields := map[string]string{
		"userId": uid,
	}
	var profiles []models.UserProfile
	err = ups.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		if !utils.ExtractBool(item, "onboardingCompleted") {
			return false
		}
		if self.InterestedIn != "" && utils.ExtractString(item, "gender") != self.InterestedIn {
			return false
		}
		return true
	}, excludeFields, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discovery feed: %w", err)
	}
	return profiles, nil
}

// AddPhoto appends a photo URL to the profile gallery (no duplicates)
func (ups *UserProfileService) AddPhoto(ctx context.Context, uid, photoURL string) (*models.UserProfile, error) {
	if photoURL == "" {
		return nil, errors.New("photo URL is required")
	}
	profile, err := ups.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	for _, existing := range profile.Photos {
		if existing == photoURL {
			return profile, nil
		}
	}
	return ups.UpdateProfile(ctx, uid, map[string]interface{}{
		"photos": append(profile.Photos, photoURL),
	})
}

// RemovePhoto deletes a photo URL from the profile gallery
func (ups *UserProfileService) RemovePhoto(ctx context.Context, uid, photoURL string) (*models.UserProfile, error) {
	profile, err := ups.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	remaining := make([]string, 0, len(profile.Photos))
	for _, existing := range profile.Photos {
		if existing != photoURL {
			remaining = append(remaining, existing)
		}
	}
	return ups.UpdateProfile(ctx, uid, map[string]interface{}{
		"photos": remaining,
	})
}

// deriveAge computes full years between birthDate and now
func deriveAge(birthDate, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return age
}
