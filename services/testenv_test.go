package services

import (
	"context"
	"testing"

	"amora_server/models"

	"github.com/stretchr/testify/require"
)

// newTestDynamo returns a DynamoService backed by the in-memory fake
func newTestDynamo() (*DynamoService, *fakeDynamo) {
	fake := newFakeDynamo()
	return &DynamoService{Client: fake}, fake
}

// seedProfile stores a ready-made profile directly into the fake store
func seedProfile(t *testing.T, ds *DynamoService, profile models.UserProfile) {
	t.Helper()
	require.NoError(t, ds.PutItem(context.Background(), models.UserProfilesTable, profile))
}

// onboardedProfile builds a profile past the onboarding gate
func onboardedProfile(uid, gender, interestedIn string, coins int) models.UserProfile {
	return models.UserProfile{
		UserID:              uid,
		Name:                "User " + uid,
		Email:               uid + "@example.com",
		Coins:               coins,
		OnboardingCompleted: true,
		Gender:              gender,
		InterestedIn:        interestedIn,
		Age:                 25,
		CreatedAt:           serverTimestamp(),
	}
}
