package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalanceDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	ds, _ := newTestDynamo()
	svc := NewCoinService(ds)

	// Unknown user
	balance, err := svc.GetBalance(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	// Known user with an explicit balance
	seedProfile(t, ds, onboardedProfile("alice", "female", "male", 120))
	balance, err = svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 120, balance)
}

func TestApplyDeltaCreditAndDebit(t *testing.T) {
	ctx := context.Background()
	ds, _ := newTestDynamo()
	svc := NewCoinService(ds)
	seedProfile(t, ds, onboardedProfile("alice", "female", "male", 50))

	balance, err := svc.ApplyDelta(ctx, "alice", 30)
	require.NoError(t, err)
	assert.Equal(t, 80, balance)

	balance, err = svc.ApplyDelta(ctx, "alice", -80)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestApplyDeltaRejectsOverdraft(t *testing.T) {
	ctx := context.Background()
	ds, _ := newTestDynamo()
	svc := NewCoinService(ds)
	seedProfile(t, ds, onboardedProfile("alice", "female", "male", 5))

	_, err := svc.ApplyDelta(ctx, "alice", -10)
	assert.ErrorIs(t, err, ErrInsufficientCoins)

	// The failed debit left the balance untouched
	balance, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, balance)
}

func TestApplyDeltaCreditToUnknownUserFails(t *testing.T) {
	ds, _ := newTestDynamo()
	svc := NewCoinService(ds)

	_, err := svc.ApplyDelta(context.Background(), "ghost", 100)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientCoins)
}

// Concurrent debits against a balance that can only cover one of them must
// admit exactly one winner.
func TestApplyDeltaConcurrentDebits(t *testing.T) {
	ctx := context.Background()
	ds, _ := newTestDynamo()
	svc := NewCoinService(ds)
	seedProfile(t, ds, onboardedProfile("alice", "female", "male", 15))

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ApplyDelta(ctx, "alice", -10)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientCoins)
		}
	}
	assert.Equal(t, 1, succeeded)

	balance, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, balance)
}

func TestGrantReward(t *testing.T) {
	ctx := context.Background()
	ds, _ := newTestDynamo()
	svc := NewCoinService(ds)
	seedProfile(t, ds, onboardedProfile("alice", "female", "male", 0))

	balance, err := svc.GrantReward(ctx, "alice", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, balance)

	_, err = svc.GrantReward(ctx, "alice", 0)
	assert.Error(t, err)
	_, err = svc.GrantReward(ctx, "alice", -5)
	assert.Error(t, err)
}

func TestSubscribeToUserCoins(t *testing.T) {
	ctx := context.Background()
	ds, _ := newTestDynamo()
	svc := NewCoinService(ds)
	seedProfile(t, ds, onboardedProfile("alice", "female", "male", 40))

	var seen []int
	unsubscribe := svc.SubscribeToUserCoins(ctx, "alice", func(balance int) {
		seen = append(seen, balance)
	})

	require.Equal(t, []int{40}, seen, "snapshot expected on subscribe")

	_, err := svc.ApplyDelta(ctx, "alice", -10)
	require.NoError(t, err)
	assert.Equal(t, []int{40, 30}, seen)

	unsubscribe()
	_, err = svc.ApplyDelta(ctx, "alice", 100)
	require.NoError(t, err)
	assert.Equal(t, []int{40, 30}, seen, "no delivery after unsubscribe")
}
