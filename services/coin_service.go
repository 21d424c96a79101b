package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"amora_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrInsufficientCoins is returned when a debit would drive the balance negative
var ErrInsufficientCoins = errors.New("insufficient coins")

// CoinService reads and writes the per-user coin balance. Debits run as a
// single conditional update so that no two concurrent debits against the same
// user can both succeed when their combined effect would overdraw the balance.
type CoinService struct {
	Dynamo *DynamoService
	Notify BroadcastFunc

	balanceFeeds *subscriberHub[int]
}

// NewCoinService initializes a CoinService on top of a DynamoService
func NewCoinService(dynamo *DynamoService) *CoinService {
	return &CoinService{
		Dynamo:       dynamo,
		balanceFeeds: newSubscriberHub[int](),
	}
}

// GetBalance returns the user's current balance, defaulting to 0 when the
// coins attribute (or the whole profile) is absent
func (s *CoinService) GetBalance(ctx context.Context, userID string) (int, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch balance for %s: %w", userID, err)
	}

	if attr, ok := item["coins"]; ok {
		if n, ok := attr.(*types.AttributeValueMemberN); ok {
			balance, err := strconv.Atoi(n.Value)
			if err != nil {
				return 0, fmt.Errorf("failed to parse balance for %s: %w", userID, err)
			}
			return balance, nil
		}
	}
	return 0, nil
}

// ApplyDelta atomically adds delta (negative = debit) to the user's balance.
// A debit is guarded by a store-side condition on the current balance, so the
// balance is left unchanged whenever it would go negative.
func (s *CoinService) ApplyDelta(ctx context.Context, userID string, delta int) (int, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "ADD coins :delta"
	expressionValues := map[string]types.AttributeValue{
		":delta": &types.AttributeValueMemberN{Value: strconv.Itoa(delta)},
	}

	conditionExpression := "attribute_exists(userId)"
	if delta < 0 {
		conditionExpression = "attribute_exists(userId) AND coins >= :min"
		expressionValues[":min"] = &types.AttributeValueMemberN{Value: strconv.Itoa(-delta)}
	}

	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, nil, conditionExpression)
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			if delta < 0 {
				return 0, ErrInsufficientCoins
			}
			return 0, fmt.Errorf("no such user: %s", userID)
		}
		return 0, fmt.Errorf("failed to update balance for %s: %w", userID, err)
	}

	balance := 0
	if n, ok := attrs["coins"].(*types.AttributeValueMemberN); ok {
		balance, _ = strconv.Atoi(n.Value)
	}

	log.Printf("💰 Balance of %s changed by %+d to %d", userID, delta, balance)
	s.publishBalance(userID, balance)
	return balance, nil
}

// GrantReward credits a rewarded-ad amount. The reported amount is trusted
// as delivered by the ad provider; there is no server-side verification.
func (s *CoinService) GrantReward(ctx context.Context, userID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, errors.New("reward amount must be positive")
	}
	return s.ApplyDelta(ctx, userID, amount)
}

// SubscribeToUserCoins pushes the current balance immediately and after every
// change. The returned handle terminates the subscription.
func (s *CoinService) SubscribeToUserCoins(ctx context.Context, userID string, onUpdate func(int)) func() {
	unsubscribe := s.balanceFeeds.subscribe(userID, onUpdate)
	if balance, err := s.GetBalance(ctx, userID); err == nil {
		onUpdate(balance)
	} else {
		log.Printf("❌ Initial balance snapshot failed for %s: %v", userID, err)
	}
	return unsubscribe
}

func (s *CoinService) publishBalance(userID string, balance int) {
	s.balanceFeeds.publish(userID, balance)
	if s.Notify != nil {
		s.Notify("user:"+userID, "coinsUpdated", balance)
	}
}
