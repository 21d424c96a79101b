package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"amora_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

var (
	// ErrUnknownPackage is returned for a package id outside the catalogue
	ErrUnknownPackage = errors.New("unknown coin package")
	// ErrPaymentNotFound is returned when no payment exists for an id
	ErrPaymentNotFound = errors.New("payment not found")
)

// PaymentService records coin-package purchases. The gateway call itself is a
// placeholder: payments start pending and coins are credited only on the
// confirmation callback.
type PaymentService struct {
	Dynamo *DynamoService
	Coins  *CoinService
}

// Packages returns the fixed purchase catalogue
func (ps *PaymentService) Packages() []models.CoinPackage {
	return models.CoinPackages
}

// InitiatePurchase records a pending payment for a catalogue package and
// returns it. No gateway is contacted.
func (ps *PaymentService) InitiatePurchase(ctx context.Context, userID string, packageID int, phoneNumber string) (*models.Payment, error) {
	var selected *models.CoinPackage
	for i := range models.CoinPackages {
		if models.CoinPackages[i].ID == packageID {
			selected = &models.CoinPackages[i]
			break
		}
	}
	if selected == nil {
		return nil, ErrUnknownPackage
	}

	payment := models.Payment{
		PaymentID:   uuid.New().String(),
		UserID:      userID,
		PackageID:   selected.ID,
		Coins:       selected.Coins,
		Price:       selected.Price,
		PhoneNumber: phoneNumber,
		Status:      models.PaymentStatusPending,
		CreatedAt:   serverTimestamp(),
	}
	if err := ps.Dynamo.PutItem(ctx, models.PaymentsTable, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	log.Printf("🧾 Payment %s initiated: %d coins for %s", payment.PaymentID, payment.Coins, userID)
	return &payment, nil
}

// ConfirmPayment flips a pending payment to confirmed and credits its coins.
// A payment already confirmed is left untouched, so the confirmation callback
// can be replayed without double-crediting.
func (ps *PaymentService) ConfirmPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	key := map[string]types.AttributeValue{
		"paymentId": &types.AttributeValueMemberS{Value: paymentID},
	}
	item, err := ps.Dynamo.GetItem(ctx, models.PaymentsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}

	var payment models.Payment
	if err := attributevalue.UnmarshalMap(item, &payment); err != nil {
		return nil, fmt.Errorf("failed to parse payment: %w", err)
	}
	if payment.Status == models.PaymentStatusConfirmed {
		return &payment, nil
	}

	updateExpression := "SET #status = :confirmed"
	expressionNames := map[string]string{"#status": "status"}
	expressionValues := map[string]types.AttributeValue{
		":confirmed": &types.AttributeValueMemberS{Value: models.PaymentStatusConfirmed},
		":pending":   &types.AttributeValueMemberS{Value: models.PaymentStatusPending},
	}
	conditionExpression := "#status = :pending"

	if _, err := ps.Dynamo.UpdateItemWithCondition(ctx, models.PaymentsTable, updateExpression, key, expressionValues, expressionNames, conditionExpression); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			// Lost a confirmation race; the winner credited the coins
			payment.Status = models.PaymentStatusConfirmed
			return &payment, nil
		}
		return nil, fmt.Errorf("failed to confirm payment %s: %w", paymentID, err)
	}

	if _, err := ps.Coins.ApplyDelta(ctx, payment.UserID, payment.Coins); err != nil {
		// Payment is confirmed but the credit failed; surfaced, not rolled back
		return nil, fmt.Errorf("payment confirmed but coin credit failed: %w", err)
	}

	payment.Status = models.PaymentStatusConfirmed
	log.Printf("✅ Payment %s confirmed, credited %d coins to %s", paymentID, payment.Coins, payment.UserID)
	return &payment, nil
}
