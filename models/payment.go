package models

// Payment records a coin-package purchase attempt. Coins are credited only
// when the payment reaches StatusConfirmed.
type Payment struct {
	PaymentID   string `dynamodbav:"paymentId" json:"paymentId"` // ✅ Partition Key
	UserID      string `dynamodbav:"userId" json:"userId"`
	PackageID   int    `dynamodbav:"packageId" json:"packageId"`
	Coins       int    `dynamodbav:"coins" json:"coins"`
	Price       int    `dynamodbav:"price" json:"price"`
	PhoneNumber string `dynamodbav:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Status      string `dynamodbav:"status" json:"status"` // "pending", "confirmed", "failed"
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// PaymentsTable is the DynamoDB table name for coin purchases
const PaymentsTable = "Payments"

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

// CoinPackage is one entry of the fixed purchase catalogue
type CoinPackage struct {
	ID      int  `json:"id"`
	Coins   int  `json:"coins"`
	Price   int  `json:"price"`
	Popular bool `json:"popular"`
}

// CoinPackages is the catalogue offered on the profile screen
var CoinPackages = []CoinPackage{
	{ID: 1, Coins: 500, Price: 99, Popular: false},
	{ID: 2, Coins: 1000, Price: 150, Popular: true},
	{ID: 3, Coins: 2500, Price: 299, Popular: false},
	{ID: 4, Coins: 5000, Price: 499, Popular: false},
}
