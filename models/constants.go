package models

// ✅ Genders accepted by the onboarding questionnaire
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// MinOnboardingAge is the minimum age accepted at onboarding
const MinOnboardingAge = 18

// DefaultMessageCoinFee is the coin price of one sent message unless
// overridden through MESSAGE_COIN_FEE
const DefaultMessageCoinFee = 10
