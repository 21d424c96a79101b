package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID              string   `dynamodbav:"userId" json:"userId"`                                       // ✅ Partition Key (provider-issued uid)
	Name                string   `dynamodbav:"name,omitempty" json:"name,omitempty"`                       // Display name from the identity provider
	Email               string   `dynamodbav:"email,omitempty" json:"email,omitempty"`                     // Verified email from the identity provider
	PhotoURL            string   `dynamodbav:"photoURL,omitempty" json:"photoURL,omitempty"`               // Avatar URL
	Photos              []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`                   // Gallery photo URLs, ordered
	Coins               int      `dynamodbav:"coins" json:"coins"`                                         // Virtual currency balance
	OnboardingCompleted bool     `dynamodbav:"onboardingCompleted" json:"onboardingCompleted"`             // Questionnaire finished
	Gender              string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`                   // "male" or "female"
	InterestedIn        string   `dynamodbav:"interestedIn,omitempty" json:"interestedIn,omitempty"`       // Preferred gender for the discovery feed
	DOB                 string   `dynamodbav:"dob,omitempty" json:"dob,omitempty"`                         // Date of birth (YYYY-MM-DD)
	Age                 int      `dynamodbav:"age,omitempty" json:"age,omitempty"`                         // Derived from DOB at onboarding
	Latitude            float64  `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`               // Last reported location
	Longitude           float64  `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`             // Last reported location
	CreatedAt           string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`             // First sign-in timestamp
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "Users"
