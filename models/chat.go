package models

// Chat represents a two-participant message thread.
// UnreadCounts always carries an entry for every participant; the sender's
// own entry is reset to zero on every send.
type Chat struct {
	ChatID       string         `dynamodbav:"chatId" json:"chatId"` // ✅ Partition Key
	Participants []string       `dynamodbav:"participants" json:"participants"`
	LastMessage  string         `dynamodbav:"lastMessage" json:"lastMessage"`
	UpdatedAt    string         `dynamodbav:"updatedAt" json:"updatedAt"`
	UnreadCounts map[string]int `dynamodbav:"unreadCounts" json:"unreadCounts"`
}

// ChatsTable is the DynamoDB table name for chat threads
const ChatsTable = "Chats"
