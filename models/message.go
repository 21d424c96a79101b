package models

// Message is immutable once created and ordered by createdAt within a chat.
type Message struct {
	ChatID    string   `dynamodbav:"chatId" json:"chatId"`       // ✅ Partition Key
	CreatedAt string   `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key (server-assigned timestamp)
	MessageID string   `dynamodbav:"messageId" json:"messageId"`
	SenderID  string   `dynamodbav:"senderId" json:"senderId"`
	Text      string   `dynamodbav:"text" json:"text"`
	ReadBy    []string `dynamodbav:"readBy" json:"readBy"` // At minimum the sender
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
