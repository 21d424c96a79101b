package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"amora_server/models"
	"amora_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Validation failures rejected before any remote write
var (
	ErrEmptyMessage   = errors.New("message text cannot be empty")
	ErrSameUser       = errors.New("cannot open a chat with yourself")
	ErrNotParticipant = errors.New("sender is not a participant of this chat")
)

// BroadcastFunc pushes an event to a socket.io room; wired in main
type BroadcastFunc func(room, event string, payload interface{})

// ChatService manages chat-thread discovery/creation, message append,
// unread-count fan-out, and live chat/message subscriptions.
type ChatService struct {
	Dynamo *DynamoService
	Notify BroadcastFunc

	chatFeeds    *subscriberHub[[]models.Chat]
	messageFeeds *subscriberHub[[]models.Message]
}

// NewChatService initializes a ChatService on top of a DynamoService
func NewChatService(dynamo *DynamoService) *ChatService {
	return &ChatService{
		Dynamo:       dynamo,
		chatFeeds:    newSubscriberHub[[]models.Chat](),
		messageFeeds: newSubscriberHub[[]models.Message](),
	}
}

// serverTimestamp is the canonical server-assigned timestamp. The fixed-width
// fraction keeps lexicographic sort-key order identical to chronological order.
func serverTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

// FindOrCreateChat returns the chat shared by selfID and otherID, creating it
// the first time the two users initiate contact. Safe to call repeatedly: the
// first existing match wins and no duplicate thread is created. Concurrent
// creation by both sides can still race to two threads (known gap).
func (s *ChatService) FindOrCreateChat(ctx context.Context, selfID, otherID string) (string, error) {
	if selfID == "" || otherID == "" {
		return "", errors.New("both participant ids are required")
	}
	if selfID == otherID {
		return "", ErrSameUser
	}

	chats, err := s.GetChatsForUser(ctx, selfID)
	if err != nil {
		return "", fmt.Errorf("failed to look up existing chats: %w", err)
	}
	for _, chat := range chats {
		for _, participant := range chat.Participants {
			if participant == otherID {
				return chat.ChatID, nil
			}
		}
	}

	chat := models.Chat{
		ChatID:       uuid.New().String(),
		Participants: []string{selfID, otherID},
		LastMessage:  "",
		UpdatedAt:    serverTimestamp(),
		UnreadCounts: map[string]int{selfID: 0, otherID: 0},
	}
	if err := s.Dynamo.PutItem(ctx, models.ChatsTable, chat); err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}

	log.Printf("✅ Created chat %s for %s and %s", chat.ChatID, selfID, otherID)
	s.publishChatLists(ctx, chat.Participants)
	return chat.ChatID, nil
}

// SendMessage appends a message and then refreshes the chat's unread-count
// mapping, preview text and timestamp. The two writes are sequential, not
// atomic: a failure of the second leaves the message visible with stale chat
// metadata, reconciled on the next send.
func (s *ChatService) SendMessage(ctx context.Context, chatID, text, senderID string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	chat, err := s.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !containsString(chat.Participants, senderID) {
		return nil, ErrNotParticipant
	}

	message := models.Message{
		ChatID:    chatID,
		CreatedAt: serverTimestamp(),
		MessageID: uuid.New().String(),
		SenderID:  senderID,
		Text:      text,
		ReadBy:    []string{senderID},
	}
	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	// Sender's entry resets to zero, every other participant's count grows by one
	newCounts := make(map[string]int, len(chat.Participants))
	for _, participant := range chat.Participants {
		if participant == senderID {
			newCounts[participant] = 0
		} else {
			newCounts[participant] = chat.UnreadCounts[participant] + 1
		}
	}

	countsAttr, err := attributevalue.Marshal(newCounts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal unread counts: %w", err)
	}

	key := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	updateExpression := "SET lastMessage = :lastMessage, updatedAt = :updatedAt, unreadCounts = :unreadCounts"
	expressionValues := map[string]types.AttributeValue{
		":lastMessage":  &types.AttributeValueMemberS{Value: text},
		":updatedAt":    &types.AttributeValueMemberS{Value: serverTimestamp()},
		":unreadCounts": countsAttr,
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.ChatsTable, updateExpression, key, expressionValues, nil); err != nil {
		// The message is already persisted; surface the failing step only
		return &message, fmt.Errorf("message stored but chat update failed: %w", err)
	}

	s.publishMessages(ctx, chatID)
	s.publishChatLists(ctx, chat.Participants)
	if s.Notify != nil {
		s.Notify("chat:"+chatID, "newMessage", message)
	}
	return &message, nil
}

// MarkChatAsRead zeroes a single participant's unread count. Other
// participants' counts and message readBy lists are untouched.
func (s *ChatService) MarkChatAsRead(ctx context.Context, chatID, userID string) error {
	key := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	updateExpression := "SET #unreadCounts.#uid = :zero"
	expressionNames := map[string]string{
		"#unreadCounts": "unreadCounts",
		"#uid":          userID,
	}
	expressionValues := map[string]types.AttributeValue{
		":zero": &types.AttributeValueMemberN{Value: "0"},
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.ChatsTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return fmt.Errorf("failed to mark chat as read: %w", err)
	}

	s.publishChatLists(ctx, []string{userID})
	return nil
}

// GetChat fetches a single chat thread
func (s *ChatService) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	key := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.ChatsTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat %s: %w", chatID, err)
	}

	var chat models.Chat
	if err := attributevalue.UnmarshalMap(item, &chat); err != nil {
		return nil, fmt.Errorf("failed to parse chat: %w", err)
	}
	return &chat, nil
}

// GetChatsForUser returns every chat containing selfID, newest activity first
func (s *ChatService) GetChatsForUser(ctx context.Context, selfID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.Dynamo.ScanWithFilter(ctx, models.ChatsTable, func(item map[string]types.AttributeValue) bool {
		return containsString(utils.ExtractStringList(item, "participants"), selfID)
	}, nil, &chats)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chats: %w", err)
	}

	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].UpdatedAt > chats[j].UpdatedAt
	})
	return chats, nil
}

// GetMessages fetches up to limit messages of a chat in ascending creation order
func (s *ChatService) GetMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error) {
	keyCondition := "#chatId = :chatId"
	expressionValues := map[string]types.AttributeValue{
		":chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	expressionNames := map[string]string{
		"#chatId": "chatId",
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, int32(limit), false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return messages, nil
}

// SubscribeToChats delivers the current ordered chat list for selfID
// immediately and again after every relevant mutation. The returned handle
// terminates the subscription.
func (s *ChatService) SubscribeToChats(ctx context.Context, selfID string, onUpdate func([]models.Chat)) func() {
	unsubscribe := s.chatFeeds.subscribe(selfID, onUpdate)
	if chats, err := s.GetChatsForUser(ctx, selfID); err == nil {
		onUpdate(chats)
	} else {
		log.Printf("❌ Initial chat snapshot failed for %s: %v", selfID, err)
	}
	return unsubscribe
}

// SubscribeToMessages is the same live contract scoped to one chat's messages
func (s *ChatService) SubscribeToMessages(ctx context.Context, chatID string, onUpdate func([]models.Message)) func() {
	unsubscribe := s.messageFeeds.subscribe(chatID, onUpdate)
	if messages, err := s.GetMessages(ctx, chatID, 0); err == nil {
		onUpdate(messages)
	} else {
		log.Printf("❌ Initial message snapshot failed for chat %s: %v", chatID, err)
	}
	return unsubscribe
}

func (s *ChatService) publishMessages(ctx context.Context, chatID string) {
	messages, err := s.GetMessages(ctx, chatID, 0)
	if err != nil {
		log.Printf("❌ Failed to refresh message feed for chat %s: %v", chatID, err)
		return
	}
	s.messageFeeds.publish(chatID, messages)
}

func (s *ChatService) publishChatLists(ctx context.Context, userIDs []string) {
	for _, userID := range userIDs {
		chats, err := s.GetChatsForUser(ctx, userID)
		if err != nil {
			log.Printf("❌ Failed to refresh chat list for %s: %v", userID, err)
			continue
		}
		s.chatFeeds.publish(userID, chats)
		if s.Notify != nil {
			s.Notify("user:"+userID, "chatsUpdated", chats)
		}
	}
}

func containsString(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}
