package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// Room names used by both the socket layer and the service broadcasts

// ChatRoom is the room carrying newMessage events for one chat thread
func ChatRoom(chatID string) string {
	return "chat:" + chatID
}

// UserRoom is the per-user room carrying chatsUpdated and coinsUpdated events
func UserRoom(userID string) string {
	return "user:" + userID
}

// NewSocketServer initializes and returns a new Socket.IO server. Clients
// identify themselves to receive chat-list and coin updates, and join one
// room per open chat screen.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// A signed-in client joins its own user room
	server.OnEvent("/", "identify", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Invalid userId in identify request")
			return
		}
		c.Join(UserRoom(userID))
	})

	// An open chat screen joins that chat's room
	server.OnEvent("/", "join", func(c socketio.Conn, chatID string) {
		if chatID == "" {
			log.Println("❌ Invalid chatId in join request")
			return
		}
		log.Printf("👥 Socket %s joined chat %s\n", c.ID(), chatID)
		c.Join(ChatRoom(chatID))
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, chatID string) {
		c.Leave(ChatRoom(chatID))
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", reason)
	})

	return server
}
