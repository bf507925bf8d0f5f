package ai

import "sync"

// Role is the author of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation
type Message struct {
	Role    Role
	Content string
}

// conversation is one chat's message log
type conversation struct {
	messages []Message
	mu       sync.Mutex
}

// History keeps the recent free-text exchanges of each chat
type History struct {
	conversations map[int64]*conversation
	limit         int
	mu            sync.RWMutex
}

// NewHistory creates a history that keeps at most limit messages per chat.
// A zero limit keeps nothing.
func NewHistory(limit int) *History {
	return &History{
		conversations: make(map[int64]*conversation),
		limit:         limit,
	}
}

// Add appends a message to the chat's history, dropping the oldest beyond the limit
func (h *History) Add(chatID int64, role Role, content string) {
	if h.limit <= 0 {
		return
	}

	h.mu.Lock()
	conv, exists := h.conversations[chatID]
	if !exists {
		conv = &conversation{}
		h.conversations[chatID] = conv
	}
	h.mu.Unlock()

	conv.mu.Lock()
	defer conv.mu.Unlock()

	conv.messages = append(conv.messages, Message{
		Role:    role,
		Content: content,
	})
	if len(conv.messages) > h.limit {
		conv.messages = append([]Message(nil), conv.messages[len(conv.messages)-h.limit:]...)
	}
}

// Messages returns a copy of the chat's history, oldest first
func (h *History) Messages(chatID int64) []Message {
	h.mu.RLock()
	conv, exists := h.conversations[chatID]
	h.mu.RUnlock()

	if !exists {
		return []Message{}
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	return append([]Message(nil), conv.messages...)
}

// Clear clears the conversation history for a chat
func (h *History) Clear(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conversations, chatID)
}
