package models

import "time"

// MaxChatHistory caps the persisted chat history per project.
const MaxChatHistory = 20

// ChatEntry is one user/assistant exchange in a project's plan chat.
type ChatEntry struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

// AppendChatEntry appends an exchange and truncates the history to the
// most recent MaxChatHistory entries.
func AppendChatEntry(history []ChatEntry, entry ChatEntry) []ChatEntry {
	history = append(history, entry)
	if len(history) > MaxChatHistory {
		history = history[len(history)-MaxChatHistory:]
	}
	return history
}
