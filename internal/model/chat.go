package model

import "time"

// ChatMessage is one line in the viewer chat.  Chat is a best-effort side
// channel: writes pass through the admission limiter before reaching the
// store, and messages are truncated at the boundary rather than rejected.
//
// Fields:
//  ID        – primary key, monotonic; the feed orders by it.
//  Username  – display name supplied by the client, capped at 40 chars.
//  Text      – message body, capped at 200 chars, never empty.
//  CreatedAt – insertion timestamp.
type ChatMessage struct {
	ID        uint64    `json:"id"`         // chat_messages.id
	Username  string    `json:"username"`   // chat_messages.username
	Text      string    `json:"text"`       // chat_messages.text
	CreatedAt time.Time `json:"created_at"` // chat_messages.created_at
}
