package models

import "time"

// AIMessage sources.
const (
	AISourceChat  = "chat"
	AISourceVoice = "voice"
)

// AIMessage records one exchange with the AI assistant: the user prompt and
// the completion returned by the upstream proxy. Cached marks replies served
// from the Redis response cache without an upstream call.
type AIMessage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	ConversationID string    `gorm:"size:36;index" json:"conversation_id"`
	Source         string    `gorm:"size:16;default:'chat'" json:"source"`
	Prompt         string    `gorm:"type:text;not null" json:"prompt"`
	Reply          string    `gorm:"type:text" json:"reply"`
	Cached         bool      `gorm:"default:false" json:"cached"`
	CreatedAt      time.Time `json:"created_at"`
}
