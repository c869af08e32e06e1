// File: internal/domain/message.go
package domain

import "time"

// Message sender roles. Bot messages are produced by the scheduled reply
// workflow and can never be edited.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// MaxMessageLength bounds message content, matching the client-side input cap.
const MaxMessageLength = 1000

// Message is a single unit of conversation content within a chat.
type Message struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ChatID    uint      `json:"chatId" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"not null"`
	Sender    string    `json:"sender" gorm:"not null"` // "user" or "bot"
	Timestamp time.Time `json:"timestamp" gorm:"index"` // set at creation, reset on content edit
}

// Editable reports whether the message may have its content changed.
func (m *Message) Editable() bool {
	return m.Sender == SenderUser
}
