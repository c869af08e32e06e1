// File: internal/domain/chat.go
package domain

import (
	"encoding/json"
	"time"
)

// Chat represents a two-party conversation with a named contact.
type Chat struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	FirstName       string    `json:"firstName" gorm:"not null"`
	LastName        string    `json:"lastName" gorm:"not null"`
	LastMessage     string    `json:"lastMessage"`                  // content of the most recent message, "" when none
	LastMessageTime time.Time `json:"lastMessageTime" gorm:"index"` // timestamp of the most recent message
	UserID          *uint     `json:"userId" gorm:"index"`          // owning user; nil for guest chats
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FullName returns the contact's display name.
func (c *Chat) FullName() string {
	return c.FirstName + " " + c.LastName
}

// MarshalJSON adds the computed fullName field to the wire form.
func (c Chat) MarshalJSON() ([]byte, error) {
	type alias Chat
	return json.Marshal(struct {
		alias
		FullName string `json:"fullName"`
	}{
		alias:    alias(c),
		FullName: c.FullName(),
	})
}
