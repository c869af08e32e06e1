// File: internal/domain/user.go
package domain

import "time"

// User is an authenticated principal. Chats owned by no user are guest chats.
type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	GoogleID  *string   `json:"-" gorm:"uniqueIndex"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Avatar    string    `json:"avatar"`
	IsGuest   bool      `json:"isGuest"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
