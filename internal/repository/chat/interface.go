package chat

import (
	"context"
	"time"

	"github.com/quotechat/go-quotechat/internal/domain"
)

// ChatRepository handles chat data operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, id uint) (*domain.Chat, error)
	// FindForOwner returns the chats visible to the given owner (guest chats
	// when ownerID is nil), optionally filtered by a case-insensitive name
	// substring, newest activity first.
	FindForOwner(ctx context.Context, ownerID *uint, search string) ([]domain.Chat, error)
	Update(ctx context.Context, chat *domain.Chat) error
	Delete(ctx context.Context, chatID uint) error
	ExistsByID(ctx context.Context, chatID uint) (bool, error)
	// UpdateSummary overwrites the denormalized last-message fields
	// unconditionally. Callers must only pass the most recently appended
	// message's content and timestamp.
	UpdateSummary(ctx context.Context, chatID uint, content string, ts time.Time) error
	CountGuest(ctx context.Context) (int64, error)
	DeleteGuest(ctx context.Context) error
}
