package message

import (
	"context"
	"time"

	"github.com/quotechat/go-quotechat/internal/domain"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, messageID uint) (*domain.Message, error)
	Update(ctx context.Context, message *domain.Message) error
	// FindPage pages the chat's log from the end: page 1 holds the newest
	// pageSize messages, returned in chronological order within the page.
	FindPage(ctx context.Context, chatID uint, page, pageSize int) ([]domain.Message, error)
	// FindSince returns messages with timestamp strictly greater than since,
	// ascending. A nil since returns the whole log.
	FindSince(ctx context.Context, chatID uint, since *time.Time) ([]domain.Message, error)
	DeleteByChatID(ctx context.Context, chatID uint) error
	CountByChatID(ctx context.Context, chatID uint) (int64, error)
}
