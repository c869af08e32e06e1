package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/quotechat/go-quotechat/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message creation for chat ID %d: %v", message.ChatID, err)
		return nil, errors.New("database error creating message")
	}

	return message, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID uint) (*domain.Message, error) {
	if messageID == 0 {
		return nil, ErrMessageNotFound
	}

	var message domain.Message
	err := r.db.WithContext(ctx).First(&message, messageID).Error
	return r.handleFindError(err, &message, "FindByID")
}

func (r *gormMessageRepository) Update(ctx context.Context, message *domain.Message) error {
	if message.ID == 0 {
		return ErrMessageNotFound
	}

	if err := r.validateMessageInput(message); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", message.ID).
		Updates(map[string]interface{}{
			"content":   message.Content,
			"timestamp": message.Timestamp,
		})

	if result.Error != nil {
		log.Printf("[MessageRepository] Database error updating message ID %d: %v", message.ID, result.Error)
		return errors.New("database error updating message")
	}

	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}

func (r *gormMessageRepository) FindPage(ctx context.Context, chatID uint, page, pageSize int) ([]domain.Message, error) {
	if chatID == 0 {
		return nil, errors.New("invalid chat ID")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return nil, errors.New("invalid page size")
	}

	// Newest first, skip whole pages, then reverse to chronological order.
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("timestamp DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error in paginated query for chat ID %d: %v", chatID, err)
		return nil, errors.New("database error retrieving paginated messages")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *gormMessageRepository) FindSince(ctx context.Context, chatID uint, since *time.Time) ([]domain.Message, error) {
	if chatID == 0 {
		return nil, errors.New("invalid chat ID")
	}

	query := r.db.WithContext(ctx).Where("chat_id = ?", chatID)
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}

	var messages []domain.Message
	err := query.Order("timestamp ASC, id ASC").Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for chat ID %d: %v", chatID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

// DeleteByChatID removes every message belonging to the chat. Deleting an
// empty log is not an error.
func (r *gormMessageRepository) DeleteByChatID(ctx context.Context, chatID uint) error {
	if chatID == 0 {
		return errors.New("invalid chat ID")
	}

	result := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for chat ID %d: %v", chatID, result.Error)
		return errors.New("database error deleting messages by chat ID")
	}

	log.Printf("[MessageRepository] Deleted %d messages for chat %d", result.RowsAffected, chatID)
	return nil
}

func (r *gormMessageRepository) CountByChatID(ctx context.Context, chatID uint) (int64, error) {
	if chatID == 0 {
		return 0, errors.New("invalid chat ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for chat ID %d: %v", chatID, err)
		return 0, errors.New("database error counting chat messages")
	}

	return count, nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}

	if message.ChatID == 0 {
		return errors.New("chat ID is required")
	}

	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}

	if len(message.Content) > domain.MaxMessageLength {
		return fmt.Errorf("message content too long (max %d characters)", domain.MaxMessageLength)
	}

	if message.Sender != domain.SenderUser && message.Sender != domain.SenderBot {
		return errors.New("invalid message sender")
	}

	return nil
}

// handleFindError maps gorm errors to repository errors without leaking
// database detail.
func (r *gormMessageRepository) handleFindError(err error, message *domain.Message, operation string) (*domain.Message, error) {
	if err == nil {
		return message, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}

	log.Printf("[MessageRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
