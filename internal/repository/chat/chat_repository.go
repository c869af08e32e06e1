package chat

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

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if err := r.validateChatInput(chat); err != nil {
		log.Printf("[ChatRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		log.Printf("[ChatRepository] Database error during chat creation: %v", err)
		return nil, errors.New("database error creating chat")
	}

	return chat, nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, id uint) (*domain.Chat, error) {
	if id == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, id).Error
	return r.handleFindError(err, &chat, "FindByID")
}

func (r *gormChatRepository) FindForOwner(ctx context.Context, ownerID *uint, search string) ([]domain.Chat, error) {
	query := r.db.WithContext(ctx).Model(&domain.Chat{})
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	} else {
		query = query.Where("user_id IS NULL")
	}

	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\'",
			pattern, pattern,
		)
	}

	var chats []domain.Chat
	err := query.Order("last_message_time DESC, id DESC").Find(&chats).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error listing chats: %v", err)
		return nil, errors.New("database error fetching chats")
	}

	return chats, nil
}

func (r *gormChatRepository) Update(ctx context.Context, chat *domain.Chat) error {
	if chat.ID == 0 {
		return ErrChatNotFound
	}

	if err := r.validateChatInput(chat); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chat.ID).
		Updates(map[string]interface{}{
			"first_name": chat.FirstName,
			"last_name":  chat.LastName,
		})

	if result.Error != nil {
		log.Printf("[ChatRepository] Database error updating chat ID %d: %v", chat.ID, result.Error)
		return errors.New("database error updating chat")
	}

	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}

	return nil
}

func (r *gormChatRepository) Delete(ctx context.Context, chatID uint) error {
	if chatID == 0 {
		return ErrChatNotFound
	}

	result := r.db.WithContext(ctx).Delete(&domain.Chat{}, chatID)
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error deleting chat ID %d: %v", chatID, result.Error)
		return errors.New("database error deleting chat")
	}

	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}

	return nil
}

func (r *gormChatRepository) ExistsByID(ctx context.Context, chatID uint) (bool, error) {
	if chatID == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).Where("id = ?", chatID).Count(&count).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error checking chat existence for ID %d: %v", chatID, err)
		return false, errors.New("database error checking chat existence")
	}

	return count > 0, nil
}

// UpdateSummary performs no ordering check of its own; the summary invariant
// is maintained by construction in the conversation service.
func (r *gormChatRepository) UpdateSummary(ctx context.Context, chatID uint, content string, ts time.Time) error {
	if chatID == 0 {
		return ErrChatNotFound
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Updates(map[string]interface{}{
			"last_message":      content,
			"last_message_time": ts,
		})

	if result.Error != nil {
		log.Printf("[ChatRepository] Database error updating summary for chat ID %d: %v", chatID, result.Error)
		return errors.New("database error updating chat summary")
	}

	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}

	return nil
}

func (r *gormChatRepository) CountGuest(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).Where("user_id IS NULL").Count(&count).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error counting guest chats: %v", err)
		return 0, errors.New("database error counting guest chats")
	}

	return count, nil
}

func (r *gormChatRepository) DeleteGuest(ctx context.Context) error {
	err := r.db.WithContext(ctx).Where("user_id IS NULL").Delete(&domain.Chat{}).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error deleting guest chats: %v", err)
		return errors.New("database error deleting guest chats")
	}

	return nil
}

func (r *gormChatRepository) validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}

	if strings.TrimSpace(chat.FirstName) == "" {
		return errors.New("first name is required")
	}

	if strings.TrimSpace(chat.LastName) == "" {
		return errors.New("last name is required")
	}

	return nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// handleFindError maps gorm errors to repository errors without leaking
// database detail.
func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}

	log.Printf("[ChatRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
