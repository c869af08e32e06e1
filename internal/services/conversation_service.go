// File: internal/services/conversation_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/quotechat/go-quotechat/internal/domain"
	"github.com/quotechat/go-quotechat/internal/repository/chat"
	"github.com/quotechat/go-quotechat/internal/repository/message"
	"github.com/quotechat/go-quotechat/internal/services/conversation"
)

// ConversationService is the public contract for the message exchange
// pipeline: send a message, edit one, and read the log by page or by
// since-filter. Every successful Send also arms the reply scheduler.
type ConversationService struct {
	config      *conversation.Config
	chatRepo    chat.ChatRepository
	messageRepo message.MessageRepository
	scheduler   *conversation.Scheduler
	logger      Logger
}

func NewConversationService(
	chatRepo chat.ChatRepository,
	messageRepo message.MessageRepository,
	scheduler *conversation.Scheduler,
	config *conversation.Config,
	logger Logger,
) (*ConversationService, error) {
	if chatRepo == nil {
		return nil, conversation.NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, conversation.NewValidationError("constructor", "message repository is required")
	}
	if scheduler == nil {
		return nil, conversation.NewValidationError("constructor", "scheduler is required")
	}

	if config == nil {
		config = conversation.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, conversation.NewValidationError("config", err.Error())
	}

	return &ConversationService{
		config:      config,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		scheduler:   scheduler,
		logger:      logger,
	}, nil
}

// Send persists a user message, updates the chat summary with that same
// message, arms the delayed bot reply, and returns immediately. It never
// waits for the reply.
func (s *ConversationService) Send(ctx context.Context, chatID uint, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, conversation.NewValidationError("send", "message content is required")
	}
	if len(content) > domain.MaxMessageLength {
		return nil, conversation.NewValidationError("send", "message content too long")
	}

	if _, err := s.chatRepo.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return nil, conversation.NewNotFoundError("send", "chat not found")
		}
		return nil, conversation.NewStorageError("send", "could not load chat", err)
	}

	now := time.Now()
	userMessage := &domain.Message{
		ChatID:    chatID,
		Content:   content,
		Sender:    domain.SenderUser,
		Timestamp: now,
	}

	saved, err := s.messageRepo.Create(ctx, userMessage)
	if err != nil {
		return nil, conversation.NewStorageError("send", "could not save message", err)
	}

	if err := s.chatRepo.UpdateSummary(ctx, chatID, saved.Content, saved.Timestamp); err != nil {
		// The message is already persisted; the summary catches up on the
		// next append. Not surfaced to the caller.
		s.logger.Warn("summary update failed after send", "chat_id", chatID, "error", err.Error())
	}

	s.scheduler.ScheduleReply(chatID, s.config.ReplyDelay)

	return saved, nil
}

// EditMessage changes the content of an existing user message and moves its
// timestamp to the edit time. Bot messages are immutable. The chat summary is
// deliberately left untouched, so it can go stale after an edit of the most
// recent message; list views correct themselves on the next append.
func (s *ConversationService) EditMessage(ctx context.Context, messageID uint, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, conversation.NewValidationError("edit_message", "message content is required")
	}
	if len(content) > domain.MaxMessageLength {
		return nil, conversation.NewValidationError("edit_message", "message content too long")
	}

	existing, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return nil, conversation.NewNotFoundError("edit_message", "message not found")
		}
		return nil, conversation.NewStorageError("edit_message", "could not load message", err)
	}

	if !existing.Editable() {
		return nil, conversation.NewForbiddenError("edit_message", "cannot edit bot messages")
	}

	existing.Content = content
	existing.Timestamp = time.Now()

	if err := s.messageRepo.Update(ctx, existing); err != nil {
		return nil, conversation.NewStorageError("edit_message", "could not update message", err)
	}

	return existing, nil
}

// ListMessages pages the chat's log from the end: page 1 is the newest
// pageSize messages in chronological order.
func (s *ConversationService) ListMessages(ctx context.Context, chatID uint, page, pageSize int) ([]domain.Message, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.config.DefaultPageSize
	}
	if pageSize > s.config.MaxPageSize {
		pageSize = s.config.MaxPageSize
	}

	messages, err := s.messageRepo.FindPage(ctx, chatID, page, pageSize)
	if err != nil {
		return nil, conversation.NewStorageError("list_messages", "could not fetch messages", err)
	}

	return messages, nil
}

// ListNewSince returns the messages appended strictly after since, in
// chronological order. Callers poll it to pick up the delayed bot reply.
func (s *ConversationService) ListNewSince(ctx context.Context, chatID uint, since *time.Time) ([]domain.Message, error) {
	messages, err := s.messageRepo.FindSince(ctx, chatID, since)
	if err != nil {
		return nil, conversation.NewStorageError("list_new_since", "could not fetch messages", err)
	}

	return messages, nil
}
