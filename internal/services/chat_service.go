// File: internal/services/chat_service.go
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

// seedContacts are the guest chats created on first boot.
var seedContacts = []struct {
	FirstName string
	LastName  string
}{
	{"John", "Doe"},
	{"Jane", "Smith"},
	{"Alice", "Johnson"},
}

// ChatService manages the chat directory: listing, CRUD, and the guest seed.
type ChatService struct {
	chatRepo    chat.ChatRepository
	messageRepo message.MessageRepository
	logger      Logger
}

func NewChatService(chatRepo chat.ChatRepository, messageRepo message.MessageRepository, logger Logger) (*ChatService, error) {
	if chatRepo == nil {
		return nil, conversation.NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, conversation.NewValidationError("constructor", "message repository is required")
	}
	return &ChatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}, nil
}

// ListChats returns the chats visible to ownerID (guest chats when nil),
// optionally filtered by a case-insensitive name search, most recent
// activity first.
func (s *ChatService) ListChats(ctx context.Context, ownerID *uint, search string) ([]domain.Chat, error) {
	chats, err := s.chatRepo.FindForOwner(ctx, ownerID, strings.TrimSpace(search))
	if err != nil {
		return nil, conversation.NewStorageError("list_chats", "could not fetch chats", err)
	}
	return chats, nil
}

func (s *ChatService) GetChat(ctx context.Context, id uint) (*domain.Chat, error) {
	found, err := s.chatRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return nil, conversation.NewNotFoundError("get_chat", "chat not found")
		}
		return nil, conversation.NewStorageError("get_chat", "could not load chat", err)
	}
	return found, nil
}

// CreateChat adds a directory entry for ownerID (guest entry when nil).
// Both names are required; the summary starts empty with the creation time
// as the activity timestamp, so new chats sort to the top.
func (s *ChatService) CreateChat(ctx context.Context, ownerID *uint, firstName, lastName string) (*domain.Chat, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, conversation.NewValidationError("create_chat", "first name and last name are required")
	}

	newChat := &domain.Chat{
		FirstName:       firstName,
		LastName:        lastName,
		LastMessage:     "",
		LastMessageTime: time.Now(),
		UserID:          ownerID,
	}

	created, err := s.chatRepo.Create(ctx, newChat)
	if err != nil {
		return nil, conversation.NewStorageError("create_chat", "could not create chat", err)
	}

	s.logger.Info("chat created", "chat_id", created.ID)
	return created, nil
}

// UpdateChat renames a chat. Summary fields are untouched.
func (s *ChatService) UpdateChat(ctx context.Context, id uint, firstName, lastName string) (*domain.Chat, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, conversation.NewValidationError("update_chat", "first name and last name are required")
	}

	existing, err := s.chatRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return nil, conversation.NewNotFoundError("update_chat", "chat not found")
		}
		return nil, conversation.NewStorageError("update_chat", "could not load chat", err)
	}

	existing.FirstName = firstName
	existing.LastName = lastName

	if err := s.chatRepo.Update(ctx, existing); err != nil {
		return nil, conversation.NewStorageError("update_chat", "could not update chat", err)
	}

	return existing, nil
}

// DeleteChat removes a chat and its whole message log. Messages go first so
// a failure mid-way never leaves orphaned messages pointing at a live chat.
func (s *ChatService) DeleteChat(ctx context.Context, id uint) error {
	if _, err := s.chatRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return conversation.NewNotFoundError("delete_chat", "chat not found")
		}
		return conversation.NewStorageError("delete_chat", "could not load chat", err)
	}

	if err := s.messageRepo.DeleteByChatID(ctx, id); err != nil {
		return conversation.NewStorageError("delete_chat", "could not delete messages", err)
	}

	if err := s.chatRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return conversation.NewNotFoundError("delete_chat", "chat not found")
		}
		return conversation.NewStorageError("delete_chat", "could not delete chat", err)
	}

	s.logger.Info("chat deleted", "chat_id", id)
	return nil
}

// EnsureGuestChats seeds the guest directory on startup. When fewer than
// three guest chats exist the guest set is rebuilt from scratch: partial
// seeds are wiped and the three predefined contacts recreated with empty
// summaries.
func (s *ChatService) EnsureGuestChats(ctx context.Context) error {
	count, err := s.chatRepo.CountGuest(ctx)
	if err != nil {
		return conversation.NewStorageError("ensure_guest_chats", "could not count guest chats", err)
	}
	if count >= int64(len(seedContacts)) {
		return nil
	}

	if err := s.chatRepo.DeleteGuest(ctx); err != nil {
		return conversation.NewStorageError("ensure_guest_chats", "could not clear guest chats", err)
	}

	for _, contact := range seedContacts {
		seed := &domain.Chat{
			FirstName:       contact.FirstName,
			LastName:        contact.LastName,
			LastMessage:     "",
			LastMessageTime: time.Now(),
		}
		if _, err := s.chatRepo.Create(ctx, seed); err != nil {
			return conversation.NewStorageError("ensure_guest_chats", "could not seed guest chat", err)
		}
	}

	s.logger.Info("guest chats seeded", "count", len(seedContacts))
	return nil
}
