package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quotechat/go-quotechat/internal/domain"
	"github.com/quotechat/go-quotechat/internal/middleware"
	chatrepo "github.com/quotechat/go-quotechat/internal/repository/chat"
	messagerepo "github.com/quotechat/go-quotechat/internal/repository/message"
	userrepo "github.com/quotechat/go-quotechat/internal/repository/user"
	"github.com/quotechat/go-quotechat/internal/services"
	"github.com/quotechat/go-quotechat/internal/services/conversation"
)

type staticQuoteSource struct{}

func (staticQuoteSource) FetchQuote(ctx context.Context) string {
	return "Know thyself - Socrates"
}

type testEnv struct {
	router    *mux.Router
	chats     chatrepo.ChatRepository
	messages  messagerepo.MessageRepository
	users     userrepo.UserRepository
	scheduler *conversation.Scheduler
	auth      *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}))

	chats := chatrepo.NewChatRepository(db)
	messages := messagerepo.NewMessageRepository(db)
	users := userrepo.NewGormUserRepository(db)
	logger := &services.NoOpLogger{}

	scheduler := conversation.NewScheduler(messages, chats, staticQuoteSource{}, logger)

	config := conversation.DefaultConfig()
	config.ReplyDelay = 5 * time.Millisecond

	conversationService, err := services.NewConversationService(chats, messages, scheduler, config, logger)
	require.NoError(t, err)
	chatService, err := services.NewChatService(chats, messages, logger)
	require.NoError(t, err)
	authService := services.NewAuthService(users, "test-secret", "client-id", logger)

	chatHandler := NewChatHandler(chatService)
	messageHandler := NewMessageHandler(conversationService)
	authHandler := NewAuthHandler(authService)

	r := mux.NewRouter()
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.OptionalAuth(authService))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", Health).Methods("GET")
	api.HandleFunc("/chats", chatHandler.ListChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.UpdateChat).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.DeleteChat).Methods("DELETE")
	api.HandleFunc("/messages/{chatId:[0-9]+}", messageHandler.ListMessages).Methods("GET")
	api.HandleFunc("/messages/{chatId:[0-9]+}", messageHandler.SendMessage).Methods("POST")
	api.HandleFunc("/messages/update/{messageId:[0-9]+}", messageHandler.EditMessage).Methods("PUT")
	api.HandleFunc("/messages/{chatId:[0-9]+}/latest", messageHandler.LatestMessages).Methods("GET")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	return &testEnv{
		router:    r,
		chats:     chats,
		messages:  messages,
		users:     users,
		scheduler: scheduler,
		auth:      authService,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) createChat(t *testing.T, first, last string) domain.Chat {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/chats", map[string]string{"firstName": first, "lastName": last}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Chat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestChatLifecycle(t *testing.T) {
	env := newTestEnv(t)

	created := env.createChat(t, "John", "Doe")
	assert.Equal(t, "John", created.FirstName)

	rec := env.do(t, http.MethodGet, "/api/chats/"+strconv.Itoa(int(created.ID)), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/chats/"+strconv.Itoa(int(created.ID)),
		map[string]string{"firstName": "Johnny", "lastName": "Doe"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/chats/"+strconv.Itoa(int(created.ID)), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/chats/"+strconv.Itoa(int(created.ID)), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateChatValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/chats", map[string]string{"firstName": "", "lastName": "Doe"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestGetMissingChat(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/chats/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListChatsWithSearch(t *testing.T) {
	env := newTestEnv(t)
	env.createChat(t, "John", "Doe")
	env.createChat(t, "Jane", "Smith")

	rec := env.do(t, http.MethodGet, "/api/chats?search=smith", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var chats []domain.Chat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, "Jane", chats[0].FirstName)
}

func TestSendMessageAndPollReply(t *testing.T) {
	env := newTestEnv(t)
	chat := env.createChat(t, "John", "Doe")
	chatID := strconv.Itoa(int(chat.ID))

	rec := env.do(t, http.MethodPost, "/api/messages/"+chatID, map[string]string{"content": "hello"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sent domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	assert.Equal(t, domain.SenderUser, sent.Sender)

	// The response never carries the bot reply; it arrives later.
	env.scheduler.Close()

	since := url.QueryEscape(sent.Timestamp.Format(time.RFC3339Nano))
	rec = env.do(t, http.MethodGet, "/api/messages/"+chatID+"/latest?since="+since, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var newer []domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &newer))
	require.Len(t, newer, 1)
	assert.Equal(t, domain.SenderBot, newer[0].Sender)
	assert.Equal(t, "Know thyself - Socrates", newer[0].Content)
}

func TestSendMessageValidation(t *testing.T) {
	env := newTestEnv(t)
	chat := env.createChat(t, "John", "Doe")
	chatID := strconv.Itoa(int(chat.ID))

	rec := env.do(t, http.MethodPost, "/api/messages/"+chatID, map[string]string{"content": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/messages/999", map[string]string{"content": "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditBotMessageReturns403(t *testing.T) {
	env := newTestEnv(t)
	chat := env.createChat(t, "John", "Doe")

	bot, err := env.messages.Create(context.Background(), &domain.Message{
		ChatID:    chat.ID,
		Content:   "a bot reply",
		Sender:    domain.SenderBot,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPut, "/api/messages/update/"+strconv.Itoa(int(bot.ID)),
		map[string]string{"content": "tampered"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditMessageStatuses(t *testing.T) {
	env := newTestEnv(t)
	chat := env.createChat(t, "John", "Doe")
	chatID := strconv.Itoa(int(chat.ID))

	rec := env.do(t, http.MethodPost, "/api/messages/"+chatID, map[string]string{"content": "original"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sent domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))

	rec = env.do(t, http.MethodPut, "/api/messages/update/"+strconv.Itoa(int(sent.ID)),
		map[string]string{"content": "edited"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/messages/update/"+strconv.Itoa(int(sent.ID)),
		map[string]string{"content": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/messages/update/999",
		map[string]string{"content": "ghost"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMessagesUnknownChatIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/messages/999", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	assert.Empty(t, messages)
}

func TestLatestMessagesRejectsBadSince(t *testing.T) {
	env := newTestEnv(t)
	chat := env.createChat(t, "John", "Doe")

	rec := env.do(t, http.MethodGet, "/api/messages/"+strconv.Itoa(int(chat.ID))+"/latest?since=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionalAuthScopesChats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A guest chat and an owned chat.
	env.createChat(t, "Guest", "Chat")

	sub := "google-sub-auth"
	account, err := env.users.Create(ctx, &domain.User{GoogleID: &sub, Email: "owner@example.com", Name: "Owner"})
	require.NoError(t, err)
	_, err = env.chats.Create(ctx, &domain.Chat{
		FirstName:       "Owned",
		LastName:        "Chat",
		LastMessageTime: time.Now(),
		UserID:          &account.ID,
	})
	require.NoError(t, err)

	token, err := env.auth.TokenFor(account)
	require.NoError(t, err)

	// Without a token: guest view.
	rec := env.do(t, http.MethodGet, "/api/chats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var chats []domain.Chat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, "Guest", chats[0].FirstName)

	// With a token: only the owner's chats.
	rec = env.do(t, http.MethodGet, "/api/chats", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code)
	chats = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, "Owned", chats[0].FirstName)

	// A garbage token degrades to guest, never a 401.
	rec = env.do(t, http.MethodGet, "/api/chats", nil, map[string]string{"Authorization": "Bearer garbage"})
	require.Equal(t, http.StatusOK, rec.Code)
	chats = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, "Guest", chats[0].FirstName)
}

func TestAuthMeWithAndWithoutToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec := env.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	sub := "google-sub-me"
	account, err := env.users.Create(ctx, &domain.User{GoogleID: &sub, Email: "me@example.com", Name: "Me"})
	require.NoError(t, err)
	token, err := env.auth.TokenFor(account)
	require.NoError(t, err)

	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User *domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "me@example.com", resp.User.Email)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
