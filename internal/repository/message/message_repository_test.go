package message

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quotechat/go-quotechat/internal/domain"
)

func newTestRepo(t *testing.T) MessageRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open in-memory database")
	require.NoError(t, db.AutoMigrate(&domain.Chat{}, &domain.Message{}))
	return NewMessageRepository(db)
}

func seedMessages(t *testing.T, repo MessageRepository, chatID uint, n int) []domain.Message {
	t.Helper()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	out := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		msg := &domain.Message{
			ChatID:    chatID,
			Content:   fmt.Sprintf("message %d", i+1),
			Sender:    domain.SenderUser,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		saved, err := repo.Create(ctx, msg)
		require.NoError(t, err)
		out = append(out, *saved)
	}
	return out
}

func TestCreateAssignsID(t *testing.T) {
	repo := newTestRepo(t)

	saved, err := repo.Create(context.Background(), &domain.Message{
		ChatID:    1,
		Content:   "hello",
		Sender:    domain.SenderUser,
		Timestamp: time.Now(),
	})

	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
}

func TestCreateValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Message{ChatID: 1, Content: "   ", Sender: domain.SenderUser, Timestamp: time.Now()})
	assert.Error(t, err, "blank content must be rejected")

	_, err = repo.Create(ctx, &domain.Message{ChatID: 0, Content: "hi", Sender: domain.SenderUser, Timestamp: time.Now()})
	assert.Error(t, err, "zero chat id must be rejected")

	_, err = repo.Create(ctx, &domain.Message{ChatID: 1, Content: "hi", Sender: "system", Timestamp: time.Now()})
	assert.Error(t, err, "unknown sender must be rejected")

	long := strings.Repeat("x", domain.MaxMessageLength+1)
	_, err = repo.Create(ctx, &domain.Message{ChatID: 1, Content: long, Sender: domain.SenderUser, Timestamp: time.Now()})
	assert.Error(t, err, "oversized content must be rejected")
}

func TestFindPagePagesFromTheEnd(t *testing.T) {
	repo := newTestRepo(t)
	seedMessages(t, repo, 1, 7)
	ctx := context.Background()

	// Page 1 holds the newest 3, in chronological order.
	page1, err := repo.FindPage(ctx, 1, 1, 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	assert.Equal(t, "message 5", page1[0].Content)
	assert.Equal(t, "message 7", page1[2].Content)

	page2, err := repo.FindPage(ctx, 1, 2, 3)
	require.NoError(t, err)
	require.Len(t, page2, 3)
	assert.Equal(t, "message 2", page2[0].Content)
	assert.Equal(t, "message 4", page2[2].Content)

	// Last page may be short.
	page3, err := repo.FindPage(ctx, 1, 3, 3)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "message 1", page3[0].Content)

	beyond, err := repo.FindPage(ctx, 1, 4, 3)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestFindPageUnknownChatIsEmpty(t *testing.T) {
	repo := newTestRepo(t)

	messages, err := repo.FindPage(context.Background(), 999, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFindSinceStrictlyGreater(t *testing.T) {
	repo := newTestRepo(t)
	seeded := seedMessages(t, repo, 1, 4)
	ctx := context.Background()

	// Equal timestamps are excluded.
	since := seeded[1].Timestamp
	messages, err := repo.FindSince(ctx, 1, &since)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "message 3", messages[0].Content)
	assert.Equal(t, "message 4", messages[1].Content)

	all, err := repo.FindSince(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUpdatePersistsContentAndTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	seeded := seedMessages(t, repo, 1, 1)
	ctx := context.Background()

	edited := seeded[0]
	edited.Content = "rewritten"
	edited.Timestamp = time.Now().Add(time.Minute)
	require.NoError(t, repo.Update(ctx, &edited))

	got, err := repo.FindByID(ctx, edited.ID)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", got.Content)
	assert.WithinDuration(t, edited.Timestamp, got.Timestamp, time.Second)
}

func TestUpdateMissingMessage(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Update(context.Background(), &domain.Message{
		ID:        42,
		ChatID:    1,
		Content:   "ghost",
		Sender:    domain.SenderUser,
		Timestamp: time.Now(),
	})
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestDeleteByChatID(t *testing.T) {
	repo := newTestRepo(t)
	seedMessages(t, repo, 1, 3)
	seedMessages(t, repo, 2, 2)
	ctx := context.Background()

	require.NoError(t, repo.DeleteByChatID(ctx, 1))

	count, err := repo.CountByChatID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Other chats untouched.
	count, err = repo.CountByChatID(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Deleting an already-empty log is fine.
	assert.NoError(t, repo.DeleteByChatID(ctx, 1))
}
