package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/quotechat/go-quotechat/internal/domain"
	"github.com/quotechat/go-quotechat/internal/repository/chat"
	"github.com/quotechat/go-quotechat/internal/repository/message"
)

// Logger is the logging surface this package needs; satisfied by
// services.Logger.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// QuoteSource produces the bot reply text. It never fails; provider errors
// resolve to a fallback quote inside the source itself.
type QuoteSource interface {
	FetchQuote(ctx context.Context) string
}

// deliverTimeout bounds the quote fetch plus both store writes of one reply.
const deliverTimeout = 30 * time.Second

// Scheduler produces the delayed automatic bot reply, decoupled from the
// request that triggered it. Each armed reply is an independent one-shot
// timer; there is no handle to cancel one once armed. If its chat is deleted
// while the timer runs, the reply is dropped silently.
type Scheduler struct {
	messageRepo message.MessageRepository
	chatRepo    chat.ChatRepository
	quotes      QuoteSource
	logger      Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewScheduler(
	messageRepo message.MessageRepository,
	chatRepo chat.ChatRepository,
	quotes QuoteSource,
	logger Logger,
) *Scheduler {
	return &Scheduler{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		quotes:      quotes,
		logger:      logger,
	}
}

// ScheduleReply arms a one-shot timer for chatID. Fire-and-forget: the caller
// gets no handle and never observes a delivery failure. Multiple replies for
// the same chat may be in flight at once; they append in firing order.
func (s *Scheduler) ScheduleReply(chatID uint, delay time.Duration) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("scheduler closed, reply not armed", "chat_id", chatID)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in reply delivery", "chat_id", chatID, "panic", r)
			}
		}()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		<-timer.C

		s.deliver(chatID)
	}()
}

// deliver runs once per armed timer. Every failure path logs and returns;
// nothing here may surface to a request or crash the process.
func (s *Scheduler) deliver(chatID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	exists, err := s.chatRepo.ExistsByID(ctx, chatID)
	if err != nil {
		s.logger.Warn("reply dropped, chat lookup failed", "chat_id", chatID, "error", err.Error())
		return
	}
	if !exists {
		// Chat was deleted while the timer was armed.
		s.logger.Debug("reply dropped, chat no longer exists", "chat_id", chatID)
		return
	}

	text := s.quotes.FetchQuote(ctx)
	now := time.Now()

	botMessage := &domain.Message{
		ChatID:    chatID,
		Content:   text,
		Sender:    domain.SenderBot,
		Timestamp: now,
	}

	if _, err := s.messageRepo.Create(ctx, botMessage); err != nil {
		s.logger.Warn("reply dropped, append failed", "chat_id", chatID, "error", err.Error())
		return
	}

	if err := s.chatRepo.UpdateSummary(ctx, chatID, text, now); err != nil {
		s.logger.Warn("summary update failed after reply", "chat_id", chatID, "error", err.Error())
	}
}

// Close stops accepting new replies and waits for in-flight ones, armed
// timers included, to finish. Armed timers are never cancelled.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}
