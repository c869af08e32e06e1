// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/quotechat/go-quotechat/internal/config"
	"github.com/quotechat/go-quotechat/internal/domain"
	"github.com/quotechat/go-quotechat/internal/handlers"
	"github.com/quotechat/go-quotechat/internal/middleware"
	"github.com/quotechat/go-quotechat/internal/ratelimit"
	chatrepo "github.com/quotechat/go-quotechat/internal/repository/chat"
	messagerepo "github.com/quotechat/go-quotechat/internal/repository/message"
	userrepo "github.com/quotechat/go-quotechat/internal/repository/user"
	"github.com/quotechat/go-quotechat/internal/services"
	"github.com/quotechat/go-quotechat/internal/services/conversation"
	"github.com/quotechat/go-quotechat/internal/services/quote"
)

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	logger := services.NewLogger("quotechat")

	quoteConfig := quote.DefaultConfig()
	quoteConfig.BaseURL = cfg.QuoteBaseURL
	quoteConfig.OpenAIKey = cfg.OpenAIAPIKey
	if err := quoteConfig.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid quote configuration: %v", err)
	}

	var provider quote.Provider
	switch cfg.QuoteProvider {
	case "openai":
		provider = quote.NewOpenAIProvider(quoteConfig)
	default:
		provider = quote.NewDummyJSONProvider(quoteConfig)
	}
	retry := &quote.RetryConfig{MaxAttempts: quoteConfig.MaxRetries, Delay: quoteConfig.RetryDelay}
	quoteService := services.NewQuoteService(provider, retry, logger)

	scheduler := conversation.NewScheduler(messageRepo, chatRepo, quoteService, logger)

	conversationConfig := conversation.DefaultConfig()
	conversationConfig.ReplyDelay = cfg.ReplyDelay
	conversationService, err := services.NewConversationService(chatRepo, messageRepo, scheduler, conversationConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Conversation Service: %v", err)
	}

	chatService, err := services.NewChatService(chatRepo, messageRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.GoogleClientID, logger)

	// Seed the guest directory before accepting traffic.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := chatService.EnsureGuestChats(seedCtx); err != nil {
		log.Fatalf("FATAL: Failed to seed guest chats: %v", err)
	}
	cancelSeed()

	// --- Handlers ---
	chatHandler := handlers.NewChatHandler(chatService)
	messageHandler := handlers.NewMessageHandler(conversationService)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Router Setup ---
	r := mux.NewRouter()

	r.Use(middleware.CORS)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.OptionalAuth(authService))

	loginLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultLoginConfig(cfg.AuthRateLimit))
	defer loginLimiter.Close()
	rateLimited := middleware.RateLimitMiddleware(loginLimiter, "google_login")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handlers.Health).Methods("GET")

	api.HandleFunc("/chats", chatHandler.ListChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.UpdateChat).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.DeleteChat).Methods("DELETE")

	api.HandleFunc("/messages/{chatId:[0-9]+}", messageHandler.ListMessages).Methods("GET")
	api.HandleFunc("/messages/{chatId:[0-9]+}", messageHandler.SendMessage).Methods("POST")
	api.HandleFunc("/messages/update/{messageId:[0-9]+}", messageHandler.EditMessage).Methods("PUT")
	api.HandleFunc("/messages/{chatId:[0-9]+}/latest", messageHandler.LatestMessages).Methods("GET")

	api.Handle("/auth/google", rateLimited(http.HandlerFunc(authHandler.GoogleLogin))).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.Printf("Server starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	// Let armed bot replies land before the process exits.
	scheduler.Close()

	log.Println("Server stopped gracefully")
}
