// File: internal/handlers/message_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/quotechat/go-quotechat/internal/services"
)

type MessageHandler struct {
	ConversationService *services.ConversationService
}

func NewMessageHandler(cs *services.ConversationService) *MessageHandler {
	return &MessageHandler{ConversationService: cs}
}

type messageRequest struct {
	Content string `json:"content"`
}

// ListMessages returns one page of the chat's log. Pages count from the end:
// page 1 is the most recent messages, in chronological order. An unknown chat
// yields an empty page, not a 404.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	messages, err := h.ConversationService.ListMessages(r.Context(), chatID, page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// SendMessage appends a user message and schedules the delayed bot reply.
// The response carries only the user message; clients poll for the reply.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sent, err := h.ConversationService.Send(r.Context(), chatID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sent)
}

// EditMessage rewrites a user message's content and re-timestamps it.
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := pathID(r, "messageId")
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.ConversationService.EditMessage(r.Context(), messageID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// LatestMessages returns messages appended strictly after the optional
// RFC3339 since parameter; without it, the whole log. Clients poll this to
// pick up the delayed bot reply.
func (h *MessageHandler) LatestMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, "Invalid since timestamp, expected RFC3339", http.StatusBadRequest)
			return
		}
		since = &parsed
	}

	messages, err := h.ConversationService.ListNewSince(r.Context(), chatID, since)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
