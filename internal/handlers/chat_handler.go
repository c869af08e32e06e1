// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/quotechat/go-quotechat/internal/middleware"
	"github.com/quotechat/go-quotechat/internal/services"
)

type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

type chatRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ListChats returns the chats visible to the caller, newest activity first.
// Guests see the unowned set; an optional search narrows by name.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserIDFrom(r.Context())
	search := r.URL.Query().Get("search")

	chats, err := h.ChatService.ListChats(r.Context(), ownerID, search)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	found, err := h.ChatService.GetChat(r.Context(), chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ownerID := middleware.UserIDFrom(r.Context())
	created, err := h.ChatService.CreateChat(r.Context(), ownerID, req.FirstName, req.LastName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ChatHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.ChatService.UpdateChat(r.Context(), chatID, req.FirstName, req.LastName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	if err := h.ChatService.DeleteChat(r.Context(), chatID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
}

// pathID parses a numeric mux path variable.
func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
