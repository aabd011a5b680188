package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campuspool/campuspool/internal/middleware"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/service"
	"github.com/campuspool/campuspool/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ChatHandler struct {
	chatService service.ChatService
	validate    *validator.Validate
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validate:    validator.New(),
	}
}

func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/{requestId}/messages", h.ListMessages)
	r.Post("/chat/{requestId}/messages", h.PostMessage)
}

// GET /api/chat/{requestId}/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "requestId")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid request id")
		return
	}

	chat, err := h.chatService.ListMessages(r.Context(), actor, id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, chat)
}

// POST /api/chat/{requestId}/messages
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "requestId")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid request id")
		return
	}

	var req models.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	message, err := h.chatService.PostMessage(r.Context(), actor, id, req.Message)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, message)
}
