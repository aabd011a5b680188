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

type SosHandler struct {
	sosService service.SosService
	validate   *validator.Validate
}

func NewSosHandler(sosService service.SosService) *SosHandler {
	return &SosHandler{
		sosService: sosService,
		validate:   validator.New(),
	}
}

func (h *SosHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sos", h.Trigger)
}

// POST /api/sos
func (h *SosHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var req models.TriggerSosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	event, err := h.sosService.Trigger(r.Context(), actor, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusCreated, "SOS raised", "sos", event)
}
