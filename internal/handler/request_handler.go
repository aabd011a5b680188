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

type RequestHandler struct {
	requestService service.RequestService
	validate       *validator.Validate
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		validate:       validator.New(),
	}
}

func (h *RequestHandler) RegisterRoutes(r chi.Router) {
	r.Post("/ride-requests", h.CreateRequest)
	r.Get("/ride-requests/my-requests", h.MyRequests)
	r.Get("/ride-requests/driver/pending", h.PendingRequests)
	r.Get("/ride-requests/driver/accepted", h.AcceptedRequests)
	r.Get("/ride-requests/ride/{rideId}", h.RideRequests)
	r.Put("/ride-requests/{id}", h.DecideRequest)
	r.Post("/ride-requests/{id}/start", h.StartRide)
	r.Post("/ride-requests/{id}/reached-safely", h.ReachedSafely)
}

// POST /api/ride-requests
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var req models.RequestRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	request, err := h.requestService.CreateRequest(r.Context(), actor, req.RideID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusCreated, "Seat requested", "request", request.ToResponse())
}

// GET /api/ride-requests/my-requests
func (h *RequestHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	requests, err := h.requestService.MyRequests(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// GET /api/ride-requests/driver/pending
func (h *RequestHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	requests, err := h.requestService.PendingForDriver(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// GET /api/ride-requests/driver/accepted
func (h *RequestHandler) AcceptedRequests(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	requests, err := h.requestService.AcceptedForDriver(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// GET /api/ride-requests/ride/{rideId}
func (h *RequestHandler) RideRequests(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	rideID := chi.URLParam(r, "rideId")
	if !utils.IsValidUUID(rideID) {
		utils.BadRequest(w, "invalid ride id")
		return
	}

	requests, err := h.requestService.RequestsForRide(r.Context(), actor, rideID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// PUT /api/ride-requests/{id}
func (h *RequestHandler) DecideRequest(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid request id")
		return
	}

	var req models.RequestDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	var (
		request *models.RideRequest
		err     error
		message string
	)
	if req.Action == "accept" {
		request, err = h.requestService.AcceptRequest(r.Context(), actor, id)
		message = "Request accepted"
	} else {
		request, err = h.requestService.RejectRequest(r.Context(), actor, id)
		message = "Request rejected"
	}
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, message, "request", request.ToResponse())
}

// POST /api/ride-requests/{id}/start
func (h *RequestHandler) StartRide(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid request id")
		return
	}

	var req models.StartRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	request, err := h.requestService.StartRide(r.Context(), actor, id, req.PIN)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "Ride started", "request", request.ToResponse())
}

// POST /api/ride-requests/{id}/reached-safely
func (h *RequestHandler) ReachedSafely(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid request id")
		return
	}

	request, err := h.requestService.ReachedSafely(r.Context(), actor, id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "Arrival confirmed", "request", request.ToResponse())
}
