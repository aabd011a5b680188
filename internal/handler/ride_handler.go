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

type RideHandler struct {
	rideService service.RideService
	validate    *validator.Validate
}

func NewRideHandler(rideService service.RideService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		validate:    validator.New(),
	}
}

func (h *RideHandler) RegisterRoutes(r chi.Router) {
	r.Post("/rides", h.CreateRide)
	r.Get("/rides", h.ListRides)
	r.Get("/rides/driver/my-rides", h.MyRides)
	r.Get("/rides/{id}", h.GetRide)
	r.Put("/rides/{id}", h.UpdateRide)
	r.Delete("/rides/{id}", h.DeleteRide)
	r.Put("/rides/{id}/complete", h.CompleteRide)
}

// POST /api/rides
func (h *RideHandler) CreateRide(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var req models.CreateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ride, err := h.rideService.CreateRide(r.Context(), actor, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusCreated, "Ride posted", "ride", ride.ToResponse())
}

// GET /api/rides?destination=...&date=...
func (h *RideHandler) ListRides(w http.ResponseWriter, r *http.Request) {
	destination := r.URL.Query().Get("destination")
	date := r.URL.Query().Get("date")

	rides, err := h.rideService.ListRides(r.Context(), destination, date)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"rides": rides,
		"count": len(rides),
	})
}

// GET /api/rides/driver/my-rides
func (h *RideHandler) MyRides(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	rides, err := h.rideService.MyRides(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"rides": rides,
		"count": len(rides),
	})
}

// GET /api/rides/{id}
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid ride id")
		return
	}

	ride, err := h.rideService.GetRide(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"ride": ride,
	})
}

// PUT /api/rides/{id}
func (h *RideHandler) UpdateRide(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid ride id")
		return
	}

	var req models.UpdateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ride, err := h.rideService.UpdateRide(r.Context(), actor, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "Ride updated", "ride", ride.ToResponse())
}

// DELETE /api/rides/{id}
func (h *RideHandler) DeleteRide(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid ride id")
		return
	}

	if err := h.rideService.DeleteRide(r.Context(), actor, id); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{
		"message": "Ride deleted",
	})
}

// PUT /api/rides/{id}/complete
func (h *RideHandler) CompleteRide(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid ride id")
		return
	}

	ride, err := h.rideService.CompleteRide(r.Context(), actor, id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "Ride completed", "ride", ride.ToResponse())
}
