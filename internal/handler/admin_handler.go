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

// AdminHandler serves the review dashboard: user verification, the full ride
// ledger, SOS triage and platform stats. Every service call re-checks the
// admin flag; routing alone is not the gate.
type AdminHandler struct {
	authService  service.AuthService
	rideService  service.RideService
	sosService   service.SosService
	statsService service.StatsService
	validate     *validator.Validate
}

func NewAdminHandler(
	authService service.AuthService,
	rideService service.RideService,
	sosService service.SosService,
	statsService service.StatsService,
) *AdminHandler {
	return &AdminHandler{
		authService:  authService,
		rideService:  rideService,
		sosService:   sosService,
		statsService: statsService,
		validate:     validator.New(),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/users", h.ListUsers)
	r.Put("/admin/users/{id}/verification", h.UpdateVerification)
	r.Get("/admin/rides", h.ListRides)
	r.Get("/admin/sos", h.ListSos)
	r.Put("/admin/sos/{id}", h.SosAction)
	r.Get("/admin/stats", h.Stats)
}

// GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	users, err := h.authService.ListUsers(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// PUT /api/admin/users/{id}/verification
func (h *AdminHandler) UpdateVerification(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid user id")
		return
	}

	var req models.UpdateVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user, err := h.authService.SetVerificationStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "Verification status updated", "user", user.ToResponse())
}

// GET /api/admin/rides
func (h *AdminHandler) ListRides(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	rides, err := h.rideService.ListAllRides(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"rides": rides,
		"count": len(rides),
	})
}

// GET /api/admin/sos?status=active
func (h *AdminHandler) ListSos(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	status := r.URL.Query().Get("status")

	resp, err := h.sosService.List(r.Context(), actor, status)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, resp)
}

// PUT /api/admin/sos/{id}
func (h *AdminHandler) SosAction(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid sos id")
		return
	}

	var req models.SosActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	var (
		event   *models.SosEvent
		err     error
		message string
	)
	if req.Action == "review" {
		event, err = h.sosService.Review(r.Context(), actor, id, req.Notes)
		message = "SOS marked reviewed"
	} else {
		event, err = h.sosService.Resolve(r.Context(), actor, id, req.Notes)
		message = "SOS resolved"
	}
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, message, "sos", event)
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	stats, err := h.statsService.PlatformStats(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"stats": stats,
	})
}
