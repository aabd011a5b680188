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

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterPublicRoutes mounts the unauthenticated endpoints.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/signup", h.Signup)
	r.Post("/auth/login", h.Login)
}

// RegisterRoutes mounts the endpoints behind the auth middleware.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/auth/me", h.Me)
	r.Get("/profile", h.Me)
	r.Put("/profile", h.UpdateProfile)
}

// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	resp, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, resp)
}

// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, resp)
}

// GET /api/auth/me and GET /api/profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"user": actor.ToResponse(),
	})
}

// PUT /api/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), actor, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "Profile updated", "user", user.ToResponse())
}
