package service

import (
	"context"
	"log"
	"strings"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	UpdateProfile(ctx context.Context, actor *models.User, req *models.UpdateProfileRequest) (*models.User, error)
	SetVerificationStatus(ctx context.Context, actor *models.User, userID, status string) (*models.User, error)
	ListUsers(ctx context.Context, actor *models.User) ([]*models.UserResponse, error)
	EnsureAdmin(ctx context.Context) error
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
	CampusDomain    string
	AdminEmail      string
	AdminPassword   string
}

type authService struct {
	userRepo repository.UserRepository
	cfg      AuthConfig
}

func NewAuthService(userRepo repository.UserRepository, cfg AuthConfig) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.HasSuffix(email, s.cfg.CampusDomain) {
		return nil, apperrors.BadRequest("only " + s.cfg.CampusDomain + " emails are allowed")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:              email,
		PasswordHash:       string(hash),
		Name:               req.Name,
		Role:               req.Role,
		VerificationStatus: models.VerificationUnverified,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user.ToResponse(),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.ToResponse(),
	}, nil
}

func (s *authService) UpdateProfile(ctx context.Context, actor *models.User, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Name != nil {
		actor.Name = *req.Name
	}
	if req.Role != nil {
		actor.Role = *req.Role
	}
	if req.VehicleModel != nil {
		actor.VehicleModel = req.VehicleModel
	}
	if req.VehicleNumber != nil {
		actor.VehicleNumber = req.VehicleNumber
	}
	if req.VehicleColor != nil {
		actor.VehicleColor = req.VehicleColor
	}

	if err := s.userRepo.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *authService) SetVerificationStatus(ctx context.Context, actor *models.User, userID, status string) (*models.User, error) {
	if !actor.IsAdmin {
		return nil, apperrors.Forbidden("admin access required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	if err := s.userRepo.UpdateVerificationStatus(ctx, userID, status); err != nil {
		return nil, err
	}
	user.VerificationStatus = status
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context, actor *models.User) ([]*models.UserResponse, error) {
	if !actor.IsAdmin {
		return nil, apperrors.Forbidden("admin access required")
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, nil
}

// EnsureAdmin seeds the admin account on startup if it does not exist yet.
func (s *authService) EnsureAdmin(ctx context.Context) error {
	existing, err := s.userRepo.GetByEmail(ctx, s.cfg.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:              s.cfg.AdminEmail,
		PasswordHash:       string(hash),
		Name:               "Admin",
		Role:               models.RoleAdmin,
		IsAdmin:            true,
		VerificationStatus: models.VerificationVerified,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("admin user created: %s", s.cfg.AdminEmail)
	return nil
}

func (s *authService) issueToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(s.cfg.TokenTTLMinutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
