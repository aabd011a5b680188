package service

import (
	"context"
	"testing"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func newAuthEnv() (*fakeUserRepo, AuthService) {
	userRepo := newFakeUserRepo()
	return userRepo, NewAuthService(userRepo, AuthConfig{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
		CampusDomain:    "@rvce.edu.in",
		AdminEmail:      "admin@rvce.edu.in",
		AdminPassword:   "admin@123",
	})
}

func TestSignupDomainGate(t *testing.T) {
	_, auth := newAuthEnv()
	ctx := context.Background()

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"campus email", "ananya.r@rvce.edu.in", false},
		{"uppercase campus email", "Ananya.R@RVCE.EDU.IN", false},
		{"gmail rejected", "ananya@gmail.com", true},
		{"lookalike domain rejected", "ananya@rvce.edu.in.evil.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := auth.Signup(ctx, &models.SignupRequest{
				Email:    tt.email,
				Password: "password123",
				Name:     "Ananya R",
				Role:     models.RoleRider,
			})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected signup with %q to fail", tt.email)
				}
				return
			}
			if err != nil {
				t.Fatalf("Signup: %v", err)
			}
			if resp.Token == "" {
				t.Error("expected a token")
			}
			if resp.User.VerificationStatus != models.VerificationUnverified {
				t.Errorf("verification = %q, want unverified", resp.User.VerificationStatus)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, auth := newAuthEnv()
	ctx := context.Background()

	req := &models.SignupRequest{
		Email:    "dup@rvce.edu.in",
		Password: "password123",
		Name:     "Dup User",
		Role:     models.RoleRider,
	}
	if _, err := auth.Signup(ctx, req); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := auth.Signup(ctx, req)
	if code := statusCode(t, err); code != 409 {
		t.Fatalf("status = %d, want 409", code)
	}
}

func TestLogin(t *testing.T) {
	_, auth := newAuthEnv()
	ctx := context.Background()

	signup, err := auth.Signup(ctx, &models.SignupRequest{
		Email:    "login@rvce.edu.in",
		Password: "password123",
		Name:     "Login User",
		Role:     models.RoleDriver,
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	resp, err := auth.Login(ctx, &models.LoginRequest{Email: "login@rvce.edu.in", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The token carries the user id.
	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["user_id"] != signup.User.ID {
		t.Errorf("user_id claim = %v, want %s", claims["user_id"], signup.User.ID)
	}

	if _, err := auth.Login(ctx, &models.LoginRequest{Email: "login@rvce.edu.in", Password: "wrong"}); err == nil {
		t.Error("expected wrong password to fail")
	}
	if _, err := auth.Login(ctx, &models.LoginRequest{Email: "nobody@rvce.edu.in", Password: "password123"}); err == nil {
		t.Error("expected unknown email to fail")
	}
}

func TestSetVerificationStatus(t *testing.T) {
	userRepo, auth := newAuthEnv()
	ctx := context.Background()

	admin := testAdmin()
	userRepo.Create(ctx, admin)

	signup, err := auth.Signup(ctx, &models.SignupRequest{
		Email:    "pending@rvce.edu.in",
		Password: "password123",
		Name:     "Pending User",
		Role:     models.RoleRider,
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	nonAdmin := testRider()
	userRepo.Create(ctx, nonAdmin)
	if _, err := auth.SetVerificationStatus(ctx, nonAdmin, signup.User.ID, models.VerificationVerified); err == nil {
		t.Error("expected non-admin verification update to fail")
	}

	user, err := auth.SetVerificationStatus(ctx, admin, signup.User.ID, models.VerificationVerified)
	if err != nil {
		t.Fatalf("SetVerificationStatus: %v", err)
	}
	if user.VerificationStatus != models.VerificationVerified {
		t.Errorf("status = %q, want verified", user.VerificationStatus)
	}

	stored, _ := userRepo.GetByID(ctx, signup.User.ID)
	if !stored.IsVerified() {
		t.Error("stored user should be verified")
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	userRepo, auth := newAuthEnv()
	ctx := context.Background()

	if err := auth.EnsureAdmin(ctx); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := auth.EnsureAdmin(ctx); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}

	users, _ := userRepo.List(ctx)
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	admin := users[0]
	if !admin.IsAdmin || admin.Role != models.RoleAdmin {
		t.Error("seeded user should be an admin")
	}
	if !admin.IsVerified() {
		t.Error("seeded admin should be verified")
	}

	// The seeded credentials work.
	if _, err := auth.Login(ctx, &models.LoginRequest{Email: "admin@rvce.edu.in", Password: "admin@123"}); err != nil {
		t.Fatalf("admin login: %v", err)
	}
}
