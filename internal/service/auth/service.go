package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/reporthub/reporthub-backend-go/internal/domain/auth"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/jwt"
)

const resetTokenTTL = time.Hour

type service struct {
	users       user.UserRepository
	jwtService  jwt.Service
	frontendURL string
}

// NewAuthService creates the authentication service. frontendURL is the base
// for password-reset links.
func NewAuthService(users user.UserRepository, jwtService jwt.Service, frontendURL string) auth.AuthService {
	return &service{
		users:       users,
		jwtService:  jwtService,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Register implements auth.AuthService. Self-registration never yields an
// elevated role: asking for one is rejected outright, and anything
// unrecognized collapses to "user".
func (s *service) Register(ctx context.Context, req auth.RegisterRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	role := user.Role(strings.ToLower(req.Role))
	switch role {
	case user.RoleAdmin, user.RoleSuperadmin:
		return user.UserResponse{}, user.ErrElevatedSelfRegister
	default:
		role = user.RoleUser
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrUserEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	created, err := s.users.Create(ctx, user.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: &hashStr,
		Role:         role,
		AdminRequest: user.AdminRequestNone,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(created), nil
}

// Login implements auth.AuthService. A missing user and a wrong password are
// indistinguishable to the caller.
func (s *service) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if u.PasswordHash == nil {
		// OAuth-only account.
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

// LoginWithGoogle implements auth.AuthService. First sign-in creates a regular
// user account tied to the Google identity.
func (s *service) LoginWithGoogle(ctx context.Context, googleEmail, googleID string) (auth.TokenResponse, error) {
	email := strings.ToLower(googleEmail)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		provider := "google"
		u, err = s.users.Create(ctx, user.User{
			Name:            strings.SplitN(email, "@", 2)[0],
			Email:           email,
			Role:            user.RoleUser,
			AdminRequest:    user.AdminRequestNone,
			OAuthProvider:   &provider,
			OAuthProviderID: &googleID,
		})
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to create oauth user: %w", err)
		}
	}

	return s.issueTokens(u)
}

func (s *service) issueTokens(u user.User) (auth.TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Name, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresAt,
		Role:                  string(u.Role),
		Name:                  u.Name,
	}, nil
}

// Profile implements auth.AuthService.
func (s *service) Profile(ctx context.Context, userID string) (user.UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// RefreshToken implements auth.AuthService. The presented token is rotated:
// it is revoked and a fresh pair is issued.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	userID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	s.jwtService.RevokeToken(refreshToken)
	return s.issueTokens(u)
}

// Logout implements auth.AuthService.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	s.jwtService.RevokeToken(refreshToken)
	return nil
}

// ForgotPassword implements auth.AuthService. Only the SHA-256 digest of the
// token is stored; the plaintext travels in the reset link. Mail delivery is
// out of scope, so the link is logged and returned for dev use.
func (s *service) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) (auth.ForgotPasswordResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.ForgotPasswordResponse{}, err
	}

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return auth.ForgotPasswordResponse{}, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return auth.ForgotPasswordResponse{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.users.SetResetToken(ctx, u.ID, hashToken(token), time.Now().Add(resetTokenTTL)); err != nil {
		return auth.ForgotPasswordResponse{}, fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	slog.Info("password reset requested", "email", u.Email, "reset_url", resetURL)

	return auth.ForgotPasswordResponse{ResetURL: resetURL}, nil
}

// ResetPassword implements auth.AuthService. The token is single use: setting
// the new password clears it.
func (s *service) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.users.GetByResetToken(ctx, hashToken(req.Token))
	if err != nil {
		return user.ErrInvalidResetToken
	}
	if u.ResetPasswordExpire == nil || time.Now().After(*u.ResetPasswordExpire) {
		return user.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, u.ID, string(hash))
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
