package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/reporthub/reporthub-backend-go/internal/domain/auth"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/mocks"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/jwt"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/validator"
)

func newService() (auth.AuthService, *mocks.MockUserRepository, jwt.Service) {
	users := mocks.NewMockUserRepository()
	jwtService := jwt.NewJWTService("test-secret-key", "15m", "168h")
	return NewAuthService(users, jwtService, "http://localhost:3000/"), users, jwtService
}

func seedUser(t *testing.T, users *mocks.MockUserRepository, email, password string, role user.Role) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)
	return users.Add(user.User{
		Name:         strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: &hashStr,
		Role:         role,
	})
}

func TestRegister(t *testing.T) {
	svc, users, _ := newService()

	resp, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, string(user.RoleUser), resp.Role)
	assert.Equal(t, user.DefaultDepartment, resp.Department)

	// Password is stored hashed, never plaintext.
	stored, err := users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "password123", *stored.PasswordHash)
}

func TestRegisterElevatedRoleRejected(t *testing.T) {
	svc, _, _ := newService()

	for _, role := range []string{"admin", "superadmin", "Superadmin"} {
		_, err := svc.Register(context.Background(), auth.RegisterRequest{
			Name:     "Mallory",
			Email:    "mallory@example.com",
			Password: "password123",
			Role:     role,
		})
		assert.ErrorIs(t, err, user.ErrElevatedSelfRegister, "role %q", role)
	}
}

func TestRegisterUnknownRoleCollapsesToUser(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     "wizard",
	})
	require.NoError(t, err)
	assert.Equal(t, string(user.RoleUser), resp.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newService()
	seedUser(t, users, "alice@example.com", "password123", user.RoleUser)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:     "Alice Again",
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:     "Alice",
		Email:    "not-an-email",
		Password: "short",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "email")
	assert.Contains(t, m, "password")
}

func TestLogin(t *testing.T) {
	svc, users, _ := newService()
	seedUser(t, users, "alice@example.com", "password123", user.RoleAdmin)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, string(user.RoleAdmin), resp.Role)
	assert.Equal(t, "alice", resp.Name)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, users, _ := newService()
	seedUser(t, users, "alice@example.com", "password123", user.RoleUser)

	// Wrong password and unknown email look identical.
	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginOAuthOnlyAccount(t *testing.T) {
	svc, users, _ := newService()
	provider := "google"
	users.Add(user.User{Name: "Gina", Email: "gina@example.com", Role: user.RoleUser, OAuthProvider: &provider})

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "gina@example.com", Password: "anything"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginWithGoogle(t *testing.T) {
	svc, users, _ := newService()

	resp, err := svc.LoginWithGoogle(context.Background(), "Gina@Example.com", "google-123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, string(user.RoleUser), resp.Role)

	created, err := users.GetByEmail(context.Background(), "gina@example.com")
	require.NoError(t, err)
	require.NotNil(t, created.OAuthProvider)
	assert.Equal(t, "google", *created.OAuthProvider)

	// Second sign-in reuses the account.
	_, err = svc.LoginWithGoogle(context.Background(), "gina@example.com", "google-123")
	require.NoError(t, err)
	all, err := users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, users, _ := newService()
	seedUser(t, users, "alice@example.com", "password123", user.RoleUser)

	ctx := context.Background()
	first, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	second, err := svc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, second.AccessToken)
	assert.NotEmpty(t, second.RefreshToken)

	// The rotated-out token is dead.
	_, err = svc.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, users, _ := newService()
	seedUser(t, users, "alice@example.com", "password123", user.RoleUser)

	ctx := context.Background()
	tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, users, _ := newService()
	seedUser(t, users, "alice@example.com", "password123", user.RoleUser)

	ctx := context.Background()
	tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))
	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, users, _ := newService()
	seeded := seedUser(t, users, "alice@example.com", "password123", user.RoleUser)

	ctx := context.Background()
	resp, err := svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Email: "alice@example.com"})
	require.NoError(t, err)
	require.Contains(t, resp.ResetURL, "http://localhost:3000/reset-password/")

	token := resp.ResetURL[strings.LastIndex(resp.ResetURL, "/")+1:]
	require.Len(t, token, 64)

	// Only the digest is stored.
	stored, err := users.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetPasswordToken)
	assert.NotEqual(t, token, *stored.ResetPasswordToken)

	require.NoError(t, svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: token, Password: "newpassword456"}))

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "newpassword456"})
	require.NoError(t, err)

	// The token is single use.
	err = svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: token, Password: "another-pass-789"})
	assert.ErrorIs(t, err, user.ErrInvalidResetToken)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestResetPasswordBadToken(t *testing.T) {
	svc, _, _ := newService()

	err := svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
		Token:    "deadbeef",
		Password: "newpassword456",
	})
	assert.ErrorIs(t, err, user.ErrInvalidResetToken)
}
