package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/mocks"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/jwt"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/oauth"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/sse"
	authService "github.com/reporthub/reporthub-backend-go/internal/service/auth"
	notificationService "github.com/reporthub/reporthub-backend-go/internal/service/notification"
	reportService "github.com/reporthub/reporthub-backend-go/internal/service/report"
	useradminService "github.com/reporthub/reporthub-backend-go/internal/service/useradmin"
)

type routerFixture struct {
	router *chi.Mux
	users  *mocks.MockUserRepository
	admin  user.AdminService
}

func newRouterFixture() *routerFixture {
	users := mocks.NewMockUserRepository()
	reports := mocks.NewMockReportRepository()
	notifRepo := mocks.NewMockNotificationRepository(users.ListIDs)

	jwtService := jwt.NewJWTService("test-secret-key", "15m", "168h")
	googleService := oauth.NewGoogleService("", "", "", nil)
	hub := sse.NewHub()

	notificationSvc := notificationService.NewNotificationService(notifRepo, users, hub)
	reportSvc := reportService.NewReportService(reports, users, notificationSvc, hub)
	adminSvc := useradminService.NewAdminService(users, reports, notificationSvc)
	authSvc := authService.NewAuthService(users, jwtService, "http://localhost:3000")

	router := NewRouter(
		jwtService,
		"http://localhost:3000",
		NewAuthHandler(jwtService, authSvc, googleService, "http://localhost:3000"),
		NewReportHandler(reportSvc),
		NewNotificationHandler(notificationSvc, jwtService, hub),
		NewUserHandler(adminSvc),
		NewSuperadminHandler(adminSvc),
	)

	return &routerFixture{router: router, users: users, admin: adminSvc}
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates an account over HTTP and returns its access token.
func (f *routerFixture) registerAndLogin(t *testing.T, name, email string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return f.login(t, email)
}

func (f *routerFixture) login(t *testing.T, email string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func (f *routerFixture) superadminToken(t *testing.T) string {
	t.Helper()
	require.NoError(t, f.admin.EnsureInitialSuperadmin(context.Background(), "Root", "root@example.com", "password123"))
	return f.login(t, "root@example.com")
}

func TestReportLifecycleOverHTTP(t *testing.T) {
	f := newRouterFixture()
	userToken := f.registerAndLogin(t, "Alice", "alice@example.com")
	superToken := f.superadminToken(t)

	// Submit
	rec := f.do(t, http.MethodPost, "/api/v1/reports", userToken, map[string]string{
		"title":       "Q1 Revenue",
		"description": "Quarterly numbers",
		"category":    "Finance Report",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Pending", created.Data.Status)

	// The submitter cannot decide their own report.
	rec = f.do(t, http.MethodPatch, "/api/v1/reports/"+created.Data.ID+"/status", userToken, map[string]string{
		"status": "Approved",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Superadmin approves.
	rec = f.do(t, http.MethodPatch, "/api/v1/reports/"+created.Data.ID+"/status", superToken, map[string]string{
		"status": "Approved",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The owner's mailbox carries the decision.
	rec = f.do(t, http.MethodGet, "/api/v1/notifications", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mailbox struct {
		Data []struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mailbox))
	require.Len(t, mailbox.Data, 1)
	assert.Contains(t, mailbox.Data[0].Message, "Q1 Revenue")
	assert.Contains(t, mailbox.Data[0].Message, "approved")

	// The owner sees the updated status in their listing.
	rec = f.do(t, http.MethodGet, "/api/v1/reports", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Data []struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Data, 1)
	assert.Equal(t, "Approved", listing.Data[0].Status)
}

func TestReportValidationOverHTTP(t *testing.T) {
	f := newRouterFixture()
	token := f.registerAndLogin(t, "Alice", "alice@example.com")

	rec := f.do(t, http.MethodPost, "/api/v1/reports", token, map[string]string{
		"title": "No category",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	f := newRouterFixture()

	for _, path := range []string{"/api/v1/reports", "/api/v1/notifications", "/api/v1/auth/profile"} {
		rec := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestSuperadminRoutesForbidRegularUsers(t *testing.T) {
	f := newRouterFixture()
	userToken := f.registerAndLogin(t, "Alice", "alice@example.com")

	rec := f.do(t, http.MethodGet, "/api/v1/superadmin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/superadmin/overview", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSuperadminBroadcastOverHTTP(t *testing.T) {
	f := newRouterFixture()
	userToken := f.registerAndLogin(t, "Alice", "alice@example.com")
	superToken := f.superadminToken(t)

	rec := f.do(t, http.MethodPost, "/api/v1/superadmin/notifications", superToken, map[string]string{
		"user_id": "all", "message": "All hands at 3pm",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/notifications/unread-count", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Data struct {
			UnreadCount int `json:"unread_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, 1, count.Data.UnreadCount)
}

func TestRoleUpdateOverHTTP(t *testing.T) {
	f := newRouterFixture()
	f.registerAndLogin(t, "Alice", "alice@example.com")
	superToken := f.superadminToken(t)

	alice, err := f.users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	rec := f.do(t, http.MethodPut, "/api/v1/superadmin/users/"+alice.ID+"/role", superToken, map[string]string{
		"role": "admin", "department": "Finance Report",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Data struct {
			Role       string `json:"role"`
			Department string `json:"department"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "admin", updated.Data.Role)
	assert.Equal(t, "Finance Report", updated.Data.Department)

	// Demoting the only superadmin is refused.
	super, err := f.users.GetByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	rec = f.do(t, http.MethodPut, "/api/v1/superadmin/users/"+super.ID+"/role", superToken, map[string]string{
		"role": "user",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSSETokenAndStreamAuth(t *testing.T) {
	f := newRouterFixture()
	token := f.registerAndLogin(t, "Alice", "alice@example.com")

	rec := f.do(t, http.MethodGet, "/api/v1/notifications/sse-token", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sseToken struct {
		Data struct {
			Token     string `json:"token"`
			ExpiresIn int    `json:"expires_in"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sseToken))
	assert.NotEmpty(t, sseToken.Data.Token)
	assert.Equal(t, 300, sseToken.Data.ExpiresIn)

	// The stream rejects missing and bogus tokens outright.
	rec = f.do(t, http.MethodGet, "/api/v1/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/events?token=bogus", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// An access token is not a stream token.
	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/events?token=%s", token), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRequestOverHTTP(t *testing.T) {
	f := newRouterFixture()
	userToken := f.registerAndLogin(t, "Alice", "alice@example.com")
	superToken := f.superadminToken(t)

	rec := f.do(t, http.MethodPost, "/api/v1/users/request-admin", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Second request conflicts while pending.
	rec = f.do(t, http.MethodPost, "/api/v1/users/request-admin", userToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/superadmin/admin-requests", superToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending struct {
		Data []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending.Data, 1)

	rec = f.do(t, http.MethodPost, "/api/v1/superadmin/admin-requests/decision", superToken, map[string]string{
		"user_id": pending.Data[0].ID, "action": "approve",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	promoted, err := f.users.GetByID(context.Background(), pending.Data[0].ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, promoted.Role)
}
