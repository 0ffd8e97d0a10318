package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reporthub/reporthub-backend-go/internal/domain/notification"
	"github.com/reporthub/reporthub-backend-go/internal/domain/report"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
)

// MockUserRepository is an in-memory implementation of user.UserRepository.
type MockUserRepository struct {
	mu    sync.Mutex
	Users map[string]*user.User

	CreateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*user.User),
	}
}

// Add seeds a user, assigning an ID when unset, and returns it.
func (m *MockUserRepository) Add(u user.User) user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.AdminRequest == "" {
		u.AdminRequest = user.AdminRequestNone
	}
	m.Users[u.ID] = &u
	return u
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == email {
			return *u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		return *u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	if m.CreateError != nil {
		return user.User{}, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if newUser.ID == "" {
		newUser.ID = uuid.New().String()
	}
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	m.Users[newUser.ID] = &newUser
	return newUser, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]user.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (m *MockUserRepository) ListAdminsForDepartment(ctx context.Context, department string) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var admins []user.User
	for _, u := range m.Users {
		if u.Role == user.RoleAdmin && u.DepartmentOrDefault() == department {
			admins = append(admins, *u)
		}
	}
	return admins, nil
}

func (m *MockUserRepository) ListByAdminRequest(ctx context.Context, state user.AdminRequestState) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []user.User
	for _, u := range m.Users {
		if u.AdminRequest == state {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (m *MockUserRepository) ListIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.Users))
	for id := range m.Users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role user.Role) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, u := range m.Users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role user.Role, department *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	if department != nil {
		u.Department = *department
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *MockUserRepository) UpdateAdminRequest(ctx context.Context, id string, state user.AdminRequestState, role *user.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.AdminRequest = state
	if role != nil {
		u.Role = *role
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.ResetPasswordToken = &tokenHash
	u.ResetPasswordExpire = &expiresAt
	return nil
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, tokenHash string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash {
			return *u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	u.UpdatedAt = time.Now()
	return nil
}

// MockReportRepository is an in-memory implementation of report.ReportRepository.
type MockReportRepository struct {
	mu      sync.Mutex
	Reports map[string]*report.Report
	seq     int

	CreateError error
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{
		Reports: make(map[string]*report.Report),
	}
}

func (m *MockReportRepository) Create(ctx context.Context, newReport report.Report) (report.Report, error) {
	if m.CreateError != nil {
		return report.Report{}, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if newReport.ID == "" {
		newReport.ID = uuid.New().String()
	}
	m.seq++
	// Monotonic timestamps keep list ordering deterministic in tests.
	newReport.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	newReport.UpdatedAt = newReport.CreatedAt
	m.Reports[newReport.ID] = &newReport
	return newReport, nil
}

func (m *MockReportRepository) GetByID(ctx context.Context, id string) (report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rep, ok := m.Reports[id]; ok {
		return *rep, nil
	}
	return report.Report{}, report.ErrReportNotFound
}

func (m *MockReportRepository) List(ctx context.Context, filter report.ListFilter) ([]report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reports []report.Report
	for _, rep := range m.Reports {
		if filter.OwnerID != "" && rep.UserID != filter.OwnerID {
			continue
		}
		if filter.Category != "" && string(rep.Category) != filter.Category {
			continue
		}
		if filter.Status != "" && string(rep.Status) != filter.Status {
			continue
		}
		reports = append(reports, *rep)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	return reports, nil
}

func (m *MockReportRepository) UpdateStatus(ctx context.Context, id string, status report.Status, reviewedBy string, reviewedAt time.Time) (report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.Reports[id]
	if !ok {
		return report.Report{}, report.ErrReportNotFound
	}
	rep.Status = status
	rep.ReviewedBy = &reviewedBy
	rep.ReviewedAt = &reviewedAt
	rep.UpdatedAt = reviewedAt
	return *rep, nil
}

func (m *MockReportRepository) UpdateSummary(ctx context.Context, id string, summary report.AdminSummary, reviewedBy string, reviewedAt time.Time) (report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.Reports[id]
	if !ok {
		return report.Report{}, report.ErrReportNotFound
	}
	rep.Summary = &summary
	rep.Status = report.StatusApproved
	rep.ReviewedBy = &reviewedBy
	rep.ReviewedAt = &reviewedAt
	rep.UpdatedAt = reviewedAt
	return *rep, nil
}

func (m *MockReportRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Reports), nil
}

func (m *MockReportRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := make(map[string]int)
	for _, rep := range m.Reports {
		stats[string(rep.Status)]++
	}
	return stats, nil
}

// MockNotificationRepository is an in-memory implementation of
// notification.Repository.
type MockNotificationRepository struct {
	mu        sync.Mutex
	Mailboxes map[string][]*notification.Notification
	userIDs   func(ctx context.Context) ([]string, error)

	AppendError error
}

// NewMockNotificationRepository builds a mailbox store. userIDs supplies the
// recipients of AppendToAll, normally the user repository's ListIDs.
func NewMockNotificationRepository(userIDs func(ctx context.Context) ([]string, error)) *MockNotificationRepository {
	return &MockNotificationRepository{
		Mailboxes: make(map[string][]*notification.Notification),
		userIDs:   userIDs,
	}
}

func (m *MockNotificationRepository) Append(ctx context.Context, n *notification.Notification) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	entry := *n
	m.Mailboxes[n.UserID] = append(m.Mailboxes[n.UserID], &entry)
	return nil
}

func (m *MockNotificationRepository) AppendToAll(ctx context.Context, message string) (int, error) {
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	ids, err := m.userIDs(ctx)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.Mailboxes[id] = append(m.Mailboxes[id], &notification.Notification{
			ID:        uuid.New().String(),
			UserID:    id,
			Message:   message,
			CreatedAt: time.Now(),
		})
	}
	return len(ids), nil
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.Mailboxes[userID]
	out := make([]notification.Notification, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, *entries[i])
	}
	return out, nil
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.Mailboxes[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.Mailboxes[userID] {
		if n.ID == notificationID {
			if !n.Read {
				now := time.Now()
				n.Read = true
				n.ReadAt = &now
			}
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (m *MockNotificationRepository) ClearAll(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Mailboxes, userID)
	return nil
}
