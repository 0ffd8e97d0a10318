package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reporthub/reporthub-backend-go/internal/domain/report"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/mocks"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/sse"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/validator"
	notificationsvc "github.com/reporthub/reporthub-backend-go/internal/service/notification"
)

type fixture struct {
	svc           report.Service
	users         *mocks.MockUserRepository
	reports       *mocks.MockReportRepository
	notifications *mocks.MockNotificationRepository
	hub           *sse.Hub
}

func newFixture() *fixture {
	users := mocks.NewMockUserRepository()
	reports := mocks.NewMockReportRepository()
	notifRepo := mocks.NewMockNotificationRepository(users.ListIDs)
	hub := sse.NewHub()
	notifier := notificationsvc.NewNotificationService(notifRepo, users, hub)
	return &fixture{
		svc:           NewReportService(reports, users, notifier, hub),
		users:         users,
		reports:       reports,
		notifications: notifRepo,
		hub:           hub,
	}
}

func drain(ch <-chan sse.Event) []sse.Event {
	var events []sse.Event
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestCreateReport(t *testing.T) {
	f := newFixture()
	owner := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	admin := f.users.Add(user.User{Name: "Fiona", Email: "fiona@example.com", Role: user.RoleAdmin, Department: string(report.CategoryFinance)})
	otherAdmin := f.users.Add(user.User{Name: "Sam", Email: "sam@example.com", Role: user.RoleAdmin, Department: string(report.CategorySales)})

	ch, cancel := f.hub.Subscribe(otherAdmin.ID)
	defer cancel()

	resp, err := f.svc.Create(context.Background(), owner.ID, report.CreateReportRequest{
		Title:       "Q1 Revenue",
		Description: "Quarterly numbers",
		Category:    string(report.CategoryFinance),
	})
	require.NoError(t, err)

	assert.Equal(t, "Q1 Revenue", resp.Title)
	assert.Equal(t, string(report.StatusPending), resp.Status)
	assert.Equal(t, "Alice", resp.Owner.Name)

	// Admins of the matching department get a mailbox entry; others do not.
	assert.Len(t, f.notifications.Mailboxes[admin.ID], 1)
	assert.Contains(t, f.notifications.Mailboxes[admin.ID][0].Message, "Finance Report")
	assert.Contains(t, f.notifications.Mailboxes[admin.ID][0].Message, "Alice")
	assert.Empty(t, f.notifications.Mailboxes[otherAdmin.ID])

	// Every connected session sees the live event regardless of role.
	events := drain(ch)
	require.Len(t, events, 1)
	assert.Equal(t, sse.EventReportCreated, events[0].Name)
}

func TestCreateReportValidation(t *testing.T) {
	f := newFixture()
	owner := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})

	_, err := f.svc.Create(context.Background(), owner.ID, report.CreateReportRequest{
		Title:       "Missing fields",
		Description: "x",
		Category:    "Weather Report",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "category")
}

func TestCreateReportAdminNotifyFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture()
	owner := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	f.users.Add(user.User{Name: "Fiona", Email: "fiona@example.com", Role: user.RoleAdmin, Department: string(report.CategoryFinance)})
	f.notifications.AppendError = assert.AnError

	resp, err := f.svc.Create(context.Background(), owner.ID, report.CreateReportRequest{
		Title:       "Q1 Revenue",
		Description: "Quarterly numbers",
		Category:    string(report.CategoryFinance),
	})
	require.NoError(t, err)
	assert.Equal(t, string(report.StatusPending), resp.Status)
}

func TestListReportsScoping(t *testing.T) {
	f := newFixture()
	alice := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	bob := f.users.Add(user.User{Name: "Bob", Email: "bob@example.com", Role: user.RoleUser})
	finAdmin := f.users.Add(user.User{Name: "Fiona", Email: "fiona@example.com", Role: user.RoleAdmin, Department: string(report.CategoryFinance)})
	super := f.users.Add(user.User{Name: "Root", Email: "root@example.com", Role: user.RoleSuperadmin})

	ctx := context.Background()
	_, err := f.svc.Create(ctx, alice.ID, report.CreateReportRequest{Title: "A-fin", Description: "d", Category: string(report.CategoryFinance)})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, alice.ID, report.CreateReportRequest{Title: "A-sales", Description: "d", Category: string(report.CategorySales)})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, bob.ID, report.CreateReportRequest{Title: "B-fin", Description: "d", Category: string(report.CategoryFinance)})
	require.NoError(t, err)

	// Regular user: own reports only, newest first.
	got, err := f.svc.List(ctx, alice.ID, report.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A-sales", got[0].Title)
	assert.Equal(t, "A-fin", got[1].Title)

	// Department admin: every report in the department, any owner.
	got, err = f.svc.List(ctx, finAdmin.ID, report.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rep := range got {
		assert.Equal(t, string(report.CategoryFinance), rep.Category)
	}

	// A category filter outside the admin's department yields nothing.
	got, err = f.svc.List(ctx, finAdmin.ID, report.ListFilter{Category: string(report.CategorySales)})
	require.NoError(t, err)
	assert.Empty(t, got)

	// Superadmin: everything.
	got, err = f.svc.List(ctx, super.ID, report.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Status filter narrows within scope.
	got, err = f.svc.List(ctx, super.ID, report.ListFilter{Status: string(report.StatusApproved)})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecideStatus(t *testing.T) {
	f := newFixture()
	alice := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	finAdmin := f.users.Add(user.User{Name: "Fiona", Email: "fiona@example.com", Role: user.RoleAdmin, Department: string(report.CategoryFinance)})

	ctx := context.Background()
	created, err := f.svc.Create(ctx, alice.ID, report.CreateReportRequest{Title: "Q1 Revenue", Description: "d", Category: string(report.CategoryFinance)})
	require.NoError(t, err)

	ch, cancel := f.hub.Subscribe(alice.ID)
	defer cancel()

	resp, err := f.svc.DecideStatus(ctx, finAdmin.ID, created.ID, report.DecideStatusRequest{Status: string(report.StatusApproved)})
	require.NoError(t, err)
	assert.Equal(t, string(report.StatusApproved), resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, finAdmin.ID, *resp.ReviewedBy)
	assert.NotNil(t, resp.ReviewedAt)

	// Owner mailbox references the title and the lowercased decision.
	mailbox := f.notifications.Mailboxes[alice.ID]
	require.Len(t, mailbox, 1)
	assert.Contains(t, mailbox[0].Message, "Q1 Revenue")
	assert.Contains(t, mailbox[0].Message, "approved")

	events := drain(ch)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, sse.EventReportUpdated, last.Name)
}

func TestDecideStatusReDecision(t *testing.T) {
	f := newFixture()
	alice := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	super := f.users.Add(user.User{Name: "Root", Email: "root@example.com", Role: user.RoleSuperadmin})

	ctx := context.Background()
	created, err := f.svc.Create(ctx, alice.ID, report.CreateReportRequest{Title: "Q1 Revenue", Description: "d", Category: string(report.CategoryFinance)})
	require.NoError(t, err)

	_, err = f.svc.DecideStatus(ctx, super.ID, created.ID, report.DecideStatusRequest{Status: string(report.StatusApproved)})
	require.NoError(t, err)

	// The latest decision wins; re-deciding is not blocked.
	resp, err := f.svc.DecideStatus(ctx, super.ID, created.ID, report.DecideStatusRequest{Status: string(report.StatusRejected)})
	require.NoError(t, err)
	assert.Equal(t, string(report.StatusRejected), resp.Status)
}

func TestDecideStatusAuthorization(t *testing.T) {
	f := newFixture()
	alice := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	salesAdmin := f.users.Add(user.User{Name: "Sam", Email: "sam@example.com", Role: user.RoleAdmin, Department: string(report.CategorySales)})

	ctx := context.Background()
	created, err := f.svc.Create(ctx, alice.ID, report.CreateReportRequest{Title: "Q1 Revenue", Description: "d", Category: string(report.CategoryFinance)})
	require.NoError(t, err)

	// Wrong department.
	_, err = f.svc.DecideStatus(ctx, salesAdmin.ID, created.ID, report.DecideStatusRequest{Status: string(report.StatusApproved)})
	assert.ErrorIs(t, err, user.ErrReportAccessForbidden)

	// Owner cannot decide their own report.
	_, err = f.svc.DecideStatus(ctx, alice.ID, created.ID, report.DecideStatusRequest{Status: string(report.StatusApproved)})
	assert.ErrorIs(t, err, user.ErrReportAccessForbidden)

	// Unknown report is NotFound before any authorization check.
	_, err = f.svc.DecideStatus(ctx, salesAdmin.ID, "missing", report.DecideStatusRequest{Status: string(report.StatusApproved)})
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestDecideStatusInvalidStatus(t *testing.T) {
	f := newFixture()
	super := f.users.Add(user.User{Name: "Root", Email: "root@example.com", Role: user.RoleSuperadmin})

	_, err := f.svc.DecideStatus(context.Background(), super.ID, "anything", report.DecideStatusRequest{Status: "Archived"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "status")
}

func TestAnnotateSummary(t *testing.T) {
	f := newFixture()
	alice := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	finAdmin := f.users.Add(user.User{Name: "Fiona", Email: "fiona@example.com", Role: user.RoleAdmin, Department: string(report.CategoryFinance)})

	ctx := context.Background()
	created, err := f.svc.Create(ctx, alice.ID, report.CreateReportRequest{Title: "Q1 Revenue", Description: "d", Category: string(report.CategoryFinance)})
	require.NoError(t, err)

	resp, err := f.svc.AnnotateSummary(ctx, finAdmin.ID, created.ID, report.AnnotateSummaryRequest{
		Revenue: "1200.50",
		Profit:  300,
		Notes:   "strong quarter",
	})
	require.NoError(t, err)

	// Annotating approves the report as a side effect.
	assert.Equal(t, string(report.StatusApproved), resp.Status)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 1200.50, resp.Summary.Revenue)
	assert.Equal(t, 300.0, resp.Summary.Profit)
	assert.Equal(t, 0.0, resp.Summary.InventoryValue)
	assert.Equal(t, "strong quarter", resp.Summary.Notes)
	assert.False(t, resp.Summary.LastUpdated.IsZero())

	mailbox := f.notifications.Mailboxes[alice.ID]
	require.Len(t, mailbox, 1)
	assert.Contains(t, mailbox[0].Message, "Q1 Revenue")
}

func TestAnnotateSummaryAuthorization(t *testing.T) {
	f := newFixture()
	alice := f.users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	salesAdmin := f.users.Add(user.User{Name: "Sam", Email: "sam@example.com", Role: user.RoleAdmin, Department: string(report.CategorySales)})

	ctx := context.Background()
	created, err := f.svc.Create(ctx, alice.ID, report.CreateReportRequest{Title: "Q1 Revenue", Description: "d", Category: string(report.CategoryFinance)})
	require.NoError(t, err)

	_, err = f.svc.AnnotateSummary(ctx, salesAdmin.ID, created.ID, report.AnnotateSummaryRequest{Revenue: 1})
	assert.ErrorIs(t, err, user.ErrReportAccessForbidden)
}
