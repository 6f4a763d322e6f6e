package service

import (
	"context"
	"sync"
	"testing"

	"commissionhub/internal/database"
	"commissionhub/internal/domain"
	"commissionhub/internal/models"
	"commissionhub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	products  *repository.ProductRepository
	notifRepo *repository.NotificationRepository
	interests *repository.InterestRepository
	notifier  *NotificationService
	svc       *ProductService
}

func newTestEnv(t *testing.T, locker Locker) *testEnv {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	log := zaptest.NewLogger(t)

	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	interests := repository.NewInterestRepository(db)
	notifier := NewNotificationService(notifRepo, users, interests, log)
	svc := NewProductService(products, users, repository.NewAuditRepository(db), notifier, locker, log)
	return &testEnv{db: db, products: products, notifRepo: notifRepo, interests: interests, notifier: notifier, svc: svc}
}

func (e *testEnv) actor(t *testing.T, role, name string) domain.Actor {
	t.Helper()
	u := &models.User{Email: name + "@example.com", Role: role, Name: name}
	require.NoError(t, e.db.Create(u).Error)
	return domain.Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (e *testEnv) product(t *testing.T, id string) *models.Product {
	t.Helper()
	p, err := e.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (e *testEnv) sellerNotices(t *testing.T, sellerID, productID string) []models.Notification {
	t.Helper()
	list, err := e.notifRepo.ListBySellerAndProduct(context.Background(), sellerID, productID)
	require.NoError(t, err)
	return list
}

func (e *testEnv) userNotices(t *testing.T, userID string) []models.UserNotification {
	t.Helper()
	list, err := e.notifRepo.ListByUser(context.Background(), userID, 100)
	require.NoError(t, err)
	return list
}

func countType(list []models.Notification, typ string) int {
	n := 0
	for _, x := range list {
		if x.Type == typ {
			n++
		}
	}
	return n
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// cast holds the actors of a typical run.
type cast struct {
	user, admin, sellerA, sellerB domain.Actor
}

func (e *testEnv) cast(t *testing.T) cast {
	return cast{
		user:    e.actor(t, domain.RoleUser, "requester"),
		admin:   e.actor(t, domain.RoleAdmin, "admin"),
		sellerA: e.actor(t, domain.RoleSeller, "alice"),
		sellerB: e.actor(t, domain.RoleSeller, "bob"),
	}
}

// submitted creates a pending product with budget 100.
func (e *testEnv) submitted(t *testing.T, c cast) *models.Product {
	t.Helper()
	p, err := e.svc.Create(context.Background(), c.user, CreateProductInput{Title: "Logo", Description: "A logo for my shop", Budget: dec("100")})
	require.NoError(t, err)
	return p
}

// approved moves a fresh product to approved with budget 150.
func (e *testEnv) approved(t *testing.T, c cast) *models.Product {
	t.Helper()
	p := e.submitted(t, c)
	p, err := e.svc.Approve(context.Background(), c.admin, p.ID, ApproveInput{Budget: dec("150")})
	require.NoError(t, err)
	return p
}

// withDemo moves a fresh product to demo_submitted by sellerA.
func (e *testEnv) withDemo(t *testing.T, c cast) *models.Product {
	t.Helper()
	ctx := context.Background()
	p := e.approved(t, c)
	_, err := e.svc.Accept(ctx, c.sellerA, p.ID)
	require.NoError(t, err)
	p, err = e.svc.SubmitDemo(ctx, c.sellerA, p.ID, SubmitDemoInput{DemoURL: "https://example.com/demo.zip", DemoDescription: "first cut"})
	require.NoError(t, err)
	return p
}

type fakeReminders struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeReminders) SchedulePaymentReminder(_ context.Context, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, productID)
	return nil
}
