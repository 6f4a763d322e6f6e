package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"commissionhub/internal/domain"
	"commissionhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitProduct(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)

	p := e.submitted(t, c)
	got := e.product(t, p.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, got.OriginalBudget.Equal(dec("100")))
	assert.False(t, got.AdminModifiedBudget.Valid)
	assert.Equal(t, c.user.ID, got.UserID)
	assert.Equal(t, "requester", got.UserName)
	assert.Equal(t, "requester@example.com", got.UserEmail)
}

func TestSubmitProductValidation(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	ctx := context.Background()

	_, err := e.svc.Create(ctx, c.user, CreateProductInput{Title: " ", Description: "d", Budget: dec("10")})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	_, err = e.svc.Create(ctx, c.user, CreateProductInput{Title: "t", Description: "d"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	_, err = e.svc.Create(ctx, c.sellerA, CreateProductInput{Title: "t", Description: "d", Budget: dec("10")})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}

func TestApproveNotifiesEverySellerOnce(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)

	p := e.approved(t, c)
	got := e.product(t, p.ID)
	assert.Equal(t, domain.StatusApproved, got.Status)
	require.True(t, got.AdminModifiedBudget.Valid)
	assert.True(t, got.AdminModifiedBudget.Decimal.Equal(dec("150")))

	for _, s := range []domain.Actor{c.sellerA, c.sellerB} {
		notes := e.sellerNotices(t, s.ID, p.ID)
		require.Len(t, notes, 1)
		assert.Equal(t, domain.NotifyProductApproved, notes[0].Type)
		assert.Contains(t, notes[0].Message, "$150")
		assert.False(t, notes[0].Read)
	}
}

func TestApproveRejectsNonPositiveBudget(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	p := e.submitted(t, c)

	_, err := e.svc.Approve(context.Background(), c.admin, p.ID, ApproveInput{Budget: dec("0")})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	_, err = e.svc.Approve(context.Background(), c.admin, p.ID, ApproveInput{Budget: dec("-5")})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Equal(t, domain.StatusPending, e.product(t, p.ID).Status)
}

func TestApproveRequiresAdmin(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	p := e.submitted(t, c)

	_, err := e.svc.Approve(context.Background(), c.user, p.ID, ApproveInput{Budget: dec("150")})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
	_, err = e.svc.Approve(context.Background(), c.admin, "missing", ApproveInput{Budget: dec("150")})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestUnknownActorIsUnauthorized(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	p := e.submitted(t, c)

	ghost := domain.Actor{ID: "ghost", Role: domain.RoleAdmin}
	_, err := e.svc.Approve(context.Background(), ghost, p.ID, ApproveInput{Budget: dec("150")})
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
}

func TestAcceptGuards(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()

	pending := e.submitted(t, c)
	_, err := e.svc.Accept(ctx, c.sellerA, pending.ID)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))

	open := e.approved(t, c)
	_, err = e.svc.Accept(ctx, c.user, open.ID)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	p, err := e.svc.Accept(ctx, c.sellerA, open.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, p.Status)
	require.NotNil(t, p.AcceptedSellerName)
	assert.Equal(t, "alice", *p.AcceptedSellerName)

	_, err = e.svc.Accept(ctx, c.sellerB, open.ID)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	notes := e.userNotices(t, c.user.ID)
	require.NotEmpty(t, notes)
	assert.Equal(t, `Your product "Logo" has been accepted by alice`, notes[0].Message)
}

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	for name, locker := range map[string]Locker{"local lock": NewLocalLocker(), "version only": nil} {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t, locker)
			c := e.cast(t)
			sellers := []domain.Actor{c.sellerA, c.sellerB}
			for i := 0; i < 4; i++ {
				sellers = append(sellers, e.actor(t, domain.RoleSeller, "seller"+string(rune('c'+i))))
			}
			p := e.approved(t, c)

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				winners   []string
				conflicts int
			)
			for _, s := range sellers {
				wg.Add(1)
				go func(s domain.Actor) {
					defer wg.Done()
					_, err := e.svc.Accept(context.Background(), s, p.ID)
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						winners = append(winners, s.ID)
						return
					}
					if domain.IsKind(err, domain.KindConflict) {
						conflicts++
					}
				}(s)
			}
			wg.Wait()

			require.Len(t, winners, 1)
			assert.Equal(t, len(sellers)-1, conflicts)

			got := e.product(t, p.ID)
			require.NotNil(t, got.AcceptedSellerID)
			assert.Equal(t, winners[0], *got.AcceptedSellerID)
			assert.Equal(t, domain.StatusAccepted, got.Status)

			for _, s := range sellers {
				taken := countType(e.sellerNotices(t, s.ID, p.ID), domain.NotifyProductTaken)
				if s.ID == winners[0] {
					assert.Zero(t, taken)
				} else {
					assert.Equal(t, 1, taken, "seller %s", s.ID)
				}
			}
		})
	}
}

func TestTakenNoticeOnlyForInterestedSellers(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.approved(t, c)
	late := e.actor(t, domain.RoleSeller, "late")

	_, err := e.svc.Accept(ctx, c.sellerA, p.ID)
	require.NoError(t, err)

	assert.Len(t, e.sellerNotices(t, c.sellerB.ID, p.ID), 2)
	assert.Empty(t, e.sellerNotices(t, late.ID, p.ID))

	_, err = e.svc.Accept(ctx, late, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	assert.Empty(t, e.sellerNotices(t, late.ID, p.ID))

	// a repeated losing attempt does not produce a second notice
	_, err = e.svc.Accept(ctx, c.sellerB, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	assert.Equal(t, 1, countType(e.sellerNotices(t, c.sellerB.ID, p.ID), domain.NotifyProductTaken))
}

func TestSubmitDemoGuards(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.approved(t, c)

	_, err := e.svc.SubmitDemo(ctx, c.sellerA, p.ID, SubmitDemoInput{})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = e.svc.SubmitDemo(ctx, c.sellerA, p.ID, SubmitDemoInput{DemoURL: "https://x"})
	assert.True(t, domain.IsKind(err, domain.KindForbidden), "not assigned yet")

	_, err = e.svc.Accept(ctx, c.sellerA, p.ID)
	require.NoError(t, err)

	_, err = e.svc.SubmitDemo(ctx, c.sellerB, p.ID, SubmitDemoInput{DemoURL: "https://x"})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	got, err := e.svc.SubmitDemo(ctx, c.sellerA, p.ID, SubmitDemoInput{DemoURL: "https://x"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDemoSubmitted, got.Status)
	assert.NotNil(t, got.DemoSubmittedAt)
	assert.Nil(t, got.DemoDescription)

	_, err = e.svc.SubmitDemo(ctx, c.sellerA, p.ID, SubmitDemoInput{DemoURL: "https://y"})
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))

	adminNotes := e.userNotices(t, c.admin.ID)
	require.Len(t, adminNotes, 1)
	assert.Equal(t, `New demo submitted for "Logo" by alice`, adminNotes[0].Message)
}

func TestRejectDemoResetsAssignment(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.withDemo(t, c)

	got, err := e.svc.RejectDemo(ctx, c.user, p.ID, RejectDemoInput{Reason: "too rough"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)

	stored := e.product(t, p.ID)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	assert.Nil(t, stored.AcceptedSellerID)
	assert.Nil(t, stored.AcceptedSellerName)
	assert.Nil(t, stored.DemoURL)
	assert.Nil(t, stored.DemoDescription)
	assert.Nil(t, stored.DemoSubmittedAt)
	require.NotNil(t, stored.DemoRejectionReason)
	assert.Equal(t, "too rough", *stored.DemoRejectionReason)
	require.NotNil(t, stored.DemoRejectedBy)
	assert.Equal(t, "requester", *stored.DemoRejectedBy)

	rejected := e.sellerNotices(t, c.sellerA.ID, p.ID)
	last := rejected[len(rejected)-1]
	assert.Equal(t, domain.NotifyProductTaken, last.Type)
	assert.Contains(t, last.Message, "too rough")

	others := e.sellerNotices(t, c.sellerB.ID, p.ID)
	last = others[len(others)-1]
	assert.Equal(t, domain.NotifyProductApproved, last.Type)
	assert.True(t, strings.HasPrefix(last.Message, `Product "Logo" is available again`))

	// back in the pool: another seller can take it
	_, err = e.svc.Accept(ctx, c.sellerB, p.ID)
	require.NoError(t, err)
}

func TestRejectDemoDefaultsReasonAndAllowsAdmin(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	p := e.withDemo(t, c)

	got, err := e.svc.RejectDemo(context.Background(), c.admin, p.ID, RejectDemoInput{})
	require.NoError(t, err)
	require.NotNil(t, got.DemoRejectionReason)
	assert.Equal(t, "Not specified", *got.DemoRejectionReason)
}

func TestRejectDemoByOtherUserForbidden(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	p := e.withDemo(t, c)
	stranger := e.actor(t, domain.RoleUser, "stranger")

	_, err := e.svc.RejectDemo(context.Background(), stranger, p.ID, RejectDemoInput{Reason: "no"})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
	_, err = e.svc.RejectDemo(context.Background(), c.sellerA, p.ID, RejectDemoInput{Reason: "no"})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}

func TestApproveDemoByOwner(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.withDemo(t, c)

	_, err := e.svc.ApproveOrDeliver(ctx, c.admin, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition), "admin approve means deliver")

	stranger := e.actor(t, domain.RoleUser, "stranger")
	_, err = e.svc.ApproveOrDeliver(ctx, stranger, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	got, err := e.svc.ApproveOrDeliver(ctx, c.user, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDemoApproved, got.Status)
	require.NotNil(t, got.DemoApprovedBy)
	assert.Equal(t, "requester", *got.DemoApprovedBy)

	notes := e.sellerNotices(t, c.sellerA.ID, p.ID)
	assert.Equal(t, domain.NotifyProductAccepted, notes[len(notes)-1].Type)

	_, err = e.svc.ApproveDemo(ctx, c.user, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
}

func TestPaymentGateExactness(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.withDemo(t, c)
	_, err := e.svc.NotifyUser(ctx, c.admin, p.ID)
	require.NoError(t, err)
	before := e.product(t, p.ID)
	require.Equal(t, domain.StatusPaymentPending, before.Status)

	_, err = e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("100")})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Equal(t, "Payment amount does not match project budget", err.Error())
	assert.Equal(t, before, e.product(t, p.ID))

	_, err = e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("150.01")})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Equal(t, before, e.product(t, p.ID))

	got, err := e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("150.00")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentCompleted, got.Status)
	require.NotNil(t, got.PaymentStatus)
	assert.Equal(t, domain.PaymentCompleted, *got.PaymentStatus)
	require.NotNil(t, got.PaymentTransactionID)
	assert.True(t, strings.HasPrefix(*got.PaymentTransactionID, "TXN-"))
	assert.NotNil(t, got.PaymentDate)

	adminNotes := e.userNotices(t, c.admin.ID)
	assert.Contains(t, adminNotes[0].Message, "Payment received for project \"Logo\" from requester@example.com")
}

func TestPaymentGuardOrder(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	ctx := context.Background()
	p := e.approved(t, c)
	stranger := e.actor(t, domain.RoleUser, "stranger")

	_, err := e.svc.Pay(ctx, stranger, p.ID, PaymentInput{Amount: dec("100")})
	assert.True(t, domain.IsKind(err, domain.KindForbidden), "ownership is checked first")

	_, err = e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("150")})
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))

	_, err = e.svc.Pay(ctx, c.user, p.ID, PaymentInput{})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestPaymentKeepsCallerTransactionID(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	p := e.withDemo(t, c)

	got, err := e.svc.Pay(context.Background(), c.user, p.ID, PaymentInput{Amount: dec("150"), TransactionID: "bank-77"})
	require.NoError(t, err)
	assert.Equal(t, "bank-77", *got.PaymentTransactionID)
}

func TestNotifyUserAndReminder(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	reminders := &fakeReminders{}
	e.svc.SetReminderScheduler(reminders)
	c := e.cast(t)
	ctx := context.Background()
	p := e.withDemo(t, c)

	_, err := e.svc.NotifyUser(ctx, c.user, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	got, err := e.svc.NotifyUser(ctx, c.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentPending, got.Status)
	require.NotNil(t, got.PaymentStatus)
	assert.Equal(t, domain.PaymentPending, *got.PaymentStatus)
	assert.NotNil(t, got.DemoNotifiedAt)

	_, err = e.svc.NotifyUser(ctx, c.admin, p.ID)
	require.NoError(t, err)

	notes := e.userNotices(t, c.user.ID)
	require.GreaterOrEqual(t, len(notes), 2)
	assert.True(t, strings.HasPrefix(notes[0].Message, "Reminder: Payment is still pending"))
	assert.True(t, strings.HasPrefix(notes[1].Message, `The demo for "Logo" is ready`))
	assert.Equal(t, []string{p.ID, p.ID}, reminders.calls)

	sent, err := e.svc.RemindPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, sent)

	_, err = e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("150")})
	require.NoError(t, err)
	sent, err = e.svc.RemindPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestDeliverAfterPayment(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.withDemo(t, c)

	_, err := e.svc.DeliverProject(ctx, c.admin, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))

	_, err = e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("150")})
	require.NoError(t, err)

	_, err = e.svc.DeliverProject(ctx, c.user, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	got, err := e.svc.ApproveOrDeliver(ctx, c.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)
	assert.NotNil(t, got.DeliveredAt)
	require.NotNil(t, got.DemoApprovedBy)
	assert.Equal(t, "admin", *got.DemoApprovedBy)

	assert.True(t, strings.HasPrefix(e.userNotices(t, c.user.ID)[0].Message, `Your project "Logo" has been delivered`))
	notes := e.sellerNotices(t, c.sellerA.ID, p.ID)
	assert.Equal(t, domain.NotifyProductAccepted, notes[len(notes)-1].Type)

	_, err = e.svc.Reject(ctx, c.admin, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition), "delivered is terminal")
}

func TestAdminRejectClearsEverything(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.withDemo(t, c)
	_, err := e.svc.NotifyUser(ctx, c.admin, p.ID)
	require.NoError(t, err)
	_, err = e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("150")})
	require.NoError(t, err)

	got, err := e.svc.Reject(ctx, c.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)

	stored := e.product(t, p.ID)
	assert.Nil(t, stored.AcceptedSellerID)
	assert.Nil(t, stored.DemoURL)
	assert.Nil(t, stored.PaymentStatus)
	assert.False(t, stored.PaymentAmount.Valid)
	assert.Nil(t, stored.PaymentDate)
	assert.Nil(t, stored.PaymentTransactionID)
	assert.Nil(t, stored.DemoNotifiedAt)
	require.NotNil(t, stored.DemoRejectionReason)
	assert.Equal(t, "Rejected by admin", *stored.DemoRejectionReason)
	assert.True(t, stored.AdminModifiedBudget.Valid, "budget is kept")

	assert.Equal(t, `Your project "Logo" has been rejected by the admin.`, e.userNotices(t, c.user.ID)[0].Message)
	notes := e.sellerNotices(t, c.sellerA.ID, p.ID)
	assert.Equal(t, domain.NotifyProductTaken, notes[len(notes)-1].Type)

	_, err = e.svc.Reject(ctx, c.admin, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
}

func TestRejectPendingProduct(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.cast(t)
	p := e.submitted(t, c)

	got, err := e.svc.Reject(context.Background(), c.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	assert.Empty(t, e.sellerNotices(t, c.sellerA.ID, p.ID))
}

func TestRefusedTransitionLeavesProductUnchanged(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.withDemo(t, c)
	before := e.product(t, p.ID)

	attempts := []func() error{
		func() error { _, err := e.svc.Accept(ctx, c.sellerB, p.ID); return err },
		func() error { _, err := e.svc.Approve(ctx, c.admin, p.ID, ApproveInput{Budget: dec("10")}); return err },
		func() error { _, err := e.svc.DeliverProject(ctx, c.admin, p.ID); return err },
		func() error { _, err := e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("1")}); return err },
		func() error {
			_, err := e.svc.SubmitDemo(ctx, c.sellerA, p.ID, SubmitDemoInput{DemoURL: "https://z"})
			return err
		},
	}
	for i, attempt := range attempts {
		require.Error(t, attempt(), "attempt %d", i)
		assert.Equal(t, before, e.product(t, p.ID), "attempt %d", i)
	}
}

func TestHistoryRecordsTransitions(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()
	p := e.withDemo(t, c)

	_, err := e.svc.History(ctx, c.user, p.ID)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	history, err := e.svc.History(ctx, c.admin, p.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(history))
	for _, h := range history {
		names = append(names, h.Transition)
	}
	assert.Equal(t, []string{"submit", "approve", "accept", "submit_demo"}, names)
	assert.Equal(t, domain.StatusApproved, history[2].FromStatus)
	assert.Equal(t, c.sellerA.ID, history[2].ActorID)
	assert.Equal(t, "150", history[1].Metadata["budget"])
}

func TestFullLifecycle(t *testing.T) {
	e := newTestEnv(t, NewLocalLocker())
	c := e.cast(t)
	ctx := context.Background()

	p := e.withDemo(t, c)
	steps := []func() (*models.Product, error){
		func() (*models.Product, error) { return e.svc.ApproveDemo(ctx, c.user, p.ID) },
		func() (*models.Product, error) { return e.svc.NotifyUser(ctx, c.admin, p.ID) },
		func() (*models.Product, error) { return e.svc.Pay(ctx, c.user, p.ID, PaymentInput{Amount: dec("150")}) },
		func() (*models.Product, error) { return e.svc.DeliverProject(ctx, c.admin, p.ID) },
	}
	want := []string{domain.StatusDemoApproved, domain.StatusPaymentPending, domain.StatusPaymentCompleted, domain.StatusDelivered}
	for i, step := range steps {
		got, err := step()
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, want[i], got.Status)
	}
	assert.EqualValues(t, 8, e.product(t, p.ID).Version)
}
