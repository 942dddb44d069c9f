package usecase

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paidAt = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func newPaymentUsecase(f *fixture) *paymentUsecase {
	uc := NewPaymentUsecase(f.tx, f.log, f.policy, f.invoices, f.payments, f.patients, f.doctors, f.audit, f.gateway, f.stats, f.notifier, PaymentConfig{
		Currency: "usd",
		BaseURL:  "https://app.medflow.test",
	}).(*paymentUsecase)
	uc.now = func() time.Time { return paidAt }
	return uc
}

func completedEvent(inv entity.Invoice, txID string) *payment.Event {
	return &payment.Event{
		Kind:          payment.EventCheckoutCompleted,
		Type:          "checkout.session.completed",
		Method:        "STRIPE",
		InvoiceID:     inv.ID.String(),
		TransactionID: txID,
		SessionID:     "cs_test_1",
		Amount:        inv.TotalAmount,
	}
}

func TestCreateCheckout(t *testing.T) {
	f := newFixture(t)
	uc := newPaymentUsecase(f)
	inv := f.addInvoice(f.patient, "170", entity.InvoiceStatusUnpaid)

	res, err := uc.CreateCheckout(f.ctxAs(f.patientUser), &dto.CreateCheckoutRequest{InvoiceID: inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", res.SessionID)

	require.Len(t, f.gateway.checkouts, 1)
	req := f.gateway.checkouts[0]
	assert.True(t, money("170").Equal(req.Amount))
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, inv.ID.String(), req.Metadata[payment.MetaInvoiceID])
	assert.Equal(t, f.clinic.ID.String(), req.Metadata[payment.MetaTenantID])
	assert.Equal(t, "https://app.medflow.test/invoices/"+inv.ID.String()+"?payment=success", req.SuccessURL)
	assert.Equal(t, "jane@clinic.test", req.CustomerEmail)
}

func TestCreateCheckout_PaidInvoiceNeverReachesGateway(t *testing.T) {
	f := newFixture(t)
	uc := newPaymentUsecase(f)
	inv := f.addInvoice(f.patient, "170", entity.InvoiceStatusPaid)
	cancelled := f.addInvoice(f.patient, "30", entity.InvoiceStatusCancelled)

	_, err := uc.CreateCheckout(f.ctxAs(f.receptionist), &dto.CreateCheckoutRequest{InvoiceID: inv.ID})
	assert.ErrorIs(t, err, ErrInvoiceAlreadyPaid)

	_, err = uc.CreateCheckout(f.ctxAs(f.receptionist), &dto.CreateCheckoutRequest{InvoiceID: cancelled.ID})
	assert.ErrorIs(t, err, ErrInvoiceNotPayable)

	free := f.addInvoice(f.patient, "0", entity.InvoiceStatusUnpaid)
	_, err = uc.CreateCheckout(f.ctxAs(f.receptionist), &dto.CreateCheckoutRequest{InvoiceID: free.ID})
	assert.ErrorIs(t, err, ErrInvoiceNothingToPay)

	assert.Empty(t, f.gateway.checkouts)
}

func TestCreateCheckout_OtherPatientsInvoice(t *testing.T) {
	f := newFixture(t)
	uc := newPaymentUsecase(f)
	inv := f.addInvoice(f.otherPatient, "10", entity.InvoiceStatusUnpaid)

	_, err := uc.CreateCheckout(f.ctxAs(f.patientUser), &dto.CreateCheckoutRequest{InvoiceID: inv.ID})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	_, err = uc.CreateCheckout(f.ctxAs(f.doctorUser), &dto.CreateCheckoutRequest{InvoiceID: inv.ID})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.gateway.checkouts)
}

func TestReconcile_MarksInvoicePaidOnce(t *testing.T) {
	f := newFixture(t)
	uc := newPaymentUsecase(f)
	inv := f.addInvoice(f.patient, "170", entity.InvoiceStatusUnpaid)
	event := completedEvent(inv, "pi_123")

	require.NoError(t, uc.Reconcile(t.Context(), event))

	stored := f.store.invoices[inv.ID]
	assert.Equal(t, entity.InvoiceStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.Equal(t, paidAt, *stored.PaidAt)

	require.Len(t, f.store.payments, 1)
	pay := f.store.payments[0]
	assert.Equal(t, "pi_123", pay.TransactionID)
	assert.Equal(t, entity.PaymentStatusCompleted, pay.Status)
	assert.True(t, money("170").Equal(pay.Amount))

	assert.Equal(t, []uuid.UUID{f.clinic.ID}, f.stats.invalidated)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "device-token-1", f.notifier.sent[0].Token)
	assert.Equal(t, []string{entity.AuditActionInvoicePaid}, f.auditActions())

	// A replay of the same delivery changes nothing.
	require.NoError(t, uc.Reconcile(t.Context(), event))
	assert.Len(t, f.store.payments, 1)
	assert.Len(t, f.notifier.sent, 1)
	assert.Len(t, f.auditActions(), 1)
}

func TestReconcile_ConcurrentDuplicateCaughtByUniqueIndex(t *testing.T) {
	f := newFixture(t)
	uc := newPaymentUsecase(f)
	inv := f.addInvoice(f.patient, "50", entity.InvoiceStatusUnpaid)

	require.NoError(t, uc.Reconcile(t.Context(), completedEvent(inv, "pi_dup")))

	f.payments.skipLookup = true
	require.NoError(t, uc.Reconcile(t.Context(), completedEvent(inv, "pi_dup")))

	assert.Len(t, f.store.payments, 1)
	assert.Len(t, f.notifier.sent, 1)
}

func TestReconcile_FallsBackToSessionID(t *testing.T) {
	f := newFixture(t)
	uc := newPaymentUsecase(f)
	inv := f.addInvoice(f.patient, "50", entity.InvoiceStatusUnpaid)

	event := completedEvent(inv, "")
	require.NoError(t, uc.Reconcile(t.Context(), event))
	require.Len(t, f.store.payments, 1)
	assert.Equal(t, "cs_test_1", f.store.payments[0].TransactionID)
}

func TestReconcile_Failures(t *testing.T) {
	f := newFixture(t)
	uc := newPaymentUsecase(f)

	err := uc.Reconcile(t.Context(), &payment.Event{Kind: payment.EventCheckoutCompleted, Method: "STRIPE", TransactionID: "pi_1"})
	assert.ErrorIs(t, err, ErrMissingInvoiceMetadata)

	err = uc.Reconcile(t.Context(), &payment.Event{Kind: payment.EventCheckoutCompleted, Method: "STRIPE", TransactionID: "pi_2", InvoiceID: "not-a-uuid"})
	assert.ErrorIs(t, err, ErrMissingInvoiceMetadata)

	err = uc.Reconcile(t.Context(), &payment.Event{Kind: payment.EventCheckoutCompleted, Method: "STRIPE", TransactionID: "pi_3", InvoiceID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	assert.Empty(t, f.store.payments)
	assert.Empty(t, f.notifier.sent)
}

func TestReconcile_NotificationFailureKeepsPayment(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("fcm unavailable")
	uc := newPaymentUsecase(f)
	inv := f.addInvoice(f.patient, "50", entity.InvoiceStatusUnpaid)

	require.NoError(t, uc.Reconcile(t.Context(), completedEvent(inv, "pi_9")))
	assert.Equal(t, entity.InvoiceStatusPaid, f.store.invoices[inv.ID].Status)
}

func TestHandleWebhook(t *testing.T) {
	t.Run("bad signature", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.parseErr = payment.ErrInvalidSignature
		uc := newPaymentUsecase(f)

		err := uc.HandleWebhook(t.Context(), []byte(`{}`), http.Header{})
		assert.ErrorIs(t, err, payment.ErrInvalidSignature)
		assert.Empty(t, f.store.payments)
	})

	t.Run("ignored event", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.event = &payment.Event{Kind: payment.EventIgnored, Type: "customer.created", Method: "STRIPE"}
		uc := newPaymentUsecase(f)

		assert.NoError(t, uc.HandleWebhook(t.Context(), []byte(`{}`), http.Header{}))
		assert.Zero(t, f.tx.txns)
	})

	t.Run("completed checkout", func(t *testing.T) {
		f := newFixture(t)
		inv := f.addInvoice(f.patient, "80", entity.InvoiceStatusUnpaid)
		f.gateway.event = completedEvent(inv, "pi_webhook")
		uc := newPaymentUsecase(f)

		require.NoError(t, uc.HandleWebhook(t.Context(), []byte(`{}`), http.Header{}))
		assert.Equal(t, entity.InvoiceStatusPaid, f.store.invoices[inv.ID].Status)
	})
}

func TestReconcile_SecondTransactionForSettledInvoice(t *testing.T) {
	f := newFixture(t)
	uc := newPaymentUsecase(f)
	inv := f.addInvoice(f.patient, "80", entity.InvoiceStatusUnpaid)
	cancelled := f.addInvoice(f.patient, "40", entity.InvoiceStatusCancelled)

	require.NoError(t, uc.Reconcile(t.Context(), completedEvent(inv, "pi_first")))
	firstPaidAt := *f.store.invoices[inv.ID].PaidAt

	uc.now = func() time.Time { return paidAt.Add(time.Hour) }

	// Two checkout sessions paid one after the other: only the first is recorded.
	err := uc.Reconcile(t.Context(), completedEvent(inv, "pi_second"))
	assert.ErrorIs(t, err, ErrInvoiceNotAwaitingPayment)
	require.Len(t, f.store.payments, 1)
	assert.Equal(t, "pi_first", f.store.payments[0].TransactionID)
	assert.Equal(t, firstPaidAt, *f.store.invoices[inv.ID].PaidAt)

	err = uc.Reconcile(t.Context(), completedEvent(cancelled, "pi_late"))
	assert.ErrorIs(t, err, ErrInvoiceNotAwaitingPayment)
	assert.Equal(t, entity.InvoiceStatusCancelled, f.store.invoices[cancelled.ID].Status)
	assert.Len(t, f.store.payments, 1)
	assert.Len(t, f.notifier.sent, 1)
}
