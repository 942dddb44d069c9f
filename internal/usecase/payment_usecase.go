package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/cache"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/notification"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/payment"
	"github.com/Ouerghi23/Medflow/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvoiceAlreadyPaid        = errors.New("invoice is already paid")
	ErrInvoiceNotPayable         = errors.New("invoice is cancelled")
	ErrInvoiceNothingToPay       = errors.New("invoice total is zero")
	ErrInvoiceNotAwaitingPayment = errors.New("invoice is not awaiting payment")
	ErrMissingInvoiceMetadata    = errors.New("payment event has no invoice reference")
)

// errDuplicateDelivery marks a webhook replay detected by the unique index.
var errDuplicateDelivery = errors.New("duplicate payment delivery")

type PaymentUsecase interface {
	CreateCheckout(ctx context.Context, req *dto.CreateCheckoutRequest) (*dto.CheckoutResponse, error)
	// HandleWebhook verifies and applies a processor notification.
	// Events that do not settle an invoice are acknowledged without writes.
	HandleWebhook(ctx context.Context, payload []byte, header http.Header) error
	// Reconcile marks the invoice paid. Replays of the same transaction are no-ops.
	Reconcile(ctx context.Context, event *payment.Event) error
}

type PaymentConfig struct {
	Currency string
	// BaseURL is the front-end origin the hosted checkout returns to.
	BaseURL string
}

type paymentUsecase struct {
	tx          repository.Transactor
	log         *logrus.Logger
	policy      service.AccessPolicy
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	audit       service.AuditService
	gateway     payment.Gateway
	stats       cache.StatsCache
	notifier    notification.Notifier
	config      PaymentConfig
	now         func() time.Time
}

func NewPaymentUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	audit service.AuditService,
	gateway payment.Gateway,
	stats cache.StatsCache,
	notifier notification.Notifier,
	config PaymentConfig,
) PaymentUsecase {
	return &paymentUsecase{
		tx:          tx,
		log:         log,
		policy:      policy,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		audit:       audit,
		gateway:     gateway,
		stats:       stats,
		notifier:    notifier,
		config:      config,
		now:         time.Now,
	}
}

func (u *paymentUsecase) CreateCheckout(ctx context.Context, req *dto.CreateCheckoutRequest) (*dto.CheckoutResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionPaymentCheckout) {
		return nil, ErrForbidden
	}

	invoice, err := findInvoiceFor(ctx, u.tx.DB(ctx), p, req.InvoiceID, u.invoiceRepo, u.doctorRepo, u.patientRepo)
	if err != nil {
		if !errors.Is(err, ErrInvoiceNotFound) {
			u.log.Warnf("Failed to find invoice by ID: %+v", err)
		}
		return nil, err
	}

	if invoice.IsPaid() {
		return nil, ErrInvoiceAlreadyPaid
	}
	if invoice.Status == entity.InvoiceStatusCancelled {
		return nil, ErrInvoiceNotPayable
	}
	if !invoice.TotalAmount.IsPositive() {
		return nil, ErrInvoiceNothingToPay
	}

	session, err := u.gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.TotalAmount,
		Currency:      u.config.Currency,
		CustomerName:  invoice.Patient.User.FullName(),
		CustomerEmail: invoice.Patient.User.Email,
		SuccessURL:    fmt.Sprintf("%s/invoices/%s?payment=success", u.config.BaseURL, invoice.ID),
		CancelURL:     fmt.Sprintf("%s/invoices/%s?payment=cancelled", u.config.BaseURL, invoice.ID),
		Metadata: map[string]string{
			payment.MetaInvoiceID:     invoice.ID.String(),
			payment.MetaPatientID:     invoice.PatientID.String(),
			payment.MetaTenantID:      invoice.ClinicID.String(),
			payment.MetaInvoiceNumber: invoice.InvoiceNumber,
		},
	})
	if err != nil {
		u.log.Warnf("Failed to create %s checkout for invoice %s: %+v", u.gateway.Method(), invoice.ID, err)
		return nil, err
	}

	u.log.Infof("Checkout session %s opened for invoice %s", session.SessionID, invoice.InvoiceNumber)

	return &dto.CheckoutResponse{
		SessionID: session.SessionID,
		URL:       session.URL,
	}, nil
}

func (u *paymentUsecase) HandleWebhook(ctx context.Context, payload []byte, header http.Header) error {
	event, err := u.gateway.ParseWebhook(payload, header)
	if err != nil {
		u.log.Warnf("Rejected %s webhook: %+v", u.gateway.Method(), err)
		return err
	}

	if event.Kind != payment.EventCheckoutCompleted {
		u.log.Debugf("Ignoring %s event %s", event.Method, event.Type)
		return nil
	}

	return u.Reconcile(ctx, event)
}

func (u *paymentUsecase) Reconcile(ctx context.Context, event *payment.Event) error {
	if event.InvoiceID == "" {
		u.log.Errorf("Payment event %s (%s) carries no invoice id", event.TransactionID, event.Type)
		return ErrMissingInvoiceMetadata
	}
	invoiceID, err := uuid.Parse(event.InvoiceID)
	if err != nil {
		u.log.Errorf("Payment event %s carries invalid invoice id %q", event.TransactionID, event.InvoiceID)
		return ErrMissingInvoiceMetadata
	}

	transactionID := event.TransactionID
	if transactionID == "" {
		transactionID = event.SessionID
	}

	var invoice *entity.Invoice
	duplicate := false

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := u.paymentRepo.FindByTransaction(ctx, tx, event.Method, transactionID)
		if err != nil {
			return err
		}
		if existing != nil {
			duplicate = true
			return nil
		}

		invoice, err = u.invoiceRepo.FindByIDAnyClinic(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return ErrInvoiceNotFound
		}

		pay := &entity.Payment{
			InvoiceID:     invoice.ID,
			Amount:        event.Amount,
			Method:        event.Method,
			TransactionID: transactionID,
			SessionID:     event.SessionID,
			Status:        entity.PaymentStatusCompleted,
		}
		if err := u.paymentRepo.Create(ctx, tx, pay); err != nil {
			if isDuplicateKeyError(err, entity.PaymentDedupIndex) {
				return errDuplicateDelivery
			}
			return fmt.Errorf("insert payment: %w", err)
		}

		paidAt := u.now().UTC()
		rows, err := u.invoiceRepo.MarkPaid(ctx, tx, invoice.ID, paidAt)
		if err != nil {
			return fmt.Errorf("mark invoice paid: %w", err)
		}
		// Paid or cancelled since; the payment insert is rolled back with it.
		if rows == 0 {
			return ErrInvoiceNotAwaitingPayment
		}

		return u.audit.LogUpdate(ctx, tx, service.SystemActor(invoice.ClinicID), entity.AuditActionInvoicePaid, "invoice", invoice.ID.String(),
			map[string]interface{}{"status": invoice.Status},
			map[string]interface{}{
				"status":         entity.InvoiceStatusPaid,
				"payment_id":     pay.ID,
				"method":         pay.Method,
				"transaction_id": pay.TransactionID,
				"amount":         pay.Amount.StringFixed(2),
			},
		)
	})
	if errors.Is(err, errDuplicateDelivery) {
		duplicate, err = true, nil
	}
	if err != nil {
		u.log.Errorf("Failed to reconcile %s payment %s for invoice %s: %+v", event.Method, transactionID, invoiceID, err)
		return err
	}

	if duplicate {
		u.log.Infof("Duplicate %s delivery for transaction %s ignored", event.Method, transactionID)
		return nil
	}

	u.log.Infof("Invoice %s paid via %s (%s)", invoice.InvoiceNumber, event.Method, transactionID)
	u.afterPaid(ctx, invoice, event)

	return nil
}

// afterPaid runs side effects that must not undo a committed payment.
func (u *paymentUsecase) afterPaid(ctx context.Context, invoice *entity.Invoice, event *payment.Event) {
	if err := u.stats.Invalidate(ctx, invoice.ClinicID); err != nil {
		u.log.Warnf("Failed to invalidate dashboard stats for clinic %s: %+v", invoice.ClinicID, err)
	}

	token := invoice.Patient.User.DeviceToken()
	if token == "" {
		return
	}

	err := u.notifier.Send(ctx, notification.Message{
		Token: token,
		Title: "Payment received",
		Body:  fmt.Sprintf("We received %s for invoice %s. Thank you.", event.Amount.StringFixed(2), invoice.InvoiceNumber),
		Data: map[string]string{
			"type":       "payment_received",
			"invoice_id": invoice.ID.String(),
		},
	})
	if err != nil {
		u.log.Warnf("Failed to notify patient %s of payment: %+v", invoice.PatientID, err)
	}
}
