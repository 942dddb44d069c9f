package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/Ouerghi23/Medflow/internal/converter"
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrNegativeInvoiceTotal   = errors.New("invoice total cannot be negative")
	ErrMissingUnitPrice       = errors.New("unit_price is required for items without a service")
	ErrInvoiceNumberExhausted = errors.New("could not allocate a unique invoice number")
)

const maxInvoiceNumberAttempts = 5

type InvoiceUsecase interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetAllInvoices(ctx context.Context, filter dto.InvoiceFilterRequest) (*dto.InvoiceListResponse, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
}

type invoiceUsecase struct {
	tx          repository.Transactor
	log         *logrus.Logger
	policy      service.AccessPolicy
	invoiceRepo repository.InvoiceRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	serviceRepo repository.MedicalServiceRepository
	audit       service.AuditService
	now         func() time.Time
}

func NewInvoiceUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	serviceRepo repository.MedicalServiceRepository,
	audit service.AuditService,
) InvoiceUsecase {
	return &invoiceUsecase{
		tx:          tx,
		log:         log,
		policy:      policy,
		invoiceRepo: invoiceRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		serviceRepo: serviceRepo,
		audit:       audit,
		now:         time.Now,
	}
}

func (u *invoiceUsecase) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionInvoiceCreate) {
		return nil, ErrForbidden
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		d, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		dueDate = &d
	}

	db := u.tx.DB(ctx)

	patient, err := u.patientRepo.FindByID(ctx, db, p.ClinicID, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	items, err := u.priceItems(ctx, db, p.ClinicID, req.Items)
	if err != nil {
		return nil, err
	}

	totals, err := entity.ComputeInvoiceTotals(items, req.Discount, req.Tax)
	if err != nil {
		if errors.Is(err, entity.ErrNegativeTotal) {
			return nil, ErrNegativeInvoiceTotal
		}
		return nil, err
	}

	invoice := &entity.Invoice{
		ClinicID:    p.ClinicID,
		PatientID:   patient.ID,
		Amount:      totals.Subtotal,
		Discount:    totals.Discount,
		Tax:         totals.Tax,
		TotalAmount: totals.Total,
		Status:      entity.InvoiceStatusUnpaid,
		DueDate:     dueDate,
		Notes:       req.Notes,
		Items:       items,
	}

	// A collision aborts the PostgreSQL transaction, so each attempt gets a fresh one.
	for attempt := 0; attempt < maxInvoiceNumberAttempts; attempt++ {
		invoice.ID = uuid.Nil
		for i := range invoice.Items {
			invoice.Items[i].ID = uuid.Nil
			invoice.Items[i].InvoiceID = uuid.Nil
		}

		err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
			number, err := u.nextInvoiceNumber(ctx, tx)
			if err != nil {
				return err
			}
			invoice.InvoiceNumber = number

			if err := u.invoiceRepo.Create(ctx, tx, invoice); err != nil {
				return err
			}

			return u.audit.LogCreate(ctx, tx, service.ActorOf(p), entity.AuditActionInvoiceCreate, "invoice", invoice.ID.String(), map[string]interface{}{
				"invoice_number": invoice.InvoiceNumber,
				"patient_id":     invoice.PatientID,
				"total_amount":   invoice.TotalAmount.StringFixed(2),
			})
		})
		if err == nil || !isDuplicateKeyError(err, "invoice_number") {
			break
		}
		u.log.Infof("Invoice number %s collided, retrying", invoice.InvoiceNumber)
	}
	if err != nil {
		if isDuplicateKeyError(err, "invoice_number") {
			err = ErrInvoiceNumberExhausted
		}
		u.log.Warnf("Failed to create invoice: %+v", err)
		return nil, err
	}

	invoice.Patient = *patient

	u.log.Infof("Invoice %s created for patient %s, total %s", invoice.InvoiceNumber, invoice.PatientID, invoice.TotalAmount.StringFixed(2))

	return converter.InvoiceToResponse(invoice), nil
}

// priceItems resolves catalog defaults. A line with a service id takes the
// service's price and name unless the request overrides them.
func (u *invoiceUsecase) priceItems(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, reqs []dto.InvoiceItemRequest) ([]entity.InvoiceItem, error) {
	var serviceIDs []uuid.UUID
	for _, r := range reqs {
		if r.ServiceID != nil {
			serviceIDs = append(serviceIDs, *r.ServiceID)
		}
	}

	catalog := make(map[uuid.UUID]entity.MedicalService, len(serviceIDs))
	if len(serviceIDs) > 0 {
		services, err := u.serviceRepo.FindByIDs(ctx, db, clinicID, serviceIDs)
		if err != nil {
			u.log.Warnf("Failed to find medical services: %+v", err)
			return nil, err
		}
		for _, s := range services {
			catalog[s.ID] = s
		}
	}

	items := make([]entity.InvoiceItem, len(reqs))
	for i, r := range reqs {
		item := entity.InvoiceItem{
			ServiceID:   r.ServiceID,
			Description: r.Description,
			Quantity:    r.Quantity,
		}

		if r.ServiceID != nil {
			svc, ok := catalog[*r.ServiceID]
			if !ok || !svc.IsActive {
				return nil, ErrServiceNotFound
			}
			if item.Description == "" {
				item.Description = svc.Name
			}
			item.UnitPrice = svc.Price
		}

		if r.UnitPrice != nil {
			item.UnitPrice = *r.UnitPrice
		} else if r.ServiceID == nil {
			return nil, ErrMissingUnitPrice
		}

		items[i] = item
	}

	return items, nil
}

// nextInvoiceNumber returns INV-YYYYMMDD-XXXXXXXX not yet used by any invoice.
func (u *invoiceUsecase) nextInvoiceNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxInvoiceNumberAttempts; attempt++ {
		number, err := generateInvoiceNumber(u.now())
		if err != nil {
			return "", err
		}

		exists, err := u.invoiceRepo.ExistsByNumber(ctx, tx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", ErrInvoiceNumberExhausted
}

func generateInvoiceNumber(now time.Time) (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%s-%08X", now.UTC().Format("20060102"), randomBytes), nil
}

func (u *invoiceUsecase) GetAllInvoices(ctx context.Context, req dto.InvoiceFilterRequest) (*dto.InvoiceListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionInvoiceRead) {
		return nil, ErrForbidden
	}

	filter := entity.InvoiceFilter{ClinicID: p.ClinicID}
	if filter.PatientID, err = parseOptionalUUID(req.PatientID); err != nil {
		return nil, err
	}
	if req.Status != "" {
		filter.Status = entity.InvoiceStatus(req.Status)
		switch filter.Status {
		case entity.InvoiceStatusUnpaid, entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled:
		default:
			return nil, ErrInvalidFilter
		}
	}

	db := u.tx.DB(ctx)
	scope, err := resolveOwnership(ctx, db, p, u.doctorRepo, u.patientRepo)
	if err != nil {
		u.log.Warnf("Failed to resolve caller profile: %+v", err)
		return nil, err
	}
	if scope.patientID != nil {
		filter.PatientID = scope.patientID
	}

	invoices, err := u.invoiceRepo.FindAll(ctx, db, filter)
	if err != nil {
		u.log.Warnf("Failed to find invoices: %+v", err)
		return nil, err
	}

	return &dto.InvoiceListResponse{
		Invoices: converter.InvoicesToResponses(invoices),
		Total:    len(invoices),
	}, nil
}

func (u *invoiceUsecase) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionInvoiceRead) {
		return nil, ErrForbidden
	}

	invoice, err := findInvoiceFor(ctx, u.tx.DB(ctx), p, id, u.invoiceRepo, u.doctorRepo, u.patientRepo)
	if err != nil {
		if !errors.Is(err, ErrInvoiceNotFound) {
			u.log.Warnf("Failed to find invoice by ID: %+v", err)
		}
		return nil, err
	}

	return converter.InvoiceToResponse(invoice), nil
}

// findInvoiceFor loads an invoice of the caller's clinic. Patients only see their own.
func findInvoiceFor(
	ctx context.Context,
	db *gorm.DB,
	p entity.Principal,
	id uuid.UUID,
	invoiceRepo repository.InvoiceRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
) (*entity.Invoice, error) {
	invoice, err := invoiceRepo.FindByID(ctx, db, p.ClinicID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	scope, err := resolveOwnership(ctx, db, p, doctorRepo, patientRepo)
	if err != nil {
		return nil, err
	}
	if scope.patientID != nil && *scope.patientID != invoice.PatientID {
		return nil, ErrInvoiceNotFound
	}

	return invoice, nil
}
