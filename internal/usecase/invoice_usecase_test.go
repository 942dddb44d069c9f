package usecase

import (
	"regexp"
	"testing"
	"time"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceUsecase(f *fixture) *invoiceUsecase {
	uc := NewInvoiceUsecase(f.tx, f.log, f.policy, f.invoices, f.patients, f.doctors, f.services, f.audit).(*invoiceUsecase)
	uc.now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
	return uc
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func (f *fixture) addService(name, price string, active bool) entity.MedicalService {
	svc := entity.MedicalService{ID: uuid.New(), ClinicID: f.clinic.ID, Name: name, Price: money(price), IsActive: active}
	f.store.services[svc.ID] = svc
	return svc
}

func TestCreateInvoice_ComputesTotals(t *testing.T) {
	f := newFixture(t)
	uc := newInvoiceUsecase(f)
	consult := f.addService("General consultation", "50.00", true)

	res, err := uc.CreateInvoice(f.ctxAs(f.receptionist), &dto.CreateInvoiceRequest{
		PatientID: f.patient.ID,
		Items: []dto.InvoiceItemRequest{
			{ServiceID: &consult.ID, Quantity: 2},
			{Description: "Bandage", Quantity: 3, UnitPrice: moneyPtr("25.00")},
		},
		Discount: money("10"),
		Tax:      money("5"),
	})
	require.NoError(t, err)

	assert.True(t, money("175").Equal(res.Amount), "subtotal %s", res.Amount)
	assert.True(t, money("170").Equal(res.TotalAmount), "total %s", res.TotalAmount)
	assert.Equal(t, string(entity.InvoiceStatusUnpaid), res.Status)
	assert.Regexp(t, regexp.MustCompile(`^INV-20261014-[0-9A-F]{8}$`), res.InvoiceNumber)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "General consultation", res.Items[0].Description)
	assert.True(t, money("100").Equal(res.Items[0].LineTotal))
	assert.True(t, money("75").Equal(res.Items[1].LineTotal))

	assert.Equal(t, []string{entity.AuditActionInvoiceCreate}, f.auditActions())
}

func TestCreateInvoice_OverridesCatalogPrice(t *testing.T) {
	f := newFixture(t)
	uc := newInvoiceUsecase(f)
	xray := f.addService("X-ray", "120.00", true)

	res, err := uc.CreateInvoice(f.ctxAs(f.adminUser), &dto.CreateInvoiceRequest{
		PatientID: f.patient.ID,
		Items:     []dto.InvoiceItemRequest{{ServiceID: &xray.ID, Description: "X-ray, follow-up", Quantity: 1, UnitPrice: moneyPtr("60")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "X-ray, follow-up", res.Items[0].Description)
	assert.True(t, money("60").Equal(res.TotalAmount))
}

func TestCreateInvoice_Rejections(t *testing.T) {
	f := newFixture(t)
	uc := newInvoiceUsecase(f)
	retired := f.addService("Retired", "10", false)
	item := []dto.InvoiceItemRequest{{Description: "Visit", Quantity: 1, UnitPrice: moneyPtr("20")}}

	tests := []struct {
		name string
		req  *dto.CreateInvoiceRequest
		want error
	}{
		{"negative total", &dto.CreateInvoiceRequest{PatientID: f.patient.ID, Items: item, Discount: money("25")}, ErrNegativeInvoiceTotal},
		{"unknown patient", &dto.CreateInvoiceRequest{PatientID: uuid.New(), Items: item}, ErrPatientNotFound},
		{"inactive service", &dto.CreateInvoiceRequest{PatientID: f.patient.ID, Items: []dto.InvoiceItemRequest{{ServiceID: &retired.ID, Quantity: 1}}}, ErrServiceNotFound},
		{"missing price", &dto.CreateInvoiceRequest{PatientID: f.patient.ID, Items: []dto.InvoiceItemRequest{{Description: "Visit", Quantity: 1}}}, ErrMissingUnitPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateInvoice(f.ctxAs(f.receptionist), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.store.invoices)
}

func TestCreateInvoice_DiscountEqualToSubtotalIsFree(t *testing.T) {
	f := newFixture(t)
	uc := newInvoiceUsecase(f)

	res, err := uc.CreateInvoice(f.ctxAs(f.receptionist), &dto.CreateInvoiceRequest{
		PatientID: f.patient.ID,
		Items:     []dto.InvoiceItemRequest{{Description: "Visit", Quantity: 1, UnitPrice: moneyPtr("20")}},
		Discount:  money("20"),
	})
	require.NoError(t, err)
	assert.True(t, res.TotalAmount.IsZero())
}

func TestCreateInvoice_RoleChecks(t *testing.T) {
	f := newFixture(t)
	uc := newInvoiceUsecase(f)
	req := &dto.CreateInvoiceRequest{
		PatientID: f.patient.ID,
		Items:     []dto.InvoiceItemRequest{{Description: "Visit", Quantity: 1, UnitPrice: moneyPtr("20")}},
	}

	_, err := uc.CreateInvoice(f.ctxAs(f.doctorUser), req)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.CreateInvoice(f.ctxAs(f.patientUser), req)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.GetAllInvoices(f.ctxAs(f.doctorUser), dto.InvoiceFilterRequest{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateInvoice_RetriesTakenNumbers(t *testing.T) {
	f := newFixture(t)
	f.invoices.takenNumbers = 2
	uc := newInvoiceUsecase(f)

	_, err := uc.CreateInvoice(f.ctxAs(f.receptionist), &dto.CreateInvoiceRequest{
		PatientID: f.patient.ID,
		Items:     []dto.InvoiceItemRequest{{Description: "Visit", Quantity: 1, UnitPrice: moneyPtr("20")}},
	})
	require.NoError(t, err)
	assert.Len(t, f.store.invoices, 1)
}

func TestCreateInvoice_NumberSpaceExhausted(t *testing.T) {
	f := newFixture(t)
	f.invoices.takenNumbers = maxInvoiceNumberAttempts
	uc := newInvoiceUsecase(f)

	_, err := uc.CreateInvoice(f.ctxAs(f.receptionist), &dto.CreateInvoiceRequest{
		PatientID: f.patient.ID,
		Items:     []dto.InvoiceItemRequest{{Description: "Visit", Quantity: 1, UnitPrice: moneyPtr("20")}},
	})
	assert.ErrorIs(t, err, ErrInvoiceNumberExhausted)
}

func TestGetInvoices_PatientSeesOwnOnly(t *testing.T) {
	f := newFixture(t)
	uc := newInvoiceUsecase(f)
	mine := f.addInvoice(f.patient, "40", entity.InvoiceStatusUnpaid)
	theirs := f.addInvoice(f.otherPatient, "60", entity.InvoiceStatusUnpaid)

	res, err := uc.GetAllInvoices(f.ctxAs(f.patientUser), dto.InvoiceFilterRequest{PatientID: f.otherPatient.ID.String()})
	require.NoError(t, err)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, mine.ID, res.Invoices[0].ID)

	_, err = uc.GetInvoice(f.ctxAs(f.patientUser), theirs.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	res, err = uc.GetAllInvoices(f.ctxAs(f.receptionist), dto.InvoiceFilterRequest{Status: "UNPAID"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	_, err = uc.GetAllInvoices(f.ctxAs(f.receptionist), dto.InvoiceFilterRequest{Status: "OVERDUE"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
