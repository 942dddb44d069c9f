package usecase

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Ouerghi23/Medflow/internal/delivery/http/middleware"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/notification"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/payment"
	"github.com/Ouerghi23/Medflow/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

// memStore backs every fake repository. Transactions snapshot it and restore
// the snapshot when the callback fails.
type memStore struct {
	mu            sync.Mutex
	clinics       map[uuid.UUID]entity.Clinic
	users         map[uuid.UUID]entity.User
	patients      map[uuid.UUID]entity.Patient
	doctors       map[uuid.UUID]entity.Doctor
	services      map[uuid.UUID]entity.MedicalService
	appointments  map[uuid.UUID]entity.Appointment
	consultations map[uuid.UUID]entity.Consultation
	invoices      map[uuid.UUID]entity.Invoice
	payments      []entity.Payment
	audits        []entity.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		clinics:       map[uuid.UUID]entity.Clinic{},
		users:         map[uuid.UUID]entity.User{},
		patients:      map[uuid.UUID]entity.Patient{},
		doctors:       map[uuid.UUID]entity.Doctor{},
		services:      map[uuid.UUID]entity.MedicalService{},
		appointments:  map[uuid.UUID]entity.Appointment{},
		consultations: map[uuid.UUID]entity.Consultation{},
		invoices:      map[uuid.UUID]entity.Invoice{},
	}
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memStore{
		clinics:       maps.Clone(s.clinics),
		users:         maps.Clone(s.users),
		patients:      maps.Clone(s.patients),
		doctors:       maps.Clone(s.doctors),
		services:      maps.Clone(s.services),
		appointments:  maps.Clone(s.appointments),
		consultations: maps.Clone(s.consultations),
		invoices:      maps.Clone(s.invoices),
		payments:      slices.Clone(s.payments),
		audits:        slices.Clone(s.audits),
	}
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clinics = snap.clinics
	s.users = snap.users
	s.patients = snap.patients
	s.doctors = snap.doctors
	s.services = snap.services
	s.appointments = snap.appointments
	s.consultations = snap.consultations
	s.invoices = snap.invoices
	s.payments = snap.payments
	s.audits = snap.audits
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeTransactor struct {
	store *memStore
	txns  int
}

func (t *fakeTransactor) DB(ctx context.Context) *gorm.DB { return nil }

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.txns++
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// Repositories

type fakeClinicRepo struct{ store *memStore }

func (r *fakeClinicRepo) Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if clinic.ID == uuid.Nil {
		clinic.ID = uuid.New()
	}
	r.store.clinics[clinic.ID] = *clinic
	return nil
}

func (r *fakeClinicRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clinics[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) FindStaff(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.User
	for _, u := range r.store.users {
		if u.ClinicID == clinicID && entity.IsStaffRole(entity.RoleNameByID(u.RoleID)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateDeviceToken(ctx context.Context, db *gorm.DB, id uuid.UUID, token *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil
	}
	u.FCMToken = token
	r.store.users[id] = u
	return nil
}

type fakePatientRepo struct{ store *memStore }

// withUser returns the patient with its user attached. Caller holds the lock.
func (r *fakePatientRepo) withUser(p entity.Patient) entity.Patient {
	p.User = r.store.users[p.UserID]
	return p
}

func (r *fakePatientRepo) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	r.store.patients[patient.ID] = *patient
	return nil
}

func (r *fakePatientRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.patients[id]
	if !ok || p.ClinicID != clinicID {
		return nil, nil
	}
	p = r.withUser(p)
	return &p, nil
}

func (r *fakePatientRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.patients {
		if p.UserID == userID {
			p = r.withUser(p)
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, limit, offset int) ([]entity.Patient, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var all []entity.Patient
	for _, p := range r.store.patients {
		if p.ClinicID == clinicID {
			all = append(all, r.withUser(p))
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r *fakePatientRepo) CountByClinic(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) (int64, error) {
	_, total, err := r.FindAll(ctx, db, clinicID, 0, 0)
	return total, err
}

type fakeDoctorRepo struct{ store *memStore }

func (r *fakeDoctorRepo) withUser(d entity.Doctor) entity.Doctor {
	d.User = r.store.users[d.UserID]
	return d
}

func (r *fakeDoctorRepo) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, d := range r.store.doctors {
		if d.LicenseNumber == doctor.LicenseNumber {
			return uniqueViolation("doctors_license_number_key")
		}
	}
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	r.store.doctors[doctor.ID] = *doctor
	return nil
}

func (r *fakeDoctorRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Doctor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.doctors[id]
	if !ok || d.ClinicID != clinicID {
		return nil, nil
	}
	d = r.withUser(d)
	return &d, nil
}

func (r *fakeDoctorRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, d := range r.store.doctors {
		if d.UserID == userID {
			d = r.withUser(d)
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.Doctor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Doctor
	for _, d := range r.store.doctors {
		if d.ClinicID == clinicID {
			out = append(out, r.withUser(d))
		}
	}
	return out, nil
}

type fakeServiceRepo struct{ store *memStore }

func (r *fakeServiceRepo) Create(ctx context.Context, db *gorm.DB, svc *entity.MedicalService) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	r.store.services[svc.ID] = *svc
	return nil
}

func (r *fakeServiceRepo) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, activeOnly bool) ([]entity.MedicalService, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.MedicalService
	for _, s := range r.store.services {
		if s.ClinicID == clinicID && (!activeOnly || s.IsActive) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.MedicalService, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.services[id]
	if !ok || s.ClinicID != clinicID {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeServiceRepo) FindByIDs(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, ids []uuid.UUID) ([]entity.MedicalService, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.MedicalService
	for _, id := range ids {
		if s, ok := r.store.services[id]; ok && s.ClinicID == clinicID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, db *gorm.DB, svc *entity.MedicalService) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.services[svc.ID] = *svc
	return nil
}

func (r *fakeServiceRepo) Deactivate(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.services[id]
	if !ok || s.ClinicID != clinicID || !s.IsActive {
		return 0, nil
	}
	s.IsActive = false
	r.store.services[id] = s
	return 1, nil
}

type fakeAppointmentRepo struct {
	store *memStore
	// forceMarkCompletedZero simulates the appointment changing under the caller.
	forceMarkCompletedZero bool
}

func (r *fakeAppointmentRepo) hydrate(a entity.Appointment) entity.Appointment {
	p := r.store.patients[a.PatientID]
	p.User = r.store.users[p.UserID]
	d := r.store.doctors[a.DoctorID]
	d.User = r.store.users[d.UserID]
	a.Patient, a.Doctor = p, d
	return a
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, db *gorm.DB, a *entity.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if a.Status != entity.AppointmentStatusCancelled {
		for _, other := range r.store.appointments {
			if other.DoctorID == a.DoctorID && other.Date.Equal(a.Date) && other.Status != entity.AppointmentStatusCancelled {
				return uniqueViolation(entity.AppointmentSlotIndex)
			}
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.store.appointments[a.ID] = *a
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.appointments[id]
	if !ok || a.ClinicID != clinicID {
		return nil, nil
	}
	a = r.hydrate(a)
	return &a, nil
}

func (r *fakeAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, f entity.AppointmentFilter) ([]entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.store.appointments {
		switch {
		case a.ClinicID != f.ClinicID:
		case f.DoctorID != nil && a.DoctorID != *f.DoctorID:
		case f.PatientID != nil && a.PatientID != *f.PatientID:
		case f.From != nil && a.Date.Before(*f.From):
		case f.To != nil && !a.Date.Before(*f.To):
		case f.Status != "" && a.Status != f.Status:
		default:
			out = append(out, r.hydrate(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeAppointmentRepo) FindActiveBySlot(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Status != entity.AppointmentStatusCancelled {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	r.store.appointments[id] = a
	return 1, nil
}

func (r *fakeAppointmentRepo) MarkCompleted(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	if r.forceMarkCompletedZero {
		return 0, nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.appointments[id]
	if !ok || (a.Status != entity.AppointmentStatusPending && a.Status != entity.AppointmentStatusConfirmed) {
		return 0, nil
	}
	a.Status = entity.AppointmentStatusCompleted
	r.store.appointments[id] = a
	return 1, nil
}

func (r *fakeAppointmentRepo) CountActiveBetween(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, from, to time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, a := range r.store.appointments {
		if a.ClinicID == clinicID && !a.Date.Before(from) && a.Date.Before(to) && a.Status != entity.AppointmentStatusCancelled {
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) FindDueForReminder(ctx context.Context, db *gorm.DB, from, to time.Time) ([]entity.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) MarkReminderSent(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) error {
	return nil
}

type fakeConsultationRepo struct{ store *memStore }

func (r *fakeConsultationRepo) Create(ctx context.Context, db *gorm.DB, c *entity.Consultation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, other := range r.store.consultations {
		if other.AppointmentID == c.AppointmentID {
			return uniqueViolation("consultations_appointment_id_key")
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Prescriptions {
		c.Prescriptions[i].ID = uuid.New()
		c.Prescriptions[i].ConsultationID = c.ID
	}
	r.store.consultations[c.ID] = *c
	return nil
}

func (r *fakeConsultationRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Consultation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.consultations[id]
	if !ok || c.ClinicID != clinicID {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeConsultationRepo) FindAll(ctx context.Context, db *gorm.DB, f entity.ConsultationFilter) ([]entity.Consultation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Consultation
	for _, c := range r.store.consultations {
		if c.ClinicID != f.ClinicID ||
			(f.DoctorID != nil && c.DoctorID != *f.DoctorID) ||
			(f.PatientID != nil && c.PatientID != *f.PatientID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeInvoiceRepo struct {
	store *memStore
	// takenNumbers makes ExistsByNumber report a collision for the first n checks.
	takenNumbers int
}

func (r *fakeInvoiceRepo) hydrate(inv entity.Invoice) entity.Invoice {
	p := r.store.patients[inv.PatientID]
	p.User = r.store.users[p.UserID]
	inv.Patient = p
	inv.Payments = nil
	for _, pay := range r.store.payments {
		if pay.InvoiceID == inv.ID {
			inv.Payments = append(inv.Payments, pay)
		}
	}
	return inv
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, db *gorm.DB, inv *entity.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, other := range r.store.invoices {
		if other.InvoiceNumber == inv.InvoiceNumber {
			return uniqueViolation("invoices_invoice_number_key")
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New()
		inv.Items[i].InvoiceID = inv.ID
	}
	stored := *inv
	stored.Items = slices.Clone(inv.Items)
	r.store.invoices[inv.ID] = stored
	return nil
}

func (r *fakeInvoiceRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok || inv.ClinicID != clinicID {
		return nil, nil
	}
	inv = r.hydrate(inv)
	return &inv, nil
}

func (r *fakeInvoiceRepo) FindByIDAnyClinic(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, nil
	}
	inv = r.hydrate(inv)
	return &inv, nil
}

func (r *fakeInvoiceRepo) FindAll(ctx context.Context, db *gorm.DB, f entity.InvoiceFilter) ([]entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range r.store.invoices {
		if inv.ClinicID != f.ClinicID ||
			(f.PatientID != nil && inv.PatientID != *f.PatientID) ||
			(f.Status != "" && inv.Status != f.Status) {
			continue
		}
		out = append(out, r.hydrate(inv))
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ExistsByNumber(ctx context.Context, db *gorm.DB, number string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.takenNumbers > 0 {
		r.takenNumbers--
		return true, nil
	}
	for _, inv := range r.store.invoices {
		if inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID, paidAt time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok || inv.Status != entity.InvoiceStatusUnpaid {
		return 0, nil
	}
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidAt = &paidAt
	r.store.invoices[id] = inv
	return 1, nil
}

func (r *fakeInvoiceRepo) CountByStatus(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, status entity.InvoiceStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, inv := range r.store.invoices {
		if inv.ClinicID == clinicID && inv.Status == status {
			n++
		}
	}
	return n, nil
}

type fakePaymentRepo struct {
	store *memStore
	// skipLookup hides existing rows from FindByTransaction, as a concurrent
	// delivery would see them.
	skipLookup bool
}

func (r *fakePaymentRepo) Create(ctx context.Context, db *gorm.DB, pay *entity.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, other := range r.store.payments {
		if other.Method == pay.Method && other.TransactionID == pay.TransactionID {
			return uniqueViolation(entity.PaymentDedupIndex)
		}
	}
	if pay.ID == uuid.Nil {
		pay.ID = uuid.New()
	}
	pay.CreatedAt = time.Now().UTC()
	r.store.payments = append(r.store.payments, *pay)
	return nil
}

func (r *fakePaymentRepo) FindByTransaction(ctx context.Context, db *gorm.DB, method, transactionID string) (*entity.Payment, error) {
	if r.skipLookup {
		return nil, nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.payments {
		if p.Method == method && p.TransactionID == transactionID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) SumCompletedSince(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sum := decimal.Zero
	for _, p := range r.store.payments {
		inv := r.store.invoices[p.InvoiceID]
		if inv.ClinicID == clinicID && p.Status == entity.PaymentStatusCompleted && !p.CreatedAt.Before(since) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

type fakeAuditLogRepo struct{ store *memStore }

func (r *fakeAuditLogRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	log.ID = int64(len(r.store.audits) + 1)
	log.CreatedAt = time.Now().UTC()
	r.store.audits = append(r.store.audits, *log)
	return nil
}

func (r *fakeAuditLogRepo) FindAll(ctx context.Context, db *gorm.DB, f entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var all []entity.AuditLog
	for _, l := range r.store.audits {
		if l.ClinicID == nil || *l.ClinicID != f.ClinicID || (f.Action != "" && l.Action != f.Action) {
			continue
		}
		all = append(all, l)
	}
	total := int64(len(all))
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	end := min(f.Offset+f.Limit, len(all))
	return all[f.Offset:end], total, nil
}

func (r *fakeAuditLogRepo) FindByID(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, id int64) (*entity.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range r.store.audits {
		if l.ID == id && l.ClinicID != nil && *l.ClinicID == clinicID {
			return &l, nil
		}
	}
	return nil, nil
}

// Infrastructure

type fakeStatsCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]entity.DashboardStats
	gets        int
	invalidated []uuid.UUID
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: map[uuid.UUID]entity.DashboardStats{}}
}

func (c *fakeStatsCache) Get(ctx context.Context, clinicID uuid.UUID) (*entity.DashboardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	s, ok := c.entries[clinicID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *fakeStatsCache) Set(ctx context.Context, clinicID uuid.UUID, stats *entity.DashboardStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[clinicID] = *stats
	return nil
}

func (c *fakeStatsCache) Invalidate(ctx context.Context, clinicID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, clinicID)
	c.invalidated = append(c.invalidated, clinicID)
	return nil
}

type fakeTokenStore struct {
	mu      sync.Mutex
	access  map[string]bool
	refresh map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{access: map[string]bool{}, refresh: map[string]bool{}}
}

func tokenKey(userID uuid.UUID, tokenID string) string { return userID.String() + ":" + tokenID }

func (s *fakeTokenStore) StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access[tokenKey(userID, tokenID)] = true
	return nil
}

func (s *fakeTokenStore) StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[tokenKey(userID, tokenID)] = true
	return nil
}

func (s *fakeTokenStore) AccessExists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access[tokenKey(userID, tokenID)], nil
}

func (s *fakeTokenStore) RefreshExists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh[tokenKey(userID, tokenID)], nil
}

func (s *fakeTokenStore) RevokeAccess(ctx context.Context, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.access, tokenKey(userID, tokenID))
	return nil
}

func (s *fakeTokenStore) RevokeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, tokenKey(userID, tokenID))
	return nil
}

func (s *fakeTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = map[string]bool{}
	s.refresh = map[string]bool{}
	return nil
}

type fakeGateway struct {
	checkouts []payment.CheckoutRequest
	event     *payment.Event
	parseErr  error
}

func (g *fakeGateway) Method() string { return "STRIPE" }

func (g *fakeGateway) CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.checkouts = append(g.checkouts, req)
	return &payment.CheckoutSession{SessionID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, header http.Header) (*payment.Event, error) {
	if g.parseErr != nil {
		return nil, g.parseErr
	}
	return g.event, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
}

func (n *fakeNotifier) Send(ctx context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(clinicName string, c *entity.Consultation) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nil consultation")
	}
	return []byte("%PDF-1.3 " + clinicName), nil
}

// Fixture

type fixture struct {
	store    *memStore
	tx       *fakeTransactor
	log      *logrus.Logger
	logs     *test.Hook
	policy   service.AccessPolicy
	audit    service.AuditService
	stats    *fakeStatsCache
	tokens   *fakeTokenStore
	gateway  *fakeGateway
	notifier *fakeNotifier

	clinics       *fakeClinicRepo
	users         *fakeUserRepo
	patients      *fakePatientRepo
	doctors       *fakeDoctorRepo
	services      *fakeServiceRepo
	appointments  *fakeAppointmentRepo
	consultations *fakeConsultationRepo
	invoices      *fakeInvoiceRepo
	payments      *fakePaymentRepo
	auditLogs     *fakeAuditLogRepo

	clinic       entity.Clinic
	adminUser    entity.User
	receptionist entity.User
	doctorUser   entity.User
	doctor       entity.Doctor
	otherDoctor  entity.Doctor
	patientUser  entity.User
	patient      entity.Patient
	otherPatient entity.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	log, hook := test.NewNullLogger()
	f := &fixture{
		store:         store,
		tx:            &fakeTransactor{store: store},
		log:           log,
		logs:          hook,
		policy:        service.NewAccessPolicy(),
		stats:         newFakeStatsCache(),
		tokens:        newFakeTokenStore(),
		gateway:       &fakeGateway{},
		notifier:      &fakeNotifier{},
		clinics:       &fakeClinicRepo{store: store},
		users:         &fakeUserRepo{store: store},
		patients:      &fakePatientRepo{store: store},
		doctors:       &fakeDoctorRepo{store: store},
		services:      &fakeServiceRepo{store: store},
		appointments:  &fakeAppointmentRepo{store: store},
		consultations: &fakeConsultationRepo{store: store},
		invoices:      &fakeInvoiceRepo{store: store},
		payments:      &fakePaymentRepo{store: store},
		auditLogs:     &fakeAuditLogRepo{store: store},
	}
	f.audit = service.NewAuditService(log, f.auditLogs)

	f.clinic = entity.Clinic{ID: uuid.New(), Name: "Test Clinic"}
	store.clinics[f.clinic.ID] = f.clinic

	f.adminUser = f.addUser(entity.RoleIDAdmin, "admin@clinic.test", "Ada", "Admin")
	f.receptionist = f.addUser(entity.RoleIDReceptionist, "desk@clinic.test", "Rita", "Desk")
	f.doctorUser = f.addUser(entity.RoleIDDoctor, "house@clinic.test", "Gregory", "House")
	otherDoctorUser := f.addUser(entity.RoleIDDoctor, "wilson@clinic.test", "James", "Wilson")
	token := "device-token-1"
	f.patientUser = f.addUser(entity.RoleIDPatient, "jane@clinic.test", "Jane", "Doe")
	f.patientUser.FCMToken = &token
	store.users[f.patientUser.ID] = f.patientUser
	otherPatientUser := f.addUser(entity.RoleIDPatient, "john@clinic.test", "John", "Roe")

	f.doctor = entity.Doctor{ID: uuid.New(), UserID: f.doctorUser.ID, ClinicID: f.clinic.ID, Specialization: "Diagnostics", LicenseNumber: "LIC-1"}
	f.otherDoctor = entity.Doctor{ID: uuid.New(), UserID: otherDoctorUser.ID, ClinicID: f.clinic.ID, Specialization: "Oncology", LicenseNumber: "LIC-2"}
	store.doctors[f.doctor.ID] = f.doctor
	store.doctors[f.otherDoctor.ID] = f.otherDoctor

	f.patient = entity.Patient{ID: uuid.New(), UserID: f.patientUser.ID, ClinicID: f.clinic.ID}
	f.otherPatient = entity.Patient{ID: uuid.New(), UserID: otherPatientUser.ID, ClinicID: f.clinic.ID}
	store.patients[f.patient.ID] = f.patient
	store.patients[f.otherPatient.ID] = f.otherPatient

	return f
}

func (f *fixture) addUser(roleID int, email, first, last string) entity.User {
	u := entity.User{
		ID:        uuid.New(),
		ClinicID:  f.clinic.ID,
		RoleID:    roleID,
		Email:     email,
		FirstName: first,
		LastName:  last,
		IsActive:  true,
	}
	f.store.users[u.ID] = u
	return u
}

func (f *fixture) ctxAs(u entity.User) context.Context {
	return middleware.WithPrincipal(context.Background(), entity.Principal{
		UserID:   u.ID,
		ClinicID: u.ClinicID,
		Role:     entity.RoleNameByID(u.RoleID),
		Email:    u.Email,
	})
}

func (f *fixture) addAppointment(doctor entity.Doctor, patient entity.Patient, at time.Time, status entity.AppointmentStatus) entity.Appointment {
	a := entity.Appointment{
		ID:        uuid.New(),
		ClinicID:  f.clinic.ID,
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		Date:      at.UTC(),
		Status:    status,
	}
	f.store.appointments[a.ID] = a
	return a
}

func (f *fixture) addInvoice(patient entity.Patient, total string, status entity.InvoiceStatus) entity.Invoice {
	amount := decimal.RequireFromString(total)
	inv := entity.Invoice{
		ID:            uuid.New(),
		ClinicID:      f.clinic.ID,
		PatientID:     patient.ID,
		InvoiceNumber: "INV-20260101-" + uuid.NewString()[:8],
		Amount:        amount,
		TotalAmount:   amount,
		Status:        status,
	}
	f.store.invoices[inv.ID] = inv
	return inv
}

func (f *fixture) auditActions() []string {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []string
	for _, l := range f.store.audits {
		out = append(out, l.Action)
	}
	return out
}
