package service

import "github.com/Ouerghi23/Medflow/internal/domain/entity"

// Action is a capability checked against the caller's role.
type Action string

const (
	ActionAppointmentCreate       Action = "appointment:create"
	ActionAppointmentRead         Action = "appointment:read"
	ActionAppointmentUpdateStatus Action = "appointment:update_status"
	ActionConsultationCreate      Action = "consultation:create"
	ActionConsultationRead        Action = "consultation:read"
	ActionInvoiceCreate           Action = "invoice:create"
	ActionInvoiceRead             Action = "invoice:read"
	ActionPaymentCheckout         Action = "payment:checkout"
	ActionPatientCreate           Action = "patient:create"
	ActionPatientList             Action = "patient:list"
	ActionPatientRead             Action = "patient:read"
	ActionDoctorCreate            Action = "doctor:create"
	ActionDoctorRead              Action = "doctor:read"
	ActionUserCreate              Action = "user:create"
	ActionServiceManage           Action = "service:manage"
	ActionServiceRead             Action = "service:read"
	ActionDashboardRead           Action = "dashboard:read"
	ActionAuditRead               Action = "audit:read"
)

// AccessPolicy decides whether a role may perform an action. Ownership rules
// (a doctor only sees their own appointments) are applied by the use cases on top.
type AccessPolicy interface {
	Can(role string, action Action) bool
}

type rolePolicy struct {
	grants map[Action]map[string]bool
}

func roles(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var (
	everyone = []string{entity.RoleAdmin, entity.RoleDoctor, entity.RoleReceptionist, entity.RolePatient}
	staff    = []string{entity.RoleAdmin, entity.RoleDoctor, entity.RoleReceptionist}
)

// NewAccessPolicy returns the clinic's role table.
func NewAccessPolicy() AccessPolicy {
	return &rolePolicy{grants: map[Action]map[string]bool{
		ActionAppointmentCreate:       roles(everyone...),
		ActionAppointmentRead:         roles(everyone...),
		ActionAppointmentUpdateStatus: roles(staff...),
		ActionConsultationCreate:      roles(entity.RoleAdmin, entity.RoleDoctor),
		ActionConsultationRead:        roles(everyone...),
		ActionInvoiceCreate:           roles(entity.RoleAdmin, entity.RoleReceptionist),
		ActionInvoiceRead:             roles(entity.RoleAdmin, entity.RoleReceptionist, entity.RolePatient),
		ActionPaymentCheckout:         roles(entity.RoleAdmin, entity.RoleReceptionist, entity.RolePatient),
		ActionPatientCreate:           roles(entity.RoleAdmin, entity.RoleReceptionist),
		ActionPatientList:             roles(staff...),
		ActionPatientRead:             roles(everyone...),
		ActionDoctorCreate:            roles(entity.RoleAdmin),
		ActionDoctorRead:              roles(everyone...),
		ActionUserCreate:              roles(entity.RoleAdmin),
		ActionServiceManage:           roles(entity.RoleAdmin),
		ActionServiceRead:             roles(everyone...),
		ActionDashboardRead:           roles(staff...),
		ActionAuditRead:               roles(entity.RoleAdmin),
	}}
}

func (p *rolePolicy) Can(role string, action Action) bool {
	return p.grants[action][role]
}
