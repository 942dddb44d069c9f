package http

import (
	"net/http"

	"github.com/Ouerghi23/Medflow/internal/delivery/http/handler"
	"github.com/Ouerghi23/Medflow/internal/delivery/http/middleware"
	"github.com/Ouerghi23/Medflow/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Appointment  *handler.AppointmentHandler
	Consultation *handler.ConsultationHandler
	Invoice      *handler.InvoiceHandler
	Payment      *handler.PaymentHandler
	Patient      *handler.PatientHandler
	Doctor       *handler.DoctorHandler
	User         *handler.UserHandler
	Service      *handler.MedicalServiceHandler
	Dashboard    *handler.DashboardHandler
	AuditLog     *handler.AuditLogHandler
}

type Router struct {
	router         *mux.Router
	log            *logrus.Logger
	handlers       Handlers
	policy         service.AccessPolicy
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	rateLimiter    *middleware.IPRateLimiter
}

func NewRouter(
	log *logrus.Logger,
	handlers Handlers,
	policy service.AccessPolicy,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter *middleware.IPRateLimiter,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		log:            log,
		handlers:       handlers,
		policy:         policy,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		rateLimiter:    rateLimiter,
	}
}

func (r *Router) can(action service.Action) mux.MiddlewareFunc {
	return middleware.RequireCapability(r.policy, action)
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public, rate limited)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(r.rateLimiter.Handle)
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Payment processor callbacks authenticate by signature, not by session
	api.HandleFunc("/payments/webhook", h.Payment.Webhook).Methods(http.MethodPost)

	// Everything below requires a session
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/me/device-token", h.Auth.RegisterDeviceToken).Methods(http.MethodPut)

	// Appointments
	protected.HandleFunc("/appointments", h.Appointment.GetAllAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", h.Appointment.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}/status",
		r.can(service.ActionAppointmentUpdateStatus)(http.HandlerFunc(h.Appointment.UpdateAppointmentStatus))).
		Methods(http.MethodPatch)

	// Consultations
	protected.Handle("/consultations",
		r.can(service.ActionConsultationCreate)(http.HandlerFunc(h.Consultation.CreateConsultation))).
		Methods(http.MethodPost)
	protected.HandleFunc("/consultations", h.Consultation.GetAllConsultations).Methods(http.MethodGet)
	protected.HandleFunc("/consultations/{id}", h.Consultation.GetConsultation).Methods(http.MethodGet)
	protected.HandleFunc("/consultations/{id}/prescription", h.Consultation.DownloadPrescription).Methods(http.MethodGet)

	// Billing
	invoices := protected.PathPrefix("/invoices").Subrouter()
	invoices.Use(r.can(service.ActionInvoiceRead))
	invoices.HandleFunc("", h.Invoice.GetAllInvoices).Methods(http.MethodGet)
	invoices.Handle("", r.can(service.ActionInvoiceCreate)(http.HandlerFunc(h.Invoice.CreateInvoice))).Methods(http.MethodPost)
	invoices.HandleFunc("/{id}", h.Invoice.GetInvoice).Methods(http.MethodGet)

	protected.Handle("/payments/create-checkout",
		r.can(service.ActionPaymentCheckout)(http.HandlerFunc(h.Payment.CreateCheckout))).
		Methods(http.MethodPost)

	// Directory
	protected.Handle("/patients", r.can(service.ActionPatientList)(http.HandlerFunc(h.Patient.GetAllPatients))).Methods(http.MethodGet)
	protected.Handle("/patients", r.can(service.ActionPatientCreate)(http.HandlerFunc(h.Patient.CreatePatient))).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)

	protected.HandleFunc("/doctors", h.Doctor.GetAllDoctors).Methods(http.MethodGet)
	protected.Handle("/doctors", r.can(service.ActionDoctorCreate)(http.HandlerFunc(h.Doctor.CreateDoctor))).Methods(http.MethodPost)

	protected.HandleFunc("/services", h.Service.GetAllServices).Methods(http.MethodGet)
	services := protected.PathPrefix("/services").Subrouter()
	services.Use(r.can(service.ActionServiceManage))
	services.HandleFunc("", h.Service.CreateService).Methods(http.MethodPost)
	services.HandleFunc("/{id}", h.Service.UpdateService).Methods(http.MethodPut)
	services.HandleFunc("/{id}", h.Service.DeleteService).Methods(http.MethodDelete)

	// Admin
	users := protected.PathPrefix("/users").Subrouter()
	users.Use(r.can(service.ActionUserCreate))
	users.HandleFunc("", h.User.GetAllStaff).Methods(http.MethodGet)
	users.HandleFunc("", h.User.CreateStaff).Methods(http.MethodPost)

	audit := protected.PathPrefix("/audit-logs").Subrouter()
	audit.Use(r.can(service.ActionAuditRead))
	audit.HandleFunc("", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	audit.HandleFunc("/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	protected.Handle("/dashboard/stats", r.can(service.ActionDashboardRead)(http.HandlerFunc(h.Dashboard.GetStats))).Methods(http.MethodGet)

	// Preflight requests need a matching route for the router middleware to run
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.router.Use(middleware.Recovery(r.log))
	r.router.Use(middleware.RequestLogger(r.log))
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
