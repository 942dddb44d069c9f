package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Ouerghi23/Medflow/cmd/bootstrap"
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/delivery/http/middleware"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/shopspring/decimal"
)

const demoPassword = "medflow-demo"

// seed creates the demo tenant through the same use cases the API calls, so
// every record gets its audit trail.
func seed(ctx context.Context, app *bootstrap.App, out io.Writer) error {
	roles, err := app.Roles.FindAll(ctx, app.DB.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to read roles: %w", err)
	}
	if len(roles) < 4 {
		return fmt.Errorf("expected 4 seeded roles, found %d: run `migrate up` first", len(roles))
	}

	uc := app.Usecases

	registered, err := uc.Auth.RegisterClinic(ctx, &dto.RegisterClinicRequest{
		ClinicName:    "MedFlow Demo Clinic",
		ClinicEmail:   "contact@demo.medflow.local",
		ClinicPhone:   "+1 555 0100",
		ClinicAddress: "1 Demo Street",
		FirstName:     "Ada",
		LastName:      "Admin",
		Email:         "admin@demo.medflow.local",
		Password:      demoPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to register demo clinic: %w", err)
	}

	adminCtx := middleware.WithPrincipal(ctx, entity.Principal{
		UserID:   registered.User.ID,
		ClinicID: registered.Clinic.ID,
		Role:     entity.RoleAdmin,
		Email:    registered.User.Email,
	})

	doctor, err := uc.Doctor.CreateDoctor(adminCtx, &dto.CreateDoctorRequest{
		Email:          "doctor@demo.medflow.local",
		Password:       demoPassword,
		FirstName:      "Gregory",
		LastName:       "House",
		Specialization: "Diagnostics",
		LicenseNumber:  "DEMO-0001",
	})
	if err != nil {
		return fmt.Errorf("failed to create demo doctor: %w", err)
	}

	dob := "1990-04-12"
	patient, err := uc.Patient.CreatePatient(adminCtx, &dto.CreatePatientRequest{
		Email:       "patient@demo.medflow.local",
		Password:    demoPassword,
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: &dob,
		Gender:      "FEMALE",
		BloodType:   "O_POSITIVE",
	})
	if err != nil {
		return fmt.Errorf("failed to create demo patient: %w", err)
	}

	catalog := []dto.CreateMedicalServiceRequest{
		{Name: "General consultation", Price: decimal.RequireFromString("50.00")},
		{Name: "Blood panel", Description: "Complete blood count", Price: decimal.RequireFromString("75.00")},
		{Name: "X-ray", Price: decimal.RequireFromString("120.00")},
	}
	for i := range catalog {
		if _, err := uc.Service.CreateService(adminCtx, &catalog[i]); err != nil {
			return fmt.Errorf("failed to create service %q: %w", catalog[i].Name, err)
		}
	}

	fmt.Fprintf(out, "clinic   %s\n", registered.Clinic.ID)
	fmt.Fprintf(out, "admin    %s\n", registered.User.Email)
	fmt.Fprintf(out, "doctor   %s (%s)\n", doctor.Email, doctor.ID)
	fmt.Fprintf(out, "patient  %s (%s)\n", patient.Email, patient.ID)
	fmt.Fprintf(out, "password %s\n", demoPassword)
	return nil
}
