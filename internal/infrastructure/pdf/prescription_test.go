package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ProducesPDF(t *testing.T) {
	followUp := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	consultation := &entity.Consultation{
		Diagnosis:    "Acute sinusitis",
		FollowUpDate: &followUp,
		CreatedAt:    time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
		Patient:      entity.Patient{User: entity.User{FirstName: "Zoë", LastName: "Martin"}},
		Doctor: entity.Doctor{
			Specialization: "ENT",
			LicenseNumber:  "LIC-001",
			User:           entity.User{FirstName: "Amira", LastName: "Ben Salah"},
		},
		Prescriptions: []entity.Prescription{
			{Medication: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"},
			{Medication: "Saline spray", Dosage: "2 puffs", Instructions: "Each nostril, morning and evening"},
		},
	}

	out, err := NewPrescriptionRenderer().Render("MedFlow Clinic", consultation)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 500)
}

func TestRender_NoPrescriptions(t *testing.T) {
	out, err := NewPrescriptionRenderer().Render("MedFlow Clinic", &entity.Consultation{Diagnosis: "Checkup"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
