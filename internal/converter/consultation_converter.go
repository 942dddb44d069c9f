package converter

import (
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
)

func ConsultationToResponse(c *entity.Consultation) *dto.ConsultationResponse {
	if c == nil {
		return nil
	}

	prescriptions := make([]dto.PrescriptionResponse, len(c.Prescriptions))
	for i, p := range c.Prescriptions {
		prescriptions[i] = dto.PrescriptionResponse{
			ID:           p.ID,
			Medication:   p.Medication,
			Dosage:       p.Dosage,
			Frequency:    p.Frequency,
			Duration:     p.Duration,
			Instructions: p.Instructions,
		}
	}

	return &dto.ConsultationResponse{
		ID:            c.ID,
		AppointmentID: c.AppointmentID,
		PatientID:     c.PatientID,
		DoctorID:      c.DoctorID,
		Diagnosis:     c.Diagnosis,
		Symptoms:      c.Symptoms,
		Examination:   c.Examination,
		Notes:         c.Notes,
		FollowUpDate:  c.FollowUpDate,
		Patient:       patientSummary(&c.Patient),
		Doctor:        doctorSummary(&c.Doctor),
		Prescriptions: prescriptions,
		CreatedAt:     c.CreatedAt,
	}
}

func ConsultationsToResponses(consultations []entity.Consultation) []dto.ConsultationResponse {
	responses := make([]dto.ConsultationResponse, len(consultations))
	for i := range consultations {
		responses[i] = *ConsultationToResponse(&consultations[i])
	}
	return responses
}

// PrescriptionRequestsToEntities maps request lines to unsaved prescriptions.
func PrescriptionRequestsToEntities(reqs []dto.PrescriptionRequest) []entity.Prescription {
	prescriptions := make([]entity.Prescription, len(reqs))
	for i, r := range reqs {
		prescriptions[i] = entity.Prescription{
			Medication:   r.Medication,
			Dosage:       r.Dosage,
			Frequency:    r.Frequency,
			Duration:     r.Duration,
			Instructions: r.Instructions,
		}
	}
	return prescriptions
}
