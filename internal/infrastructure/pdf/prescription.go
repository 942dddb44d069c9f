package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/go-pdf/fpdf"
)

// PrescriptionRenderer turns a consultation into a printable prescription.
type PrescriptionRenderer interface {
	Render(clinicName string, consultation *entity.Consultation) ([]byte, error)
}

type fpdfRenderer struct{}

func NewPrescriptionRenderer() PrescriptionRenderer {
	return &fpdfRenderer{}
}

func (r *fpdfRenderer) Render(clinicName string, c *entity.Consultation) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Prescription", true)
	doc.SetAuthor(clinicName, true)
	doc.SetMargins(20, 20, 20)
	doc.AddPage()

	// Core fonts are cp1252; translate names like "Zoë".
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, tr(clinicName), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, "Medical Prescription", "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 11)
	labelled := func(label, value string) {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}

	labelled("Date:", c.CreatedAt.UTC().Format("2006-01-02"))
	labelled("Patient:", c.Patient.User.FullName())
	if c.Patient.DateOfBirth != nil {
		labelled("Date of birth:", c.Patient.DateOfBirth.Format("2006-01-02"))
	}
	labelled("Doctor:", "Dr. "+c.Doctor.User.FullName())
	if c.Doctor.Specialization != "" {
		labelled("Specialization:", c.Doctor.Specialization)
	}
	labelled("License:", c.Doctor.LicenseNumber)
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Diagnosis", "B", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(0, 6, tr(c.Diagnosis), "", "L", false)
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Prescribed medication", "B", 1, "L", false, 0, "")
	doc.Ln(2)

	if len(c.Prescriptions) == 0 {
		doc.SetFont("Helvetica", "I", 11)
		doc.CellFormat(0, 7, "No medication prescribed.", "", 1, "L", false, 0, "")
	}
	for i, p := range c.Prescriptions {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, 7, tr(fmt.Sprintf("%d. %s - %s", i+1, p.Medication, p.Dosage)), "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		if p.Frequency != "" {
			doc.CellFormat(0, 6, tr("   Frequency: "+p.Frequency), "", 1, "L", false, 0, "")
		}
		if p.Duration != "" {
			doc.CellFormat(0, 6, tr("   Duration: "+p.Duration), "", 1, "L", false, 0, "")
		}
		if p.Instructions != "" {
			doc.MultiCell(0, 6, tr("   Instructions: "+p.Instructions), "", "L", false)
		}
		doc.Ln(2)
	}

	if c.FollowUpDate != nil {
		doc.Ln(4)
		labelled("Follow-up:", c.FollowUpDate.UTC().Format("2006-01-02"))
	}

	doc.SetY(-40)
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Signature: ______________________", "", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "I", 8)
	doc.CellFormat(0, 6, "Generated "+time.Now().UTC().Format(time.RFC3339), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}
