package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Ouerghi23/Medflow/internal/delivery/http/middleware"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("you don't have permission to perform this action")
	ErrInvalidFilter   = errors.New("invalid filter value")
	ErrInvalidDate     = errors.New("invalid date, use RFC 3339 or YYYY-MM-DD")
)

const (
	dateLayout = "2006-01-02"

	defaultPageLimit = 20
	maxPageLimit     = 100
)

func principalFrom(ctx context.Context) (entity.Principal, error) {
	p, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return entity.Principal{}, ErrUnauthenticated
	}
	return p, nil
}

// ownership narrows queries for DOCTOR and PATIENT callers to their own records.
// A nil field means no restriction on that side.
type ownership struct {
	doctorID  *uuid.UUID
	patientID *uuid.UUID
}

// allows reports whether a record owned by doctorID/patientID is visible.
func (o ownership) allows(doctorID, patientID uuid.UUID) bool {
	if o.doctorID != nil && *o.doctorID != doctorID {
		return false
	}
	if o.patientID != nil && *o.patientID != patientID {
		return false
	}
	return true
}

// resolveOwnership looks up the profile behind a DOCTOR or PATIENT principal.
// A user without a profile gets uuid.Nil, which matches nothing.
func resolveOwnership(
	ctx context.Context,
	db *gorm.DB,
	p entity.Principal,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
) (ownership, error) {
	switch {
	case p.IsDoctor():
		doctor, err := doctorRepo.FindByUserID(ctx, db, p.UserID)
		if err != nil {
			return ownership{}, err
		}
		id := uuid.Nil
		if doctor != nil && doctor.ClinicID == p.ClinicID {
			id = doctor.ID
		}
		return ownership{doctorID: &id}, nil
	case p.IsPatient():
		patient, err := patientRepo.FindByUserID(ctx, db, p.UserID)
		if err != nil {
			return ownership{}, err
		}
		id := uuid.Nil
		if patient != nil && patient.ClinicID == p.ClinicID {
			id = patient.ID
		}
		return ownership{patientID: &id}, nil
	}
	return ownership{}, nil
}

// parseTimestamp accepts RFC 3339 only.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// parseDay accepts a calendar date or a full RFC 3339 timestamp.
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return parseTimestamp(s)
}

func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, ErrInvalidFilter
	}
	return &id, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// isAnyOf reports whether err matches one of targets. Used to keep expected
// client errors out of the warning log.
func isAnyOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// on the given constraint
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
