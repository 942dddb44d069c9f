package entity

import "github.com/google/uuid"

// Principal is the authenticated caller as resolved from the access token.
type Principal struct {
	UserID   uuid.UUID
	ClinicID uuid.UUID
	Role     string
	Email    string
	TokenID  string
}

func (p Principal) IsAdmin() bool        { return p.Role == RoleAdmin }
func (p Principal) IsDoctor() bool       { return p.Role == RoleDoctor }
func (p Principal) IsReceptionist() bool { return p.Role == RoleReceptionist }
func (p Principal) IsPatient() bool      { return p.Role == RolePatient }
