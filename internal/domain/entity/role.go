package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants, seeded by the initial migration
const (
	RoleIDAdmin        = 1
	RoleIDDoctor       = 2
	RoleIDReceptionist = 3
	RoleIDPatient      = 4
)

// RoleNames constants
const (
	RoleAdmin        = "ADMIN"
	RoleDoctor       = "DOCTOR"
	RoleReceptionist = "RECEPTIONIST"
	RolePatient      = "PATIENT"
)

var roleNamesByID = map[int]string{
	RoleIDAdmin:        RoleAdmin,
	RoleIDDoctor:       RoleDoctor,
	RoleIDReceptionist: RoleReceptionist,
	RoleIDPatient:      RolePatient,
}

// RoleNameByID returns the role name for a seeded role id, or "" when unknown.
func RoleNameByID(id int) string {
	return roleNamesByID[id]
}

// RoleIDByName is the inverse of RoleNameByID. The second value is false for unknown names.
func RoleIDByName(name string) (int, bool) {
	for id, n := range roleNamesByID {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// IsStaffRole reports whether the role works for the clinic rather than being a patient.
func IsStaffRole(name string) bool {
	return name == RoleAdmin || name == RoleDoctor || name == RoleReceptionist
}
