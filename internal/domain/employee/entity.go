package employee

import (
	"time"
)

// Employee is the identity the time ledger keys everything on. Profile data
// lives in the HR master service; only what the ledger needs is mirrored here.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

// Role is carried in access token claims.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// CanApprove reports whether the role may decide leave requests and manage attendance.
func (r Role) CanApprove() bool {
	return r == RoleOwner || r == RoleManager
}
