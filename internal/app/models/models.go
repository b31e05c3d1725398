package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent          RoleType = "student"
	RoleFaculty          RoleType = "faculty"
	RoleAdmin            RoleType = "admin"
	RoleVerificationTeam RoleType = "verification_team"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin, RoleVerificationTeam:
		return true
	}
	return false
}

// AchievementStatus represents the review lifecycle state of an achievement
type AchievementStatus string

const (
	StatusPending  AchievementStatus = "pending"
	StatusApproved AchievementStatus = "approved"
	StatusRejected AchievementStatus = "rejected"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s AchievementStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// UnassignedDepartment is the bucket used for records without a department.
const UnassignedDepartment = "Unassigned"
