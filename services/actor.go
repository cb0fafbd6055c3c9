package services

import "faculty-portal-api/models"

// Actor is the resolved identity, role and department affiliation of the
// caller. It is resolved once at the request boundary (JWT middleware) and
// passed explicitly into every workflow operation; the services never read
// session state themselves.
type Actor struct {
	ID           int
	RoleID       int
	DepartmentID *int
}

func (a Actor) IsStudent() bool {
	return a.RoleID == models.RoleStudent
}

func (a Actor) IsAdmin() bool {
	return a.RoleID == models.RoleAdmin
}

func (a Actor) IsCommitteeMember() bool {
	return a.RoleID == models.RoleCommitteeMember
}

// InDepartment reports whether the actor is affiliated with the given
// department. Actors without an affiliation match nothing.
func (a Actor) InDepartment(departmentID int) bool {
	return a.DepartmentID != nil && *a.DepartmentID == departmentID
}
