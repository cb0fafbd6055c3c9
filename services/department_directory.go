package services

import (
	"errors"
	"log"
	"os"

	"faculty-portal-api/models"

	"gorm.io/gorm"
)

// Contact is a notification recipient. UserID is zero for contacts that do
// not map to a portal account (the placeholder below).
type Contact struct {
	UserID int
	Name   string
	Email  string
}

// PlaceholderContact is the named fallback used when a department has no
// teacher on record. Submissions proceed with this degraded contact instead
// of failing; RESEARCH_OFFICE_EMAIL overrides the address.
func PlaceholderContact() Contact {
	email := os.Getenv("RESEARCH_OFFICE_EMAIL")
	if email == "" {
		email = "research-office@faculty.local"
	}
	return Contact{Name: "Research Office", Email: email}
}

// Directory resolves people the lifecycle service needs to reach or verify.
type Directory interface {
	// DepartmentTeacher returns the notification contact for a department.
	// It never fails: a missing teacher yields PlaceholderContact.
	DepartmentTeacher(departmentID int) Contact

	// DepartmentName resolves the display name; ErrNotFound when unknown.
	DepartmentName(departmentID int) (string, error)

	// CommitteeMember returns the user iff it exists and holds the
	// committee member role; ErrNotFound otherwise.
	CommitteeMember(userID int) (*models.User, error)

	// UserContact resolves any active user to a contact.
	UserContact(userID int) (Contact, error)
}

type gormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory returns the production directory backed by the given
// gorm connection.
func NewGormDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) DepartmentTeacher(departmentID int) Contact {
	var teacher models.User
	err := d.db.Where("department_id = ? AND role_id = ? AND delete_at IS NULL", departmentID, models.RoleTeacher).
		Order("user_id ASC").
		First(&teacher).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("department teacher lookup failed (department=%d): %v", departmentID, err)
		}
		return PlaceholderContact()
	}
	return Contact{UserID: teacher.UserID, Name: teacher.FullName(), Email: teacher.Email}
}

func (d *gormDirectory) DepartmentName(departmentID int) (string, error) {
	var department models.Department
	err := d.db.Where("department_id = ? AND delete_at IS NULL", departmentID).
		First(&department).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return department.DepartmentName, nil
}

func (d *gormDirectory) CommitteeMember(userID int) (*models.User, error) {
	var user models.User
	err := d.db.Where("user_id = ? AND role_id = ? AND delete_at IS NULL", userID, models.RoleCommitteeMember).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *gormDirectory) UserContact(userID int) (Contact, error) {
	var user models.User
	err := d.db.Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	return Contact{UserID: user.UserID, Name: user.FullName(), Email: user.Email}, nil
}
