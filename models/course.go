package models

import "time"

// Course is a catalog entry scoped to a department and semester.
type Course struct {
	CourseID     int        `gorm:"primaryKey;column:course_id" json:"course_id"`
	CourseCode   string     `gorm:"column:course_code;unique" json:"course_code"`
	CourseName   string     `gorm:"column:course_name" json:"course_name"`
	Description  string     `gorm:"column:description" json:"description"`
	Credits      int        `gorm:"column:credits" json:"credits"`
	Semester     int        `gorm:"column:semester" json:"semester"`
	DepartmentID int        `gorm:"column:department_id" json:"department_id"`
	TeacherID    *int       `gorm:"column:teacher_id" json:"teacher_id,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Teacher    *User       `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
