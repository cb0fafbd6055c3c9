package models

import "time"

// Research submission statuses. Pending is the only non-terminal state.
const (
	ResearchStatusPending  = "pending"
	ResearchStatusAccepted = "accepted"
	ResearchStatusRejected = "rejected"
)

// ResearchSubmission is a research paper record moving through the review
// lifecycle. Student and department references are frozen at creation;
// reviewer_comments and review_date are set only alongside a terminal
// decision.
type ResearchSubmission struct {
	SubmissionID     int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string     `gorm:"column:submission_number" json:"submission_number"`
	Title            string     `gorm:"column:title" json:"title"`
	Abstract         string     `gorm:"column:abstract" json:"abstract"`
	Keywords         []string   `gorm:"column:keywords;serializer:json" json:"keywords"`
	StudentID        int        `gorm:"column:student_id" json:"student_id"`
	StudentName      string     `gorm:"column:student_name" json:"student_name"`
	DepartmentID     int        `gorm:"column:department_id" json:"department_id"`
	DepartmentName   string     `gorm:"column:department_name" json:"department_name"`
	FilePath         string     `gorm:"column:file_path" json:"file_path"`
	Status           string     `gorm:"column:status" json:"status"`
	ReviewerID       *int       `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
	ReviewerComments *string    `gorm:"column:reviewer_comments" json:"reviewer_comments,omitempty"`
	SubmissionDate   time.Time  `gorm:"column:submission_date" json:"submission_date"`
	ReviewDate       *time.Time `gorm:"column:review_date" json:"review_date,omitempty"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Student    *User       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// IsTerminal reports whether the submission has reached a final decision.
func (s ResearchSubmission) IsTerminal() bool {
	return s.Status == ResearchStatusAccepted || s.Status == ResearchStatusRejected
}

func (ResearchSubmission) TableName() string {
	return "research_submissions"
}
