package models

import "time"

// ResearchReview is an audit record of a reviewer action on a submission,
// including "still under review" checkpoints that leave the status untouched.
type ResearchReview struct {
	ReviewID     int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID   int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	ReviewRound  int       `gorm:"column:review_round" json:"review_round"`
	Decision     string    `gorm:"column:decision" json:"decision"`
	Comments     *string   `gorm:"column:comments" json:"comments"`
	ReviewedAt   time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for ResearchReview.
func (ResearchReview) TableName() string {
	return "research_reviews"
}
