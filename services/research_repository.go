package services

import (
	"errors"
	"time"

	"faculty-portal-api/models"

	"gorm.io/gorm"
)

// ResearchFilter narrows List results. Nil/empty fields are ignored.
type ResearchFilter struct {
	Status       string
	DepartmentID *int
	StudentID    *int
	ReviewerID   *int
}

// ResearchRepository is the submission store as seen by the lifecycle
// service. The lifecycle service is the only mutator path for status,
// reviewer_id, reviewer_comments and review_date.
type ResearchRepository interface {
	Create(submission *models.ResearchSubmission) error
	FindByID(submissionID int) (*models.ResearchSubmission, error)
	List(filter ResearchFilter) ([]models.ResearchSubmission, error)

	// SetReviewer binds a reviewer while leaving the status untouched. The
	// write is guarded on the submission still being pending; ErrInvalidState
	// when a decision landed concurrently.
	SetReviewer(submissionID, reviewerID int, now time.Time) error

	// ApplyDecision writes a terminal decision guarded on the submission
	// still being pending. It returns false when the guard did not match,
	// i.e. the status had already left pending by the time the write landed.
	// bindReviewer, when non-nil, also sets reviewer_id in the same write.
	ApplyDecision(submissionID int, decision, comments string, bindReviewer *int, now time.Time) (bool, error)

	// AppendReview records an audit row; CountReviews numbers the rounds.
	AppendReview(review *models.ResearchReview) error
	CountReviews(submissionID int) (int, error)
}

type gormResearchRepository struct {
	db *gorm.DB
}

// NewGormResearchRepository returns the production repository backed by the
// given gorm connection.
func NewGormResearchRepository(db *gorm.DB) ResearchRepository {
	return &gormResearchRepository{db: db}
}

func (r *gormResearchRepository) Create(submission *models.ResearchSubmission) error {
	return r.db.Create(submission).Error
}

func (r *gormResearchRepository) FindByID(submissionID int) (*models.ResearchSubmission, error) {
	var submission models.ResearchSubmission
	err := r.db.Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *gormResearchRepository) List(filter ResearchFilter) ([]models.ResearchSubmission, error) {
	query := r.db.Model(&models.ResearchSubmission{}).
		Preload("Student").
		Preload("Reviewer").
		Where("delete_at IS NULL")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.ReviewerID != nil {
		query = query.Where("reviewer_id = ?", *filter.ReviewerID)
	}

	var submissions []models.ResearchSubmission
	if err := query.Order("submission_date DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *gormResearchRepository) SetReviewer(submissionID, reviewerID int, now time.Time) error {
	result := r.db.Model(&models.ResearchSubmission{}).
		Where("submission_id = ? AND status = ?", submissionID, models.ResearchStatusPending).
		Updates(map[string]interface{}{
			"reviewer_id": reviewerID,
			"update_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidState
	}
	return nil
}

func (r *gormResearchRepository) ApplyDecision(submissionID int, decision, comments string, bindReviewer *int, now time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":      decision,
		"review_date": now,
		"update_at":   now,
	}
	if comments != "" {
		updates["reviewer_comments"] = comments
	}
	if bindReviewer != nil {
		updates["reviewer_id"] = *bindReviewer
	}

	// Guarded write: two concurrent reviews cannot both produce a terminal
	// decision, the second one sees zero rows affected.
	result := r.db.Model(&models.ResearchSubmission{}).
		Where("submission_id = ? AND status = ?", submissionID, models.ResearchStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormResearchRepository) AppendReview(review *models.ResearchReview) error {
	return r.db.Create(review).Error
}

func (r *gormResearchRepository) CountReviews(submissionID int) (int, error) {
	var count int64
	err := r.db.Model(&models.ResearchReview{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	return int(count), err
}
