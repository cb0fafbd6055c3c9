package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"faculty-portal-api/models"

	"github.com/google/uuid"
)

// ResearchService owns the research submission lifecycle:
//
//	pending -> accepted | rejected
//
// Reviewer assignment is an orthogonal attribute update that leaves the
// status untouched. Authorization is checked before any store mutation;
// notifications are dispatched only after the transition has committed and
// their failure never rolls anything back.
type ResearchService struct {
	repo      ResearchRepository
	directory Directory
	notifier  Notifier
	now       func() time.Time
}

func NewResearchService(repo ResearchRepository, directory Directory, notifier Notifier) *ResearchService {
	return &ResearchService{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
		now:       time.Now,
	}
}

// SubmitInput carries the student-provided fields of a new submission.
// FilePath references the manuscript already placed in the file store.
type SubmitInput struct {
	Title       string
	Abstract    string
	Keywords    []string
	FilePath    string
	StudentName string
}

// WorkflowResult pairs the committed submission with the best-effort
// notification outcome of the operation that produced it.
type WorkflowResult struct {
	Submission   *models.ResearchSubmission
	Notification NotificationResult
}

// Submit creates a pending submission for the acting student and notifies
// the department's teacher (placeholder contact when none is on record).
func (s *ResearchService) Submit(actor Actor, in SubmitInput) (*WorkflowResult, error) {
	if !actor.IsStudent() {
		return nil, fmt.Errorf("%w: only students may submit research", ErrForbidden)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(in.FilePath) == "" {
		return nil, fmt.Errorf("%w: manuscript file is required", ErrValidation)
	}
	if actor.DepartmentID == nil {
		return nil, fmt.Errorf("%w: student has no department affiliation", ErrValidation)
	}

	departmentName, err := s.directory.DepartmentName(*actor.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("department %d: %w", *actor.DepartmentID, err)
	}

	now := s.now()
	submission := &models.ResearchSubmission{
		SubmissionNumber: newSubmissionNumber(now),
		Title:            strings.TrimSpace(in.Title),
		Abstract:         strings.TrimSpace(in.Abstract),
		Keywords:         normalizeKeywords(in.Keywords),
		StudentID:        actor.ID,
		StudentName:      strings.TrimSpace(in.StudentName),
		DepartmentID:     *actor.DepartmentID,
		DepartmentName:   departmentName,
		FilePath:         in.FilePath,
		Status:           models.ResearchStatusPending,
		SubmissionDate:   now,
		CreateAt:         &now,
	}

	if err := s.repo.Create(submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	teacher := s.directory.DepartmentTeacher(submission.DepartmentID)
	result := s.notifier.Notify(TemplateResearchSubmission, teacher, map[string]string{
		"submission_id":     strconv.Itoa(submission.SubmissionID),
		"submission_number": submission.SubmissionNumber,
		"student_name":      submission.StudentName,
		"title":             submission.Title,
		"department_name":   submission.DepartmentName,
		"submitted_at":      now.Format("2006-01-02 15:04"),
	})

	return &WorkflowResult{Submission: submission, Notification: result}, nil
}

// Assign binds a committee member as the submission's reviewer. The status
// stays pending; only admins may assign. The assignee must exist and hold
// the committee role; a department mismatch is allowed (cross-assignment)
// but logged.
func (s *ResearchService) Assign(actor Actor, submissionID, reviewerID int) (*WorkflowResult, error) {
	submission, err := s.repo.FindByID(submissionID)
	if err != nil {
		return nil, err
	}

	if !CanAssign(actor, *submission) {
		return nil, fmt.Errorf("%w: only admins may assign reviewers", ErrForbidden)
	}
	if submission.IsTerminal() {
		return nil, fmt.Errorf("%w: submission %s already %s", ErrInvalidState, submission.SubmissionNumber, submission.Status)
	}

	assignee, err := s.directory.CommitteeMember(reviewerID)
	if err != nil {
		return nil, fmt.Errorf("committee member %d: %w", reviewerID, err)
	}
	if assignee.DepartmentID == nil || *assignee.DepartmentID != submission.DepartmentID {
		log.Printf("cross-department assignment: submission %s (department %d) assigned to user %d",
			submission.SubmissionNumber, submission.DepartmentID, assignee.UserID)
	}

	now := s.now()
	if err := s.repo.SetReviewer(submission.SubmissionID, assignee.UserID, now); err != nil {
		return nil, fmt.Errorf("failed to assign reviewer: %w", err)
	}
	submission.ReviewerID = &assignee.UserID
	submission.UpdateAt = &now

	result := s.notifier.Notify(TemplateAssignment,
		Contact{UserID: assignee.UserID, Name: assignee.FullName(), Email: assignee.Email},
		map[string]string{
			"submission_id":     strconv.Itoa(submission.SubmissionID),
			"submission_number": submission.SubmissionNumber,
			"title":             submission.Title,
			"department_name":   submission.DepartmentName,
		})

	return &WorkflowResult{Submission: submission, Notification: result}, nil
}

// Review records a reviewer decision. "accepted" and "rejected" are terminal
// transitions; "pending" is a valid "more review needed" checkpoint that
// leaves the submission untouched apart from an audit row. The terminal
// write is guarded on the status still being pending, so a concurrent
// decision surfaces as ErrInvalidState rather than a silent lost update.
func (s *ResearchService) Review(actor Actor, submissionID int, decision, comments string) (*WorkflowResult, error) {
	decision = strings.ToLower(strings.TrimSpace(decision))
	switch decision {
	case models.ResearchStatusAccepted, models.ResearchStatusRejected, models.ResearchStatusPending:
	case "":
		return nil, fmt.Errorf("%w: decision is required", ErrValidation)
	default:
		return nil, fmt.Errorf("%w: decision must be accepted, rejected or pending", ErrValidation)
	}

	submission, err := s.repo.FindByID(submissionID)
	if err != nil {
		return nil, err
	}

	if submission.IsTerminal() {
		return nil, fmt.Errorf("%w: submission %s already %s", ErrInvalidState, submission.SubmissionNumber, submission.Status)
	}
	if !CanReview(actor, *submission) {
		return nil, fmt.Errorf("%w: not authorized to review submission %s", ErrForbidden, submission.SubmissionNumber)
	}

	now := s.now()
	comments = strings.TrimSpace(comments)

	if decision == models.ResearchStatusPending {
		// Checkpoint only: the decision fields stay null so that
		// reviewer_comments set always implies a terminal status.
		s.appendReviewRound(submission.SubmissionID, actor.ID, decision, comments, now)
		return &WorkflowResult{Submission: submission}, nil
	}

	// A decision requires a bound reviewer; bind the deciding actor when no
	// assignment happened first.
	var bindReviewer *int
	if submission.ReviewerID == nil {
		bindReviewer = &actor.ID
	}

	applied, err := s.repo.ApplyDecision(submission.SubmissionID, decision, comments, bindReviewer, now)
	if err != nil {
		return nil, fmt.Errorf("failed to apply decision: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("%w: submission %s was decided concurrently", ErrInvalidState, submission.SubmissionNumber)
	}

	submission.Status = decision
	submission.ReviewDate = &now
	submission.UpdateAt = &now
	if comments != "" {
		submission.ReviewerComments = &comments
	}
	if bindReviewer != nil {
		submission.ReviewerID = bindReviewer
	}

	s.appendReviewRound(submission.SubmissionID, actor.ID, decision, comments, now)

	result := NotificationResult{Error: "student contact not found"}
	if student, err := s.directory.UserContact(submission.StudentID); err == nil {
		result = s.notifier.Notify(TemplateResearchFeedback, student, map[string]string{
			"submission_id":     strconv.Itoa(submission.SubmissionID),
			"submission_number": submission.SubmissionNumber,
			"title":             submission.Title,
			"decision":          decision,
			"comments":          comments,
		})
	}

	return &WorkflowResult{Submission: submission, Notification: result}, nil
}

// Get returns a submission when the actor may see it: the owning student,
// the bound reviewer, admins, and committee members of the department.
func (s *ResearchService) Get(actor Actor, submissionID int) (*models.ResearchSubmission, error) {
	submission, err := s.repo.FindByID(submissionID)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.IsAdmin():
	case submission.StudentID == actor.ID:
	case submission.ReviewerID != nil && *submission.ReviewerID == actor.ID:
	case actor.IsCommitteeMember() && actor.InDepartment(submission.DepartmentID):
	default:
		return nil, ErrForbidden
	}
	return submission, nil
}

// List exposes the repository listing; callers scope the filter themselves.
func (s *ResearchService) List(filter ResearchFilter) ([]models.ResearchSubmission, error) {
	return s.repo.List(filter)
}

func (s *ResearchService) appendReviewRound(submissionID, reviewerID int, decision, comments string, now time.Time) {
	round, err := s.repo.CountReviews(submissionID)
	if err != nil {
		log.Printf("review round count failed (submission=%d): %v", submissionID, err)
		round = 0
	}
	review := &models.ResearchReview{
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		ReviewRound:  round + 1,
		Decision:     decision,
		ReviewedAt:   now,
	}
	if comments != "" {
		review.Comments = &comments
	}
	if err := s.repo.AppendReview(review); err != nil {
		log.Printf("review audit insert failed (submission=%d): %v", submissionID, err)
	}
}

func newSubmissionNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("RS-%s-%s", now.Format("2006"), suffix)
}

func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool)
	normalized := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		trimmed := strings.TrimSpace(keyword)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		normalized = append(normalized, trimmed)
	}
	return normalized
}
