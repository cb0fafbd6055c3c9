package services

import (
	"errors"
	"testing"
	"time"

	"faculty-portal-api/models"
)

/* ==========================
   In-memory fakes
   ========================== */

type fakeRepo struct {
	submissions map[int]*models.ResearchSubmission
	reviews     []*models.ResearchReview
	nextID      int

	// Simulate a concurrent decision landing first: the guarded writes see
	// zero rows affected.
	loseDecisionRace bool
	loseAssignRace   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{submissions: make(map[int]*models.ResearchSubmission), nextID: 1}
}

func (r *fakeRepo) Create(submission *models.ResearchSubmission) error {
	submission.SubmissionID = r.nextID
	r.nextID++
	copied := *submission
	r.submissions[submission.SubmissionID] = &copied
	return nil
}

func (r *fakeRepo) FindByID(submissionID int) (*models.ResearchSubmission, error) {
	submission, ok := r.submissions[submissionID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *submission
	return &copied, nil
}

func (r *fakeRepo) List(filter ResearchFilter) ([]models.ResearchSubmission, error) {
	var result []models.ResearchSubmission
	for _, submission := range r.submissions {
		if filter.Status != "" && submission.Status != filter.Status {
			continue
		}
		if filter.DepartmentID != nil && submission.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.ReviewerID != nil && (submission.ReviewerID == nil || *submission.ReviewerID != *filter.ReviewerID) {
			continue
		}
		result = append(result, *submission)
	}
	return result, nil
}

func (r *fakeRepo) SetReviewer(submissionID, reviewerID int, now time.Time) error {
	submission, ok := r.submissions[submissionID]
	if !ok {
		return ErrNotFound
	}
	if r.loseAssignRace || submission.Status != models.ResearchStatusPending {
		return ErrInvalidState
	}
	submission.ReviewerID = &reviewerID
	submission.UpdateAt = &now
	return nil
}

func (r *fakeRepo) ApplyDecision(submissionID int, decision, comments string, bindReviewer *int, now time.Time) (bool, error) {
	if r.loseDecisionRace {
		return false, nil
	}
	submission, ok := r.submissions[submissionID]
	if !ok || submission.Status != models.ResearchStatusPending {
		return false, nil
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
	return true, nil
}

func (r *fakeRepo) AppendReview(review *models.ResearchReview) error {
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeRepo) CountReviews(submissionID int) (int, error) {
	count := 0
	for _, review := range r.reviews {
		if review.SubmissionID == submissionID {
			count++
		}
	}
	return count, nil
}

type fakeDirectory struct {
	departments map[int]string
	teachers    map[int]Contact
	committee   map[int]*models.User
	contacts    map[int]Contact
}

func (d *fakeDirectory) DepartmentTeacher(departmentID int) Contact {
	if contact, ok := d.teachers[departmentID]; ok {
		return contact
	}
	return PlaceholderContact()
}

func (d *fakeDirectory) DepartmentName(departmentID int) (string, error) {
	name, ok := d.departments[departmentID]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

func (d *fakeDirectory) CommitteeMember(userID int) (*models.User, error) {
	user, ok := d.committee[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (d *fakeDirectory) UserContact(userID int) (Contact, error) {
	contact, ok := d.contacts[userID]
	if !ok {
		return Contact{}, ErrNotFound
	}
	return contact, nil
}

type notifyCall struct {
	template  string
	recipient Contact
	data      map[string]string
}

type fakeNotifier struct {
	calls  []notifyCall
	result NotificationResult
}

func (n *fakeNotifier) Notify(templateType string, recipient Contact, data map[string]string) NotificationResult {
	n.calls = append(n.calls, notifyCall{template: templateType, recipient: recipient, data: data})
	return n.result
}

/* ==========================
   Fixture
   ========================== */

const (
	deptScience = 1
	deptArts    = 2
	deptLaw     = 3
)

var (
	studentS1   = Actor{ID: 100, RoleID: models.RoleStudent, DepartmentID: intPtr(deptScience)}
	adminA1     = Actor{ID: 200, RoleID: models.RoleAdmin}
	committeeC1 = Actor{ID: 300, RoleID: models.RoleCommitteeMember, DepartmentID: intPtr(deptArts)}
	committeeC2 = Actor{ID: 301, RoleID: models.RoleCommitteeMember, DepartmentID: intPtr(deptLaw)}
)

func newTestService() (*ResearchService, *fakeRepo, *fakeDirectory, *fakeNotifier) {
	repo := newFakeRepo()
	directory := &fakeDirectory{
		departments: map[int]string{
			deptScience: "Science",
			deptArts:    "Arts",
			deptLaw:     "Law",
		},
		teachers: map[int]Contact{
			deptScience: {UserID: 50, Name: "Dr. Stone", Email: "stone@faculty.local"},
		},
		committee: map[int]*models.User{
			committeeC1.ID: {UserID: committeeC1.ID, UserFname: "Cara", UserLname: "One", Email: "c1@faculty.local", RoleID: models.RoleCommitteeMember, DepartmentID: intPtr(deptArts)},
			committeeC2.ID: {UserID: committeeC2.ID, UserFname: "Cory", UserLname: "Two", Email: "c2@faculty.local", RoleID: models.RoleCommitteeMember, DepartmentID: intPtr(deptLaw)},
		},
		contacts: map[int]Contact{
			studentS1.ID: {UserID: studentS1.ID, Name: "Sam Student", Email: "s1@faculty.local"},
		},
	}
	notifier := &fakeNotifier{result: NotificationResult{Delivered: true}}
	svc := NewResearchService(repo, directory, notifier)
	return svc, repo, directory, notifier
}

func mustSubmit(t *testing.T, svc *ResearchService) *models.ResearchSubmission {
	t.Helper()
	result, err := svc.Submit(studentS1, SubmitInput{
		Title:       "Adaptive Irrigation",
		Abstract:    "Water usage in arid climates.",
		Keywords:    []string{"irrigation", "water"},
		FilePath:    "uploads/research/p1.pdf",
		StudentName: "Sam Student",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	return result.Submission
}

/* ==========================
   Submit
   ========================== */

func TestSubmitCreatesPendingAndNotifiesDepartmentTeacher(t *testing.T) {
	svc, repo, _, notifier := newTestService()

	result, err := svc.Submit(studentS1, SubmitInput{
		Title:       "Adaptive Irrigation",
		Abstract:    "Water usage in arid climates.",
		Keywords:    []string{"irrigation", "Water", "water", " ", "irrigation"},
		FilePath:    "uploads/research/p1.pdf",
		StudentName: "Sam Student",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	submission := result.Submission
	if submission.Status != models.ResearchStatusPending {
		t.Fatalf("status = %q, want pending", submission.Status)
	}
	if submission.ReviewerID != nil {
		t.Fatalf("reviewer should be unset on creation")
	}
	if submission.DepartmentID != deptScience || submission.DepartmentName != "Science" {
		t.Fatalf("department not denormalized: %d %q", submission.DepartmentID, submission.DepartmentName)
	}
	if len(submission.Keywords) != 2 {
		t.Fatalf("keywords not deduplicated: %v", submission.Keywords)
	}
	if submission.SubmissionNumber == "" {
		t.Fatalf("submission number not generated")
	}
	if len(repo.submissions) != 1 {
		t.Fatalf("expected 1 stored submission, got %d", len(repo.submissions))
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.template != TemplateResearchSubmission {
		t.Fatalf("template = %q, want %q", call.template, TemplateResearchSubmission)
	}
	if call.recipient.Email != "stone@faculty.local" {
		t.Fatalf("notification went to %q, want department teacher", call.recipient.Email)
	}
	if result.Notification.Warning() != "" {
		t.Fatalf("unexpected notification warning: %q", result.Notification.Warning())
	}
}

func TestSubmitRejectsNonStudents(t *testing.T) {
	svc, repo, _, _ := newTestService()

	for _, actor := range []Actor{adminA1, committeeC1} {
		_, err := svc.Submit(actor, SubmitInput{Title: "X", FilePath: "f.pdf"})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("Submit(role=%d) error = %v, want ErrForbidden", actor.RoleID, err)
		}
	}
	if len(repo.submissions) != 0 {
		t.Fatalf("no record should be created on forbidden submit")
	}
}

func TestSubmitRequiresManuscript(t *testing.T) {
	svc, repo, _, notifier := newTestService()

	_, err := svc.Submit(studentS1, SubmitInput{Title: "No File"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if len(repo.submissions) != 0 || len(notifier.calls) != 0 {
		t.Fatalf("validation failure must not touch the store or notifier")
	}
}

func TestSubmitFallsBackToPlaceholderTeacher(t *testing.T) {
	svc, _, directory, notifier := newTestService()
	delete(directory.teachers, deptScience)

	result, err := svc.Submit(studentS1, SubmitInput{
		Title: "Orphan Department", FilePath: "f.pdf", StudentName: "Sam Student",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Submission.Status != models.ResearchStatusPending {
		t.Fatalf("submission should proceed with placeholder contact")
	}
	if notifier.calls[0].recipient.Name != "Research Office" {
		t.Fatalf("expected placeholder contact, got %q", notifier.calls[0].recipient.Name)
	}
}

func TestSubmitNotificationFailureIsNonFatal(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	notifier.result = NotificationResult{Error: "smtp unreachable"}

	result, err := svc.Submit(studentS1, SubmitInput{
		Title: "Still Works", FilePath: "f.pdf", StudentName: "Sam Student",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(repo.submissions) != 1 {
		t.Fatalf("submission must commit despite notification failure")
	}
	if result.Notification.Warning() == "" {
		t.Fatalf("expected a notification warning")
	}
}

/* ==========================
   Assign
   ========================== */

func TestAssignCrossDepartmentByAdmin(t *testing.T) {
	svc, _, _, notifier := newTestService()
	submission := mustSubmit(t, svc)

	result, err := svc.Assign(adminA1, submission.SubmissionID, committeeC1.ID)
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}

	updated := result.Submission
	if updated.ReviewerID == nil || *updated.ReviewerID != committeeC1.ID {
		t.Fatalf("reviewer not bound: %v", updated.ReviewerID)
	}
	if updated.Status != models.ResearchStatusPending {
		t.Fatalf("assignment must not change status, got %q", updated.Status)
	}

	last := notifier.calls[len(notifier.calls)-1]
	if last.template != TemplateAssignment || last.recipient.UserID != committeeC1.ID {
		t.Fatalf("assignee not notified: %+v", last)
	}
}

func TestAssignRejectsNonAdmins(t *testing.T) {
	svc, _, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	for _, actor := range []Actor{committeeC1, studentS1} {
		_, err := svc.Assign(actor, submission.SubmissionID, committeeC2.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("Assign(role=%d) error = %v, want ErrForbidden", actor.RoleID, err)
		}
	}
}

func TestAssignValidatesAssigneeRole(t *testing.T) {
	svc, _, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	// Student id is not a committee member.
	_, err := svc.Assign(adminA1, submission.SubmissionID, studentS1.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound for non-committee assignee", err)
	}
}

func TestAssignFailsOnTerminalSubmission(t *testing.T) {
	svc, _, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	if _, err := svc.Review(adminA1, submission.SubmissionID, "rejected", "out of scope"); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	_, err := svc.Assign(adminA1, submission.SubmissionID, committeeC1.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("error = %v, want ErrInvalidState", err)
	}
}

func TestAssignConcurrentDecisionSurfacesInvalidState(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	submission := mustSubmit(t, svc)
	notificationsBefore := len(notifier.calls)
	repo.loseAssignRace = true

	_, err := svc.Assign(adminA1, submission.SubmissionID, committeeC1.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("error = %v, want ErrInvalidState on lost assign race", err)
	}
	if len(notifier.calls) != notificationsBefore {
		t.Fatalf("failed assignment must not notify the assignee")
	}
}

func TestAssignUnknownSubmission(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Assign(adminA1, 9999, committeeC1.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

/* ==========================
   Review
   ========================== */

func TestReviewByAssignedReviewerFromOtherDepartment(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	submission := mustSubmit(t, svc)

	if _, err := svc.Assign(adminA1, submission.SubmissionID, committeeC1.ID); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}

	// C1 is in Arts, the submission in Science: authorized via assignment.
	result, err := svc.Review(committeeC1, submission.SubmissionID, "accepted", "Well written")
	if err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	updated := result.Submission
	if updated.Status != models.ResearchStatusAccepted {
		t.Fatalf("status = %q, want accepted", updated.Status)
	}
	if updated.ReviewDate == nil {
		t.Fatalf("review date not set")
	}
	if updated.ReviewerComments == nil || *updated.ReviewerComments != "Well written" {
		t.Fatalf("comments not recorded: %v", updated.ReviewerComments)
	}

	stored := repo.submissions[submission.SubmissionID]
	if stored.Status != models.ResearchStatusAccepted {
		t.Fatalf("stored status = %q, want accepted", stored.Status)
	}

	last := notifier.calls[len(notifier.calls)-1]
	if last.template != TemplateResearchFeedback || last.recipient.UserID != studentS1.ID {
		t.Fatalf("student not notified of the decision: %+v", last)
	}
	if last.data["decision"] != "accepted" {
		t.Fatalf("decision missing from notification payload: %v", last.data)
	}
}

func TestReviewForbiddenForUnrelatedCommitteeMember(t *testing.T) {
	svc, repo, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	// C2 is in Law, not assigned, department does not match.
	_, err := svc.Review(committeeC2, submission.SubmissionID, "accepted", "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}

	stored := repo.submissions[submission.SubmissionID]
	if stored.Status != models.ResearchStatusPending {
		t.Fatalf("forbidden review must not mutate the submission")
	}
}

func TestReviewTerminalSubmissionFailsAndLeavesFieldsUntouched(t *testing.T) {
	svc, repo, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	if _, err := svc.Assign(adminA1, submission.SubmissionID, committeeC1.ID); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if _, err := svc.Review(committeeC1, submission.SubmissionID, "accepted", "Well written"); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	before := *repo.submissions[submission.SubmissionID]

	// Same decision again: must fail, not silently re-apply.
	_, err := svc.Review(committeeC1, submission.SubmissionID, "accepted", "Changed my mind")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("error = %v, want ErrInvalidState", err)
	}

	after := *repo.submissions[submission.SubmissionID]
	if !before.ReviewDate.Equal(*after.ReviewDate) {
		t.Fatalf("review date changed on rejected re-review")
	}
	if *before.ReviewerComments != *after.ReviewerComments {
		t.Fatalf("comments changed on rejected re-review")
	}
}

func TestReviewPendingDecisionIsCheckpointOnly(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	submission := mustSubmit(t, svc)
	notificationsBefore := len(notifier.calls)

	result, err := svc.Review(adminA1, submission.SubmissionID, "pending", "needs another pass")
	if err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	if result.Submission.Status != models.ResearchStatusPending {
		t.Fatalf("status changed on pending checkpoint")
	}
	if warning := result.Notification.Warning(); warning != "" {
		t.Fatalf("checkpoint must not carry a notification warning, got %q", warning)
	}

	stored := repo.submissions[submission.SubmissionID]
	if stored.ReviewerComments != nil || stored.ReviewDate != nil {
		t.Fatalf("decision fields must stay null on checkpoint")
	}

	if len(repo.reviews) != 1 {
		t.Fatalf("checkpoint must append an audit row, got %d", len(repo.reviews))
	}
	if repo.reviews[0].Comments == nil || *repo.reviews[0].Comments != "needs another pass" {
		t.Fatalf("checkpoint comments not recorded in audit trail")
	}

	if len(notifier.calls) != notificationsBefore {
		t.Fatalf("checkpoint must not notify the student")
	}
}

func TestReviewConcurrentDecisionSurfacesInvalidState(t *testing.T) {
	svc, repo, _, _ := newTestService()
	submission := mustSubmit(t, svc)
	repo.loseDecisionRace = true

	_, err := svc.Review(adminA1, submission.SubmissionID, "accepted", "")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("error = %v, want ErrInvalidState on lost decision race", err)
	}
}

func TestReviewBindsDecidingReviewerWhenUnassigned(t *testing.T) {
	svc, repo, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	if _, err := svc.Review(adminA1, submission.SubmissionID, "rejected", "not in scope"); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	stored := repo.submissions[submission.SubmissionID]
	if stored.ReviewerID == nil || *stored.ReviewerID != adminA1.ID {
		t.Fatalf("deciding actor not bound as reviewer: %v", stored.ReviewerID)
	}
}

func TestReviewKeepsExplicitAssignmentOnDecision(t *testing.T) {
	svc, repo, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	if _, err := svc.Assign(adminA1, submission.SubmissionID, committeeC1.ID); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if _, err := svc.Review(adminA1, submission.SubmissionID, "accepted", ""); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	stored := repo.submissions[submission.SubmissionID]
	if stored.ReviewerID == nil || *stored.ReviewerID != committeeC1.ID {
		t.Fatalf("explicit assignment clobbered: %v", stored.ReviewerID)
	}
}

func TestReviewRejectsInvalidDecision(t *testing.T) {
	svc, _, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	for _, decision := range []string{"", "approved", "maybe"} {
		_, err := svc.Review(adminA1, submission.SubmissionID, decision, "")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("Review(%q) error = %v, want ErrValidation", decision, err)
		}
	}
}

func TestReviewAuditTrailNumbersRounds(t *testing.T) {
	svc, repo, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	if _, err := svc.Review(adminA1, submission.SubmissionID, "pending", "round one"); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}
	if _, err := svc.Review(adminA1, submission.SubmissionID, "accepted", "round two"); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	if len(repo.reviews) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(repo.reviews))
	}
	if repo.reviews[0].ReviewRound != 1 || repo.reviews[1].ReviewRound != 2 {
		t.Fatalf("rounds misnumbered: %d, %d", repo.reviews[0].ReviewRound, repo.reviews[1].ReviewRound)
	}
}

/* ==========================
   Get
   ========================== */

func TestGetVisibility(t *testing.T) {
	svc, _, _, _ := newTestService()
	submission := mustSubmit(t, svc)

	if _, err := svc.Assign(adminA1, submission.SubmissionID, committeeC2.ID); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}

	cases := []struct {
		name    string
		actor   Actor
		allowed bool
	}{
		{"owning student", studentS1, true},
		{"admin", adminA1, true},
		{"assigned reviewer from other department", committeeC2, true},
		{"other student", Actor{ID: 101, RoleID: models.RoleStudent}, false},
		{"unrelated committee member", committeeC1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Get(tc.actor, submission.SubmissionID)
			if tc.allowed && err != nil {
				t.Fatalf("Get returned error: %v", err)
			}
			if !tc.allowed && !errors.Is(err, ErrForbidden) {
				t.Fatalf("error = %v, want ErrForbidden", err)
			}
		})
	}
}
