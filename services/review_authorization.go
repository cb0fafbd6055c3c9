package services

import "faculty-portal-api/models"

// Review authorization is the single source of truth for who may act on a
// research submission. Both predicates are pure; they are evaluated before
// any store mutation is issued.

// CanAssign reports whether the actor may bind a reviewer to the submission.
// Only admins assign; the committee view never exposes assignment.
func CanAssign(actor Actor, submission models.ResearchSubmission) bool {
	return actor.IsAdmin()
}

// CanReview reports whether the actor may record a review decision on the
// submission. Terminal submissions are never reviewable, for any actor.
// Committee members qualify through their own department or through an
// explicit assignment, which lets admins cross-assign reviewers from other
// departments.
func CanReview(actor Actor, submission models.ResearchSubmission) bool {
	if submission.Status != models.ResearchStatusPending {
		return false
	}

	if actor.IsAdmin() {
		return true
	}

	if !actor.IsCommitteeMember() {
		return false
	}

	if actor.InDepartment(submission.DepartmentID) {
		return true
	}

	return submission.ReviewerID != nil && *submission.ReviewerID == actor.ID
}
