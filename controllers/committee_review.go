package controllers

import (
	"net/http"
	"strconv"

	"faculty-portal-api/config"
	"faculty-portal-api/models"
	"faculty-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetReviewQueue lists pending submissions the calling committee member may
// review: the department's own queue plus anything explicitly assigned to
// them from elsewhere. Admins see the full pending queue.
func GetReviewQueue(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondServiceError(c, services.ErrUnauthenticated)
		return
	}

	svc := getResearchService()

	if actor.IsAdmin() {
		submissions, err := svc.List(services.ResearchFilter{Status: models.ResearchStatusPending})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch review queue"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "submissions": submissions, "total": len(submissions)})
		return
	}

	var queue []models.ResearchSubmission
	seen := make(map[int]bool)

	if actor.DepartmentID != nil {
		departmental, err := svc.List(services.ResearchFilter{
			Status:       models.ResearchStatusPending,
			DepartmentID: actor.DepartmentID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch review queue"})
			return
		}
		for _, submission := range departmental {
			queue = append(queue, submission)
			seen[submission.SubmissionID] = true
		}
	}

	assigned, err := svc.List(services.ResearchFilter{
		Status:     models.ResearchStatusPending,
		ReviewerID: &actor.ID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch review queue"})
		return
	}
	for _, submission := range assigned {
		if !seen[submission.SubmissionID] {
			queue = append(queue, submission)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": queue,
		"total":       len(queue),
	})
}

// SubmitReviewDecision records a committee member's (or admin's) decision on
// a pending submission. A "pending" decision is a checkpoint that leaves the
// submission unchanged.
func SubmitReviewDecision(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondServiceError(c, services.ErrUnauthenticated)
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	result, err := getResearchService().Review(actor, submissionID, req.Decision, req.Comments)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Review recorded"
	switch result.Submission.Status {
	case models.ResearchStatusAccepted:
		message = "Submission accepted"
	case models.ResearchStatusRejected:
		message = "Submission rejected"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"message":              message,
		"submission":           result.Submission,
		"notification_warning": result.Notification.Warning(),
	})
}

// GetSubmissionReviews returns the audit trail for a submission the caller
// may see.
func GetSubmissionReviews(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondServiceError(c, services.ErrUnauthenticated)
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	if _, err := getResearchService().Get(actor, submissionID); err != nil {
		respondServiceError(c, err)
		return
	}

	var reviews []models.ResearchReview
	if err := config.DB.Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("review_round ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}
