package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"faculty-portal-api/config"
	"faculty-portal-api/models"
	"faculty-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetResearchSubmissions lists submissions for the admin view, optionally
// filtered by status and department.
func GetResearchSubmissions(c *gin.Context) {
	filter := services.ResearchFilter{}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		switch status {
		case models.ResearchStatusPending, models.ResearchStatusAccepted, models.ResearchStatusRejected:
			filter.Status = status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status filter"})
			return
		}
	}

	if dept := strings.TrimSpace(c.Query("department_id")); dept != "" {
		departmentID, err := strconv.Atoi(dept)
		if err != nil || departmentID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid department filter"})
			return
		}
		filter.DepartmentID = &departmentID
	}

	submissions, err := getResearchService().List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetCommitteeMembers lists reviewer candidates. The department filter is a
// UI convenience; assignment itself re-validates the assignee's role.
func GetCommitteeMembers(c *gin.Context) {
	query := config.DB.Model(&models.User{}).
		Where("role_id = ? AND delete_at IS NULL", models.RoleCommitteeMember)

	if dept := strings.TrimSpace(c.Query("department_id")); dept != "" {
		departmentID, err := strconv.Atoi(dept)
		if err != nil || departmentID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid department filter"})
			return
		}
		query = query.Where("department_id = ?", departmentID)
	}

	var members []models.User
	if err := query.Order("user_fname ASC").Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch committee members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"members": members,
		"total":   len(members),
	})
}

// AssignReviewer binds a committee member to a pending submission.
func AssignReviewer(c *gin.Context) {
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
		ReviewerID int `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	result, err := getResearchService().Assign(actor, submissionID, req.ReviewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"message":              "Reviewer assigned",
		"submission":           result.Submission,
		"notification_warning": result.Notification.Warning(),
	})
}
