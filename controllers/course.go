package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"faculty-portal-api/config"
	"faculty-portal-api/models"
	"faculty-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetCourses lists catalog entries, optionally filtered by department and
// semester.
func GetCourses(c *gin.Context) {
	query := config.DB.Model(&models.Course{}).
		Preload("Department").
		Preload("Teacher").
		Where("delete_at IS NULL")

	if dept := strings.TrimSpace(c.Query("department_id")); dept != "" {
		departmentID, err := strconv.Atoi(dept)
		if err != nil || departmentID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid department filter"})
			return
		}
		query = query.Where("department_id = ?", departmentID)
	}
	if sem := strings.TrimSpace(c.Query("semester")); sem != "" {
		semester, err := strconv.Atoi(sem)
		if err != nil || semester <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid semester filter"})
			return
		}
		query = query.Where("semester = ?", semester)
	}

	var courses []models.Course
	if err := query.Order("course_code ASC").Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"courses": courses,
		"total":   len(courses),
	})
}

// GetCourse returns a single catalog entry.
func GetCourse(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || courseID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid course ID"})
		return
	}

	var course models.Course
	if err := config.DB.Preload("Department").Preload("Teacher").
		Where("course_id = ? AND delete_at IS NULL", courseID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Course not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "course": course})
}

type courseRequest struct {
	CourseCode   string `json:"course_code" binding:"required"`
	CourseName   string `json:"course_name" binding:"required"`
	Description  string `json:"description"`
	Credits      int    `json:"credits" binding:"required,min=1,max=12"`
	Semester     int    `json:"semester" binding:"required,min=1"`
	DepartmentID int    `json:"department_id" binding:"required"`
	TeacherID    *int   `json:"teacher_id"`
}

// CreateCourse adds a catalog entry (admin only, enforced by the route).
func CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	now := time.Now()
	course := models.Course{
		CourseCode:   utils.SanitizeInput(req.CourseCode),
		CourseName:   utils.SanitizeInput(req.CourseName),
		Description:  utils.SanitizeInput(req.Description),
		Credits:      req.Credits,
		Semester:     req.Semester,
		DepartmentID: req.DepartmentID,
		TeacherID:    req.TeacherID,
		CreateAt:     &now,
	}

	if err := config.DB.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "course": course})
}

// UpdateCourse edits a catalog entry (admin only, enforced by the route).
func UpdateCourse(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || courseID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid course ID"})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var course models.Course
	if err := config.DB.Where("course_id = ? AND delete_at IS NULL", courseID).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Course not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"course_code":   utils.SanitizeInput(req.CourseCode),
		"course_name":   utils.SanitizeInput(req.CourseName),
		"description":   utils.SanitizeInput(req.Description),
		"credits":       req.Credits,
		"semester":      req.Semester,
		"department_id": req.DepartmentID,
		"teacher_id":    req.TeacherID,
		"update_at":     now,
	}

	if err := config.DB.Model(&course).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "course": course})
}
