package controllers

import (
	"net/http"
	"strconv"

	"faculty-portal-api/config"
	"faculty-portal-api/models"

	"github.com/gin-gonic/gin"
)

// GetDepartments lists all active departments.
func GetDepartments(c *gin.Context) {
	var departments []models.Department
	if err := config.DB.Where("delete_at IS NULL").
		Order("department_name ASC").
		Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch departments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"departments": departments,
		"total":       len(departments),
	})
}

// GetDepartmentTeachers lists the teachers of one department.
func GetDepartmentTeachers(c *gin.Context) {
	departmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || departmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid department ID"})
		return
	}

	var department models.Department
	if err := config.DB.Where("department_id = ? AND delete_at IS NULL", departmentID).
		First(&department).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Department not found"})
		return
	}

	var teachers []models.User
	if err := config.DB.Where("department_id = ? AND role_id = ? AND delete_at IS NULL",
		departmentID, models.RoleTeacher).
		Order("user_fname ASC").
		Find(&teachers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch teachers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"department": department,
		"teachers":   teachers,
		"total":      len(teachers),
	})
}
