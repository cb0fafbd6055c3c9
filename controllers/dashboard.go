package controllers

import (
	"net/http"
	"time"

	"faculty-portal-api/config"
	"faculty-portal-api/models"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns role-dependent portal statistics: students see
// their own submission summary, admins the portal-wide picture.
func GetDashboardStats(c *gin.Context) {
	userIDVal, userExists := c.Get("userID")
	roleIDVal, roleExists := c.Get("roleID")
	if !userExists || !roleExists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "authentication context missing",
		})
		return
	}

	userID, okUser := userIDVal.(int)
	roleID, okRole := roleIDVal.(int)
	if !okUser || !okRole {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "invalid user or role id",
		})
		return
	}

	var stats map[string]interface{}
	if roleID == models.RoleAdmin {
		stats = getAdminDashboard()
	} else {
		stats = getUserDashboard(userID)
	}

	if stats == nil {
		stats = make(map[string]interface{})
	}
	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// getUserDashboard returns the personal submission summary.
func getUserDashboard(userID int) map[string]interface{} {
	stats := make(map[string]interface{})

	type statusCount struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}

	var rows []statusCount
	if err := config.DB.Model(&models.ResearchSubmission{}).
		Select("status, COUNT(*) AS total").
		Where("student_id = ? AND delete_at IS NULL", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats
	}

	summary := map[string]int64{
		models.ResearchStatusPending:  0,
		models.ResearchStatusAccepted: 0,
		models.ResearchStatusRejected: 0,
	}
	var total int64
	for _, row := range rows {
		summary[row.Status] = row.Total
		total += row.Total
	}
	stats["my_submissions"] = map[string]interface{}{
		"total":    total,
		"pending":  summary[models.ResearchStatusPending],
		"accepted": summary[models.ResearchStatusAccepted],
		"rejected": summary[models.ResearchStatusRejected],
	}

	var unread int64
	_ = config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	stats["unread_notifications"] = unread

	return stats
}

// getAdminDashboard returns portal-wide totals, per-department breakdown
// and the recent monthly trend.
func getAdminDashboard() map[string]interface{} {
	stats := make(map[string]interface{})

	type statusCount struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}
	var rows []statusCount
	if err := config.DB.Model(&models.ResearchSubmission{}).
		Select("status, COUNT(*) AS total").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&rows).Error; err == nil {
		byStatus := make(map[string]int64, len(rows))
		var total int64
		for _, row := range rows {
			byStatus[row.Status] = row.Total
			total += row.Total
		}
		stats["submissions"] = map[string]interface{}{
			"total":    total,
			"pending":  byStatus[models.ResearchStatusPending],
			"accepted": byStatus[models.ResearchStatusAccepted],
			"rejected": byStatus[models.ResearchStatusRejected],
		}
	}

	type departmentCount struct {
		DepartmentID   int    `gorm:"column:department_id"`
		DepartmentName string `gorm:"column:department_name"`
		Total          int64  `gorm:"column:total"`
		Pending        int64  `gorm:"column:pending"`
	}
	var departments []departmentCount
	if err := config.DB.Model(&models.ResearchSubmission{}).
		Select("department_id, department_name, COUNT(*) AS total, SUM(status = 'pending') AS pending").
		Where("delete_at IS NULL").
		Group("department_id, department_name").
		Order("total DESC").
		Scan(&departments).Error; err == nil {
		byDepartment := make([]map[string]interface{}, 0, len(departments))
		for _, dept := range departments {
			byDepartment = append(byDepartment, map[string]interface{}{
				"department_id":   dept.DepartmentID,
				"department_name": dept.DepartmentName,
				"total":           dept.Total,
				"pending":         dept.Pending,
			})
		}
		stats["by_department"] = byDepartment
	}

	stats["monthly_trend"] = getMonthlyStats(6)

	var userTotal int64
	_ = config.DB.Model(&models.User{}).
		Where("delete_at IS NULL").
		Count(&userTotal).Error
	stats["total_users"] = userTotal

	return stats
}

// getMonthlyStats returns submission counts for the trailing months.
func getMonthlyStats(months int) []map[string]interface{} {
	since := time.Now().AddDate(0, -months, 0)

	type monthCount struct {
		Month string `gorm:"column:month"`
		Total int64  `gorm:"column:total"`
	}
	var rows []monthCount
	if err := config.DB.Model(&models.ResearchSubmission{}).
		Select("DATE_FORMAT(submission_date, '%Y-%m') AS month, COUNT(*) AS total").
		Where("submission_date >= ? AND delete_at IS NULL", since).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		return []map[string]interface{}{}
	}

	trend := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		trend = append(trend, map[string]interface{}{
			"month": row.Month,
			"total": row.Total,
		})
	}
	return trend
}
