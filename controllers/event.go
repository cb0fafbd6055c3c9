package controllers

import (
	"net/http"
	"strconv"
	"time"

	"faculty-portal-api/config"
	"faculty-portal-api/models"
	"faculty-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetEvents lists events and news items for the portal front page.
func GetEvents(c *gin.Context) {
	eventType := c.Query("type")
	status := c.Query("status")
	activeOnly := c.Query("active_only") == "true"

	query := config.DB.Model(&models.Event{}).
		Preload("Creator").
		Where("delete_at IS NULL")

	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if activeOnly {
		query = query.Where("status = ?", "active")
	}

	// display_order first (NULLs last), then most recently published.
	query = query.
		Order("display_order IS NULL, display_order ASC").
		Order("COALESCE(published_at, update_at) DESC")

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"events":  events,
		"total":   len(events),
	})
}

// GetEvent returns a single event or news item.
func GetEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil || eventID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := config.DB.Preload("Creator").
		Where("event_id = ? AND delete_at IS NULL", eventID).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
}

type eventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	EventType   string     `json:"event_type" binding:"required,oneof=event news"`
	Location    *string    `json:"location"`
	EventDate   *time.Time `json:"event_date"`
	Status      string     `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CreateEvent publishes an event or news item (admin only via route).
func CreateEvent(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	now := time.Now()
	event := models.Event{
		Title:       utils.SanitizeInput(req.Title),
		Description: utils.SanitizeInput(req.Description),
		EventType:   req.EventType,
		Location:    req.Location,
		EventDate:   req.EventDate,
		Status:      status,
		CreatedBy:   userID,
		PublishedAt: &now,
		CreateAt:    &now,
	}

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "event": event})
}

// UpdateEvent edits an event or news item (admin only via route).
func UpdateEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil || eventID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid event ID"})
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var event models.Event
	if err := config.DB.Where("event_id = ? AND delete_at IS NULL", eventID).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"title":       utils.SanitizeInput(req.Title),
		"description": utils.SanitizeInput(req.Description),
		"event_type":  req.EventType,
		"location":    req.Location,
		"event_date":  req.EventDate,
		"update_at":   now,
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := config.DB.Model(&event).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
}

// DeleteEvent soft-deletes an event or news item (admin only via route).
func DeleteEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil || eventID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid event ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Event{}).
		Where("event_id = ? AND delete_at IS NULL", eventID).
		Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete event"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event deleted"})
}
