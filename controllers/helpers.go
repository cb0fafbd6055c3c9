package controllers

import (
	"errors"
	"net/http"

	"faculty-portal-api/services"

	"github.com/gin-gonic/gin"
)

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok {
			return id, true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		if id, ok := v.(int); ok {
			return id, true
		}
	}
	return 0, false
}

// currentActor rebuilds the services.Actor resolved by the auth middleware.
func currentActor(c *gin.Context) (services.Actor, bool) {
	userID, okUser := getCurrentUserID(c)
	roleID, okRole := getCurrentRoleID(c)
	if !okUser || !okRole {
		return services.Actor{}, false
	}

	actor := services.Actor{ID: userID, RoleID: roleID}
	if v, ok := c.Get("departmentID"); ok {
		if deptID, ok := v.(int); ok {
			actor.DepartmentID = &deptID
		}
	}
	return actor, true
}

// respondServiceError maps the services error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}
