package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetEmployeeID extracts the employee ID from the Gin context
func GetEmployeeID(c *gin.Context) *uuid.UUID {
	value, exists := c.Get("employee_id")
	if !exists {
		return nil
	}
	employeeID, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &employeeID
}

// GetEmployeeRole extracts the employee role from the Gin context
func GetEmployeeRole(c *gin.Context) string {
	role, exists := c.Get("employee_role")
	if !exists {
		return ""
	}
	return role.(string)
}
