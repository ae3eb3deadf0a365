package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GetSubject extracts the authenticated principal from the Gin context
func GetSubject(c *gin.Context) string {
	return c.GetString("subject")
}

// parseDay parses a calendar day in 2006-01-02 form
func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
