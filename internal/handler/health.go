package handler

import (
	"net/http"
	"time"

	"translator-go/internal/version"

	"github.com/gin-gonic/gin"
)

// Health handles health check requests.
// GET /health
func (s *Server) Health(c *gin.Context) {
	healthStatus := gin.H{
		"status":    "healthy",
		"version":   version.Version,
		"timestamp": time.Now().Format(time.RFC3339),
		"keys":      s.Pool.Size(),
	}

	if startTime, exists := c.Get("serverStartTime"); exists {
		if st, ok := startTime.(time.Time); ok {
			healthStatus["uptime"] = time.Since(st).String()
		}
	}

	c.JSON(http.StatusOK, healthStatus)
}
