package api

import (
	"net/http"

	"gopkg.in/gin-gonic/gin.v1"

	"github.com/pulseboard/listening-backend/version"
)

func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": version.Version,
	})
}
