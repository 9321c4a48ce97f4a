package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"slidecast-backend/internal/models"
)

// Ping godoc
// @Summary     Liveness probe
// @Description Answers with the plain text body "Pong"
// @Tags        health
// @Produce     plain
// @Success     200 {string} string "Pong"
// @Router      /ping [get]
func Ping(c *gin.Context) {
	c.String(http.StatusOK, "Pong")
}

// HealthHandler godoc
// @Summary     Health check
// @Description Returns the health status of the API
// @Tags        health
// @Accept      json
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func HealthHandler(c *gin.Context) {
	response := models.HealthResponse{
		Status: "ok",
	}
	c.JSON(http.StatusOK, response)
}
