package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorEnvelope struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: msg})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
