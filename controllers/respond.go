package controllers

import (
	"github.com/gin-gonic/gin"

	"golang-exercisetracker/apperror"
)

// respondError renders err as {"error": message} with its mapped status and
// attaches the full error to the context for the request logger.
func respondError(c *gin.Context, err error) {
	appErr := apperror.FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.StatusCode(), appErr.ToResponse())
}
