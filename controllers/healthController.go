package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"golang-exercisetracker/apperror"
	"golang-exercisetracker/views"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports 200 when the store answers a ping within timeout.
func Health(store Pinger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Warn("health check failed", slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, apperror.ErrorResponse{Error: "Store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Index serves the landing page with the registration and logging forms.
func Index() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", views.IndexHTML)
	}
}
