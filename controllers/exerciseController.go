package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"golang-exercisetracker/apperror"
	"golang-exercisetracker/models"
	"golang-exercisetracker/services"
)

type ExerciseLog interface {
	AddExercise(ctx context.Context, in services.AddExerciseInput) (models.ExerciseResponse, error)
	GetLog(ctx context.Context, in services.LogInput) (models.LogResponse, error)
}

type ExerciseController struct {
	exercises ExerciseLog
}

func NewExerciseController(exercises ExerciseLog) *ExerciseController {
	return &ExerciseController{exercises: exercises}
}

func (ec *ExerciseController) AddExercise() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddExerciseRequest
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, apperror.NewValidationError("Invalid input", err))
			return
		}

		res, err := ec.exercises.AddExercise(c.Request.Context(), services.AddExerciseInput{
			UserID:      c.Param("_id"),
			Description: req.Description,
			Duration:    req.Duration.String(),
			Date:        req.Date,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

func (ec *ExerciseController) GetLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.LogQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondError(c, apperror.NewValidationError("Invalid query", err))
			return
		}

		res, err := ec.exercises.GetLog(c.Request.Context(), services.LogInput{
			UserID: c.Param("_id"),
			From:   q.From,
			To:     q.To,
			Limit:  q.Limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}
