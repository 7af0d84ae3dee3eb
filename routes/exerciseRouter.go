package routes

import (
	controller "golang-exercisetracker/controllers"

	"github.com/gin-gonic/gin"
)

func ExerciseRoutes(incomingRoutes *gin.RouterGroup, ec *controller.ExerciseController) {
	incomingRoutes.POST("/users/:_id/exercises", ec.AddExercise())
	incomingRoutes.GET("/users/:_id/logs", ec.GetLog())
}
