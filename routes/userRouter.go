package routes

import (
	controller "golang-exercisetracker/controllers"

	"github.com/gin-gonic/gin"
)

func UserRoutes(incomingRoutes *gin.RouterGroup, uc *controller.UserController) {
	incomingRoutes.POST("/users", uc.CreateUser())
	incomingRoutes.GET("/users", uc.GetUsers())
}
