package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"golang-exercisetracker/apperror"
	"golang-exercisetracker/models"
)

type UserRegistry interface {
	Create(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type UserController struct {
	users UserRegistry
}

func NewUserController(users UserRegistry) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) CreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateUserRequest
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, apperror.NewValidationError("Invalid input", err))
			return
		}

		user, err := uc.users.Create(c.Request.Context(), req.Username)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func (uc *UserController) GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := uc.users.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, users)
	}
}
