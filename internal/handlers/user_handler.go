package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/jobtrack/internal/dtos"
	"github.com/justsurfingit/jobtrack/internal/services"
)

type UserHandler struct {
	Users UserRegistrar
}

func NewUserHandler(users UserRegistrar) *UserHandler {
	return &UserHandler{Users: users}
}

// Register is the POST /users endpoint. The returned id is what the gateway later
// forwards as X-User-ID.
func (h *UserHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password format"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		}
		return
	}

	user, err := h.Users.Register(c.Request.Context(), &req)
	if errors.Is(err, services.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{"id": user.ID, "email": user.Email},
	})
}
