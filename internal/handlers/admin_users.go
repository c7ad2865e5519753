package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/models"
	"bookwise/api/internal/service"
)

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	limit, offset := pagination(c)

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	c.JSON(http.StatusOK, gin.H{"users": resp})
}

type adminUpdateUserRequest struct {
	Email       string `json:"email" binding:"omitempty,email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

func (h HandlerSet) AdminUpdateUser(c *gin.Context) {
	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	role := models.UserRole(req.Role)
	if req.Role != "" && !models.ValidRole(role) {
		badRequest(c, "unknown role")
		return
	}

	user, err := h.auth.AdminUpdateUser(c.Request.Context(), service.AdminUpdateUserInput{
		UserID:      c.Param("id"),
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        role,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) AdminDeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
