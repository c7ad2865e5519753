package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/middleware"
	"bookwise/api/internal/models"
	"bookwise/api/internal/service"
)

type signupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required"`
}

type userResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
	Role        string  `json:"role"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		AvatarURL:   user.AvatarURL,
	}
}

func (h HandlerSet) SignUp(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), service.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) SignIn(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.auth.SignIn(c.Request.Context(), service.SignInInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTTL)

	c.JSON(http.StatusOK, gin.H{
		"accessToken": result.AccessToken,
		"user":        toUserResponse(result.User),
	})
}

func (h HandlerSet) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.Security.RefreshCookie)
	if err != nil || refreshToken == "" {
		unauthorized(c, "missing refresh token")
		return
	}

	accessToken, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// SignOut revokes the session behind the refresh cookie. The cookie is
// cleared even when revocation fails so the client is never stuck signed in.
func (h HandlerSet) SignOut(c *gin.Context) {
	if refreshToken, err := c.Cookie(h.cfg.Security.RefreshCookie); err == nil && refreshToken != "" {
		if err := h.auth.SignOut(c.Request.Context(), refreshToken); err != nil {
			h.log.Warn().Err(err).Msg("sign-out revocation failed")
		}
	}

	h.setRefreshCookie(c, "", -time.Second)
	c.Status(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		serviceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) setRefreshCookie(c *gin.Context, value string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if value == "" {
		maxAge = -1
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.Security.RefreshCookie,
		Value:    value,
		Path:     h.cfg.Security.CookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
