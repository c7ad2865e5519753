package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/middleware"
	"bookwise/api/internal/models"
)

type sessionResponse struct {
	ID           string    `json:"id"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	DeviceLabel  *string   `json:"device,omitempty"`
	OSLabel      *string   `json:"os,omitempty"`
	BrowserLabel *string   `json:"browser,omitempty"`
	Revoked      bool      `json:"revoked"`
	Current      bool      `json:"current"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toSessionResponse(session models.Session, currentID string) sessionResponse {
	return sessionResponse{
		ID:           session.ID,
		IPAddress:    session.IPAddress,
		UserAgent:    session.UserAgent,
		DeviceLabel:  session.DeviceLabel,
		OSLabel:      session.OSLabel,
		BrowserLabel: session.BrowserLabel,
		Revoked:      session.Revoked,
		Current:      session.ID == currentID,
		ExpiresAt:    session.ExpiresAt,
		CreatedAt:    session.CreatedAt,
	}
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	sessions, err := h.auth.ListSessions(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, toSessionResponse(session, claims.SessionID))
	}

	c.JSON(http.StatusOK, gin.H{"sessions": resp})
}

func (h HandlerSet) RevokeSession(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	if err := h.auth.RevokeSessionByID(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
