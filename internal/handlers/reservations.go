package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/middleware"
	"bookwise/api/internal/models"
)

type createReservationRequest struct {
	BookID string `json:"bookId" binding:"required"`
}

type reservationResponse struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toReservationResponse(reservation models.Reservation) reservationResponse {
	return reservationResponse{
		ID:        reservation.ID,
		BookID:    reservation.BookID,
		UserID:    reservation.UserID,
		Status:    string(reservation.Status),
		CreatedAt: reservation.CreatedAt,
		ExpiresAt: reservation.ExpiresAt,
	}
}

func reservationListResponse(reservations []models.Reservation) []reservationResponse {
	resp := make([]reservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		resp = append(resp, toReservationResponse(reservation))
	}
	return resp
}

func staffRole(role string) bool {
	r := models.UserRole(role)
	return r == models.UserRoleAdmin || r == models.UserRoleLibrarian
}

func (h HandlerSet) CreateReservation(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	reservation, err := h.circulation.Reserve(c.Request.Context(), claims.UserID, req.BookID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": toReservationResponse(reservation)})
}

func (h HandlerSet) CancelReservation(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	err := h.circulation.CancelReservation(c.Request.Context(), c.Param("id"), claims.UserID, staffRole(claims.Role))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) MyReservations(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	reservations, err := h.circulation.ListReservationsByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservationListResponse(reservations)})
}

func (h HandlerSet) ListReservations(c *gin.Context) {
	if bookID := c.Query("bookId"); bookID != "" {
		reservations, err := h.circulation.ListReservationsByBook(c.Request.Context(), bookID)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": reservationListResponse(reservations)})
		return
	}

	userID := c.Query("userId")
	if userID == "" {
		badRequest(c, "bookId or userId query parameter required")
		return
	}
	reservations, err := h.circulation.ListReservationsByUser(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservationListResponse(reservations)})
}
