package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/ids"
	"bookwise/api/internal/middleware"
	"bookwise/api/internal/models"
)

type ratingRequest struct {
	Value   int     `json:"value" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	Value     int       `json:"value"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRatingResponse(rating models.Rating) ratingResponse {
	return ratingResponse{
		ID:        rating.ID,
		BookID:    rating.BookID,
		UserID:    rating.UserID,
		Value:     rating.Value,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

func (h HandlerSet) ListRatings(c *gin.Context) {
	ratings, err := h.ratings.ListByBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := make([]ratingResponse, 0, len(ratings))
	for _, rating := range ratings {
		resp = append(resp, toRatingResponse(rating))
	}
	c.JSON(http.StatusOK, gin.H{"ratings": resp})
}

func (h HandlerSet) CreateRating(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	rating := models.Rating{
		ID:      ids.New(),
		BookID:  c.Param("id"),
		UserID:  claims.UserID,
		Value:   req.Value,
		Comment: req.Comment,
	}
	if err := h.ratings.Create(c.Request.Context(), rating); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": toRatingResponse(rating)})
}

func (h HandlerSet) UpdateRating(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	rating, err := h.ratings.UpdateByUserAndBook(c.Request.Context(), models.Rating{
		BookID:  c.Param("id"),
		UserID:  claims.UserID,
		Value:   req.Value,
		Comment: req.Comment,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": toRatingResponse(rating)})
}
