package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/ids"
	"bookwise/api/internal/models"
)

type authorRequest struct {
	Name     string  `json:"name" binding:"required"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"imageUrl"`
}

type authorResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Bio      *string `json:"bio,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

func toAuthorResponse(author models.Author) authorResponse {
	return authorResponse{
		ID:       author.ID,
		Name:     author.Name,
		Bio:      author.Bio,
		ImageURL: author.ImageURL,
	}
}

func (h HandlerSet) ListAuthors(c *gin.Context) {
	limit, offset := pagination(c)

	authors, err := h.authors.List(c.Request.Context(), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := make([]authorResponse, 0, len(authors))
	for _, author := range authors {
		resp = append(resp, toAuthorResponse(author))
	}
	c.JSON(http.StatusOK, gin.H{"authors": resp})
}

func (h HandlerSet) GetAuthor(c *gin.Context) {
	author, err := h.authors.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": toAuthorResponse(author)})
}

func (h HandlerSet) CreateAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	author := models.Author{
		ID:       ids.New(),
		Name:     req.Name,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	}
	if err := h.authors.Create(c.Request.Context(), author); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"author": toAuthorResponse(author)})
}

func (h HandlerSet) UpdateAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	author := models.Author{
		ID:       c.Param("id"),
		Name:     req.Name,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	}
	if err := h.authors.Update(c.Request.Context(), author); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": toAuthorResponse(author)})
}

func (h HandlerSet) DeleteAuthor(c *gin.Context) {
	if err := h.authors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
