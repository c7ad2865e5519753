package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/ids"
	"bookwise/api/internal/models"
)

type publisherRequest struct {
	Name     string  `json:"name" binding:"required"`
	Website  *string `json:"website"`
	ImageURL *string `json:"imageUrl"`
}

type publisherResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Website  *string `json:"website,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

func toPublisherResponse(publisher models.Publisher) publisherResponse {
	return publisherResponse{
		ID:       publisher.ID,
		Name:     publisher.Name,
		Website:  publisher.Website,
		ImageURL: publisher.ImageURL,
	}
}

func (h HandlerSet) ListPublishers(c *gin.Context) {
	limit, offset := pagination(c)

	publishers, err := h.publishers.List(c.Request.Context(), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := make([]publisherResponse, 0, len(publishers))
	for _, publisher := range publishers {
		resp = append(resp, toPublisherResponse(publisher))
	}
	c.JSON(http.StatusOK, gin.H{"publishers": resp})
}

func (h HandlerSet) GetPublisher(c *gin.Context) {
	publisher, err := h.publishers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publisher": toPublisherResponse(publisher)})
}

func (h HandlerSet) CreatePublisher(c *gin.Context) {
	var req publisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	publisher := models.Publisher{
		ID:       ids.New(),
		Name:     req.Name,
		Website:  req.Website,
		ImageURL: req.ImageURL,
	}
	if err := h.publishers.Create(c.Request.Context(), publisher); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"publisher": toPublisherResponse(publisher)})
}

func (h HandlerSet) UpdatePublisher(c *gin.Context) {
	var req publisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	publisher := models.Publisher{
		ID:       c.Param("id"),
		Name:     req.Name,
		Website:  req.Website,
		ImageURL: req.ImageURL,
	}
	if err := h.publishers.Update(c.Request.Context(), publisher); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publisher": toPublisherResponse(publisher)})
}

func (h HandlerSet) DeletePublisher(c *gin.Context) {
	if err := h.publishers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
