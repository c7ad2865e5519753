package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/ids"
	"bookwise/api/internal/models"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toCategoryResponse(category models.Category) categoryResponse {
	return categoryResponse{ID: category.ID, Name: category.Name, Slug: category.Slug}
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func (h HandlerSet) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, toCategoryResponse(category))
	}
	c.JSON(http.StatusOK, gin.H{"categories": resp})
}

func (h HandlerSet) GetCategory(c *gin.Context) {
	category, err := h.categories.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": toCategoryResponse(category)})
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	category := models.Category{
		ID:   ids.New(),
		Name: req.Name,
		Slug: slug,
	}
	if err := h.categories.Create(c.Request.Context(), category); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": toCategoryResponse(category)})
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	category := models.Category{
		ID:   c.Param("id"),
		Name: req.Name,
		Slug: slug,
	}
	if err := h.categories.Update(c.Request.Context(), category); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": toCategoryResponse(category)})
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
