package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/service"
)

// UploadCover accepts a multipart form with a "file" field and stores the
// image in the covers bucket. The returned URL is meant to be persisted as a
// book, author or publisher image.
func (h HandlerSet) UploadCover(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "unreadable file payload")
		return
	}
	defer file.Close()

	result, err := h.uploads.UploadCover(c.Request.Context(), service.CoverUploadInput{
		File:   file,
		Header: fileHeader,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"objectKey": result.ObjectKey,
		"url":       result.URL,
		"sizeBytes": result.SizeBytes,
	})
}
