package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pagination reads perPage/page query params with sane bounds.
func pagination(c *gin.Context) (limit int, offset int) {
	limit = 50
	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}
