package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/ids"
	"bookwise/api/internal/models"
)

type copyRequest struct {
	Barcode   string `json:"barcode" binding:"required"`
	Status    string `json:"status"`
	Condition string `json:"condition"`
}

type copyResponse struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	Barcode   string    `json:"barcode"`
	Status    string    `json:"status"`
	Condition string    `json:"condition"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCopyResponse(copy models.BookCopy) copyResponse {
	return copyResponse{
		ID:        copy.ID,
		BookID:    copy.BookID,
		Barcode:   copy.Barcode,
		Status:    string(copy.Status),
		Condition: string(copy.Condition),
		CreatedAt: copy.CreatedAt,
		UpdatedAt: copy.UpdatedAt,
	}
}

var copyStatuses = map[models.CopyStatus]bool{
	models.CopyStatusAvailable:   true,
	models.CopyStatusLoaned:      true,
	models.CopyStatusReserved:    true,
	models.CopyStatusLost:        true,
	models.CopyStatusMaintenance: true,
}

var copyConditions = map[models.CopyCondition]bool{
	models.CopyConditionNew:     true,
	models.CopyConditionGood:    true,
	models.CopyConditionWorn:    true,
	models.CopyConditionDamaged: true,
}

func (h HandlerSet) ListCopies(c *gin.Context) {
	copies, err := h.copies.ListByBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := make([]copyResponse, 0, len(copies))
	for _, copy := range copies {
		resp = append(resp, toCopyResponse(copy))
	}
	c.JSON(http.StatusOK, gin.H{"copies": resp})
}

func (h HandlerSet) GetCopy(c *gin.Context) {
	copy, err := h.copies.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copy": toCopyResponse(copy)})
}

func (h HandlerSet) CreateCopy(c *gin.Context) {
	var req copyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	// New copies start AVAILABLE unless explicitly placed elsewhere.
	status := models.CopyStatusAvailable
	if req.Status != "" {
		status = models.CopyStatus(req.Status)
		if !copyStatuses[status] {
			badRequest(c, "unknown copy status")
			return
		}
	}
	condition := models.CopyConditionGood
	if req.Condition != "" {
		condition = models.CopyCondition(req.Condition)
		if !copyConditions[condition] {
			badRequest(c, "unknown copy condition")
			return
		}
	}

	copy := models.BookCopy{
		ID:        ids.New(),
		BookID:    c.Param("id"),
		Barcode:   req.Barcode,
		Status:    status,
		Condition: condition,
	}
	if err := h.copies.Create(c.Request.Context(), copy); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"copy": toCopyResponse(copy)})
}

func (h HandlerSet) UpdateCopy(c *gin.Context) {
	var req copyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	copy, err := h.copies.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	copy.Barcode = req.Barcode
	if req.Status != "" {
		status := models.CopyStatus(req.Status)
		if !copyStatuses[status] {
			badRequest(c, "unknown copy status")
			return
		}
		copy.Status = status
	}
	if req.Condition != "" {
		condition := models.CopyCondition(req.Condition)
		if !copyConditions[condition] {
			badRequest(c, "unknown copy condition")
			return
		}
		copy.Condition = condition
	}

	if err := h.copies.Update(c.Request.Context(), copy); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copy": toCopyResponse(copy)})
}

func (h HandlerSet) DeleteCopy(c *gin.Context) {
	copyID := c.Param("id")

	if err := h.circulation.DeleteGuard(c.Request.Context(), copyID); err != nil {
		serviceError(c, err)
		return
	}
	if err := h.copies.Delete(c.Request.Context(), copyID); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
