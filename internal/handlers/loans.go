package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/middleware"
	"bookwise/api/internal/models"
	"bookwise/api/internal/repository"
	"bookwise/api/internal/service"
)

type createLoanRequest struct {
	CopyID string `json:"copyId" binding:"required"`
	UserID string `json:"userId" binding:"required"`
	Days   int    `json:"days" binding:"omitempty,min=1,max=90"`
}

type loanResponse struct {
	ID         string     `json:"id"`
	CopyID     string     `json:"copyId"`
	UserID     string     `json:"userId"`
	Status     string     `json:"status"`
	BorrowedAt time.Time  `json:"borrowedAt"`
	DueAt      time.Time  `json:"dueAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
}

func toLoanResponse(loan models.Loan) loanResponse {
	return loanResponse{
		ID:         loan.ID,
		CopyID:     loan.CopyID,
		UserID:     loan.UserID,
		Status:     string(loan.Status),
		BorrowedAt: loan.BorrowedAt,
		DueAt:      loan.DueAt,
		ReturnedAt: loan.ReturnedAt,
	}
}

func loanListResponse(loans []models.Loan) []loanResponse {
	resp := make([]loanResponse, 0, len(loans))
	for _, loan := range loans {
		resp = append(resp, toLoanResponse(loan))
	}
	return resp
}

func (h HandlerSet) CreateLoan(c *gin.Context) {
	var req createLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	loan, err := h.circulation.Checkout(c.Request.Context(), service.CheckoutInput{
		CopyID: req.CopyID,
		UserID: req.UserID,
		Days:   req.Days,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"loan": toLoanResponse(loan)})
}

func (h HandlerSet) ReturnLoan(c *gin.Context) {
	loan, err := h.circulation.Return(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": toLoanResponse(loan)})
}

func (h HandlerSet) MarkLoanLost(c *gin.Context) {
	loan, err := h.circulation.MarkLost(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": toLoanResponse(loan)})
}

func (h HandlerSet) ListLoans(c *gin.Context) {
	limit, offset := pagination(c)

	loans, err := h.circulation.ListLoans(c.Request.Context(), repository.LoanFilter{
		UserID: c.Query("userId"),
		Status: models.LoanStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loanListResponse(loans)})
}

func (h HandlerSet) MyLoans(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		unauthorized(c, "missing credentials")
		return
	}

	limit, offset := pagination(c)

	loans, err := h.circulation.ListLoans(c.Request.Context(), repository.LoanFilter{
		UserID: claims.UserID,
		Status: models.LoanStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loanListResponse(loans)})
}
