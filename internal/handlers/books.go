package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/ids"
	"bookwise/api/internal/models"
	"bookwise/api/internal/repository"
)

type bookRequest struct {
	Title         string   `json:"title" binding:"required"`
	ISBN          string   `json:"isbn" binding:"required"`
	Description   *string  `json:"description"`
	CoverURL      *string  `json:"coverUrl"`
	PublishedYear *int     `json:"publishedYear"`
	PageCount     *int     `json:"pageCount"`
	AuthorIDs     []string `json:"authorIds"`
	CategoryIDs   []string `json:"categoryIds"`
	PublisherIDs  []string `json:"publisherIds"`
}

type bookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ISBN          string    `json:"isbn"`
	Description   *string   `json:"description,omitempty"`
	CoverURL      *string   `json:"coverUrl,omitempty"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	PageCount     *int      `json:"pageCount,omitempty"`
	AuthorIDs     []string  `json:"authorIds"`
	CategoryIDs   []string  `json:"categoryIds"`
	PublisherIDs  []string  `json:"publisherIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type bookSummaryResponse struct {
	bookResponse
	TotalCopies     int      `json:"totalCopies"`
	AvailableCopies int      `json:"availableCopies"`
	AverageRating   *float64 `json:"averageRating,omitempty"`
}

func toBookResponse(book models.Book) bookResponse {
	return bookResponse{
		ID:            book.ID,
		Title:         book.Title,
		ISBN:          book.ISBN,
		Description:   book.Description,
		CoverURL:      book.CoverURL,
		PublishedYear: book.PublishedYear,
		PageCount:     book.PageCount,
		AuthorIDs:     book.AuthorIDs,
		CategoryIDs:   book.CategoryIDs,
		PublisherIDs:  book.PublisherIDs,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}

func (h HandlerSet) SearchBooks(c *gin.Context) {
	limit, offset := pagination(c)

	summaries, err := h.books.Search(c.Request.Context(), repository.BookSearch{
		Query:      c.Query("q"),
		AuthorID:   c.Query("authorId"),
		CategoryID: c.Query("categoryId"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := make([]bookSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp = append(resp, bookSummaryResponse{
			bookResponse:    toBookResponse(summary.Book),
			TotalCopies:     summary.TotalCopies,
			AvailableCopies: summary.AvailableCopies,
			AverageRating:   summary.AverageRating,
		})
	}
	c.JSON(http.StatusOK, gin.H{"books": resp})
}

func (h HandlerSet) GetBook(c *gin.Context) {
	book, err := h.books.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": toBookResponse(book)})
}

func (h HandlerSet) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	book := models.Book{
		ID:            ids.New(),
		Title:         req.Title,
		ISBN:          req.ISBN,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		PublishedYear: req.PublishedYear,
		PageCount:     req.PageCount,
		AuthorIDs:     req.AuthorIDs,
		CategoryIDs:   req.CategoryIDs,
		PublisherIDs:  req.PublisherIDs,
	}
	if err := h.books.Create(c.Request.Context(), book); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"book": toBookResponse(book)})
}

func (h HandlerSet) UpdateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	book := models.Book{
		ID:            c.Param("id"),
		Title:         req.Title,
		ISBN:          req.ISBN,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		PublishedYear: req.PublishedYear,
		PageCount:     req.PageCount,
		AuthorIDs:     req.AuthorIDs,
		CategoryIDs:   req.CategoryIDs,
		PublisherIDs:  req.PublisherIDs,
	}
	if err := h.books.Update(c.Request.Context(), book); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": toBookResponse(book)})
}

func (h HandlerSet) DeleteBook(c *gin.Context) {
	if err := h.books.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
