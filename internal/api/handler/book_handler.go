package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookvault/internal/api/dto"
	"bookvault/internal/api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	bookService service.BookService
}

func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// RegisterRoutes registers book-related routes
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/genres", h.Genres)
	rg.GET("/authors", h.Authors)
	rg.GET("/:book_id", h.Get)
	rg.PUT("/:book_id", h.Update)
	rg.DELETE("/:book_id", h.Delete)
}

// List retrieves the user's books with filtering, sorting and pagination
// GET /api/books?genre=&author=&search=&min_rating=&max_rating=&sort_by=&descending=&page=&page_size=
func (h *BookHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	filters := dto.BookFilters{
		Genre:      c.Query("genre"),
		Author:     c.Query("author"),
		Search:     c.Query("search"),
		SortBy:     c.DefaultQuery("sort_by", "title"),
		Descending: c.Query("descending") == "true",
	}
	if v, err := strconv.Atoi(c.Query("min_rating")); err == nil {
		filters.MinRating = &v
	}
	if v, err := strconv.Atoi(c.Query("max_rating")); err == nil {
		filters.MaxRating = &v
	}
	if t, err := time.Parse(time.RFC3339, c.Query("published_after")); err == nil {
		filters.PublishedAfter = &t
	}
	if t, err := time.Parse(time.RFC3339, c.Query("published_before")); err == nil {
		filters.PublishedBefore = &t
	}
	filters.Page, filters.PageSize = pagination(c, 10)

	books, err := h.bookService.List(c.Request.Context(), userID.(string), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, books)
}

// Get retrieves a single book
// GET /api/books/:book_id
func (h *BookHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), userID.(string), c.Param("book_id"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, book)
}

// Create adds a book to the catalog
// POST /api/books
func (h *BookHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateBookDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, book)
}

// Update edits a book under optimistic concurrency control. A stale version
// token yields 409: the caller refreshes and retries, nothing is merged.
// PUT /api/books/:book_id
func (h *BookHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateBookDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.Update(c.Request.Context(), userID.(string), c.Param("book_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrVersionConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "the book has been modified by another request, refresh and try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, book)
}

// Delete soft-deletes a book
// DELETE /api/books/:book_id
func (h *BookHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), userID.(string), c.Param("book_id")); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Genres lists the user's distinct genres
// GET /api/books/genres
func (h *BookHandler) Genres(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	genres, err := h.bookService.Genres(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, genres)
}

// Authors lists the user's distinct authors
// GET /api/books/authors
func (h *BookHandler) Authors(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	authors, err := h.bookService.Authors(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, authors)
}

// pagination reads page/page_size query params with sane bounds.
func pagination(c *gin.Context, defaultSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultSize
	}
	return page, pageSize
}
