package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bookvault/internal/api/dto"
	"bookvault/internal/api/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// RegisterRoutes registers favorite-related routes
func (h *FavoriteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.GET("/popular", h.Popular)
	rg.GET("/check/:book_id", h.Check)
	rg.GET("/count/:book_id", h.Count)
	rg.DELETE("/:book_id", h.Remove)
	rg.PUT("/:book_id/notes", h.UpdateNotes)
}

// List retrieves the user's active favorites with their books
// GET /api/favorites?genre=&search=&sort_by=&descending=&page=&page_size=
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	filters := dto.FavoriteFilters{
		Genre:      c.Query("genre"),
		Search:     c.Query("search"),
		SortBy:     c.DefaultQuery("sort_by", "createdat"),
		Descending: c.DefaultQuery("descending", "true") == "true",
	}
	filters.Page, filters.PageSize = pagination(c, 10)

	favorites, err := h.favoriteService.List(c.Request.Context(), userID.(string), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// Add favorites a book. Re-favoriting an unfavorited book reactivates the
// existing row; favoriting an already-active one is a conflict.
// POST /api/favorites
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.AddFavoriteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorite, err := h.favoriteService.Add(c.Request.Context(), userID.(string), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrAlreadyFavorited):
			c.JSON(http.StatusConflict, gin.H{"error": "book is already in favorites"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// Remove unfavorites a book (flag flip, the row stays)
// DELETE /api/favorites/:book_id
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID.(string), c.Param("book_id")); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateNotes replaces the notes on an active favorite
// PUT /api/favorites/:book_id/notes
func (h *FavoriteHandler) UpdateNotes(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateFavoriteNotesDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorite, err := h.favoriteService.UpdateNotes(c.Request.Context(), userID.(string), c.Param("book_id"), req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, favorite)
}

// Check reports whether the user has an active favorite for a book
// GET /api/favorites/check/:book_id
func (h *FavoriteHandler) Check(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	isFavorite, err := h.favoriteService.IsFavorited(c.Request.Context(), userID.(string), c.Param("book_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_favorite": isFavorite})
}

// Count returns the number of active favorites on a book across all users
// GET /api/favorites/count/:book_id
func (h *FavoriteHandler) Count(c *gin.Context) {
	count, err := h.favoriteService.CountForBook(c.Request.Context(), c.Param("book_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorite_count": count})
}

// Popular ranks the user's books by active favorite count
// GET /api/favorites/popular?limit=&genre=
func (h *FavoriteHandler) Popular(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	books, err := h.favoriteService.PopularBooks(c.Request.Context(), userID.(string), c.Query("genre"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, books)
}
