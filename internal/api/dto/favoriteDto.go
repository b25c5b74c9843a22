package dto

import (
	"strings"
	"time"

	"bookvault/internal/api/models"
)

// AddFavoriteDTO for favoriting a book. Notes always overwrite on a
// reactivation, including an omitted/empty value.
type AddFavoriteDTO struct {
	BookID string  `json:"book_id" binding:"required,uuid"`
	Notes  *string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// UpdateFavoriteNotesDTO for replacing the notes on an active favorite
type UpdateFavoriteNotesDTO struct {
	Notes *string `json:"notes" binding:"omitempty,max=1000"`
}

// FavoriteFilters carries list-endpoint query parameters into the repository.
type FavoriteFilters struct {
	Genre      string
	Search     string
	SortBy     string
	Descending bool
	Page       int
	PageSize   int
}

// OrderClause maps the requested sort key onto a whitelisted, table-qualified
// column. Unknown keys fall back to the favorite's creation time.
func (f FavoriteFilters) OrderClause() string {
	column := "favorites.created_at"
	switch strings.ToLower(f.SortBy) {
	case "title":
		column = "books.title"
	case "author":
		column = "books.author"
	case "rating":
		column = "books.rating"
	case "updatedat":
		column = "favorites.updated_at"
	}
	if f.Descending {
		return column + " DESC"
	}
	return column + " ASC"
}

// FavoriteResponse for returning favorite information with its book
type FavoriteResponse struct {
	ID        string        `json:"id"`
	BookID    string        `json:"book_id"`
	Book      *BookResponse `json:"book,omitempty"`
	Notes     *string       `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// FromModelToFavoriteResponse converts a Favorite model to FavoriteResponse DTO
func FromModelToFavoriteResponse(favorite *models.Favorite) *FavoriteResponse {
	resp := &FavoriteResponse{
		ID:        favorite.ID,
		BookID:    favorite.BookID,
		Notes:     favorite.Notes,
		CreatedAt: favorite.CreatedAt,
		UpdatedAt: favorite.UpdatedAt,
	}
	if favorite.Book != nil {
		resp.Book = FromModelToBookResponse(favorite.Book)
	}
	return resp
}

// PaginatedFavoritesResponse for returning paginated favorite lists
type PaginatedFavoritesResponse struct {
	Data       []FavoriteResponse `json:"data"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	Total      int                `json:"total"`
	TotalPages int                `json:"total_pages"`
}

// NewPaginatedFavoritesResponse creates a paginated favorites response
func NewPaginatedFavoritesResponse(data []FavoriteResponse, total, page, pageSize int) *PaginatedFavoritesResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedFavoritesResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// PopularBookRow is scanned straight from the popularity query: the user's
// books ranked by active favorite count across all users.
type PopularBookRow struct {
	BookID          string `json:"book_id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	Rating          int    `json:"rating"`
	FavoriteCount   int64  `json:"favorite_count"`
	FavoritedByUser bool   `json:"favorited_by_user"`
}
