package dto

import (
	"strings"
	"time"

	"bookvault/internal/api/models"
)

// CreateBookDTO for adding a book to the catalog
type CreateBookDTO struct {
	Title         string    `json:"title" binding:"required,min=1,max=500"`
	Author        string    `json:"author" binding:"required,min=1,max=300"`
	Genre         string    `json:"genre" binding:"required,min=1,max=100"`
	PublishedDate time.Time `json:"published_date" binding:"required"`
	Rating        int       `json:"rating" binding:"required,min=1,max=5"`
}

// UpdateBookDTO for editing a book. VersionToken is the token the caller last
// observed; omitting it skips the optimistic check (legacy behavior).
type UpdateBookDTO struct {
	Title         string    `json:"title" binding:"required,min=1,max=500"`
	Author        string    `json:"author" binding:"required,min=1,max=300"`
	Genre         string    `json:"genre" binding:"required,min=1,max=100"`
	PublishedDate time.Time `json:"published_date" binding:"required"`
	Rating        int       `json:"rating" binding:"required,min=1,max=5"`
	VersionToken  string    `json:"version_token,omitempty"`
}

// BookFilters carries list-endpoint query parameters into the repository.
type BookFilters struct {
	Genre           string
	Author          string
	Search          string
	MinRating       *int
	MaxRating       *int
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	SortBy          string
	Descending      bool
	Page            int
	PageSize        int
}

// OrderClause maps the requested sort key onto a whitelisted column. Unknown
// keys fall back to title.
func (f BookFilters) OrderClause() string {
	column := "title"
	switch strings.ToLower(f.SortBy) {
	case "author":
		column = "author"
	case "genre":
		column = "genre"
	case "publisheddate":
		column = "published_date"
	case "rating":
		column = "rating"
	case "createdat":
		column = "created_at"
	}
	if f.Descending {
		return column + " DESC"
	}
	return column + " ASC"
}

// BookResponse for returning book information
type BookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	PublishedDate time.Time `json:"published_date"`
	Rating        int       `json:"rating"`
	VersionToken  string    `json:"version_token"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModelToBookResponse converts a Book model to BookResponse DTO
func FromModelToBookResponse(book *models.Book) *BookResponse {
	return &BookResponse{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		Genre:         book.Genre,
		PublishedDate: book.PublishedDate,
		Rating:        book.Rating,
		VersionToken:  book.VersionToken,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}

// PaginatedBooksResponse for returning paginated book lists
type PaginatedBooksResponse struct {
	Data       []BookResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// NewPaginatedBooksResponse creates a paginated books response
func NewPaginatedBooksResponse(data []BookResponse, total, page, pageSize int) *PaginatedBooksResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedBooksResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
