package repository

import (
	"context"
	"errors"
	"fmt"

	"bookvault/internal/api/dto"
	"bookvault/internal/api/models"

	"gorm.io/gorm"
)

// ErrStaleBook reports that the compare-and-swap update matched no row: the
// book's version token changed (or the row was deleted) between read and
// commit. Callers surface this as a conflict, never as a generic failure.
var ErrStaleBook = errors.New("book row changed since it was read")

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, userID, bookID string) (*models.Book, error)
	List(ctx context.Context, userID string, filters dto.BookFilters) ([]models.Book, int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Book, error)
	UpdateWithVersion(ctx context.Context, book *models.Book, expectedToken string) error
	SoftDelete(ctx context.Context, userID, bookID string) error
	Genres(ctx context.Context, userID string) ([]string, error)
	Authors(ctx context.Context, userID string) ([]string, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// GetByID returns an owned, non-deleted book. Missing, soft-deleted and
// foreign rows are all gorm.ErrRecordNotFound to the caller.
func (r *bookRepository) GetByID(ctx context.Context, userID, bookID string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = false", bookID, userID).
		First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, userID string, filters dto.BookFilters) ([]models.Book, int64, error) {
	var books []models.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("user_id = ? AND is_deleted = false", userID)

	if filters.Genre != "" {
		query = query.Where("genre ILIKE ?", "%"+filters.Genre+"%")
	}
	if filters.Author != "" {
		query = query.Where("author ILIKE ?", "%"+filters.Author+"%")
	}
	if filters.Search != "" {
		p := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ? OR genre ILIKE ?", p, p, p)
	}
	if filters.MinRating != nil {
		query = query.Where("rating >= ?", *filters.MinRating)
	}
	if filters.MaxRating != nil {
		query = query.Where("rating <= ?", *filters.MaxRating)
	}
	if filters.PublishedAfter != nil {
		query = query.Where("published_date >= ?", *filters.PublishedAfter)
	}
	if filters.PublishedBefore != nil {
		query = query.Where("published_date <= ?", *filters.PublishedBefore)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filters.Page - 1) * filters.PageSize
	if err := query.
		Order(filters.OrderClause()).
		Limit(filters.PageSize).
		Offset(offset).
		Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// ListByUser returns the full non-deleted snapshot used by the aggregation
// functions.
func (r *bookRepository) ListByUser(ctx context.Context, userID string) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false", userID).
		Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// UpdateWithVersion persists field changes with a compare-and-swap on the
// version token. The book must already carry its new token and field values.
// With an empty expectedToken the swap condition is skipped (legacy callers
// that never observed a token).
func (r *bookRepository) UpdateWithVersion(ctx context.Context, book *models.Book, expectedToken string) error {
	query := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND user_id = ? AND is_deleted = false", book.ID, book.UserID)
	if expectedToken != "" {
		query = query.Where("version_token = ?", expectedToken)
	}

	result := query.Updates(map[string]interface{}{
		"title":          book.Title,
		"author":         book.Author,
		"genre":          book.Genre,
		"published_date": book.PublishedDate,
		"rating":         book.Rating,
		"version_token":  book.VersionToken,
		"updated_at":     book.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleBook
	}
	return nil
}

func (r *bookRepository) SoftDelete(ctx context.Context, userID, bookID string) error {
	result := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND user_id = ? AND is_deleted = false", bookID, userID).
		Update("is_deleted", true)
	if result.Error != nil {
		return fmt.Errorf("delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookRepository) Genres(ctx context.Context, userID string) ([]string, error) {
	var genres []string
	if err := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("user_id = ? AND is_deleted = false", userID).
		Distinct("genre").
		Order("genre").
		Pluck("genre", &genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *bookRepository) Authors(ctx context.Context, userID string) ([]string, error) {
	var authors []string
	if err := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("user_id = ? AND is_deleted = false", userID).
		Distinct("author").
		Order("author").
		Pluck("author", &authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}
