package repository

import (
	"context"
	"errors"
	"fmt"

	"bookvault/internal/api/dto"
	"bookvault/internal/api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is SQLSTATE 23505. A concurrent insert racing on the
// (user_id, book_id) unique index lands here instead of as a generic failure.
const pgUniqueViolation = "23505"

// ErrDuplicateFavorite reports that a favorite row for the (user, book) pair
// already exists, detected either up front or at commit by the unique index.
var ErrDuplicateFavorite = errors.New("favorite already exists for this user and book")

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *models.Favorite) error
	Update(ctx context.Context, favorite *models.Favorite) error
	GetByUserAndBook(ctx context.Context, userID, bookID string) (*models.Favorite, error)
	GetActive(ctx context.Context, userID, bookID string) (*models.Favorite, error)
	List(ctx context.Context, userID string, filters dto.FavoriteFilters) ([]models.Favorite, int64, error)
	IsFavorited(ctx context.Context, userID, bookID string) (bool, error)
	CountActiveByBook(ctx context.Context, bookID string) (int64, error)
	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	PopularBooks(ctx context.Context, userID, genre string, limit int) ([]dto.PopularBookRow, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateFavorite
		}
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Update(ctx context.Context, favorite *models.Favorite) error {
	if err := r.db.WithContext(ctx).Save(favorite).Error; err != nil {
		return fmt.Errorf("update favorite: %w", err)
	}
	return nil
}

// GetByUserAndBook returns the row in any state; the state machine needs to
// see inactive rows to reactivate them.
func (r *favoriteRepository) GetByUserAndBook(ctx context.Context, userID, bookID string) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&favorite).Error; err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *favoriteRepository) GetActive(ctx context.Context, userID, bookID string) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND book_id = ? AND is_active = true", userID, bookID).
		First(&favorite).Error; err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *favoriteRepository) List(ctx context.Context, userID string, filters dto.FavoriteFilters) ([]models.Favorite, int64, error) {
	var favorites []models.Favorite
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Joins("JOIN books ON books.id = favorites.book_id").
		Where("favorites.user_id = ? AND favorites.is_active = true AND books.is_deleted = false", userID)

	if filters.Genre != "" {
		query = query.Where("books.genre ILIKE ?", "%"+filters.Genre+"%")
	}
	if filters.Search != "" {
		p := "%" + filters.Search + "%"
		query = query.Where("books.title ILIKE ? OR books.author ILIKE ? OR COALESCE(favorites.notes, '') ILIKE ?", p, p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filters.Page - 1) * filters.PageSize
	if err := query.
		Preload("Book").
		Order(filters.OrderClause()).
		Limit(filters.PageSize).
		Offset(offset).
		Find(&favorites).Error; err != nil {
		return nil, 0, err
	}

	return favorites, total, nil
}

func (r *favoriteRepository) IsFavorited(ctx context.Context, userID, bookID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND book_id = ? AND is_active = true", userID, bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActiveByBook counts active favorites across all users, for the book's
// popularity display. Inactive rows never count.
func (r *favoriteRepository) CountActiveByBook(ctx context.Context, bookID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("book_id = ? AND is_active = true", bookID).
		Count(&count).Error
	return count, err
}

func (r *favoriteRepository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND is_active = true", userID).
		Count(&count).Error
	return count, err
}

func (r *favoriteRepository) PopularBooks(ctx context.Context, userID, genre string, limit int) ([]dto.PopularBookRow, error) {
	var rows []dto.PopularBookRow

	query := r.db.WithContext(ctx).Table("books").
		Select(`books.id AS book_id, books.title, books.author, books.genre, books.rating,
			COUNT(favorites.id) AS favorite_count,
			COALESCE(BOOL_OR(favorites.user_id = ?), false) AS favorited_by_user`, userID).
		Joins("LEFT JOIN favorites ON favorites.book_id = books.id AND favorites.is_active = true").
		Where("books.user_id = ? AND books.is_deleted = false", userID)

	if genre != "" {
		query = query.Where("LOWER(books.genre) = LOWER(?)", genre)
	}

	if err := query.
		Group("books.id, books.title, books.author, books.genre, books.rating").
		Order("favorite_count DESC, books.rating DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("popular books: %w", err)
	}

	return rows, nil
}
