package service

import (
	"context"
	"errors"
	"time"

	"bookvault/internal/api/cache"
	"bookvault/internal/api/dto"
	"bookvault/internal/api/models"
	"bookvault/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyFavorited = errors.New("book is already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// FavoriteService runs the favorite lifecycle: Absent -> Active -> Inactive
// and back to Active on a re-favorite. Removal flips the flag instead of
// deleting, so the single (user, book) row carries the whole history and a
// re-favorite can never collide with the unique index.
type FavoriteService interface {
	Add(ctx context.Context, userID string, req dto.AddFavoriteDTO) (*dto.FavoriteResponse, error)
	Remove(ctx context.Context, userID, bookID string) error
	UpdateNotes(ctx context.Context, userID, bookID string, notes *string) (*dto.FavoriteResponse, error)
	IsFavorited(ctx context.Context, userID, bookID string) (bool, error)
	CountForBook(ctx context.Context, bookID string) (int64, error)
	List(ctx context.Context, userID string, filters dto.FavoriteFilters) (*dto.PaginatedFavoritesResponse, error)
	PopularBooks(ctx context.Context, userID, genre string, limit int) ([]dto.PopularBookRow, error)
}

type favoriteService struct {
	favoriteRepo   repository.FavoriteRepository
	bookRepo       repository.BookRepository
	analyticsCache *cache.AnalyticsCache
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	bookRepo repository.BookRepository,
	analyticsCache *cache.AnalyticsCache,
) FavoriteService {
	return &favoriteService{
		favoriteRepo:   favoriteRepo,
		bookRepo:       bookRepo,
		analyticsCache: analyticsCache,
	}
}

// Add favorites a book. A soft-deleted or foreign book is not found. An
// existing active row is a conflict; an inactive row is reactivated and its
// notes overwritten with the supplied value, empty included.
func (s *favoriteService) Add(ctx context.Context, userID string, req dto.AddFavoriteDTO) (*dto.FavoriteResponse, error) {
	if _, err := s.bookRepo.GetByID(ctx, userID, req.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	existing, err := s.favoriteRepo.GetByUserAndBook(ctx, userID, req.BookID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.IsActive {
			return nil, ErrAlreadyFavorited
		}
		// Reactivate the existing row rather than inserting a duplicate
		existing.IsActive = true
		existing.Notes = req.Notes
		existing.UpdatedAt = time.Now().UTC()
		if err := s.favoriteRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		favorite := &models.Favorite{
			UserID:   userID,
			BookID:   req.BookID,
			Notes:    req.Notes,
			IsActive: true,
		}
		if err := s.favoriteRepo.Create(ctx, favorite); err != nil {
			// A concurrent Add won the insert race on the unique index
			if errors.Is(err, repository.ErrDuplicateFavorite) {
				return nil, ErrAlreadyFavorited
			}
			return nil, err
		}
	}

	s.analyticsCache.Invalidate(ctx, userID)

	// Reload with the book attached for the response
	favorite, err := s.favoriteRepo.GetActive(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToFavoriteResponse(favorite), nil
}

// Remove transitions an active favorite to inactive. The row stays.
func (s *favoriteService) Remove(ctx context.Context, userID, bookID string) error {
	favorite, err := s.favoriteRepo.GetActive(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}

	favorite.IsActive = false
	favorite.UpdatedAt = time.Now().UTC()
	if err := s.favoriteRepo.Update(ctx, favorite); err != nil {
		return err
	}

	s.analyticsCache.Invalidate(ctx, userID)
	return nil
}

// UpdateNotes replaces the notes on an active favorite; state is untouched.
func (s *favoriteService) UpdateNotes(ctx context.Context, userID, bookID string, notes *string) (*dto.FavoriteResponse, error) {
	favorite, err := s.favoriteRepo.GetActive(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}

	favorite.Notes = notes
	favorite.UpdatedAt = time.Now().UTC()
	if err := s.favoriteRepo.Update(ctx, favorite); err != nil {
		return nil, err
	}

	return dto.FromModelToFavoriteResponse(favorite), nil
}

func (s *favoriteService) IsFavorited(ctx context.Context, userID, bookID string) (bool, error) {
	return s.favoriteRepo.IsFavorited(ctx, userID, bookID)
}

// CountForBook counts active favorites referencing a book across all users.
func (s *favoriteService) CountForBook(ctx context.Context, bookID string) (int64, error) {
	return s.favoriteRepo.CountActiveByBook(ctx, bookID)
}

func (s *favoriteService) List(ctx context.Context, userID string, filters dto.FavoriteFilters) (*dto.PaginatedFavoritesResponse, error) {
	favorites, total, err := s.favoriteRepo.List(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.FavoriteResponse, 0, len(favorites))
	for i := range favorites {
		responses = append(responses, *dto.FromModelToFavoriteResponse(&favorites[i]))
	}

	return dto.NewPaginatedFavoritesResponse(responses, int(total), filters.Page, filters.PageSize), nil
}

func (s *favoriteService) PopularBooks(ctx context.Context, userID, genre string, limit int) ([]dto.PopularBookRow, error) {
	return s.favoriteRepo.PopularBooks(ctx, userID, genre, limit)
}
