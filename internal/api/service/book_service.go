package service

import (
	"context"
	"errors"
	"time"

	"bookvault/internal/api/cache"
	"bookvault/internal/api/dto"
	"bookvault/internal/api/models"
	"bookvault/internal/api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrVersionConflict = errors.New("book has been modified by another request")
)

type BookService interface {
	Create(ctx context.Context, userID string, req dto.CreateBookDTO) (*dto.BookResponse, error)
	Get(ctx context.Context, userID, bookID string) (*dto.BookResponse, error)
	List(ctx context.Context, userID string, filters dto.BookFilters) (*dto.PaginatedBooksResponse, error)
	Update(ctx context.Context, userID, bookID string, req dto.UpdateBookDTO) (*dto.BookResponse, error)
	Delete(ctx context.Context, userID, bookID string) error
	Genres(ctx context.Context, userID string) ([]string, error)
	Authors(ctx context.Context, userID string) ([]string, error)
}

type bookService struct {
	bookRepo       repository.BookRepository
	analyticsCache *cache.AnalyticsCache
}

func NewBookService(bookRepo repository.BookRepository, analyticsCache *cache.AnalyticsCache) BookService {
	return &bookService{
		bookRepo:       bookRepo,
		analyticsCache: analyticsCache,
	}
}

func (s *bookService) Create(ctx context.Context, userID string, req dto.CreateBookDTO) (*dto.BookResponse, error) {
	book := &models.Book{
		UserID:        userID,
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		PublishedDate: req.PublishedDate,
		Rating:        req.Rating,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	s.analyticsCache.Invalidate(ctx, userID)
	return dto.FromModelToBookResponse(book), nil
}

func (s *bookService) Get(ctx context.Context, userID, bookID string) (*dto.BookResponse, error) {
	book, err := s.bookRepo.GetByID(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return dto.FromModelToBookResponse(book), nil
}

func (s *bookService) List(ctx context.Context, userID string, filters dto.BookFilters) (*dto.PaginatedBooksResponse, error) {
	books, total, err := s.bookRepo.List(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		responses = append(responses, *dto.FromModelToBookResponse(&books[i]))
	}

	return dto.NewPaginatedBooksResponse(responses, int(total), filters.Page, filters.PageSize), nil
}

// Update applies field changes under optimistic concurrency control.
// The caller may supply the version token it last observed; a mismatch with
// the stored token fails before any field is touched. The commit itself swaps
// on the token read here, so a write that lands in between also surfaces as
// a conflict. No merging, ever: the caller re-reads and retries.
func (s *bookService) Update(ctx context.Context, userID, bookID string, req dto.UpdateBookDTO) (*dto.BookResponse, error) {
	book, err := s.bookRepo.GetByID(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if req.VersionToken != "" && book.VersionToken != "" && req.VersionToken != book.VersionToken {
		return nil, ErrVersionConflict
	}

	observedToken := book.VersionToken

	book.Title = req.Title
	book.Author = req.Author
	book.Genre = req.Genre
	book.PublishedDate = req.PublishedDate
	book.Rating = req.Rating
	book.VersionToken = uuid.New().String()
	book.UpdatedAt = time.Now().UTC()

	if err := s.bookRepo.UpdateWithVersion(ctx, book, observedToken); err != nil {
		if errors.Is(err, repository.ErrStaleBook) {
			return nil, ErrVersionConflict
		}
		return nil, err
	}

	s.analyticsCache.Invalidate(ctx, userID)
	return dto.FromModelToBookResponse(book), nil
}

func (s *bookService) Delete(ctx context.Context, userID, bookID string) error {
	if err := s.bookRepo.SoftDelete(ctx, userID, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	s.analyticsCache.Invalidate(ctx, userID)
	return nil
}

func (s *bookService) Genres(ctx context.Context, userID string) ([]string, error) {
	return s.bookRepo.Genres(ctx, userID)
}

func (s *bookService) Authors(ctx context.Context, userID string) ([]string, error) {
	return s.bookRepo.Authors(ctx, userID)
}
