package service

import (
	"context"

	"bookvault/internal/api/dto"
	"bookvault/internal/api/models"

	"github.com/stretchr/testify/mock"
)

// MockBookRepository mocks the BookRepository interface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) GetByID(ctx context.Context, userID, bookID string) (*models.Book, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context, userID string, filters dto.BookFilters) ([]models.Book, int64, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) ListByUser(ctx context.Context, userID string) ([]models.Book, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) UpdateWithVersion(ctx context.Context, book *models.Book, expectedToken string) error {
	args := m.Called(ctx, book, expectedToken)
	return args.Error(0)
}

func (m *MockBookRepository) SoftDelete(ctx context.Context, userID, bookID string) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockBookRepository) Genres(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookRepository) Authors(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockFavoriteRepository mocks the FavoriteRepository interface
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Update(ctx context.Context, favorite *models.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoriteRepository) GetByUserAndBook(ctx context.Context, userID, bookID string) (*models.Favorite, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) GetActive(ctx context.Context, userID, bookID string) (*models.Favorite, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) List(ctx context.Context, userID string, filters dto.FavoriteFilters) ([]models.Favorite, int64, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Favorite), args.Get(1).(int64), args.Error(2)
}

func (m *MockFavoriteRepository) IsFavorited(ctx context.Context, userID, bookID string) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) CountActiveByBook(ctx context.Context, bookID string) (int64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFavoriteRepository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFavoriteRepository) PopularBooks(ctx context.Context, userID, genre string, limit int) ([]dto.PopularBookRow, error) {
	args := m.Called(ctx, userID, genre, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.PopularBookRow), args.Error(1)
}

// MockReadingSessionRepository mocks the ReadingSessionRepository interface
type MockReadingSessionRepository struct {
	mock.Mock
}

func (m *MockReadingSessionRepository) Create(ctx context.Context, session *models.ReadingSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockReadingSessionRepository) ListByUser(ctx context.Context, userID string) ([]models.ReadingSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReadingSession), args.Error(1)
}

func (m *MockReadingSessionRepository) History(ctx context.Context, userID string, page, pageSize int) ([]models.ReadingSession, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.ReadingSession), args.Get(1).(int64), args.Error(2)
}
