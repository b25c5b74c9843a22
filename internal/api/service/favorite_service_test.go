package service

import (
	"context"
	"testing"
	"time"

	"bookvault/internal/api/dto"
	"bookvault/internal/api/models"
	"bookvault/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func activeFavorite() *models.Favorite {
	return &models.Favorite{
		ID:       "f1",
		UserID:   "u1",
		BookID:   "b1",
		IsActive: true,
		Book:     storedBook("tok-1"),
	}
}

func TestAddFavorite_NewRow(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	mockBookRepo.On("GetByID", mock.Anything, "u1", "b1").Return(storedBook("tok-1"), nil)
	mockFavoriteRepo.On("GetByUserAndBook", mock.Anything, "u1", "b1").Return(nil, gorm.ErrRecordNotFound)
	mockFavoriteRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Favorite")).Return(nil)
	mockFavoriteRepo.On("GetActive", mock.Anything, "u1", "b1").Return(activeFavorite(), nil)

	resp, err := favoriteService.Add(context.Background(), "u1", dto.AddFavoriteDTO{BookID: "b1", Notes: strPtr("great")})

	assert.NoError(t, err)
	assert.Equal(t, "b1", resp.BookID)
	mockFavoriteRepo.AssertExpectations(t)
}

func TestAddFavorite_AlreadyActive(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	mockBookRepo.On("GetByID", mock.Anything, "u1", "b1").Return(storedBook("tok-1"), nil)
	mockFavoriteRepo.On("GetByUserAndBook", mock.Anything, "u1", "b1").Return(activeFavorite(), nil)

	resp, err := favoriteService.Add(context.Background(), "u1", dto.AddFavoriteDTO{BookID: "b1"})

	assert.ErrorIs(t, err, ErrAlreadyFavorited)
	assert.Nil(t, resp)
	mockFavoriteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockFavoriteRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddFavorite_ReactivatesInactiveRow(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	inactive := &models.Favorite{
		ID:       "f1",
		UserID:   "u1",
		BookID:   "b1",
		IsActive: false,
		Notes:    strPtr("old note"),
	}

	mockBookRepo.On("GetByID", mock.Anything, "u1", "b1").Return(storedBook("tok-1"), nil)
	mockFavoriteRepo.On("GetByUserAndBook", mock.Anything, "u1", "b1").Return(inactive, nil)
	mockFavoriteRepo.On("Update", mock.Anything, mock.MatchedBy(func(f *models.Favorite) bool {
		return f.ID == "f1" && f.IsActive && f.Notes != nil && *f.Notes == "new note"
	})).Return(nil)
	mockFavoriteRepo.On("GetActive", mock.Anything, "u1", "b1").Return(activeFavorite(), nil)

	_, err := favoriteService.Add(context.Background(), "u1", dto.AddFavoriteDTO{BookID: "b1", Notes: strPtr("new note")})

	assert.NoError(t, err)
	// no duplicate row, the existing one was flipped back on
	mockFavoriteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockFavoriteRepo.AssertExpectations(t)
}

func TestAddFavorite_ReactivationClearsNotesWhenOmitted(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	inactive := &models.Favorite{
		ID:       "f1",
		UserID:   "u1",
		BookID:   "b1",
		IsActive: false,
		Notes:    strPtr("old note"),
	}

	mockBookRepo.On("GetByID", mock.Anything, "u1", "b1").Return(storedBook("tok-1"), nil)
	mockFavoriteRepo.On("GetByUserAndBook", mock.Anything, "u1", "b1").Return(inactive, nil)
	mockFavoriteRepo.On("Update", mock.Anything, mock.MatchedBy(func(f *models.Favorite) bool {
		// notes overwrite unconditionally, an omitted value wipes the old one
		return f.IsActive && f.Notes == nil
	})).Return(nil)
	mockFavoriteRepo.On("GetActive", mock.Anything, "u1", "b1").Return(activeFavorite(), nil)

	_, err := favoriteService.Add(context.Background(), "u1", dto.AddFavoriteDTO{BookID: "b1"})

	assert.NoError(t, err)
	mockFavoriteRepo.AssertExpectations(t)
}

func TestAddFavorite_BookNotFound(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	mockBookRepo.On("GetByID", mock.Anything, "u1", "gone").Return(nil, gorm.ErrRecordNotFound)

	_, err := favoriteService.Add(context.Background(), "u1", dto.AddFavoriteDTO{BookID: "gone"})

	assert.ErrorIs(t, err, ErrBookNotFound)
	mockFavoriteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddFavorite_LostInsertRace(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	// nothing found up front, then the unique index catches a concurrent insert
	mockBookRepo.On("GetByID", mock.Anything, "u1", "b1").Return(storedBook("tok-1"), nil)
	mockFavoriteRepo.On("GetByUserAndBook", mock.Anything, "u1", "b1").Return(nil, gorm.ErrRecordNotFound)
	mockFavoriteRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Favorite")).
		Return(repository.ErrDuplicateFavorite)

	_, err := favoriteService.Add(context.Background(), "u1", dto.AddFavoriteDTO{BookID: "b1"})

	assert.ErrorIs(t, err, ErrAlreadyFavorited)
}

func TestRemoveFavorite_FlipsFlag(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	mockFavoriteRepo.On("GetActive", mock.Anything, "u1", "b1").Return(activeFavorite(), nil)
	mockFavoriteRepo.On("Update", mock.Anything, mock.MatchedBy(func(f *models.Favorite) bool {
		return f.ID == "f1" && !f.IsActive
	})).Return(nil)

	assert.NoError(t, favoriteService.Remove(context.Background(), "u1", "b1"))
	mockFavoriteRepo.AssertExpectations(t)
}

func TestRemoveFavorite_NotActive(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	mockFavoriteRepo.On("GetActive", mock.Anything, "u1", "b1").Return(nil, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, favoriteService.Remove(context.Background(), "u1", "b1"), ErrFavoriteNotFound)
}

func TestUpdateNotes_ActiveOnly(t *testing.T) {
	mockFavoriteRepo := new(MockFavoriteRepository)
	mockBookRepo := new(MockBookRepository)
	favoriteService := NewFavoriteService(mockFavoriteRepo, mockBookRepo, nil)

	fav := activeFavorite()
	fav.CreatedAt = time.Now().UTC()

	mockFavoriteRepo.On("GetActive", mock.Anything, "u1", "b1").Return(fav, nil)
	mockFavoriteRepo.On("Update", mock.Anything, mock.MatchedBy(func(f *models.Favorite) bool {
		return f.IsActive && f.Notes != nil && *f.Notes == "updated"
	})).Return(nil)

	resp, err := favoriteService.UpdateNotes(context.Background(), "u1", "b1", strPtr("updated"))

	assert.NoError(t, err)
	assert.Equal(t, "updated", *resp.Notes)
	mockFavoriteRepo.AssertExpectations(t)
}
