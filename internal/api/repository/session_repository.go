package repository

import (
	"context"
	"fmt"

	"bookvault/internal/api/models"

	"gorm.io/gorm"
)

type ReadingSessionRepository interface {
	Create(ctx context.Context, session *models.ReadingSession) error
	ListByUser(ctx context.Context, userID string) ([]models.ReadingSession, error)
	History(ctx context.Context, userID string, page, pageSize int) ([]models.ReadingSession, int64, error)
}

type readingSessionRepository struct {
	db *gorm.DB
}

func NewReadingSessionRepository(db *gorm.DB) ReadingSessionRepository {
	return &readingSessionRepository{db: db}
}

func (r *readingSessionRepository) Create(ctx context.Context, session *models.ReadingSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create reading session: %w", err)
	}
	return nil
}

// ListByUser returns the full session snapshot with each session's book
// resolved. Soft-deleted books do not resolve: their sessions come back with a
// nil Book and the aggregates treat them as unknown.
func (r *readingSessionRepository) ListByUser(ctx context.Context, userID string) ([]models.ReadingSession, error) {
	var sessions []models.ReadingSession
	if err := r.db.WithContext(ctx).
		Preload("Book", "is_deleted = false").
		Where("user_id = ?", userID).
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list reading sessions: %w", err)
	}
	return sessions, nil
}

func (r *readingSessionRepository) History(ctx context.Context, userID string, page, pageSize int) ([]models.ReadingSession, int64, error) {
	var sessions []models.ReadingSession
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ReadingSession{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.
		Preload("Book", "is_deleted = false").
		Order("start_time DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}
