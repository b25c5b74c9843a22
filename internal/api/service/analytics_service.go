package service

import (
	"context"
	"errors"
	"time"

	"bookvault/internal/api/cache"
	"bookvault/internal/api/dto"
	"bookvault/internal/api/models"
	"bookvault/internal/api/repository"
	"bookvault/internal/api/stats"

	"gorm.io/gorm"
)

var ErrInvalidTimeRange = errors.New("end time must be after start time")

// defaultTrendMonths is the rating-trend window of the advanced payload.
const defaultTrendMonths = 12

// rollupMonths is the trailing window of the monthly rollup.
const rollupMonths = 6

// AnalyticsService composes the pure aggregation functions over a single
// consistent snapshot of the user's books and sessions. Nothing here re-reads
// mid-computation: one request, one snapshot, one payload.
type AnalyticsService interface {
	GetAdvancedAnalytics(ctx context.Context, userID string) (*dto.AdvancedAnalyticsResponse, error)
	GetRatingTrends(ctx context.Context, userID string, months int) ([]stats.RatingTrend, error)
	GetGenreTrends(ctx context.Context, userID string) ([]stats.GenreTrend, error)
	GetReadingHistory(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedHistoryResponse, error)
	LogReadingSession(ctx context.Context, userID string, req dto.LogReadingSessionDTO) (*dto.ReadingSessionResponse, error)
}

type analyticsService struct {
	bookRepo       repository.BookRepository
	sessionRepo    repository.ReadingSessionRepository
	favoriteRepo   repository.FavoriteRepository
	analyticsCache *cache.AnalyticsCache
	now            func() time.Time
}

func NewAnalyticsService(
	bookRepo repository.BookRepository,
	sessionRepo repository.ReadingSessionRepository,
	favoriteRepo repository.FavoriteRepository,
	analyticsCache *cache.AnalyticsCache,
) AnalyticsService {
	return &analyticsService{
		bookRepo:       bookRepo,
		sessionRepo:    sessionRepo,
		favoriteRepo:   favoriteRepo,
		analyticsCache: analyticsCache,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *analyticsService) GetAdvancedAnalytics(ctx context.Context, userID string) (*dto.AdvancedAnalyticsResponse, error) {
	if payload, ok := s.analyticsCache.Get(ctx, userID); ok {
		return payload, nil
	}

	books, err := s.bookRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	favoritesCount, err := s.favoriteRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payload := &dto.AdvancedAnalyticsResponse{
		Overview:     buildOverview(books, sessions, favoritesCount, now),
		RatingTrends: stats.RatingTrends(books, defaultTrendMonths),
		GenreTrends:  stats.GenreTrends(books, sessions),
		ReadingStats: buildReadingStats(sessions, now),
		TopBooks:     stats.TopBooks(sessions, stats.DefaultTopN),
		TopAuthors:   stats.TopAuthors(books, sessions, stats.DefaultTopN),
		MonthlyStats: stats.MonthlyRollup(books, sessions, rollupMonths, now),
	}

	s.analyticsCache.Set(ctx, userID, payload)
	return payload, nil
}

func (s *analyticsService) GetRatingTrends(ctx context.Context, userID string, months int) ([]stats.RatingTrend, error) {
	if months <= 0 {
		months = defaultTrendMonths
	}
	books, err := s.bookRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.RatingTrends(books, months), nil
}

func (s *analyticsService) GetGenreTrends(ctx context.Context, userID string) ([]stats.GenreTrend, error) {
	books, err := s.bookRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.GenreTrends(books, sessions), nil
}

func (s *analyticsService) GetReadingHistory(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedHistoryResponse, error) {
	sessions, total, err := s.sessionRepo.History(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReadingSessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, *dto.FromModelToReadingSessionResponse(&sessions[i]))
	}

	return dto.NewPaginatedHistoryResponse(responses, int(total), page, pageSize), nil
}

// LogReadingSession records one immutable sitting. A non-positive computed
// duration is rejected, never clamped.
func (s *analyticsService) LogReadingSession(ctx context.Context, userID string, req dto.LogReadingSessionDTO) (*dto.ReadingSessionResponse, error) {
	book, err := s.bookRepo.GetByID(ctx, userID, req.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	duration := int(req.EndTime.Sub(req.StartTime).Minutes())
	if duration <= 0 {
		return nil, ErrInvalidTimeRange
	}

	session := &models.ReadingSession{
		UserID:          userID,
		BookID:          req.BookID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: duration,
		PagesRead:       req.PagesRead,
		Notes:           req.Notes,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.analyticsCache.Invalidate(ctx, userID)

	session.Book = book
	return dto.FromModelToReadingSessionResponse(session), nil
}

func buildOverview(books []models.Book, sessions []models.ReadingSession, favoritesCount int64, now time.Time) dto.OverviewStats {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	overview := dto.OverviewStats{
		TotalBooks:     len(books),
		TotalFavorites: favoritesCount,
		TotalSessions:  len(sessions),
	}

	ratingSum := 0
	for _, b := range books {
		ratingSum += b.Rating
		if !b.CreatedAt.UTC().Before(startOfMonth) {
			overview.BooksAddedThisMonth++
		}
	}
	if len(books) > 0 {
		overview.AverageRating = stats.Round2(float64(ratingSum) / float64(len(books)))
	}

	readThisMonth := make(map[string]struct{})
	for _, sess := range sessions {
		overview.TotalMinutesRead += sess.DurationMinutes
		overview.TotalPagesRead += sess.PagesRead
		if !sess.StartTime.UTC().Before(startOfMonth) {
			readThisMonth[sess.BookID] = struct{}{}
		}
	}
	overview.BooksReadThisMonth = len(readThisMonth)

	return overview
}

func buildReadingStats(sessions []models.ReadingSession, now time.Time) dto.ReadingStats {
	rs := dto.ReadingStats{
		TotalSessions:   len(sessions),
		MostReadGenre:   stats.MostReadGenre(sessions),
		LongestReadBook: stats.LongestReadBook(sessions),
	}

	startTimes := make([]time.Time, 0, len(sessions))
	for _, sess := range sessions {
		rs.TotalMinutes += sess.DurationMinutes
		rs.TotalPages += sess.PagesRead
		startTimes = append(startTimes, sess.StartTime)
	}
	if len(sessions) > 0 {
		rs.AverageSessionMin = stats.Round1(float64(rs.TotalMinutes) / float64(len(sessions)))
		rs.AveragePagesPerSess = stats.Round1(float64(rs.TotalPages) / float64(len(sessions)))
	}

	rs.CurrentStreak = stats.CurrentStreak(startTimes, now)
	rs.LongestStreak = stats.LongestStreak(startTimes)
	return rs
}
