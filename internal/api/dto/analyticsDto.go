package dto

import (
	"time"

	"bookvault/internal/api/models"
	"bookvault/internal/api/stats"
)

// LogReadingSessionDTO for logging one reading sitting
type LogReadingSessionDTO struct {
	BookID    string    `json:"book_id" binding:"required,uuid"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	PagesRead int       `json:"pages_read" binding:"min=0"`
	Notes     *string   `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// ReadingSessionResponse echoes a logged session with its book resolved
type ReadingSessionResponse struct {
	ID              string    `json:"id"`
	BookID          string    `json:"book_id"`
	BookTitle       string    `json:"book_title"`
	BookAuthor      string    `json:"book_author"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	PagesRead       int       `json:"pages_read"`
	Notes           *string   `json:"notes,omitempty"`
}

// FromModelToReadingSessionResponse converts a ReadingSession to its DTO.
// Sessions whose book was removed upstream render as "Unknown".
func FromModelToReadingSessionResponse(session *models.ReadingSession) *ReadingSessionResponse {
	resp := &ReadingSessionResponse{
		ID:              session.ID,
		BookID:          session.BookID,
		BookTitle:       "Unknown",
		BookAuthor:      "Unknown",
		StartTime:       session.StartTime,
		EndTime:         session.EndTime,
		DurationMinutes: session.DurationMinutes,
		PagesRead:       session.PagesRead,
		Notes:           session.Notes,
	}
	if session.Book != nil {
		resp.BookTitle = session.Book.Title
		resp.BookAuthor = session.Book.Author
	}
	return resp
}

// PaginatedHistoryResponse for the reading history listing
type PaginatedHistoryResponse struct {
	Data       []ReadingSessionResponse `json:"data"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	Total      int                      `json:"total"`
	TotalPages int                      `json:"total_pages"`
}

// NewPaginatedHistoryResponse creates a paginated history response
func NewPaginatedHistoryResponse(data []ReadingSessionResponse, total, page, pageSize int) *PaginatedHistoryResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedHistoryResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// OverviewStats summarizes the user's whole library
type OverviewStats struct {
	TotalBooks          int     `json:"total_books"`
	TotalFavorites      int64   `json:"total_favorites"`
	AverageRating       float64 `json:"average_rating"`
	TotalSessions       int     `json:"total_reading_sessions"`
	TotalMinutesRead    int     `json:"total_minutes_read"`
	TotalPagesRead      int     `json:"total_pages_read"`
	BooksReadThisMonth  int     `json:"books_read_this_month"`
	BooksAddedThisMonth int     `json:"books_added_this_month"`
}

// ReadingStats summarizes session behavior including streaks
type ReadingStats struct {
	TotalSessions       int     `json:"total_sessions"`
	TotalMinutes        int     `json:"total_minutes"`
	TotalPages          int     `json:"total_pages"`
	AverageSessionMin   float64 `json:"average_session_minutes"`
	AveragePagesPerSess float64 `json:"average_pages_per_session"`
	MostReadGenre       string  `json:"most_read_genre"`
	LongestReadBook     string  `json:"longest_read_book"`
	CurrentStreak       int     `json:"current_streak"`
	LongestStreak       int     `json:"longest_streak"`
}

// AdvancedAnalyticsResponse is the full analytics payload
type AdvancedAnalyticsResponse struct {
	Overview     OverviewStats       `json:"overview"`
	RatingTrends []stats.RatingTrend `json:"rating_trends"`
	GenreTrends  []stats.GenreTrend  `json:"genre_trends"`
	ReadingStats ReadingStats        `json:"reading_stats"`
	TopBooks     []stats.TopBook     `json:"top_books"`
	TopAuthors   []stats.AuthorStat  `json:"top_authors"`
	MonthlyStats []stats.MonthlyStat `json:"monthly_stats"`
}
