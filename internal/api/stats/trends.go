package stats

import (
	"math"
	"sort"
	"time"

	"bookvault/internal/api/models"
)

// Aggregates over a snapshot of one user's non-deleted books and reading
// sessions. All functions are pure: same snapshot in, same buckets out.
// Sessions whose Book pointer is nil (the book was soft-deleted, so the
// snapshot does not resolve it) are treated as "unknown" and skipped by
// genre/author/book grouping but still count wherever only session totals
// are needed.

type RatingTrend struct {
	Date          time.Time `json:"date"`
	AverageRating float64   `json:"average_rating"`
	BookCount     int       `json:"book_count"`
}

type GenreTrend struct {
	Genre            string  `json:"genre"`
	Count            int     `json:"count"`
	Percentage       float64 `json:"percentage"`
	AverageRating    float64 `json:"average_rating"`
	TotalMinutesRead int     `json:"total_minutes_read"`
}

type MonthlyStat struct {
	Month         string  `json:"month"`
	Year          int     `json:"year"`
	BooksAdded    int     `json:"books_added"`
	BooksRead     int     `json:"books_read"`
	MinutesRead   int     `json:"minutes_read"`
	AverageRating float64 `json:"average_rating"`
}

type TopBook struct {
	BookID           string `json:"book_id"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Rating           int    `json:"rating"`
	ReadingSessions  int    `json:"reading_sessions"`
	TotalMinutesRead int    `json:"total_minutes_read"`
}

type AuthorStat struct {
	Author           string  `json:"author"`
	BookCount        int     `json:"book_count"`
	AverageRating    float64 `json:"average_rating"`
	TotalMinutesRead int     `json:"total_minutes_read"`
}

// DefaultTopN bounds the top-books and top-authors lists.
const DefaultTopN = 5

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds half away from zero to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RatingTrends groups books by creation month and averages their ratings.
// Buckets are ordered oldest-first; when lastN > 0 only the most recent N
// buckets survive. Months with no books are never synthesized.
func RatingTrends(books []models.Book, lastN int) []RatingTrend {
	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[time.Time]*bucket)
	for _, b := range books {
		key := monthStart(b.CreatedAt)
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{}
			buckets[key] = bk
		}
		bk.sum += b.Rating
		bk.count++
	}

	trends := make([]RatingTrend, 0, len(buckets))
	for date, bk := range buckets {
		trends = append(trends, RatingTrend{
			Date:          date,
			AverageRating: Round2(float64(bk.sum) / float64(bk.count)),
			BookCount:     bk.count,
		})
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Date.Before(trends[j].Date) })

	if lastN > 0 && len(trends) > lastN {
		trends = trends[len(trends)-lastN:]
	}
	return trends
}

// GenreTrends groups books by genre (exact, case-sensitive match) and folds in
// minutes read from sessions whose resolved book carries the same genre.
// Ordered by count descending, genre ascending on ties.
func GenreTrends(books []models.Book, sessions []models.ReadingSession) []GenreTrend {
	total := len(books)
	if total == 0 {
		return []GenreTrend{}
	}

	type bucket struct {
		count   int
		sum     int
		minutes int
	}
	buckets := make(map[string]*bucket)
	for _, b := range books {
		bk, ok := buckets[b.Genre]
		if !ok {
			bk = &bucket{}
			buckets[b.Genre] = bk
		}
		bk.count++
		bk.sum += b.Rating
	}
	for _, s := range sessions {
		if s.Book == nil {
			continue
		}
		if bk, ok := buckets[s.Book.Genre]; ok {
			bk.minutes += s.DurationMinutes
		}
	}

	trends := make([]GenreTrend, 0, len(buckets))
	for genre, bk := range buckets {
		trends = append(trends, GenreTrend{
			Genre:            genre,
			Count:            bk.count,
			Percentage:       Round1(float64(bk.count) / float64(total) * 100),
			AverageRating:    Round2(float64(bk.sum) / float64(bk.count)),
			TotalMinutesRead: bk.minutes,
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Count != trends[j].Count {
			return trends[i].Count > trends[j].Count
		}
		return trends[i].Genre < trends[j].Genre
	})
	return trends
}

// MonthlyRollup summarizes the trailing `months` calendar months including the
// month of `now`. The walk runs newest-first but the result is oldest-first.
// A book's creation date and a session's start time decide which bucket they
// land in regardless of when the rollup is computed.
func MonthlyRollup(books []models.Book, sessions []models.ReadingSession, months int, now time.Time) []MonthlyStat {
	if months <= 0 {
		return []MonthlyStat{}
	}

	base := monthStart(now)
	rollup := make([]MonthlyStat, 0, months)
	for i := 0; i < months; i++ {
		month := base.AddDate(0, -i, 0)

		var added, ratingSum int
		for _, b := range books {
			if sameMonth(b.CreatedAt, month) {
				added++
				ratingSum += b.Rating
			}
		}

		var minutes int
		readBooks := make(map[string]struct{})
		for _, s := range sessions {
			if sameMonth(s.StartTime, month) {
				minutes += s.DurationMinutes
				readBooks[s.BookID] = struct{}{}
			}
		}

		avg := 0.0
		if added > 0 {
			avg = Round2(float64(ratingSum) / float64(added))
		}
		rollup = append(rollup, MonthlyStat{
			Month:         month.Month().String(),
			Year:          month.Year(),
			BooksAdded:    added,
			BooksRead:     len(readBooks),
			MinutesRead:   minutes,
			AverageRating: avg,
		})
	}

	// reverse into oldest-first order
	for i, j := 0, len(rollup)-1; i < j; i, j = i+1, j-1 {
		rollup[i], rollup[j] = rollup[j], rollup[i]
	}
	return rollup
}

// TopBooks ranks books by total minutes read across sessions, ties broken by
// book ID, truncated to n (DefaultTopN when n <= 0).
func TopBooks(sessions []models.ReadingSession, n int) []TopBook {
	if n <= 0 {
		n = DefaultTopN
	}

	grouped := make(map[string]*TopBook)
	for _, s := range sessions {
		if s.Book == nil {
			continue
		}
		tb, ok := grouped[s.Book.ID]
		if !ok {
			tb = &TopBook{
				BookID: s.Book.ID,
				Title:  s.Book.Title,
				Author: s.Book.Author,
				Rating: s.Book.Rating,
			}
			grouped[s.Book.ID] = tb
		}
		tb.ReadingSessions++
		tb.TotalMinutesRead += s.DurationMinutes
	}

	top := make([]TopBook, 0, len(grouped))
	for _, tb := range grouped {
		top = append(top, *tb)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalMinutesRead != top[j].TotalMinutesRead {
			return top[i].TotalMinutesRead > top[j].TotalMinutesRead
		}
		return top[i].BookID < top[j].BookID
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// TopAuthors ranks authors by total minutes read across sessions, ties broken
// by author name. Book count and average rating come from the book snapshot.
func TopAuthors(books []models.Book, sessions []models.ReadingSession, n int) []AuthorStat {
	if n <= 0 {
		n = DefaultTopN
	}

	type bucket struct {
		count   int
		sum     int
		minutes int
	}
	buckets := make(map[string]*bucket)
	for _, b := range books {
		bk, ok := buckets[b.Author]
		if !ok {
			bk = &bucket{}
			buckets[b.Author] = bk
		}
		bk.count++
		bk.sum += b.Rating
	}
	for _, s := range sessions {
		if s.Book == nil {
			continue
		}
		if bk, ok := buckets[s.Book.Author]; ok {
			bk.minutes += s.DurationMinutes
		}
	}

	authors := make([]AuthorStat, 0, len(buckets))
	for author, bk := range buckets {
		authors = append(authors, AuthorStat{
			Author:           author,
			BookCount:        bk.count,
			AverageRating:    Round2(float64(bk.sum) / float64(bk.count)),
			TotalMinutesRead: bk.minutes,
		})
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].TotalMinutesRead != authors[j].TotalMinutesRead {
			return authors[i].TotalMinutesRead > authors[j].TotalMinutesRead
		}
		return authors[i].Author < authors[j].Author
	})
	if len(authors) > n {
		authors = authors[:n]
	}
	return authors
}

// MostReadGenre returns the genre with the most minutes read, or "N/A" when no
// session resolves to a book.
func MostReadGenre(sessions []models.ReadingSession) string {
	minutes := make(map[string]int)
	for _, s := range sessions {
		if s.Book == nil {
			continue
		}
		minutes[s.Book.Genre] += s.DurationMinutes
	}
	best, bestMinutes := "N/A", -1
	for genre, m := range minutes {
		if m > bestMinutes || (m == bestMinutes && genre < best) {
			best, bestMinutes = genre, m
		}
	}
	return best
}

// LongestReadBook returns the title with the most minutes read, or "N/A".
func LongestReadBook(sessions []models.ReadingSession) string {
	minutes := make(map[string]int)
	for _, s := range sessions {
		if s.Book == nil {
			continue
		}
		minutes[s.Book.Title] += s.DurationMinutes
	}
	best, bestMinutes := "N/A", -1
	for title, m := range minutes {
		if m > bestMinutes || (m == bestMinutes && title < best) {
			best, bestMinutes = title, m
		}
	}
	return best
}

func monthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func sameMonth(t, month time.Time) bool {
	u := t.UTC()
	return u.Year() == month.Year() && u.Month() == month.Month()
}
