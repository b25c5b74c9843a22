package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadingSession is one logged sitting with a book. Immutable once created.
// DurationMinutes is derived from the start/end pair at logging time.
type ReadingSession struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID          string    `json:"user_id" gorm:"type:uuid;not null;index"`
	BookID          string    `json:"book_id" gorm:"type:uuid;not null;index"`
	StartTime       time.Time `json:"start_time" gorm:"not null"`
	EndTime         time.Time `json:"end_time" gorm:"not null"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`
	PagesRead       int       `json:"pages_read" gorm:"not null;default:0"`
	Notes           *string   `json:"notes,omitempty" gorm:"size:500"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate hook to set UUID before creating a ReadingSession
func (session *ReadingSession) BeforeCreate(tx *gorm.DB) (err error) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	return
}

func (ReadingSession) TableName() string {
	return "reading_sessions"
}
