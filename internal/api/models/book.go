package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is a user-owned catalog entry. Deletion only flips IsDeleted; a
// soft-deleted book stays out of every aggregate and favorite operation.
// VersionToken is opaque and regenerated on every successful update.
type Book struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID        string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title         string    `json:"title" gorm:"not null;size:500"`
	Author        string    `json:"author" gorm:"not null;size:300"`
	Genre         string    `json:"genre" gorm:"not null;size:100"`
	PublishedDate time.Time `json:"published_date" gorm:"not null"`
	Rating        int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	IsDeleted     bool      `json:"-" gorm:"not null;default:false;index"`
	VersionToken  string    `json:"version_token" gorm:"type:uuid;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate hook to set UUID and the initial version token
func (book *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.VersionToken == "" {
		book.VersionToken = uuid.New().String()
	}
	return
}

func (Book) TableName() string {
	return "books"
}
