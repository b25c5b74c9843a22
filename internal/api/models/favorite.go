package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite links a user to one of their books. At most one row exists per
// (user, book) pair; "unfavorited" flips IsActive instead of deleting the row
// so a re-favorite reactivates the same row and never trips the unique index.
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_book"`
	BookID    string    `json:"book_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_book"`
	Notes     *string   `json:"notes,omitempty" gorm:"size:1000"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate hook to set UUID before creating a Favorite
func (favorite *Favorite) BeforeCreate(tx *gorm.DB) (err error) {
	if favorite.ID == "" {
		favorite.ID = uuid.New().String()
	}
	return
}

func (Favorite) TableName() string {
	return "favorites"
}
