package models

import (
	"time"

	"gorm.io/gorm"
)

// NewsStatus is the lifecycle state of an article.
type NewsStatus string

const (
	NewsStatusDraft     NewsStatus = "draft"
	NewsStatusReview    NewsStatus = "review"
	NewsStatusPublished NewsStatus = "published"
	NewsStatusScheduled NewsStatus = "scheduled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s NewsStatus) Valid() bool {
	switch s {
	case NewsStatusDraft, NewsStatusReview, NewsStatusPublished, NewsStatusScheduled:
		return true
	}
	return false
}

// News is the central content entity.
//
// Invariants maintained by the workflow engine:
//   - status == scheduled implies PublishAt is set and was in the future
//     when the transition was accepted
//   - status == published implies PublishAt is nil or <= now
//
// Version is an optimistic-concurrency counter: every accepted write
// increments it, and transition writes are conditional on the version the
// caller loaded.
type News struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"not null" json:"title"`
	Summary       string     `json:"summary"`
	Content       string     `gorm:"type:text" json:"content"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	VideoURL      string     `json:"video_url,omitempty"`
	Status        NewsStatus `gorm:"type:varchar(16);not null;default:'draft';index" json:"status"`
	PublishAt     *time.Time `gorm:"index" json:"publish_at,omitempty"`

	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	EditorID   *uint     `gorm:"index" json:"editor_id,omitempty"`
	Editor     *User     `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`
	CityID     *uint     `gorm:"index" json:"city_id,omitempty"`
	City       *City     `gorm:"foreignKey:CityID" json:"city,omitempty"`
	SourceID   *uint     `gorm:"index" json:"source_id,omitempty"`
	Source     *Source   `gorm:"foreignKey:SourceID" json:"source,omitempty"`

	ViewCount int64 `gorm:"not null;default:0" json:"view_count"`
	Version   int64 `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
