package models

import "time"

// CommentStatus is the moderation state of a reader comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// Valid reports whether s is one of the known moderation states.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected:
		return true
	}
	return false
}

// Comment is a reader comment on an article. New comments always start
// pending; moderators move them between approved and rejected but never
// back to pending.
type Comment struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	AuthorName string        `gorm:"not null" json:"author_name"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	NewsID     uint          `gorm:"not null;index" json:"news_id"`
	News       News          `gorm:"foreignKey:NewsID" json:"news,omitempty"`
	Status     CommentStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	Version    int64         `gorm:"not null;default:1" json:"version"`
	CreatedAt  time.Time     `json:"created_at"`
}
