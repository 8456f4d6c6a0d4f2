package models

import (
	"fmt"
	"time"
)

// PostFillable lists the posts columns that may be mass-assigned.
var PostFillable = []string{"title", "content", "user_id", "image", "status", "created_at", "updated_at"}

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// PostStatuses is the ordered set offered by the post forms.
var PostStatuses = []PostStatus{PostStatusDraft, PostStatusPublished}

// ParsePostStatus accepts only the known status values.
func ParsePostStatus(s string) (PostStatus, error) {
	switch PostStatus(s) {
	case PostStatusDraft, PostStatusPublished:
		return PostStatus(s), nil
	}
	return "", fmt.Errorf("%q is not a valid post status", s)
}

func (s PostStatus) String() string {
	return string(s)
}

func (s PostStatus) IsPublished() bool {
	return s == PostStatusPublished
}

type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Image     string     `gorm:"size:255" json:"image,omitempty"`
	Status    PostStatus `gorm:"size:20;not null;default:draft;index" json:"status"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p Post) PrimaryKey() uint {
	return p.ID
}

// PostWithAuthor is a post row joined with its author's name.
type PostWithAuthor struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	UserID    uint       `json:"user_id"`
	Image     string     `json:"image,omitempty"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserName  string     `json:"user_name"`
}
