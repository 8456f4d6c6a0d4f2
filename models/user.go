package models

import "time"

// UserFillable lists the users columns that may be mass-assigned.
var UserFillable = []string{"name", "email", "password", "created_at", "updated_at"}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `gorm:"constraint:OnDelete:CASCADE" json:"posts,omitempty"`
}

func (u User) PrimaryKey() uint {
	return u.ID
}

// WithoutPassword returns a copy safe to keep in a session or render.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}
