// Package models contains the domain models and the API error taxonomy.
package models

// User is a registered account. Password holds the credential hash, never plaintext.
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"size:255;unique;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
}

// TableName returns the users table name.
func (User) TableName() string { return "users" }
