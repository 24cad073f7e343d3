package models

// Post is a text post owned by a user.
type Post struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  int64  `gorm:"not null" json:"user_id"`
}

// TableName returns the posts table name.
func (Post) TableName() string { return "posts" }

// PostWithLikes is a post row joined with its like count.
// TotalLikes is not persisted; it is computed at query time.
type PostWithLikes struct {
	ID         int64  `json:"id"`
	Content    string `json:"content"`
	UserID     int64  `json:"user_id"`
	TotalLikes int64  `json:"total_likes"`
}
