package models

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex:likes_user_id_post_id_key" json:"user_id"`
	PostID int64 `gorm:"not null;uniqueIndex:likes_user_id_post_id_key" json:"post_id"`
}

// TableName returns the likes table name.
func (Like) TableName() string { return "likes" }
