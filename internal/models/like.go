package models

// BlogLikeModel is a (user, blog) membership record. The live like count is
// always derived by counting rows, never maintained incrementally. The
// composite unique index is the sole guard against duplicate likes under
// concurrent toggles.
type BlogLikeModel struct {
	Base
	UserID string `json:"user"   gorm:"column:user_id;uniqueIndex:idx_user_blog;not null"`
	BlogID string `json:"blogid" gorm:"column:blog_id;uniqueIndex:idx_user_blog;index;not null"`
}

func (BlogLikeModel) TableName() string { return "bloglikes" }
