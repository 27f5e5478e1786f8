package models

// MaxCommentLength bounds the comment body.
const MaxCommentLength = 500

// CommentModel represents a comment on a blog.
type CommentModel struct {
	Base
	UserID   string     `json:"-"        gorm:"column:user_id;index;not null"`
	User     *UserModel `json:"user,omitempty" gorm:"foreignKey:UserID"`
	BlogID   string     `json:"blogid"   gorm:"column:blog_id;index;not null"`
	Blog     *BlogModel `json:"blog,omitempty" gorm:"foreignKey:BlogID"`
	Comment  string     `json:"comment"  gorm:"type:text;not null"`
	IsEdited bool       `json:"isEdited" gorm:"default:false"`
}

func (CommentModel) TableName() string { return "comments" }
