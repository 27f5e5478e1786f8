package models

// Blog status values.
const (
	BlogDraft     = "draft"
	BlogPublished = "published"
)

// BlogModel is a blog post. Content is stored HTML-escaped.
type BlogModel struct {
	Base
	AuthorID      string         `json:"-"              gorm:"column:author_id;index;not null"`
	Author        *UserModel     `json:"author,omitempty"   gorm:"foreignKey:AuthorID"`
	CategoryID    string         `json:"-"              gorm:"column:category_id;index;not null"`
	Category      *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Title         string         `json:"title"          gorm:"not null"`
	Slug          string         `json:"slug"           gorm:"uniqueIndex;not null"`
	BlogContent   string         `json:"blogContent"    gorm:"type:longtext;not null"`
	FeaturedImage string         `json:"featuredImage"  gorm:"not null"`
	Tags          StringSlice    `json:"tags"           gorm:"type:json;serializer:json"`
	Status        string         `json:"status"         gorm:"type:varchar(16);default:draft;index"`
	Views         int            `json:"views"          gorm:"default:0"`
}

func (BlogModel) TableName() string { return "blogs" }
