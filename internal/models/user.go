package models

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultAvatar is the fallback avatar for accounts without an uploaded one.
const DefaultAvatar = "https://cdn-icons-png.flaticon.com/512/3135/3135715.png"

// UserModel represents a registered account.
type UserModel struct {
	Base
	Role     string `json:"role"   gorm:"type:varchar(16);default:user;not null"`
	Name     string `json:"name"   gorm:"not null"`
	Email    string `json:"email"  gorm:"uniqueIndex;not null"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Password string `json:"-"      gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

// IsAdmin reports whether the stored role grants admin privileges.
func (u *UserModel) IsAdmin() bool { return u.Role == RoleAdmin }
