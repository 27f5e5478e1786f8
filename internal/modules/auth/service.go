package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/quillspace/core/internal/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates a local account. The email is the account key, so a
// duplicate yields ErrEmailTaken.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	email := normalizeEmail(dto.Email)

	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.UserModel{
		Role:     models.RoleUser,
		Name:     strings.TrimSpace(dto.Name),
		Email:    email,
		Avatar:   models.DefaultAvatar,
		Password: string(hashed),
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the stored account.
func (s *Service) Login(email, password string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	// Accounts imported without a local password can only use federated
	// login until a password reset.
	if user.Password == "" {
		return nil, ErrNoPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrWrongPassword
	}
	return &user, nil
}

// LocateOrCreate resolves a federated profile to a local account, creating
// one on first sign-in. Federated accounts get a random local password so
// password login stays possible only after an explicit reset.
func (s *Service) LocateOrCreate(profile *GoogleProfile) (*models.UserModel, error) {
	email := normalizeEmail(profile.Email)

	var user models.UserModel
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	secret, err := randomSecret()
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = models.UserModel{
		Role:     models.RoleUser,
		Name:     profile.Name,
		Email:    email,
		Avatar:   models.DefaultAvatar,
		Password: string(hashed),
	}
	if profile.Picture != "" {
		user.Avatar = profile.Picture
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID reads the current account state, not the token snapshot.
func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the provided fields. Empty strings leave the field
// untouched except bio, which may be cleared. avatarURL is set only when
// non-empty (the upload already succeeded by the time we get here).
func (s *Service) UpdateProfile(id string, dto *UpdateProfileDTO, avatarURL string) (*models.UserModel, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(dto.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(dto.Email); email != "" && email != user.Email {
		var count int64
		if err := s.db.Model(&models.UserModel{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		user.Email = email
	}
	user.Bio = dto.Bio
	if avatarURL != "" {
		user.Avatar = avatarURL
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword verifies the current password before storing the new one.
func (s *Service) UpdatePassword(id string, dto *UpdatePasswordDTO) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.CurrentPassword)) != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("password", string(hashed)).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
