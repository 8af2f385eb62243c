package storage

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"size:80;uniqueIndex" json:"username" validate:"required,min=3,max=80"`
	Email          string     `gorm:"size:120;uniqueIndex" json:"email" validate:"required,email"`
	PasswordHash   string     `gorm:"size:255" json:"-" validate:"required"`
	FullName       string     `gorm:"size:200" json:"fullName"`
	ProfilePicture string     `gorm:"size:1000" json:"profilePicture"`
	IsActive       bool       `gorm:"default:true" json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex" json:"username" validate:"required,min=3,max=80"`
	Email        string    `gorm:"size:120;uniqueIndex" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"size:255" json:"-" validate:"required"`
	CreatedAt    time.Time `json:"createdAt"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

func (a *Admin) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.PasswordHash)
}

// CreateUser registers a new account. Accounts are active immediately;
// only an admin deactivates them.
func (s *Store) CreateUser(username, email, password, fullName string) (*User, error) {
	var count int64
	if err := s.DB.Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     true,
	}
	if err := validate.Struct(u); err != nil {
		return nil, err
	}
	if err := s.DB.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// AuthenticateUser checks credentials against username or email and stamps
// last_login on success.
func (s *Store) AuthenticateUser(login, password string) (*User, error) {
	var u User
	err := s.DB.Where("username = ? OR email = ?", login, login).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	now := time.Now().UTC()
	u.LastLogin = &now
	_ = s.DB.Model(&u).Update("last_login", now).Error
	return &u, nil
}

func (s *Store) GetUser(id uint) (*User, error) {
	var u User
	if err := s.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateProfile(id uint, fullName string) (*User, error) {
	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	u.FullName = fullName
	if err := s.DB.Model(u).Update("full_name", fullName).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) UpdateProfilePicture(id uint, url string) error {
	res := s.DB.Model(&User{}).Where("id = ?", id).Update("profile_picture", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleUserActive flips the active flag and returns the new state.
func (s *Store) ToggleUserActive(id uint) (bool, error) {
	u, err := s.GetUser(id)
	if err != nil {
		return false, err
	}
	u.IsActive = !u.IsActive
	if err := s.DB.Model(u).Update("is_active", u.IsActive).Error; err != nil {
		return false, err
	}
	return u.IsActive, nil
}

func (s *Store) DeleteUser(id uint) error {
	res := s.DB.Delete(&User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(limit, offset int) ([]User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var users []User
	err := s.DB.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (s *Store) CountUsers() (int64, error) {
	var n int64
	err := s.DB.Model(&User{}).Count(&n).Error
	return n, err
}

// EnsureAdmin creates the bootstrap admin account if it does not exist.
// A blank password skips creation so a misconfigured deploy cannot end up
// with a guessable admin login.
func (s *Store) EnsureAdmin(username, email, password string) (*Admin, error) {
	var a Admin
	if err := s.DB.Where("username = ?", username).First(&a).Error; err == nil {
		return &a, nil
	}
	if password == "" {
		return nil, errors.New("admin password not configured")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	a = Admin{Username: username, Email: email, PasswordHash: hash}
	if err := validate.Struct(&a); err != nil {
		return nil, err
	}
	if err := s.DB.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) AuthenticateAdmin(login, password string) (*Admin, error) {
	var a Admin
	err := s.DB.Where("username = ? OR email = ?", login, login).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !a.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &a, nil
}
