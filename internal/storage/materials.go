package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// EducationalMaterial points at a CDN-hosted file admins share with
// teachers (lesson notes, past questions, forms).
type EducationalMaterial struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:500" json:"title" validate:"required"`
	Description   string    `gorm:"type:text" json:"description"`
	FileURL       string    `gorm:"size:1000" json:"fileUrl" validate:"required,url"`
	FileName      string    `gorm:"size:500" json:"fileName" validate:"required"`
	FileType      string    `gorm:"size:100" json:"fileType"`
	FileSize      int64     `json:"fileSize"`
	UploadedBy    uint      `json:"uploadedBy"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`
	DownloadCount int64     `gorm:"default:0" json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (s *Store) CreateMaterial(m *EducationalMaterial) error {
	if err := validate.Struct(m); err != nil {
		return err
	}
	m.IsActive = true
	return s.DB.Create(m).Error
}

func (s *Store) ListMaterials(activeOnly bool, limit, offset int) ([]EducationalMaterial, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []EducationalMaterial
	db := s.DB.Model(&EducationalMaterial{})
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (s *Store) ToggleMaterial(id uint) (bool, error) {
	var m EducationalMaterial
	if err := s.DB.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	m.IsActive = !m.IsActive
	if err := s.DB.Model(&m).Update("is_active", m.IsActive).Error; err != nil {
		return false, err
	}
	return m.IsActive, nil
}

func (s *Store) DeleteMaterial(id uint) error {
	res := s.DB.Delete(&EducationalMaterial{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RegisterDownload bumps the counter and hands back the file URL.
func (s *Store) RegisterDownload(id uint) (string, error) {
	var m EducationalMaterial
	if err := s.DB.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !m.IsActive {
		return "", ErrNotFound
	}
	if err := s.DB.Model(&m).UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		return "", err
	}
	return m.FileURL, nil
}
