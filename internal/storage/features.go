package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// TeacherOfTheMonth is an admin-curated feature. At most one entry is
// active at a time.
type TeacherOfTheMonth struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeacherName  string    `gorm:"size:200" json:"teacherName" validate:"required"`
	TeacherTitle string    `gorm:"size:200" json:"teacherTitle"`
	SchoolName   string    `gorm:"size:300" json:"schoolName"`
	Location     string    `gorm:"size:200" json:"location"`
	PhotoURL     string    `gorm:"size:1000" json:"photoUrl" validate:"omitempty,url"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Achievements string    `gorm:"type:text" json:"achievements"`
	MonthYear    string    `gorm:"size:20" json:"monthYear" validate:"required"`
	IsActive     bool      `gorm:"default:false" json:"isActive"`
	CreatedBy    uint      `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (s *Store) CreateTeacherOfMonth(t *TeacherOfTheMonth) error {
	if err := validate.Struct(t); err != nil {
		return err
	}
	return s.DB.Create(t).Error
}

func (s *Store) UpdateTeacherOfMonth(t *TeacherOfTheMonth) error {
	if err := validate.Struct(t); err != nil {
		return err
	}
	res := s.DB.Model(&TeacherOfTheMonth{}).Where("id = ?", t.ID).Updates(map[string]any{
		"teacher_name":  t.TeacherName,
		"teacher_title": t.TeacherTitle,
		"school_name":   t.SchoolName,
		"location":      t.Location,
		"photo_url":     t.PhotoURL,
		"bio":           t.Bio,
		"achievements":  t.Achievements,
		"month_year":    t.MonthYear,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivateTeacherOfMonth makes one entry active and retires the rest in
// the same transaction.
func (s *Store) ActivateTeacherOfMonth(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var t TeacherOfTheMonth
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&TeacherOfTheMonth{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&t).Update("is_active", true).Error
	})
}

func (s *Store) GetActiveTeacherOfMonth() (*TeacherOfTheMonth, error) {
	var t TeacherOfTheMonth
	if err := s.DB.Where("is_active = ?", true).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTeachersOfMonth() ([]TeacherOfTheMonth, error) {
	var list []TeacherOfTheMonth
	err := s.DB.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (s *Store) DeleteTeacherOfMonth(id uint) error {
	res := s.DB.Delete(&TeacherOfTheMonth{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
