package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	AdvertStatusPending     = "pending"
	AdvertStatusApproved    = "approved"
	AdvertStatusActive      = "active"
	AdvertStatusExpired     = "expired"
	AdvertStatusRejected    = "rejected"
	AdvertStatusDeactivated = "deactivated"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

const defaultWeeklyPrice = 500.00 // NGN

type Advert struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:500" json:"title" validate:"required,min=3"`
	Description   string     `gorm:"type:text" json:"description"`
	ImageURL      string     `gorm:"size:1000" json:"imageUrl" validate:"omitempty,url"`
	LinkURL       string     `gorm:"size:1000" json:"linkUrl" validate:"omitempty,url"`
	ButtonText    string     `gorm:"size:100;default:'Learn More'" json:"buttonText"`
	SubmittedBy   uint       `gorm:"index" json:"submittedBy" validate:"required"`
	Amount        float64    `gorm:"type:decimal(10,2)" json:"amount"`
	Weeks         int        `gorm:"default:1" json:"weeks" validate:"min=1,max=52"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	Status        string     `gorm:"size:50;default:'pending';index" json:"status"`
	PaymentStatus string     `gorm:"size:50;default:'pending'" json:"paymentStatus"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	AdminNotes    string     `gorm:"type:text" json:"adminNotes,omitempty"`
}

// AdvertPricing is a single-row table holding the weekly rate.
type AdvertPricing struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Amount    float64   `gorm:"type:decimal(10,2)" json:"amount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AdvertInput struct {
	Title       string
	Description string
	ImageURL    string
	LinkURL     string
	ButtonText  string
	Weeks       int
}

func (s *Store) EnsureAdvertPricing() error {
	var p AdvertPricing
	if err := s.DB.First(&p).Error; err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.DB.Create(&AdvertPricing{Amount: defaultWeeklyPrice}).Error
}

func (s *Store) GetWeeklyPrice() (float64, error) {
	var p AdvertPricing
	if err := s.DB.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultWeeklyPrice, nil
		}
		return 0, err
	}
	return p.Amount, nil
}

func (s *Store) SetWeeklyPrice(amount float64) error {
	if err := s.EnsureAdvertPricing(); err != nil {
		return err
	}
	var p AdvertPricing
	if err := s.DB.First(&p).Error; err != nil {
		return err
	}
	return s.DB.Model(&p).Update("amount", amount).Error
}

// CreateAdvert prices the submission from the current weekly rate and
// leaves it pending admin review and payment.
func (s *Store) CreateAdvert(userID uint, in AdvertInput) (*Advert, error) {
	weekly, err := s.GetWeeklyPrice()
	if err != nil {
		return nil, err
	}
	if in.Weeks < 1 {
		in.Weeks = 1
	}
	if in.ButtonText == "" {
		in.ButtonText = "Learn More"
	}

	a := &Advert{
		Title:         in.Title,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		LinkURL:       in.LinkURL,
		ButtonText:    in.ButtonText,
		SubmittedBy:   userID,
		Amount:        weekly * float64(in.Weeks),
		Weeks:         in.Weeks,
		Status:        AdvertStatusPending,
		PaymentStatus: PaymentStatusPending,
		SubmittedAt:   time.Now().UTC(),
	}
	if err := validate.Struct(a); err != nil {
		return nil, err
	}
	if err := s.DB.Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) GetAdvert(id uint) (*Advert, error) {
	var a Advert
	if err := s.DB.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAdvertsByUser(userID uint) ([]Advert, error) {
	var list []Advert
	err := s.DB.Where("submitted_by = ?", userID).Order("submitted_at DESC").Find(&list).Error
	return list, err
}

func (s *Store) ListAdvertsByStatus(status string, limit, offset int) ([]Advert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []Advert
	db := s.DB.Model(&Advert{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("submitted_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListRunningAdverts returns adverts currently displayable to visitors.
func (s *Store) ListRunningAdverts() ([]Advert, error) {
	var list []Advert
	err := s.DB.
		Where("status = ? AND (end_date IS NULL OR end_date > ?)", AdvertStatusActive, time.Now().UTC()).
		Order("approved_at DESC").
		Find(&list).Error
	return list, err
}

// ApproveAdvert marks the submission approved; it goes live once (or as
// soon as) payment clears.
func (s *Store) ApproveAdvert(id uint, notes string) (*Advert, error) {
	a, err := s.GetAdvert(id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	updates := map[string]any{
		"status":      AdvertStatusApproved,
		"approved_at": now,
		"admin_notes": notes,
	}
	a.Status = AdvertStatusApproved
	a.ApprovedAt = &now
	a.AdminNotes = notes

	if a.PaymentStatus == PaymentStatusPaid {
		s.activationWindow(a, now, updates)
	}
	if err := s.DB.Model(a).Updates(updates).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// MarkAdvertPaid records a verified payment; an already-approved advert
// starts running immediately.
func (s *Store) MarkAdvertPaid(id uint) (*Advert, error) {
	a, err := s.GetAdvert(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"payment_status": PaymentStatusPaid}
	a.PaymentStatus = PaymentStatusPaid

	if a.Status == AdvertStatusApproved {
		s.activationWindow(a, time.Now().UTC(), updates)
	}
	if err := s.DB.Model(a).Updates(updates).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) activationWindow(a *Advert, from time.Time, updates map[string]any) {
	end := from.AddDate(0, 0, 7*a.Weeks)
	a.Status = AdvertStatusActive
	a.StartDate = &from
	a.EndDate = &end
	updates["status"] = AdvertStatusActive
	updates["start_date"] = from
	updates["end_date"] = end
}

func (s *Store) RejectAdvert(id uint, notes string) (*Advert, error) {
	return s.setAdvertStatus(id, AdvertStatusRejected, notes)
}

func (s *Store) DeactivateAdvert(id uint) (*Advert, error) {
	return s.setAdvertStatus(id, AdvertStatusDeactivated, "")
}

func (s *Store) setAdvertStatus(id uint, status, notes string) (*Advert, error) {
	a, err := s.GetAdvert(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"status": status}
	if notes != "" {
		updates["admin_notes"] = notes
		a.AdminNotes = notes
	}
	a.Status = status
	if err := s.DB.Model(a).Updates(updates).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) DeleteAdvert(id uint) error {
	res := s.DB.Delete(&Advert{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountAdvertsByStatus(status string) (int64, error) {
	var n int64
	db := s.DB.Model(&Advert{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Count(&n).Error
	return n, err
}
