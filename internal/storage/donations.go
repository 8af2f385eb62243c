package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	DonationStatusPending = "pending"
	DonationStatusPaid    = "paid"
)

// Donation tracks a Paystack redirect flow: created pending on
// initialization, marked paid after callback verification.
type Donation struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	DonorName  string     `gorm:"size:200" json:"donorName"`
	DonorEmail string     `gorm:"size:120" json:"donorEmail" validate:"required,email"`
	Amount     float64    `gorm:"type:decimal(10,2)" json:"amount" validate:"required,gt=0"`
	Reference  string     `gorm:"size:100;uniqueIndex" json:"reference" validate:"required"`
	Status     string     `gorm:"size:50;default:'pending'" json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
}

func (s *Store) CreateDonation(d *Donation) error {
	if err := validate.Struct(d); err != nil {
		return err
	}
	d.Status = DonationStatusPending
	return s.DB.Create(d).Error
}

func (s *Store) GetDonationByReference(reference string) (*Donation, error) {
	var d Donation
	if err := s.DB.Where("reference = ?", reference).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Store) MarkDonationPaid(reference string) (*Donation, error) {
	d, err := s.GetDonationByReference(reference)
	if err != nil {
		return nil, err
	}
	if d.Status == DonationStatusPaid {
		return d, nil
	}
	now := time.Now().UTC()
	d.Status = DonationStatusPaid
	d.PaidAt = &now
	if err := s.DB.Model(d).Updates(map[string]any{
		"status":  DonationStatusPaid,
		"paid_at": now,
	}).Error; err != nil {
		return nil, err
	}
	return d, nil
}
