package storage

import (
	"time"

	"gorm.io/datatypes"

	"github.com/edunaija/teachershub/internal/logger"
)

// UserActivity is an append-only audit trail. Entries are never updated.
type UserActivity struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"index" json:"userId"`
	Action      string            `gorm:"size:100;index" json:"action"`
	Description string            `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// RecordActivity is best effort: an audit write must never fail the
// action it describes.
func (s *Store) RecordActivity(userID uint, action, description string, metadata map[string]any) {
	a := &UserActivity{
		UserID:      userID,
		Action:      action,
		Description: description,
		Metadata:    datatypes.JSONMap(metadata),
	}
	if err := s.DB.Create(a).Error; err != nil {
		logger.Log.WithField("action", action).Warnf("activity write failed: %v", err)
	}
}

func (s *Store) ListUserActivity(userID uint, limit int) ([]UserActivity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []UserActivity
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
