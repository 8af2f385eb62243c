package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/processor"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUserExists         = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrSessionNotFound    = errors.New("session not found or expired")
)

// validate checks document shape at the store-write boundary.
var validate = validator.New()

// NewsArticle is created by the pipeline on first sighting of a source URL
// and never updated afterwards. source_url is the uniqueness key.
type NewsArticle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:500" json:"title" validate:"required,min=3"`
	Summary   string    `gorm:"size:600" json:"summary"`
	SourceURL string    `gorm:"size:1000;uniqueIndex" json:"sourceUrl" validate:"required,url"`
	ImageURL  string    `gorm:"size:1000" json:"imageUrl" validate:"omitempty,url"`
	Category  string    `gorm:"size:100;index" json:"category"`
	FetchedAt time.Time `gorm:"index" json:"fetchedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Warnf("redis ping failed: %v", err)
	}

	s := &Store{DB: db, Redis: rdb}
	if err := s.AutoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&NewsArticle{},
		&User{},
		&Admin{},
		&Advert{},
		&AdvertPricing{},
		&BlogPost{},
		&PostComment{},
		&PostLike{},
		&UserActivity{},
		&TeacherOfTheMonth{},
		&EducationalMaterial{},
		&Donation{},
	)
}

// toValidUTF8 normalizes scraped text so Postgres never rejects a write
// over a stray byte sequence.
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// InsertArticles writes new articles and skips ones whose source URL is
// already stored. Existing rows are never touched. Items failing shape
// validation are dropped with a log line rather than aborting the batch.
func (s *Store) InsertArticles(articles []processor.Article) (int, error) {
	inserted := 0
	for _, a := range articles {
		n := &NewsArticle{
			Title:     toValidUTF8(a.Title),
			Summary:   toValidUTF8(a.Summary),
			SourceURL: a.SourceURL,
			ImageURL:  a.ImageURL,
			Category:  a.Category,
			FetchedAt: time.Now().UTC(),
		}
		if err := validate.Struct(n); err != nil {
			logger.Log.WithField("sourceUrl", a.SourceURL).Warnf("dropping malformed article: %v", err)
			continue
		}

		res := s.DB.Where("source_url = ?", n.SourceURL).FirstOrCreate(n)
		if res.Error != nil {
			// A racing insert of the same URL trips the unique index; that
			// is a duplicate, not a store failure.
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				continue
			}
			return inserted, fmt.Errorf("insert article: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			inserted++
		}
	}
	// List cache is TTL-only; fresh articles show up within a few minutes.
	return inserted, nil
}

const newsListCacheTTL = 5 * time.Minute

// ListNews returns stored articles newest-first, optionally by category.
func (s *Store) ListNews(category string, limit, offset int) ([]NewsArticle, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("news:list:%s:%d:%d", category, limit, offset)
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []NewsArticle
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []NewsArticle
	db := s.DB.Model(&NewsArticle{})
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if err := db.Order("fetched_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, newsListCacheTTL).Err()
		}
	}
	return list, nil
}

// DeleteArticle is the admin's manual removal path; the pipeline itself
// never deletes.
func (s *Store) DeleteArticle(id uint) error {
	res := s.DB.Delete(&NewsArticle{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountArticles() (int64, error) {
	var n int64
	err := s.DB.Model(&NewsArticle{}).Count(&n).Error
	return n, err
}
