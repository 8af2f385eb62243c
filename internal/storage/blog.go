package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type BlogPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:500" json:"title" validate:"required,min=3"`
	Content   string    `gorm:"type:text" json:"content" validate:"required"`
	ImageURL  string    `gorm:"size:1000" json:"imageUrl" validate:"omitempty,url"`
	AuthorID  uint      `gorm:"index" json:"authorId" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PostComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index" json:"postId" validate:"required"`
	UserID    uint      `gorm:"index" json:"userId" validate:"required"`
	Content   string    `gorm:"type:text" json:"content" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// One like per user per post, enforced by the composite unique index.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index:idx_post_like,unique" json:"postId"`
	UserID    uint      `gorm:"index:idx_post_like,unique" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostDetail is the read model for a single post page.
type PostDetail struct {
	Post     BlogPost      `json:"post"`
	Comments []PostComment `json:"comments"`
	Likes    int64         `json:"likes"`
}

func (s *Store) CreatePost(authorID uint, title, content, imageURL string) (*BlogPost, error) {
	p := &BlogPost{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
		AuthorID: authorID,
	}
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	if err := s.DB.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPosts(limit, offset int) ([]BlogPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var posts []BlogPost
	err := s.DB.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

func (s *Store) GetPost(id uint) (*BlogPost, error) {
	var p BlogPost
	if err := s.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetPostDetail(id uint) (*PostDetail, error) {
	p, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}

	var comments []PostComment
	if err := s.DB.Where("post_id = ?", id).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	var likes int64
	if err := s.DB.Model(&PostLike{}).Where("post_id = ?", id).Count(&likes).Error; err != nil {
		return nil, err
	}
	return &PostDetail{Post: *p, Comments: comments, Likes: likes}, nil
}

func (s *Store) UpdatePost(id uint, title, content, imageURL string) (*BlogPost, error) {
	p, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	p.Title = title
	p.Content = content
	p.ImageURL = imageURL
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	if err := s.DB.Model(p).Updates(map[string]any{
		"title":     title,
		"content":   content,
		"image_url": imageURL,
	}).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes a post with its comments and likes.
func (s *Store) DeletePost(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&BlogPost{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("post_id = ?", id).Delete(&PostComment{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&PostLike{}).Error
	})
}

func (s *Store) AddComment(postID, userID uint, content string) (*PostComment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}
	c := &PostComment{PostID: postID, UserID: userID, Content: content}
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	if err := s.DB.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ToggleLike flips the user's like on a post and reports the new state.
func (s *Store) ToggleLike(postID, userID uint) (liked bool, err error) {
	if _, err := s.GetPost(postID); err != nil {
		return false, err
	}

	var existing PostLike
	err = s.DB.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
	if err == nil {
		if err := s.DB.Delete(&existing).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	like := &PostLike{PostID: postID, UserID: userID}
	if err := s.DB.Create(like).Error; err != nil {
		// Lost a race against another toggle of the same pair.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) CountPosts() (int64, error) {
	var n int64
	err := s.DB.Model(&BlogPost{}).Count(&n).Error
	return n, err
}
