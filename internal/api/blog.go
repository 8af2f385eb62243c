package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/storage"
)

func (s *Server) listPosts(c *gin.Context) {
	limit, offset := limitOffset(c)
	posts, err := s.store.ListPosts(limit, offset)
	if err != nil {
		logger.Log.Errorf("list posts: %v", err)
		fail(c, http.StatusInternalServerError, "internal", "could not load posts")
		return
	}
	ok(c, posts)
}

func (s *Server) getPost(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	detail, err := s.store.GetPostDetail(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not load post")
		return
	}
	ok(c, detail)
}

type postRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=500"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"omitempty,url"`
}

func (s *Server) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	userID := currentUserID(c)
	p, err := s.store.CreatePost(userID, req.Title, req.Content, req.ImageURL)
	if err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.store.RecordActivity(userID, "post_create", fmt.Sprintf("published %q", p.Title), map[string]any{"postId": p.ID})
	created(c, p)
}

// ownedPost loads the post and enforces that the caller wrote it.
func (s *Server) ownedPost(c *gin.Context) (*storage.BlogPost, bool) {
	id, okID := idParam(c)
	if !okID {
		return nil, false
	}
	p, err := s.store.GetPost(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "post not found")
			return nil, false
		}
		fail(c, http.StatusInternalServerError, "internal", "could not load post")
		return nil, false
	}
	if p.AuthorID != currentUserID(c) {
		fail(c, http.StatusForbidden, "forbidden", "not your post")
		return nil, false
	}
	return p, true
}

func (s *Server) updatePost(c *gin.Context) {
	p, okOwner := s.ownedPost(c)
	if !okOwner {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	updated, err := s.store.UpdatePost(p.ID, req.Title, req.Content, req.ImageURL)
	if err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	ok(c, updated)
}

func (s *Server) deletePost(c *gin.Context) {
	p, okOwner := s.ownedPost(c)
	if !okOwner {
		return
	}
	if err := s.store.DeletePost(p.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not delete post")
		return
	}
	ok(c, nil)
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) addComment(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	userID := currentUserID(c)
	comment, err := s.store.AddComment(id, userID, req.Content)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "post not found")
			return
		}
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.store.RecordActivity(userID, "comment", "commented on a post", map[string]any{"postId": id})
	created(c, comment)
}

func (s *Server) toggleLike(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	userID := currentUserID(c)
	liked, err := s.store.ToggleLike(id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "post not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not toggle like")
		return
	}
	if liked {
		s.store.RecordActivity(userID, "like", "liked a post", map[string]any{"postId": id})
	}
	ok(c, gin.H{"liked": liked})
}
