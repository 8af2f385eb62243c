package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/storage"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	u, err := s.store.CreateUser(req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			fail(c, http.StatusConflict, "user_exists", err.Error())
			return
		}
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.store.RecordActivity(u.ID, "register", "account created", nil)
	token, err := s.sessions.CreateSession(c.Request.Context(), storage.SessionUser, u.ID)
	if err != nil {
		logger.Log.Errorf("create session: %v", err)
		fail(c, http.StatusInternalServerError, "internal", "could not create session")
		return
	}
	created(c, gin.H{"token": token, "user": u})
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	u, err := s.store.AuthenticateUser(req.Login, req.Password)
	switch {
	case errors.Is(err, storage.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	case errors.Is(err, storage.ErrAccountDisabled):
		fail(c, http.StatusForbidden, "account_disabled", "account is deactivated")
		return
	case err != nil:
		logger.Log.Errorf("login: %v", err)
		fail(c, http.StatusInternalServerError, "internal", "login failed")
		return
	}

	token, err := s.sessions.CreateSession(c.Request.Context(), storage.SessionUser, u.ID)
	if err != nil {
		logger.Log.Errorf("create session: %v", err)
		fail(c, http.StatusInternalServerError, "internal", "could not create session")
		return
	}
	s.store.RecordActivity(u.ID, "login", "logged in", nil)
	ok(c, gin.H{"token": token, "user": u})
}

func (s *Server) logout(c *gin.Context) {
	token := c.GetString(ctxToken)
	if err := s.sessions.DeleteSession(c.Request.Context(), token); err != nil {
		logger.Log.Warnf("delete session: %v", err)
	}
	ok(c, nil)
}

func (s *Server) getProfile(c *gin.Context) {
	u, err := s.store.GetUser(currentUserID(c))
	if err != nil {
		fail(c, http.StatusNotFound, "not_found", "user not found")
		return
	}
	activity, _ := s.store.ListUserActivity(u.ID, 20)
	ok(c, gin.H{"user": u, "recentActivity": activity})
}

type profileRequest struct {
	FullName string `json:"fullName" binding:"required,max=200"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	u, err := s.store.UpdateProfile(currentUserID(c), req.FullName)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not update profile")
		return
	}
	s.store.RecordActivity(u.ID, "profile_update", "profile updated", nil)
	ok(c, u)
}

const maxUploadBytes = 5 << 20

func (s *Server) uploadProfilePicture(c *gin.Context) {
	if s.uploads == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", "image uploads not configured")
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "bad_request", "image file required")
		return
	}
	if header.Size > maxUploadBytes {
		fail(c, http.StatusRequestEntityTooLarge, "too_large", "image exceeds 5MB")
		return
	}
	f, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "bad_request", "could not read image")
		return
	}
	defer f.Close()

	url, err := s.uploads.Upload(c.Request.Context(), header.Filename, f, "profiles")
	if err != nil {
		logger.Log.Errorf("profile picture upload: %v", err)
		fail(c, http.StatusBadGateway, "upload_failed", "image upload failed")
		return
	}

	userID := currentUserID(c)
	if err := s.store.UpdateProfilePicture(userID, url); err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not save picture")
		return
	}
	s.store.RecordActivity(userID, "profile_picture", "profile picture changed", map[string]any{"url": url})
	ok(c, gin.H{"profilePicture": url})
}
