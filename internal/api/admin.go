package api

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/storage"
)

func (s *Server) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	a, err := s.store.AuthenticateAdmin(req.Login, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		logger.Log.Errorf("admin login: %v", err)
		fail(c, http.StatusInternalServerError, "internal", "login failed")
		return
	}

	token, err := s.sessions.CreateSession(c.Request.Context(), storage.SessionAdmin, a.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not create session")
		return
	}
	ok(c, gin.H{"token": token, "admin": a})
}

func (s *Server) dashboard(c *gin.Context) {
	users, _ := s.store.CountUsers()
	articles, _ := s.store.CountArticles()
	posts, _ := s.store.CountPosts()
	advertsPending, _ := s.store.CountAdvertsByStatus(storage.AdvertStatusPending)
	advertsActive, _ := s.store.CountAdvertsByStatus(storage.AdvertStatusActive)
	advertsTotal, _ := s.store.CountAdvertsByStatus("")

	ok(c, gin.H{
		"users":          users,
		"articles":       articles,
		"posts":          posts,
		"advertsPending": advertsPending,
		"advertsActive":  advertsActive,
		"advertsTotal":   advertsTotal,
	})
}

func (s *Server) adminListUsers(c *gin.Context) {
	limit, offset := limitOffset(c)
	users, err := s.store.ListUsers(limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load users")
		return
	}
	ok(c, users)
}

func (s *Server) adminToggleUser(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	active, err := s.store.ToggleUserActive(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not toggle user")
		return
	}
	ok(c, gin.H{"isActive": active})
}

func (s *Server) adminDeleteUser(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not delete user")
		return
	}
	ok(c, nil)
}

func (s *Server) adminListAdverts(c *gin.Context) {
	limit, offset := limitOffset(c)
	list, err := s.store.ListAdvertsByStatus(c.Query("status"), limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load adverts")
		return
	}
	ok(c, list)
}

type moderationRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) adminApproveAdvert(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	var req moderationRequest
	_ = c.ShouldBindJSON(&req)

	a, err := s.store.ApproveAdvert(id, req.Notes)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "advert not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not approve advert")
		return
	}
	ok(c, a)
}

func (s *Server) adminRejectAdvert(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	var req moderationRequest
	_ = c.ShouldBindJSON(&req)

	a, err := s.store.RejectAdvert(id, req.Notes)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "advert not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not reject advert")
		return
	}
	ok(c, a)
}

func (s *Server) adminDeactivateAdvert(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	a, err := s.store.DeactivateAdvert(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "advert not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not deactivate advert")
		return
	}
	ok(c, a)
}

func (s *Server) adminDeleteAdvert(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := s.store.DeleteAdvert(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "advert not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not delete advert")
		return
	}
	ok(c, nil)
}

func (s *Server) getAdvertPricing(c *gin.Context) {
	amount, err := s.store.GetWeeklyPrice()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load pricing")
		return
	}
	ok(c, gin.H{"weeklyAmount": amount})
}

type pricingRequest struct {
	WeeklyAmount float64 `json:"weeklyAmount" binding:"required,gt=0"`
}

func (s *Server) setAdvertPricing(c *gin.Context) {
	var req pricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := s.store.SetWeeklyPrice(req.WeeklyAmount); err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not update pricing")
		return
	}
	ok(c, gin.H{"weeklyAmount": req.WeeklyAmount})
}

func (s *Server) activeTeacherOfMonth(c *gin.Context) {
	t, err := s.store.GetActiveTeacherOfMonth()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ok(c, nil)
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not load feature")
		return
	}
	ok(c, t)
}

func (s *Server) adminListTeachersOfMonth(c *gin.Context) {
	list, err := s.store.ListTeachersOfMonth()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load entries")
		return
	}
	ok(c, list)
}

type teacherOfMonthRequest struct {
	TeacherName  string `json:"teacherName" binding:"required,max=200"`
	TeacherTitle string `json:"teacherTitle" binding:"max=200"`
	SchoolName   string `json:"schoolName" binding:"max=300"`
	Location     string `json:"location" binding:"max=200"`
	PhotoURL     string `json:"photoUrl" binding:"omitempty,url"`
	Bio          string `json:"bio"`
	Achievements string `json:"achievements"`
	MonthYear    string `json:"monthYear" binding:"required,max=20"`
}

func (s *Server) adminCreateTeacherOfMonth(c *gin.Context) {
	var req teacherOfMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	t := &storage.TeacherOfTheMonth{
		TeacherName:  req.TeacherName,
		TeacherTitle: req.TeacherTitle,
		SchoolName:   req.SchoolName,
		Location:     req.Location,
		PhotoURL:     req.PhotoURL,
		Bio:          req.Bio,
		Achievements: req.Achievements,
		MonthYear:    req.MonthYear,
		CreatedBy:    c.GetUint(ctxAdminID),
	}
	if err := s.store.CreateTeacherOfMonth(t); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	created(c, t)
}

func (s *Server) adminUpdateTeacherOfMonth(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	var req teacherOfMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	t := &storage.TeacherOfTheMonth{
		ID:           id,
		TeacherName:  req.TeacherName,
		TeacherTitle: req.TeacherTitle,
		SchoolName:   req.SchoolName,
		Location:     req.Location,
		PhotoURL:     req.PhotoURL,
		Bio:          req.Bio,
		Achievements: req.Achievements,
		MonthYear:    req.MonthYear,
	}
	if err := s.store.UpdateTeacherOfMonth(t); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "entry not found")
			return
		}
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	ok(c, t)
}

func (s *Server) adminActivateTeacherOfMonth(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := s.store.ActivateTeacherOfMonth(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "entry not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not activate entry")
		return
	}
	ok(c, nil)
}

func (s *Server) adminDeleteTeacherOfMonth(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := s.store.DeleteTeacherOfMonth(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "entry not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not delete entry")
		return
	}
	ok(c, nil)
}

func (s *Server) listMaterials(c *gin.Context) {
	limit, offset := limitOffset(c)
	list, err := s.store.ListMaterials(true, limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load materials")
		return
	}
	ok(c, list)
}

func (s *Server) downloadMaterial(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	url, err := s.store.RegisterDownload(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "material not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not register download")
		return
	}
	ok(c, gin.H{"fileUrl": url})
}

// adminCreateMaterial uploads the attached file to the CDN and records it.
func (s *Server) adminCreateMaterial(c *gin.Context) {
	if s.uploads == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", "file uploads not configured")
		return
	}

	title := c.PostForm("title")
	if strings.TrimSpace(title) == "" {
		fail(c, http.StatusBadRequest, "bad_request", "title required")
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "bad_request", "file required")
		return
	}
	f, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "bad_request", "could not read file")
		return
	}
	defer f.Close()

	url, err := s.uploads.Upload(c.Request.Context(), header.Filename, f, "materials")
	if err != nil {
		logger.Log.Errorf("material upload: %v", err)
		fail(c, http.StatusBadGateway, "upload_failed", "file upload failed")
		return
	}

	m := &storage.EducationalMaterial{
		Title:       title,
		Description: c.PostForm("description"),
		FileURL:     url,
		FileName:    header.Filename,
		FileType:    strings.TrimPrefix(path.Ext(header.Filename), "."),
		FileSize:    header.Size,
		UploadedBy:  c.GetUint(ctxAdminID),
	}
	if err := s.store.CreateMaterial(m); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	created(c, m)
}

func (s *Server) adminToggleMaterial(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	active, err := s.store.ToggleMaterial(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "material not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not toggle material")
		return
	}
	ok(c, gin.H{"isActive": active})
}

func (s *Server) adminDeleteMaterial(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := s.store.DeleteMaterial(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "material not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not delete material")
		return
	}
	ok(c, nil)
}
