package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edunaija/teachershub/internal/storage"
)

const (
	ctxUserID  = "userID"
	ctxAdminID = "adminID"
	ctxToken   = "sessionToken"
)

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (s *Server) requireUser(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		fail(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	kind, id, err := s.sessions.GetSession(c.Request.Context(), token)
	if err != nil || kind != storage.SessionUser {
		fail(c, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
		return
	}
	c.Set(ctxUserID, id)
	c.Set(ctxToken, token)
	c.Next()
}

func (s *Server) requireAdmin(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		fail(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	kind, id, err := s.sessions.GetSession(c.Request.Context(), token)
	if err != nil || kind != storage.SessionAdmin {
		fail(c, http.StatusUnauthorized, "unauthorized", "admin session required")
		return
	}
	c.Set(ctxAdminID, id)
	c.Set(ctxToken, token)
	c.Next()
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return uint(id), true
}

func limitOffset(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
