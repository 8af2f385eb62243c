package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/scheduler"
	"github.com/edunaija/teachershub/internal/storage"
)

func (s *Server) listNews(c *gin.Context) {
	limit, offset := limitOffset(c)
	list, err := s.store.ListNews(c.Query("category"), limit, offset)
	if err != nil {
		logger.Log.Errorf("list news: %v", err)
		fail(c, http.StatusInternalServerError, "internal", "could not load news")
		return
	}
	ok(c, list)
}

func (s *Server) adminDeleteNews(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := s.store.DeleteArticle(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "article not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not delete article")
		return
	}
	ok(c, nil)
}

// adminFetchNews runs one collection cycle inline. A cycle already in
// flight is reported as a conflict instead of queueing a second one.
func (s *Server) adminFetchNews(c *gin.Context) {
	report, err := s.trigger.TriggerNow()
	if err != nil {
		if errors.Is(err, scheduler.ErrCycleInProgress) {
			fail(c, http.StatusConflict, "cycle_in_progress", "a collection cycle is already running")
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    "cycle_failed",
			"message": err.Error(),
			"data":    report,
		})
		return
	}
	ok(c, report)
}
