package server

import (
	"errors"
	"net/http"
	"strconv"

	"wellness-tracker/internal/coach"
	"wellness-tracker/internal/daystore"
	"wellness-tracker/internal/metrics"
	"wellness-tracker/internal/shopping"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type noteRequest struct {
	Note *string `json:"note"`
}

type groceriesResponse struct {
	Items      []shopping.LineItem `json:"items"`
	Advisories []shopping.Advisory `json:"advisories"`
	Total      shopping.Cost       `json:"total"`
	SnapshotID int64               `json:"snapshotId,omitempty"`
}

func (s *Server) systemHealth() metrics.SysHealth {
	return metrics.GetSysHealth(s.app.DataPaths()...)
}

// dayParam reads :id and checks the day is part of the plan.
func (s *Server) dayParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day id"})
		return 0, false
	}
	if _, err := s.app.Plan.Day(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return 0, false
	}
	return id, true
}

func (s *Server) fail(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (s *Server) getPlan(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Plan)
}

func (s *Server) listDays(c *gin.Context) {
	days, err := s.app.Journal.Days(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to load days", err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (s *Server) getDay(c *gin.Context) {
	id, ok := s.dayParam(c)
	if !ok {
		return
	}
	day, err := s.app.Day(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "failed to load day", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (s *Server) putNote(c *gin.Context) {
	id, ok := s.dayParam(c)
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Note == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := s.app.Journal.SetNote(c.Request.Context(), id, *req.Note)
	if err != nil {
		s.fail(c, "failed to save note", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// postCoach runs the coach on the note in the body, or on the stored note
// when the body carries none.
func (s *Server) postCoach(c *gin.Context) {
	id, ok := s.dayParam(c)
	if !ok {
		return
	}

	var req noteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	ctx := c.Request.Context()
	var (
		rec daystore.DayRecord
		err error
	)
	if req.Note != nil {
		rec, err = s.app.Coach.Advise(ctx, id, *req.Note)
	} else {
		rec, err = s.app.Coach.AdviseStored(ctx, id)
	}
	if errors.Is(err, coach.ErrEmptyNote) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.fail(c, "failed to run coach", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) getGroceries(c *gin.Context) {
	save := c.Query("save") == "true"
	res, id, err := s.app.GroceryList(c.Request.Context(), save)
	if err != nil {
		s.fail(c, "failed to save grocery list", err)
		return
	}

	items := res.Items
	if c.Query("sort") == "name" {
		items = res.SortedByName()
	}
	if items == nil {
		items = []shopping.LineItem{}
	}
	advisories := res.Advisories
	if advisories == nil {
		advisories = []shopping.Advisory{}
	}

	c.JSON(http.StatusOK, groceriesResponse{
		Items:      items,
		Advisories: advisories,
		Total:      res.Total(),
		SnapshotID: id,
	})
}

func (s *Server) getLatestGroceries(c *gin.Context) {
	snap, err := s.app.Groceries.Latest(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to load grocery list", err)
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no saved grocery list"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) getCoachUsage(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = n
	}

	usage, err := s.app.Metrics.GetDailyUsage(c.Request.Context(), days)
	if err != nil {
		s.fail(c, "failed to load coach usage", err)
		return
	}
	if usage == nil {
		usage = []metrics.DailyUsage{}
	}
	c.JSON(http.StatusOK, usage)
}
