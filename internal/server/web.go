package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"wellness-tracker/internal/app"
	"wellness-tracker/internal/coach"
	"wellness-tracker/internal/shopping"

	"github.com/gin-gonic/gin"
)

var tabs = []string{"plan", "journal", "groceries"}

type pageData struct {
	Tab        string
	Tabs       []string
	Days       []app.DayView
	Selected   *app.DayView
	Groceries  []shopping.LineItem
	Advisories []shopping.Advisory
	Total      shopping.Cost
	Latest     *shopping.Snapshot
	Alert      string
}

func joinRefs(juices, meals []string) string {
	return strings.Join(append(append([]string{}, juices...), meals...), ", ")
}

func activeTab(c *gin.Context) string {
	tab := c.DefaultQuery("tab", "plan")
	for _, t := range tabs {
		if t == tab {
			return t
		}
	}
	return "plan"
}

func (s *Server) index(c *gin.Context) {
	s.render(c, http.StatusOK, activeTab(c), "")
}

// render builds the page for tab. The journal tab shows the day from ?day=,
// defaulting to the first plan day.
func (s *Server) render(c *gin.Context, status int, tab, alert string) {
	ctx := c.Request.Context()
	data := pageData{Tab: tab, Tabs: tabs, Alert: alert}

	days, err := s.app.Agenda(ctx)
	if err != nil {
		s.fail(c, "failed to load days", err)
		return
	}
	data.Days = days

	switch tab {
	case "journal":
		if len(days) > 0 {
			selected := days[0]
			if n, err := strconv.Atoi(c.Query("day")); err == nil {
				for _, d := range days {
					if d.Day == n {
						selected = d
					}
				}
			}
			data.Selected = &selected
		}
	case "groceries":
		res, _, err := s.app.GroceryList(ctx, false)
		if err != nil {
			s.fail(c, "failed to build grocery list", err)
			return
		}
		data.Groceries = res.SortedByName()
		data.Advisories = res.Advisories
		data.Total = res.Total()

		latest, err := s.app.Groceries.Latest(ctx)
		if err != nil {
			s.fail(c, "failed to load grocery list", err)
			return
		}
		data.Latest = latest
	}

	c.HTML(status, "index.html", data)
}

func journalURL(day int) string {
	return fmt.Sprintf("/?tab=journal&day=%d", day)
}

func (s *Server) submitNote(c *gin.Context) {
	id, ok := s.dayParam(c)
	if !ok {
		return
	}
	if _, err := s.app.Journal.SetNote(c.Request.Context(), id, c.PostForm("note")); err != nil {
		s.fail(c, "failed to save note", err)
		return
	}
	c.Redirect(http.StatusSeeOther, journalURL(id))
}

// submitCoach saves the submitted note and runs the coach on it. A blank
// note re-renders the journal with an alert instead.
func (s *Server) submitCoach(c *gin.Context) {
	id, ok := s.dayParam(c)
	if !ok {
		return
	}

	_, err := s.app.Coach.Advise(c.Request.Context(), id, c.PostForm("note"))
	if errors.Is(err, coach.ErrEmptyNote) {
		c.Request.URL.RawQuery = fmt.Sprintf("tab=journal&day=%d", id)
		s.render(c, http.StatusBadRequest, "journal", "Please write a note before asking the Smart Coach.")
		return
	}
	if err != nil {
		s.fail(c, "failed to run coach", err)
		return
	}
	c.Redirect(http.StatusSeeOther, journalURL(id))
}
