package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/KaramelBytes/campaignlens/internal/chart"
	"github.com/KaramelBytes/campaignlens/internal/dashboard"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	defaultRowLimit = 100
	maxRowLimit     = 10000
)

// selection reads month, prev_contacted, age_min and age_max from the
// query string. A single age bound is completed from the observed range
// of the month and prior-contact view.
func (s *Server) selection(c *gin.Context) (analysis.Selection, error) {
	sel := analysis.Selection{
		Month:         c.Query("month"),
		PrevContacted: c.Query("prev_contacted"),
	}
	minText, maxText := c.Query("age_min"), c.Query("age_max")
	if minText == "" && maxText == "" {
		return sel, nil
	}
	fallback := dashboard.BuildControls(s.cache.Table(), sel).Age
	age, err := analysis.ParseAgeRange(minText, maxText, fallback)
	if err != nil {
		return sel, err
	}
	sel.Age = age
	return sel, nil
}

func (s *Server) selectionOrAbort(c *gin.Context) (analysis.Selection, bool) {
	sel, err := s.selection(c)
	if err != nil {
		log.WithError(err).WithField("query", c.Request.URL.RawQuery).Warn("bad selection")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return sel, false
	}
	return sel, true
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": s.cache.Table().Len()})
}

func (s *Server) controls(c *gin.Context) {
	sel := analysis.Selection{Month: c.Query("month"), PrevContacted: c.Query("prev_contacted")}
	c.JSON(http.StatusOK, dashboard.BuildControls(s.cache.Table(), sel))
}

func (s *Server) dashboardJSON(c *gin.Context) {
	sel, ok := s.selectionOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.cache.Dashboard(sel))
}

func (s *Server) dashboardMarkdown(c *gin.Context) {
	sel, ok := s.selectionOrAbort(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(s.cache.Dashboard(sel).Markdown()))
}

func (s *Server) chartPNG(c *gin.Context) {
	sel, ok := s.selectionOrAbort(c)
	if !ok {
		return
	}
	name := c.Param("name")
	d := s.cache.Dashboard(sel)
	var buf bytes.Buffer
	if err := d.RenderChart(&buf, name, s.cache.Options()); err != nil {
		if errors.Is(err, chart.ErrUnknownChart) || errors.Is(err, chart.ErrNoData) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).WithFields(log.Fields{"id": d.ID, "chart": name}).Error("render chart")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "chart rendering failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) chartURLs(c *gin.Context) {
	sel, ok := s.selectionOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.cache.Dashboard(sel).ChartURLs(s.cache.Options()))
}

func (s *Server) rows(c *gin.Context) {
	sel, ok := s.selectionOrAbort(c)
	if !ok {
		return
	}
	limit := defaultRowLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxRowLimit {
		limit = maxRowLimit
	}
	view := analysis.ApplyFilters(s.cache.Table(), sel)
	c.JSON(http.StatusOK, gin.H{"total": view.Len(), "rows": view.Records(limit)})
}
