package ui

import (
	"bytes"
	"mime"
	"net/http"
	"time"

	"inflationdash/adapters/excel"
	"inflationdash/domain/chart"
	"inflationdash/domain/core"
	"inflationdash/internal/errors"
	"inflationdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// panel groups the descriptors rendered in one section of the page
type panel struct {
	Name   string
	Charts []chart.Descriptor
}

func groupPanels(descriptors []chart.Descriptor) []panel {
	var panels []panel
	index := make(map[string]int)
	for _, d := range descriptors {
		i, ok := index[d.Panel]
		if !ok {
			i = len(panels)
			index[d.Panel] = i
			panels = append(panels, panel{Name: d.Panel})
		}
		panels[i].Charts = append(panels[i].Charts, d)
	}
	return panels
}

type selectionRequest struct {
	Entity string `json:"entity" binding:"required"`
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "index.html", gin.H{
		"Title":         "Inflation Decomposition Dashboard",
		"Entities":      s.svc.Entities(),
		"DefaultEntity": s.svc.DefaultEntity(),
		"Panels":        groupPanels(s.svc.Descriptors()),
	})
}

func (s *Server) handleEntities(c *gin.Context) {
	entities := s.svc.Entities()
	c.JSON(http.StatusOK, gin.H{
		"entities": entities,
		"default":  s.svc.DefaultEntity(),
		"count":    len(entities),
	})
}

func (s *Server) handleDescriptors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"charts": s.svc.Descriptors()})
}

func (s *Server) handleHelp(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.help)
}

func (s *Server) handleCreateSession(c *gin.Context) {
	state, err := s.svc.CreateSession(c.Request.Context())
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (s *Server) handleSession(c *gin.Context) {
	state, err := s.svc.Session(middleware.SessionID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleCloseSession(c *gin.Context) {
	if err := s.svc.CloseSession(middleware.SessionID(c)); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSelect(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	id := middleware.SessionID(c)
	state, err := s.svc.Select(id, req.Entity)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	s.events.Broadcast(SelectionEvent{
		SessionID:  id,
		Entity:     state.Entity,
		Generation: state.Generation,
		TimeRange:  state.TimeRange,
		Note:       state.Note,
		Timestamp:  time.Now(),
	})
	c.JSON(http.StatusOK, state)
}

// handleNote reads note and range from one session state so both belong to
// the same selection even while another request changes it
func (s *Server) handleNote(c *gin.Context) {
	state, err := s.svc.Session(middleware.SessionID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entity":     state.Entity,
		"generation": state.Generation,
		"note":       state.Note,
		"time_range": state.TimeRange,
		"no_data":    state.NoData,
	})
}

func (s *Server) handleCharts(c *gin.Context) {
	specs, err := s.svc.Charts(middleware.SessionID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"charts": specs})
}

func (s *Server) handleChart(c *gin.Context) {
	chartID, err := core.ParseChartID(c.Param("chart"))
	if err != nil {
		middleware.Abort(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	spec, err := s.svc.Chart(middleware.SessionID(c), chartID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

func (s *Server) handleTable(c *gin.Context) {
	chartID, err := core.ParseChartID(c.Param("chart"))
	if err != nil {
		middleware.Abort(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	table, err := s.svc.Table(middleware.SessionID(c), chartID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.svc.Stats(middleware.SessionID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"computes": stats})
}

func (s *Server) handleExport(c *gin.Context) {
	snap, err := s.svc.Snapshot(middleware.SessionID(c))
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.Export(&buf, snap.Entity, snap.Note, excel.ViewSheets(snap.Charts, snap.Views)); err != nil {
		middleware.Abort(c, errors.Wrap(err, "export workbook"))
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": "inflation_" + snap.Entity + ".xlsx",
	})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
