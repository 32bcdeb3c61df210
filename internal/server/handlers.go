package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"budgetboard/internal/charts"
	"budgetboard/internal/page"
	"budgetboard/internal/reports"
	"budgetboard/internal/storage"
)

// HandleRoot serves the budget page
func (s *Server) HandleRoot(c *gin.Context) {
	snap, err := s.Page.Snapshot(c.Request.Context())
	if err != nil {
		s.log.Error("Failed to snapshot page", err)
		c.String(http.StatusServiceUnavailable, "Service unavailable")
		return
	}

	opts := reports.PageOptions{Version: s.Version}
	if snap.PieState == charts.PieRendered && len(snap.PieContent) > 0 {
		opts.PieURL = "/charts/pie"
	}

	html, err := s.Builder.BuildPage(snap, opts)
	if err != nil {
		s.log.Error("Failed to build page", err)
		c.String(http.StatusInternalServerError, "Failed to build page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(c *gin.Context) {
	snap, err := s.Page.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   s.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"charts": gin.H{
			"pie":         snap.PieState.String(),
			"pie_backend": snap.PieBackend,
			"bar":         snap.HasBar(),
		},
		"mounted": snap.Mounted,
	})
}

// HandlePieChart serves the current pie chart, or 204 while it has nothing to show
func (s *Server) HandlePieChart(c *gin.Context) {
	snap, err := s.Page.Snapshot(c.Request.Context())
	if err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if len(snap.PieContent) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, snap.PieContentType, snap.PieContent)
}

// HandleBarChart serves the current bar chart SVG
func (s *Server) HandleBarChart(c *gin.Context) {
	snap, err := s.Page.Snapshot(c.Request.Context())
	if err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if !snap.HasBar() {
		c.JSON(http.StatusNotFound, gin.H{"error": "bar chart not rendered yet"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, storage.GetContentType("bar.svg"), snap.BarSVG)
}

// HandleRefresh re-fetches both datasets. With ?wait=true it answers once both are applied.
func (s *Server) HandleRefresh(c *gin.Context) {
	err := s.Page.Refresh(s.ctx)
	if errors.Is(err, page.ErrNotMounted) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("Failed to refresh page", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, gin.H{"status": "refreshing"})
		return
	}

	if err := s.Page.Wait(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	snap, err := s.Page.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "refreshed",
		"pie":    snap.PieState.String(),
		"bar":    snap.HasBar(),
	})
}

// HandleExport stores a copy of the current page and charts
func (s *Server) HandleExport(c *gin.Context) {
	if s.Exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "exports are not configured"})
		return
	}

	snap, err := s.Page.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	folder, err := s.Exporter.Export(c.Request.Context(), snap)
	if err != nil {
		s.log.Error("Failed to export charts", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"folder": folder,
		"url":    "/exports/" + folder + "/index.html",
	})
}

// HandleFileProxy serves stored export files through the storage client
func (s *Server) HandleFileProxy(c *gin.Context) {
	if s.Storage == nil {
		c.Status(http.StatusNotFound)
		return
	}

	filePath := strings.TrimPrefix(c.Param("filepath"), "/")
	if filePath == "" {
		s.listExports(c)
		return
	}

	ctx := c.Request.Context()
	exists, err := s.Storage.FileExists(ctx, filePath)
	if err != nil {
		s.log.Error("Failed to check export file", err, map[string]interface{}{"path": filePath})
		c.Status(http.StatusInternalServerError)
		return
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}

	data, err := s.Storage.GetFile(ctx, filePath)
	if err != nil {
		s.log.Error("Failed to read export file", err, map[string]interface{}{"path": filePath})
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, storage.GetContentType(filePath), data)
}

// listExports answers with every stored export folder, newest first
func (s *Server) listExports(c *gin.Context) {
	names, err := s.Storage.ListDir(c.Request.Context(), "", true)
	if err != nil {
		s.log.Error("Failed to list exports", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list exports"})
		return
	}

	exports := []gin.H{}
	for _, name := range names {
		if !strings.HasSuffix(name, "/index.html") {
			continue
		}
		folder := strings.TrimSuffix(name, "/index.html")
		exports = append(exports, gin.H{
			"folder": folder,
			"url":    "/exports/" + name,
		})
	}
	sort.SliceStable(exports, func(i, j int) bool {
		return exports[i]["folder"].(string) > exports[j]["folder"].(string)
	})

	c.JSON(http.StatusOK, gin.H{"exports": exports, "count": len(exports)})
}
